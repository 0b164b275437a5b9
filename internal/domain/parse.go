package domain

import (
	"regexp"
	"sort"
	"strings"
)

// timeOfDayRe accepts only zero-padded 24-hour times: "07:00" yes, "7:00" no.
var timeOfDayRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidTimeOfDay reports whether s is a strict "HH:MM" time-of-day.
// Anything else ("7:00", "25:00", "12:60", "abc") is rejected before it
// can reach the store.
func ValidTimeOfDay(s string) bool {
	return timeOfDayRe.MatchString(s)
}

// HasEntry reports whether entries already contain the exact
// (time, medication) pair. Medication comparison is case-sensitive.
func HasEntry(entries []ScheduleEntry, timeOfDay, medication string) bool {
	for _, e := range entries {
		if e.Time == timeOfDay && e.Medication == medication {
			return true
		}
	}
	return false
}

// CountMatching counts entries that a removal request for timeOfDay (and
// optionally medication) would delete. An empty medication matches every
// entry at that time.
func CountMatching(entries []ScheduleEntry, timeOfDay, medication string) int {
	n := 0
	for _, e := range entries {
		if e.Time != timeOfDay {
			continue
		}
		if medication != "" && e.Medication != medication {
			continue
		}
		n++
	}
	return n
}

// SortSchedule orders entries ascending by time-of-day in place. The store
// does not guarantee order; callers sort before display.
func SortSchedule(entries []ScheduleEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Time == entries[j].Time {
			return strings.Compare(entries[i].Medication, entries[j].Medication) < 0
		}
		return entries[i].Time < entries[j].Time
	})
}
