package domain

import (
	"sort"
	"time"
)

// GroupDaily buckets dose logs by calendar date in loc, ascending,
// truncated to the earliest 7 distinct dates. This mirrors the store's
// aggregation pipeline so the contract is pinned by tests that need no
// database; both deliberately keep the earliest-first truncation (see
// DESIGN.md).
func GroupDaily(logs []DoseLog, loc *time.Location) []DailyCount {
	byDate := make(map[string]int, len(logs))
	for _, l := range logs {
		byDate[l.TakenAt.In(loc).Format("2006-01-02")]++
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	if len(dates) > 7 {
		dates = dates[:7]
	}

	out := make([]DailyCount, 0, len(dates))
	for _, d := range dates {
		out = append(out, DailyCount{Date: d, Count: byDate[d]})
	}
	return out
}
