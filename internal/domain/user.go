package domain

import "time"

// StatusOnTime marks a dose that was confirmed from a reminder button.
const StatusOnTime = "on-time"

// User is one Telegram account and its embedded medication schedule.
type User struct {
	ID            int64           `bson:"user_id"`
	FirstName     string          `bson:"first_name"`
	Username      string          `bson:"username"`
	LastActive    time.Time       `bson:"last_active"`
	LastActiveWeb time.Time       `bson:"last_active_web,omitempty"`
	Schedule      []ScheduleEntry `bson:"schedule"`
}

// ScheduleEntry is a (time-of-day, medication) reminder pair.
// Time is always a strict zero-padded "HH:MM" string.
type ScheduleEntry struct {
	Time       string `bson:"time"`
	Medication string `bson:"medication"`
}

// DoseLog is an immutable record of one confirmed dose. Log documents are
// append-only; nothing in the system mutates or deletes them.
type DoseLog struct {
	UserID     int64     `bson:"user_id"`
	Medication string    `bson:"medication"`
	Status     string    `bson:"status"`
	TakenAt    time.Time `bson:"taken_at"`
}

// DailyCount is one bar of the adherence chart: doses confirmed on a
// calendar date ("YYYY-MM-DD"). Slices of DailyCount carry the ascending
// date order a map cannot.
type DailyCount struct {
	Date  string
	Count int
}
