package store

import (
	"context"

	"github.com/Sohiburr/ToBeControl/internal/domain"
)

// Repo defines storage operations for users, schedules and dose logs.
//
// Every read degrades to an empty/zero result on store trouble and every
// write degrades to a no-op; connectivity problems are logged by the
// implementation and never crash a handler. The one exception is
// AddSchedule, whose error return lets a handler distinguish "duplicate"
// from "store down" when phrasing its reply.
type Repo interface {
	// Register upserts the user and stamps bot-side last activity.
	// First creation initializes an empty schedule list.
	Register(ctx context.Context, userID int64, firstName, username string)

	// RegisterWeb upserts the user and stamps web-side last activity.
	RegisterWeb(ctx context.Context, userID int64, firstName, username string)

	// AddSchedule appends a (time, medication) entry. Returns false without
	// writing when the exact pair already exists for the user.
	AddSchedule(ctx context.Context, userID int64, timeOfDay, medication string) (bool, error)

	// ListSchedule returns the user's entries in stored order; callers sort.
	ListSchedule(ctx context.Context, userID int64) []domain.ScheduleEntry

	// RemoveSchedule deletes all entries at timeOfDay, narrowed by
	// medication when non-empty, and returns how many entries were removed.
	RemoveSchedule(ctx context.Context, userID int64, timeOfDay, medication string) int

	// AppendDoseLog records one immutable dose confirmation stamped with
	// the current time in the store's fixed timezone.
	AppendDoseLog(ctx context.Context, userID int64, medication, status string)

	// TotalDoseCount counts every dose log the user has.
	TotalDoseCount(ctx context.Context, userID int64) int64

	// DailyDoseCounts groups the user's dose logs by calendar date in the
	// fixed timezone, ascending, truncated to the earliest 7 distinct dates.
	DailyDoseCounts(ctx context.Context, userID int64) []domain.DailyCount

	// RecentDoseLogs returns up to n logs, newest first.
	RecentDoseLogs(ctx context.Context, userID int64, n int64) []domain.DoseLog

	// UsersDueAt returns users having at least one schedule entry whose
	// time-of-day equals hhmm.
	UsersDueAt(ctx context.Context, hhmm string) []domain.User

	Close(ctx context.Context) error
}
