package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/Sohiburr/ToBeControl/internal/domain"
)

// Unavailable is the Repo the app falls back to when the initial MongoDB
// connection fails. Every operation degrades to its safe default so a
// down database never turns into a user-visible crash; the connect error
// itself is logged once at startup, each skipped operation at debug.
type Unavailable struct {
	log *zap.Logger
}

// NewUnavailable builds the degraded store.
func NewUnavailable(log *zap.Logger) *Unavailable {
	return &Unavailable{log: log}
}

func (u *Unavailable) skip(op string) {
	u.log.Debug("store unavailable, operation skipped", zap.String("op", op))
}

func (u *Unavailable) Register(context.Context, int64, string, string) {
	u.skip("register")
}

func (u *Unavailable) RegisterWeb(context.Context, int64, string, string) {
	u.skip("register_web")
}

func (u *Unavailable) AddSchedule(context.Context, int64, string, string) (bool, error) {
	u.skip("add_schedule")
	return false, nil
}

func (u *Unavailable) ListSchedule(context.Context, int64) []domain.ScheduleEntry {
	u.skip("list_schedule")
	return nil
}

func (u *Unavailable) RemoveSchedule(context.Context, int64, string, string) int {
	u.skip("remove_schedule")
	return 0
}

func (u *Unavailable) AppendDoseLog(context.Context, int64, string, string) {
	u.skip("append_dose_log")
}

func (u *Unavailable) TotalDoseCount(context.Context, int64) int64 {
	u.skip("total_dose_count")
	return 0
}

func (u *Unavailable) DailyDoseCounts(context.Context, int64) []domain.DailyCount {
	u.skip("daily_dose_counts")
	return nil
}

func (u *Unavailable) RecentDoseLogs(context.Context, int64, int64) []domain.DoseLog {
	u.skip("recent_dose_logs")
	return nil
}

func (u *Unavailable) UsersDueAt(context.Context, string) []domain.User {
	u.skip("users_due_at")
	return nil
}

func (u *Unavailable) Close(context.Context) error { return nil }
