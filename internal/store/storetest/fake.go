// Package storetest provides an in-memory Repo for component tests.
package storetest

import (
	"context"
	"sync"
	"time"

	"github.com/Sohiburr/ToBeControl/internal/domain"
)

// Fake is an in-memory store.Repo. It reproduces the storage semantics —
// duplicate rejection, removal counting, daily grouping — without a
// database, and is safe for concurrent use.
type Fake struct {
	mu    sync.Mutex
	loc   *time.Location
	now   func() time.Time
	users map[int64]*domain.User
	logs  []domain.DoseLog
}

// New builds an empty Fake stamping times in loc.
func New(loc *time.Location) *Fake {
	return &Fake{
		loc:   loc,
		now:   time.Now,
		users: make(map[int64]*domain.User),
	}
}

// SetNow overrides the clock used for dose-log timestamps.
func (f *Fake) SetNow(now func() time.Time) { f.now = now }

// Seed installs a user with the given schedule.
func (f *Fake) Seed(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := u
	f.users[u.ID] = &cp
}

// Logs returns a copy of every dose log appended so far.
func (f *Fake) Logs() []domain.DoseLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.DoseLog, len(f.logs))
	copy(out, f.logs)
	return out
}

func (f *Fake) Register(_ context.Context, userID int64, firstName, username string) {
	f.register(userID, firstName, username, false)
}

func (f *Fake) RegisterWeb(_ context.Context, userID int64, firstName, username string) {
	f.register(userID, firstName, username, true)
}

func (f *Fake) register(userID int64, firstName, username string, web bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		u = &domain.User{ID: userID, Schedule: []domain.ScheduleEntry{}}
		f.users[userID] = u
	}
	u.FirstName = firstName
	u.Username = username
	if web {
		u.LastActiveWeb = f.now().In(f.loc)
	} else {
		u.LastActive = f.now().In(f.loc)
	}
}

func (f *Fake) AddSchedule(_ context.Context, userID int64, timeOfDay, medication string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		u = &domain.User{ID: userID}
		f.users[userID] = u
	}
	if domain.HasEntry(u.Schedule, timeOfDay, medication) {
		return false, nil
	}
	u.Schedule = append(u.Schedule, domain.ScheduleEntry{Time: timeOfDay, Medication: medication})
	return true, nil
}

func (f *Fake) ListSchedule(_ context.Context, userID int64) []domain.ScheduleEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil
	}
	out := make([]domain.ScheduleEntry, len(u.Schedule))
	copy(out, u.Schedule)
	return out
}

func (f *Fake) RemoveSchedule(_ context.Context, userID int64, timeOfDay, medication string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return 0
	}
	removed := 0
	kept := u.Schedule[:0]
	for _, e := range u.Schedule {
		if e.Time == timeOfDay && (medication == "" || e.Medication == medication) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	u.Schedule = kept
	return removed
}

func (f *Fake) AppendDoseLog(_ context.Context, userID int64, medication, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, domain.DoseLog{
		UserID:     userID,
		Medication: medication,
		Status:     status,
		TakenAt:    f.now().In(f.loc),
	})
}

func (f *Fake) TotalDoseCount(_ context.Context, userID int64) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, l := range f.logs {
		if l.UserID == userID {
			n++
		}
	}
	return n
}

func (f *Fake) DailyDoseCounts(_ context.Context, userID int64) []domain.DailyCount {
	f.mu.Lock()
	defer f.mu.Unlock()
	var mine []domain.DoseLog
	for _, l := range f.logs {
		if l.UserID == userID {
			mine = append(mine, l)
		}
	}
	return domain.GroupDaily(mine, f.loc)
}

func (f *Fake) RecentDoseLogs(_ context.Context, userID int64, n int64) []domain.DoseLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.DoseLog
	for i := len(f.logs) - 1; i >= 0 && int64(len(out)) < n; i-- {
		if f.logs[i].UserID == userID {
			out = append(out, f.logs[i])
		}
	}
	return out
}

func (f *Fake) UsersDueAt(_ context.Context, hhmm string) []domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for _, u := range f.users {
		for _, e := range u.Schedule {
			if e.Time == hhmm {
				out = append(out, *u)
				break
			}
		}
	}
	return out
}

func (f *Fake) Close(context.Context) error { return nil }
