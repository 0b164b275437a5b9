// Package scheduler polls the store once a minute and dispatches due
// medication reminders.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Sohiburr/ToBeControl/internal/store"
)

// Sender dispatches one reminder carrying the acknowledgment button.
// telegram.Router implements it.
type Sender interface {
	SendReminder(chatID int64, medication string) error
}

const (
	pollInterval = time.Minute
	initialDelay = 10 * time.Second
)

// Scanner is the periodic job that finds due schedule entries. Polling
// the whole user set each minute trades up to a minute of latency for not
// having a timer per entry; schedules are sparse and the granularity is a
// minute anyway.
type Scanner struct {
	repo   store.Repo
	log    *zap.Logger
	sender Sender
	loc    *time.Location
	now    func() time.Time
}

// New creates a Scanner dispatching through sender, with due-ness
// evaluated in loc.
func New(repo store.Repo, log *zap.Logger, sender Sender, loc *time.Location) *Scanner {
	return &Scanner{
		repo:   repo,
		log:    log,
		sender: sender,
		loc:    loc,
		now:    time.Now,
	}
}

// Run loops until ctx is canceled. A failed tick never stops the loop.
func (s *Scanner) Run(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(initialDelay):
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	s.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("reminder scanner stopping")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one scan: every user with an entry at the current minute gets
// one reminder per matching entry. A send failure only skips that one
// recipient; dispatch order across users and entries is unspecified.
func (s *Scanner) Tick(ctx context.Context) {
	nowStr := s.now().In(s.loc).Format("15:04")

	users := s.repo.UsersDueAt(ctx, nowStr)
	for _, u := range users {
		for _, e := range u.Schedule {
			if e.Time != nowStr {
				continue
			}
			if err := s.sender.SendReminder(u.ID, e.Medication); err != nil {
				s.log.Error("reminder send failed",
					zap.Int64("chatID", u.ID),
					zap.String("medication", e.Medication),
					zap.Error(err),
				)
				continue
			}
			s.log.Info("reminder sent",
				zap.Int64("chatID", u.ID),
				zap.String("time", e.Time),
			)
		}
	}
}
