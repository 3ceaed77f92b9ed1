package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/finbook/finbook-backend/internal/bills"
	"github.com/finbook/finbook-backend/internal/money"
)

const reminderWindowDays = 3

// Sweeper creates bill reminders on a fixed interval. It is deliberately
// best effort: each cycle discards its own errors so the loop never dies,
// and it moves no money.
type Sweeper struct {
	Repo  *Repository
	Bills *bills.Repository
	Log   zerolog.Logger
}

func NewSweeper(repo *Repository, billRepo *bills.Repository, log zerolog.Logger) *Sweeper {
	return &Sweeper{Repo: repo, Bills: billRepo, Log: log}
}

// Start runs the sweep loop until the context is cancelled. One sweep
// runs immediately so a fresh deploy does not wait a whole interval.
func (s *Sweeper) Start(ctx context.Context, interval time.Duration) {
	go func() {
		s.sweep(ctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

func (s *Sweeper) sweep(ctx context.Context) {
	if err := s.RunOnce(ctx); err != nil {
		s.Log.Warn().Err(err).Msg("bill reminder sweep failed")
	}
}

// RunOnce creates a reminder for every unpaid bill due within the window
// that does not already have one.
func (s *Sweeper) RunOnce(ctx context.Context) error {
	windowEnd := reminderWindowEnd(time.Now().UTC())

	due, err := s.Bills.DueSoonUnpaid(ctx, windowEnd.Format("2006-01-02"))
	if err != nil {
		return err
	}

	for _, b := range due {
		title, message := reminderContent(b)
		scheduled := startOfDay(b.DueDate)

		exists, err := s.Repo.Exists(ctx, b.UserID, title, scheduled)
		if err != nil {
			s.Log.Warn().Err(err).Str("bill_id", b.ID).Msg("reminder dedupe check failed")
			continue
		}
		if exists {
			continue
		}
		if _, err := s.Repo.Create(ctx, b.UserID, TypeBillReminder, title, message, &scheduled); err != nil {
			s.Log.Warn().Err(err).Str("bill_id", b.ID).Msg("could not create reminder")
		}
	}
	return nil
}

func reminderWindowEnd(now time.Time) time.Time {
	return startOfDay(now).AddDate(0, 0, reminderWindowDays)
}

func reminderContent(b bills.Bill) (title, message string) {
	title = fmt.Sprintf("Upcoming bill: %s", b.BillerName)
	message = fmt.Sprintf("Your bill '%s' of amount %s is due on %s.",
		b.BillerName, money.Format(b.AmountDue), b.DueDate.Format("2006-01-02"))
	return title, message
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
