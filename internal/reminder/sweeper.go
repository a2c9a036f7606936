package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sweeper periodically fetches due reminders from the Store and dispatches
// each one at most once through the Delivery transport.
type Sweeper struct {
	store    Store
	delivery Delivery
	interval time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
	now      func() time.Time
}

// NewSweeper creates a new Sweeper.
func NewSweeper(store Store, delivery Delivery, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		delivery: delivery,
		interval: interval,
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
}

// Start runs the sweep loop until the context is cancelled or Stop is
// called. Sweeps never overlap: the loop is a single goroutine and the
// next tick only fires after the previous sweep returns.
func (s *Sweeper) Start(ctx context.Context) {
	slog.Info("Starting reminder sweeper", "interval", s.interval)

	s.wg.Add(1)
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Initial sweep
	s.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Sweeper stopped (context cancelled)")
			return
		case <-s.stopChan:
			slog.Info("Sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Stop signals the sweeper to stop and waits for the current sweep to
// finish.
func (s *Sweeper) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}

// Sweep runs one check-and-dispatch cycle. A store failure skips the whole
// tick: nothing was deleted, so due reminders stay due for the next one.
func (s *Sweeper) Sweep(ctx context.Context) {
	due, err := s.store.DueReminders(ctx, s.now())
	if err != nil {
		slog.Error("Failed to fetch due reminders", "error", err)
		return
	}

	if len(due) == 0 {
		slog.Debug("No due reminders")
		return
	}

	slog.Debug("Dispatching due reminders", "count", len(due))

	for _, r := range due {
		select {
		case <-ctx.Done():
			return
		default:
			s.dispatch(ctx, r)
		}
	}
}

// dispatch delivers one reminder and deletes it regardless of the
// delivery outcome. Delivery is at most once: a failed send is logged,
// never retried, and the reminder is never re-queued.
func (s *Sweeper) dispatch(ctx context.Context, r Reminder) {
	var err error
	switch {
	case r.Target.IsChannel():
		err = s.delivery.SendToChannel(r.Target.Channel, r.Content)
	case r.Target.IsUser():
		err = s.delivery.SendToUser(r.Target.User, r.Content)
	default:
		err = ErrBadTarget
	}
	if err != nil {
		slog.Error("Failed to deliver reminder", "id", r.ID, "error", err)
	} else {
		slog.Info("Delivered reminder", "id", r.ID)
	}

	if err := s.store.DeleteReminder(ctx, r.ID); err != nil {
		slog.Error("Failed to delete reminder after dispatch", "id", r.ID, "error", err)
	}
}
