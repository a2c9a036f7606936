package reminder

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestSweeper(store *fakeStore, delivery *fakeDelivery, now time.Time) *Sweeper {
	s := NewSweeper(store, delivery, time.Minute)
	s.now = func() time.Time { return now }
	return s
}

func seedReminder(store *fakeStore, fireAt time.Time, target Target, content string) string {
	id, _ := store.CreateReminder(context.Background(), &Reminder{
		Content:   content,
		FireAt:    fireAt,
		Target:    target,
		CreatedBy: "u1",
	})
	return id
}

func TestSweepDispatchesOnlyDue(t *testing.T) {
	store := newFakeStore()
	delivery := &fakeDelivery{}
	now := time.Now().UTC()

	pastA := seedReminder(store, now.Add(-time.Hour), Target{Channel: "c1", Guild: "g1"}, "past a")
	pastB := seedReminder(store, now.Add(-time.Minute), Target{Channel: "c2", Guild: "g1"}, "past b")
	future := seedReminder(store, now.Add(time.Hour), Target{Channel: "c3", Guild: "g1"}, "future")

	s := newTestSweeper(store, delivery, now)
	s.Sweep(context.Background())

	if len(delivery.channelSends) != 2 {
		t.Fatalf("expected 2 dispatches, got %d: %v", len(delivery.channelSends), delivery.channelSends)
	}
	if len(store.deleted) != 2 {
		t.Fatalf("expected 2 deletes, got %d: %v", len(store.deleted), store.deleted)
	}
	for _, id := range []string{pastA, pastB} {
		if _, ok := store.reminders[id]; ok {
			t.Errorf("due reminder %s was not deleted", id)
		}
	}
	if _, ok := store.reminders[future]; !ok {
		t.Error("future reminder must be left untouched")
	}

	// A second tick with nothing new due dispatches nothing.
	delivery.channelSends = nil
	s.Sweep(context.Background())
	if len(delivery.channelSends) != 0 {
		t.Errorf("second tick dispatched %d reminders, want 0", len(delivery.channelSends))
	}
}

func TestSweepAtMostOnce(t *testing.T) {
	store := newFakeStore()
	delivery := &fakeDelivery{sendErr: errors.New("channel deleted")}
	now := time.Now().UTC()

	id := seedReminder(store, now.Add(-time.Hour), Target{Channel: "c1", Guild: "g1"}, "doomed")

	s := newTestSweeper(store, delivery, now)
	s.Sweep(context.Background())

	// The reminder is deleted even though delivery failed; it must never
	// be seen as due again.
	if _, ok := store.reminders[id]; ok {
		t.Fatal("reminder must be deleted after a failed delivery attempt")
	}

	delivery.sendErr = nil
	s.Sweep(context.Background())
	if len(delivery.channelSends) != 0 {
		t.Errorf("failed reminder was redelivered: %v", delivery.channelSends)
	}
}

func TestSweepStoreUnavailable(t *testing.T) {
	store := newFakeStore()
	delivery := &fakeDelivery{}
	now := time.Now().UTC()

	id := seedReminder(store, now.Add(-time.Hour), Target{User: "u1"}, "delayed")
	store.dueErr = errors.New("connection refused")

	s := newTestSweeper(store, delivery, now)
	s.Sweep(context.Background())

	if len(delivery.userSends) != 0 || len(store.deleted) != 0 {
		t.Fatal("a failed tick must be a no-op")
	}

	// The reminder stays due and fires on the next tick.
	store.dueErr = nil
	s.Sweep(context.Background())
	if len(delivery.userSends) != 1 {
		t.Fatalf("expected 1 dispatch after recovery, got %d", len(delivery.userSends))
	}
	if _, ok := store.reminders[id]; ok {
		t.Error("reminder not deleted after dispatch")
	}
}

func TestSweepDispatchesUserTarget(t *testing.T) {
	store := newFakeStore()
	delivery := &fakeDelivery{}
	now := time.Now().UTC()

	seedReminder(store, now.Add(-time.Second), Target{User: "u42"}, "dm me")

	s := newTestSweeper(store, delivery, now)
	s.Sweep(context.Background())

	if len(delivery.userSends) != 1 || delivery.userSends[0] != "u42:dm me" {
		t.Fatalf("expected one DM dispatch, got %v", delivery.userSends)
	}
	if len(delivery.channelSends) != 0 {
		t.Errorf("unexpected channel dispatch: %v", delivery.channelSends)
	}
}

func TestSweeperStartStop(t *testing.T) {
	store := newFakeStore()
	delivery := &fakeDelivery{}

	s := NewSweeper(store, delivery, 10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	s.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
