package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// fakeStore is an in-memory stand-in for the persistence API used by the
// scheduler and sweeper tests.
type fakeStore struct {
	mu        sync.Mutex
	reminders map[string]Reminder
	zones     map[string]string
	nextID    int

	createErr error
	deleteErr error
	dueErr    error
	listErr   error
	zoneErr   error

	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		reminders: make(map[string]Reminder),
		zones:     make(map[string]string),
	}
}

func (f *fakeStore) CreateReminder(ctx context.Context, r *Reminder) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	id := fmt.Sprintf("r%d", f.nextID)
	stored := *r
	stored.ID = id
	f.reminders[id] = stored
	return id, nil
}

func (f *fakeStore) DeleteReminder(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	// Idempotent: deleting an absent id is fine.
	delete(f.reminders, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) DueReminders(ctx context.Context, now time.Time) ([]Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dueErr != nil {
		return nil, f.dueErr
	}
	var due []Reminder
	for _, r := range f.reminders {
		if !r.FireAt.After(now) {
			due = append(due, r)
		}
	}
	return due, nil
}

func (f *fakeStore) RemindersByUser(ctx context.Context, userID string) ([]Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var rs []Reminder
	for _, r := range f.reminders {
		if r.CreatedBy == userID {
			rs = append(rs, r)
		}
	}
	return rs, nil
}

func (f *fakeStore) UserTimezone(ctx context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.zoneErr != nil {
		return "", f.zoneErr
	}
	return f.zones[userID], nil
}

func (f *fakeStore) SetUserTimezone(ctx context.Context, userID, zone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.zoneErr != nil {
		return f.zoneErr
	}
	f.zones[userID] = zone
	return nil
}

// fakeDelivery records sends and can be told to fail.
type fakeDelivery struct {
	mu           sync.Mutex
	channelSends []string
	userSends    []string
	sendErr      error
}

func (f *fakeDelivery) SendToChannel(channelID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.channelSends = append(f.channelSends, channelID+":"+content)
	return nil
}

func (f *fakeDelivery) SendToUser(userID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.userSends = append(f.userSends, userID+":"+content)
	return nil
}
