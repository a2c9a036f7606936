package reminder

import (
	"context"
	"time"
)

// Target is the delivery shape of a reminder: a channel in a guild or a
// user's direct messages. Exactly one of the two sides is set.
type Target struct {
	Channel string `json:"channel,omitempty"`
	Guild   string `json:"guild,omitempty"`
	User    string `json:"user,omitempty"`
}

// IsChannel reports whether the target is a guild channel.
func (t Target) IsChannel() bool {
	return t.Channel != "" && t.Guild != "" && t.User == ""
}

// IsUser reports whether the target is a user's DMs.
func (t Target) IsUser() bool {
	return t.User != "" && t.Channel == "" && t.Guild == ""
}

// Reminder is a persisted request to deliver Content once FireAt has
// passed. FireAt is stored UTC-normalized so instants compare across users
// regardless of their timezones.
type Reminder struct {
	ID        string    `json:"id,omitempty"`
	Content   string    `json:"content"`
	FireAt    time.Time `json:"fireAt"`
	Target    Target    `json:"target"`
	CreatedBy string    `json:"createdBy"`
}

// Store is the remote system of record for reminders and per-user timezone
// preferences. Every call crosses a network boundary; a returned error
// means the operation did not happen, with no partial state left behind.
// A reminder returned as due and then deleted must not be returned as due
// again.
type Store interface {
	CreateReminder(ctx context.Context, r *Reminder) (string, error)
	DeleteReminder(ctx context.Context, id string) error
	DueReminders(ctx context.Context, now time.Time) ([]Reminder, error)
	RemindersByUser(ctx context.Context, userID string) ([]Reminder, error)
	UserTimezone(ctx context.Context, userID string) (string, error)
	SetUserTimezone(ctx context.Context, userID, zone string) error
}

// Delivery sends reminder content over the chat transport. Failures are
// reported, never fatal.
type Delivery interface {
	SendToChannel(channelID, content string) error
	SendToUser(userID, content string) error
}
