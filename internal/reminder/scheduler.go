package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// DateLayouts is the ordered list of accepted date+time layouts: day-first
// with / or - separators, 4- or 2-digit years, 24-hour clock. Anything
// outside this list is rejected rather than guessed at.
var DateLayouts = []string{
	"2/1/2006 15:04",
	"2/1/06 15:04",
	"2-1-2006 15:04",
	"2-1-06 15:04",
}

// ErrNoFormat means a date/time pair matched none of the accepted layouts.
// Callers present the supported-format list to the user.
var ErrNoFormat = errors.New("no date format matched")

// ErrBadTarget means a reminder target was neither channel+guild nor user.
var ErrBadTarget = errors.New("reminder target must be either channel+guild or user")

// ErrUnknownZone means a timezone name is not a recognized IANA zone.
var ErrUnknownZone = errors.New("unknown timezone")

// Scheduler resolves date/time tokens into absolute instants and manages
// reminder records through the Store. It holds no reminder state itself;
// the system of record is the Store.
type Scheduler struct {
	store        Store
	layouts      []string
	fallbackZone string
}

// NewScheduler creates a Scheduler. An empty layout list falls back to
// DateLayouts.
func NewScheduler(store Store, layouts []string, fallbackZone string) *Scheduler {
	if len(layouts) == 0 {
		layouts = DateLayouts
	}
	return &Scheduler{
		store:        store,
		layouts:      layouts,
		fallbackZone: fallbackZone,
	}
}

// Layouts returns the accepted date+time layouts in match order.
func (s *Scheduler) Layouts() []string {
	return s.layouts
}

// Resolve combines a date token and a time token into an absolute UTC
// instant, interpreted in the requesting user's stored timezone. A user
// without a stored preference resolves in the configured fallback zone; a
// store failure fails the whole resolution, since guessing a zone could
// persist the reminder at a silently wrong instant.
// Returns ErrNoFormat when no accepted layout parses the pair.
func (s *Scheduler) Resolve(ctx context.Context, dateTok, timeTok, userID string) (time.Time, error) {
	zone, err := s.store.UserTimezone(ctx, userID)
	if err != nil {
		return time.Time{}, fmt.Errorf("get timezone: %w", err)
	}
	if zone == "" {
		zone = s.fallbackZone
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		slog.Warn("Unknown timezone, using fallback", "zone", zone, "user", userID)
		loc, err = time.LoadLocation(s.fallbackZone)
		if err != nil {
			return time.Time{}, fmt.Errorf("load fallback timezone %q: %w", s.fallbackZone, err)
		}
	}

	input := dateTok + " " + timeTok
	for _, layout := range s.layouts {
		t, err := time.ParseInLocation(layout, input, loc)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrNoFormat
}

// Create validates the target discriminator and persists the reminder.
// The store-assigned id is written back into r.
func (s *Scheduler) Create(ctx context.Context, r *Reminder) error {
	if !r.Target.IsChannel() && !r.Target.IsUser() {
		return ErrBadTarget
	}

	id, err := s.store.CreateReminder(ctx, r)
	if err != nil {
		return fmt.Errorf("create reminder: %w", err)
	}
	r.ID = id
	return nil
}

// Delete removes a reminder. Deleting an id that is already gone is not an
// error.
func (s *Scheduler) Delete(ctx context.Context, id string) error {
	return s.store.DeleteReminder(ctx, id)
}

// List returns all reminders created by the user, ordered by fire time
// ascending. Ordering is applied locally so it never depends on the store.
func (s *Scheduler) List(ctx context.Context, userID string) ([]Reminder, error) {
	rs, err := s.store.RemindersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	sort.Slice(rs, func(i, j int) bool {
		return rs[i].FireAt.Before(rs[j].FireAt)
	})
	return rs, nil
}

// SetTimezone validates and stores a user's timezone preference. A name
// that is not an IANA zone returns ErrUnknownZone; any other error is a
// store failure.
func (s *Scheduler) SetTimezone(ctx context.Context, userID, zone string) error {
	if _, err := time.LoadLocation(zone); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownZone, zone)
	}
	return s.store.SetUserTimezone(ctx, userID, zone)
}

// Timezone returns the user's stored timezone, or the fallback zone when
// no preference exists.
func (s *Scheduler) Timezone(ctx context.Context, userID string) (string, error) {
	zone, err := s.store.UserTimezone(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get timezone: %w", err)
	}
	if zone == "" {
		return s.fallbackZone, nil
	}
	return zone, nil
}
