package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/DrunkenToast/buzzer-bot/internal/reminder"
)

// CreateReminder persists a reminder and returns the id the API assigned.
func (c *Client) CreateReminder(ctx context.Context, r *reminder.Reminder) (string, error) {
	var created struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/reminders", r, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// DeleteReminder removes a reminder. A 404 means it is already gone, which
// is treated the same as a successful delete.
func (c *Client) DeleteReminder(ctx context.Context, id string) error {
	err := c.do(ctx, http.MethodDelete, "/reminders/"+url.PathEscape(id), nil, nil)
	if isNotFound(err) {
		return nil
	}
	return err
}

// DueReminders returns every reminder whose fire time is at or before now.
func (c *Client) DueReminders(ctx context.Context, now time.Time) ([]reminder.Reminder, error) {
	var due []reminder.Reminder
	path := "/reminders/due?before=" + url.QueryEscape(now.UTC().Format(time.RFC3339))
	if err := c.do(ctx, http.MethodGet, path, nil, &due); err != nil {
		return nil, err
	}
	return due, nil
}

// RemindersByUser returns all reminders created by the given user.
func (c *Client) RemindersByUser(ctx context.Context, userID string) ([]reminder.Reminder, error) {
	var rs []reminder.Reminder
	if err := c.do(ctx, http.MethodGet, "/reminders/user/"+url.PathEscape(userID), nil, &rs); err != nil {
		return nil, err
	}
	return rs, nil
}

// UserTimezone returns the user's stored timezone preference, or the empty
// string when none is stored.
func (c *Client) UserTimezone(ctx context.Context, userID string) (string, error) {
	var pref struct {
		Timezone string `json:"timezone"`
	}
	err := c.do(ctx, http.MethodGet, "/reminders/timezone/"+url.PathEscape(userID), nil, &pref)
	if isNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return pref.Timezone, nil
}

// SetUserTimezone stores the user's timezone preference.
func (c *Client) SetUserTimezone(ctx context.Context, userID, zone string) error {
	body := struct {
		Timezone string `json:"timezone"`
	}{Timezone: zone}
	return c.do(ctx, http.MethodPut, "/reminders/timezone/"+url.PathEscape(userID), body, nil)
}

func isNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound
}
