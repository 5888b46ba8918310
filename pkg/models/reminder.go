package models

import (
	"fmt"
	"time"
)

// Priority classifies how a reminder is rendered, not when it fires.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityUrgent Priority = "urgent"
)

// Layouts used by the persisted document and the trigger comparisons.
// Scheduling is minute-granular throughout; seconds are never stored.
const (
	DateLayout    = "2006-01-02"
	ClockLayout   = "15:04"
	TriggerLayout = "2006-01-02 15:04"
)

// Reminder is a one-time scheduled notification tied to a calendar date
// and a 24-hour clock time.
type Reminder struct {
	ID          int64    `json:"id"` // unix milliseconds at creation
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"` // YYYY-MM-DD
	Time        string   `json:"time"` // HH:MM, 24-hour
	Priority    Priority `json:"priority"`
	Active      bool     `json:"active"`
	VoiceNote   string   `json:"voice_note,omitempty"`
}

// DueTime resolves the reminder's date and time fields into an absolute
// wall-clock instant in loc.
func (r *Reminder) DueTime(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(TriggerLayout, r.Date+" "+r.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("reminder %d has invalid schedule %q %q: %w", r.ID, r.Date, r.Time, err)
	}
	return t, nil
}

// Draft carries the user-editable fields of a reminder. The store assigns
// the id and the active flag.
type Draft struct {
	Title       string
	Description string
	Date        string
	Time        string
	Priority    Priority
	VoiceNote   string
}

// Validate checks the draft against the reminder invariants.
func (d *Draft) Validate() error {
	if d.Title == "" {
		return fmt.Errorf("title must not be empty")
	}
	if _, err := time.Parse(DateLayout, d.Date); err != nil {
		return fmt.Errorf("invalid date %q: %w", d.Date, err)
	}
	if _, err := time.Parse(ClockLayout, d.Time); err != nil {
		return fmt.Errorf("invalid time %q: %w", d.Time, err)
	}
	switch d.Priority {
	case PriorityNormal, PriorityUrgent:
	default:
		return fmt.Errorf("invalid priority %q", d.Priority)
	}
	return nil
}

// SnoozedItem is a deferred re-delivery of an already-fired reminder or of
// another snoozed item. It carries its own independent trigger time and is
// process-lifetime state: snoozed items are never persisted.
type SnoozedItem struct {
	ID          int64  `json:"id"`
	OriginalID  int64  `json:"original_id"` // weak reference, no cascading delete
	Title       string `json:"title"`
	Message     string `json:"message"`
	TriggerTime string `json:"trigger_time"` // YYYY-MM-DD HH:MM
	CustomVoice string `json:"custom_voice,omitempty"`
	Active      bool   `json:"active"`
}

// DueTime resolves the snoozed item's trigger time in loc.
func (s *SnoozedItem) DueTime(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(TriggerLayout, s.TriggerTime, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("snoozed item %d has invalid trigger %q: %w", s.ID, s.TriggerTime, err)
	}
	return t, nil
}

// Document is the shape of the persisted reminder file. The alarms list is
// kept for compatibility with the original document layout.
type Document struct {
	Reminders []*Reminder `json:"reminders"`
	Alarms    []*Reminder `json:"alarms"`
}

// RoundToMinute rounds a time down to the nearest minute.
func RoundToMinute(t time.Time) time.Time {
	return t.Truncate(time.Minute)
}
