// Package calendar turns a local iCalendar file into reminder drafts so a
// user can pull appointments into the reminder list without retyping them.
// Import is file-based only; the application exposes no network interface.
package calendar

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/emersion/go-ical"

	"github.com/ebenmoss/deskminder/pkg/models"
)

// ImportFile parses the .ics file at path and returns one draft per VEVENT
// with a usable start time. Events without a start, or whose start cannot
// be parsed, are skipped rather than failing the whole import.
func ImportFile(path string) ([]models.Draft, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer f.Close()

	decoder := ical.NewDecoder(f)
	drafts := []models.Draft{}

	for {
		cal, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse calendar: %w", err)
		}

		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}
			if draft, ok := eventToDraft(comp); ok {
				drafts = append(drafts, draft)
			}
		}
	}

	return drafts, nil
}

// eventToDraft extracts the fields the reminder form needs from a VEVENT.
func eventToDraft(comp *ical.Component) (models.Draft, bool) {
	start, err := startTime(comp)
	if err != nil {
		return models.Draft{}, false
	}

	draft := models.Draft{
		Date:     start.Format(models.DateLayout),
		Time:     start.Format(models.ClockLayout),
		Priority: models.PriorityNormal,
	}

	if p := comp.Props.Get(ical.PropSummary); p != nil {
		draft.Title = p.Value
	}
	if draft.Title == "" {
		draft.Title = "Imported event"
	}
	if p := comp.Props.Get(ical.PropDescription); p != nil {
		draft.Description = p.Value
	}

	return draft, true
}

func startTime(comp *ical.Component) (time.Time, error) {
	prop := comp.Props.Get(ical.PropDateTimeStart)
	if prop == nil {
		return time.Time{}, fmt.Errorf("event has no start time")
	}

	if t, err := prop.DateTime(time.Local); err == nil && !t.IsZero() {
		return t.In(time.Local), nil
	}

	// Fall back to parsing the raw value for producers that omit the
	// VALUE parameter or use a nonstandard layout.
	layouts := []string{
		"20060102T150405",
		"20060102T150405Z",
		"20060102",
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, prop.Value, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse start time %q", prop.Value)
}
