package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ebenmoss/deskminder/pkg/models"
)

// ErrNotFound is returned when an operation references a missing id.
var ErrNotFound = errors.New("reminder not found")

// ReminderStore owns the reminder list and the snoozed-item list. All access
// goes through the store's mutex: the UI surface and the background poller
// never touch the slices directly. Every mutating operation persists the
// reminder document immediately; snoozed items are process-lifetime state
// and are never written to disk.
type ReminderStore struct {
	mu   sync.RWMutex
	path string
	now  func() time.Time

	reminders []*models.Reminder
	snoozed   []*models.SnoozedItem

	revision int64
	lastID   int64
}

// NewReminderStore loads the document at path. A missing or malformed
// document yields an empty store, never an error.
func NewReminderStore(path string) *ReminderStore {
	s := &ReminderStore{
		path: path,
		now:  time.Now,
	}
	s.load()
	return s
}

func (s *ReminderStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Failed to read reminder document %s: %v", s.path, err)
		}
		return
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("Malformed reminder document %s, starting empty: %v", s.path, err)
		return
	}

	for _, r := range doc.Reminders {
		// A hand-edited document can carry null entries.
		if r == nil {
			log.Printf("Skipping null entry in reminder document %s", s.path)
			continue
		}
		s.reminders = append(s.reminders, r)
		if r.ID > s.lastID {
			s.lastID = r.ID
		}
	}
}

// persistLocked writes the full document atomically: serialize to a temp
// file in the same directory, then rename over the target. Callers hold the
// write lock. A write failure is logged; the in-memory state stays
// authoritative for the session.
func (s *ReminderStore) persistLocked() {
	doc := models.Document{
		Reminders: s.reminders,
		Alarms:    []*models.Reminder{},
	}
	if doc.Reminders == nil {
		doc.Reminders = []*models.Reminder{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Printf("Failed to encode reminder document: %v", err)
		return
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("Failed to create data directory %s: %v", dir, err)
		return
	}

	tmp, err := os.CreateTemp(dir, ".reminders-*.json")
	if err != nil {
		log.Printf("Failed to create temp document: %v", err)
		return
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		log.Printf("Failed to write reminder document: %v", err)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		log.Printf("Failed to close reminder document: %v", err)
		return
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		log.Printf("Failed to replace reminder document %s: %v", s.path, err)
	}
}

// nextIDLocked assigns a fresh id from the current unix-millisecond clock.
// Reminders are created by a single interactive user, but two creations in
// the same millisecond must still get distinct ids.
func (s *ReminderStore) nextIDLocked() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// Add validates the draft, assigns a fresh id, appends the reminder as
// active and persists.
func (s *ReminderStore) Add(d models.Draft) (models.Reminder, error) {
	if err := d.Validate(); err != nil {
		return models.Reminder{}, fmt.Errorf("invalid reminder: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := &models.Reminder{
		ID:          s.nextIDLocked(),
		Title:       d.Title,
		Description: d.Description,
		Date:        d.Date,
		Time:        d.Time,
		Priority:    d.Priority,
		Active:      true,
		VoiceNote:   d.VoiceNote,
	}

	s.reminders = append(s.reminders, r)
	s.revision++
	s.persistLocked()
	return *r, nil
}

// Update replaces the user-editable fields of the reminder with the given
// id. The id and the active flag are untouched.
func (s *ReminderStore) Update(id int64, d models.Draft) (models.Reminder, error) {
	if err := d.Validate(); err != nil {
		return models.Reminder{}, fmt.Errorf("invalid reminder: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.findLocked(id)
	if r == nil {
		return models.Reminder{}, ErrNotFound
	}

	r.Title = d.Title
	r.Description = d.Description
	r.Date = d.Date
	r.Time = d.Time
	r.Priority = d.Priority
	r.VoiceNote = d.VoiceNote

	s.revision++
	s.persistLocked()
	return *r, nil
}

// Delete removes the reminder with the given id. Deleting an absent id is a
// no-op; the return value reports whether an entry was removed.
func (s *ReminderStore) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.reminders {
		if r.ID == id {
			s.reminders = append(s.reminders[:i], s.reminders[i+1:]...)
			s.revision++
			s.persistLocked()
			return true
		}
	}
	return false
}

// Deactivate flips the reminder's active flag off and persists. Called by
// the poller once an alert has been dispatched.
func (s *ReminderStore) Deactivate(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.findLocked(id)
	if r == nil {
		return ErrNotFound
	}
	if r.Active {
		r.Active = false
		s.revision++
		s.persistLocked()
	}
	return nil
}

// Get returns a copy of the reminder with the given id.
func (s *ReminderStore) Get(id int64) (models.Reminder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r := s.findLocked(id); r != nil {
		return *r, true
	}
	return models.Reminder{}, false
}

// ListActive returns copies of the active reminders in insertion order
// (oldest-added first). This governs display order, not delivery order.
func (s *ReminderStore) ListActive() []models.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Reminder, 0, len(s.reminders))
	for _, r := range s.reminders {
		if r.Active {
			out = append(out, *r)
		}
	}
	return out
}

func (s *ReminderStore) findLocked(id int64) *models.Reminder {
	for _, r := range s.reminders {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// Snooze appends a new snoozed item triggering minutes from now. The trigger
// is truncated to minute granularity to match the poller's comparisons, so
// a 5-minute snooze at 12:00:45 fires at 12:05. The original entry is not
// touched; it is already inactive from delivery. Snoozed items can be
// re-snoozed indefinitely, each chained through OriginalID.
func (s *ReminderStore) Snooze(originalID int64, minutes int, title, message, voice string) models.SnoozedItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	trigger := models.RoundToMinute(s.now()).Add(time.Duration(minutes) * time.Minute)

	item := &models.SnoozedItem{
		ID:          s.nextIDLocked(),
		OriginalID:  originalID,
		Title:       title,
		Message:     message,
		TriggerTime: trigger.Format(models.TriggerLayout),
		CustomVoice: voice,
		Active:      true,
	}

	s.snoozed = append(s.snoozed, item)
	s.revision++
	return *item
}

// DeactivateSnoozed marks a snoozed item as fired.
func (s *ReminderStore) DeactivateSnoozed(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.snoozed {
		if item.ID == id {
			if item.Active {
				item.Active = false
				s.revision++
			}
			return nil
		}
	}
	return ErrNotFound
}

// GetSnoozed returns a copy of the snoozed item with the given id.
func (s *ReminderStore) GetSnoozed(id int64) (models.SnoozedItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.snoozed {
		if item.ID == id {
			return *item, true
		}
	}
	return models.SnoozedItem{}, false
}

// ListActiveSnoozed returns copies of the snoozed items still waiting to
// fire, in creation order.
func (s *ReminderStore) ListActiveSnoozed() []models.SnoozedItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.SnoozedItem, 0, len(s.snoozed))
	for _, item := range s.snoozed {
		if item.Active {
			out = append(out, *item)
		}
	}
	return out
}

// Revision increments on every mutation. The poller compares it against the
// revision it last built its due queue from.
func (s *ReminderStore) Revision() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}
