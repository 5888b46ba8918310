package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ebenmoss/deskminder/pkg/models"
)

func testDraft() models.Draft {
	return models.Draft{
		Title:    "Call Bob",
		Date:     "2024-06-01",
		Time:     "14:30",
		Priority: models.PriorityNormal,
	}
}

func TestAddAssignsIDAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reminders.json")
	s := NewReminderStore(path)

	r, err := s.Add(testDraft())
	if err != nil {
		t.Fatal(err)
	}
	if r.ID == 0 {
		t.Fatal("expected a nonzero id")
	}
	if !r.Active {
		t.Fatal("new reminder must be active")
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected document to be persisted: %v", err)
	}
}

func TestAddRejectsInvalidDrafts(t *testing.T) {
	s := NewReminderStore(filepath.Join(t.TempDir(), "reminders.json"))

	cases := []struct {
		name  string
		draft models.Draft
	}{
		{"empty title", models.Draft{Date: "2024-06-01", Time: "14:30", Priority: models.PriorityNormal}},
		{"bad date", models.Draft{Title: "x", Date: "01/06/2024", Time: "14:30", Priority: models.PriorityNormal}},
		{"bad time", models.Draft{Title: "x", Date: "2024-06-01", Time: "2:30 PM", Priority: models.PriorityNormal}},
		{"bad priority", models.Draft{Title: "x", Date: "2024-06-01", Time: "14:30", Priority: "low"}},
	}

	for _, tc := range cases {
		if _, err := s.Add(tc.draft); err == nil {
			t.Errorf("%s: expected an error", tc.name)
		}
	}
}

func TestIDsUniqueWithinSameMillisecond(t *testing.T) {
	s := NewReminderStore(filepath.Join(t.TempDir(), "reminders.json"))
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)
	s.now = func() time.Time { return fixed }

	a, _ := s.Add(testDraft())
	b, _ := s.Add(testDraft())
	c, _ := s.Add(testDraft())

	if a.ID == b.ID || b.ID == c.ID || a.ID == c.ID {
		t.Fatalf("ids must be unique, got %d %d %d", a.ID, b.ID, c.ID)
	}
	if !(a.ID < b.ID && b.ID < c.ID) {
		t.Fatalf("ids must be monotonic by creation order, got %d %d %d", a.ID, b.ID, c.ID)
	}
}

func TestUpdateReplacesFieldsAndKeepsIdentity(t *testing.T) {
	s := NewReminderStore(filepath.Join(t.TempDir(), "reminders.json"))

	r, _ := s.Add(testDraft())

	updated, err := s.Update(r.ID, models.Draft{
		Title:    "Call Alice",
		Date:     "2024-06-02",
		Time:     "09:15",
		Priority: models.PriorityUrgent,
	})
	if err != nil {
		t.Fatal(err)
	}

	if updated.ID != r.ID {
		t.Errorf("id changed: %d != %d", updated.ID, r.ID)
	}
	if !updated.Active {
		t.Error("active flag must be untouched by update")
	}
	if updated.Title != "Call Alice" || updated.Date != "2024-06-02" || updated.Time != "09:15" {
		t.Errorf("fields not replaced: %+v", updated)
	}
}

func TestUpdateMissingIDReturnsNotFound(t *testing.T) {
	s := NewReminderStore(filepath.Join(t.TempDir(), "reminders.json"))

	_, err := s.Update(12345, testDraft())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := NewReminderStore(filepath.Join(t.TempDir(), "reminders.json"))

	r, _ := s.Add(testDraft())
	other, _ := s.Add(testDraft())

	if !s.Delete(r.ID) {
		t.Fatal("first delete must remove the entry")
	}
	if s.Delete(r.ID) {
		t.Fatal("second delete must be a no-op")
	}
	if len(s.ListActive()) != 1 || s.ListActive()[0].ID != other.ID {
		t.Fatal("delete must remove exactly one entry")
	}
}

func TestListActivePreservesInsertionOrder(t *testing.T) {
	s := NewReminderStore(filepath.Join(t.TempDir(), "reminders.json"))

	titles := []string{"first", "second", "third"}
	for _, title := range titles {
		d := testDraft()
		d.Title = title
		if _, err := s.Add(d); err != nil {
			t.Fatal(err)
		}
	}

	second := s.ListActive()[1]
	if err := s.Deactivate(second.ID); err != nil {
		t.Fatal(err)
	}

	active := s.ListActive()
	if len(active) != 2 {
		t.Fatalf("expected 2 active reminders, got %d", len(active))
	}
	if active[0].Title != "first" || active[1].Title != "third" {
		t.Errorf("insertion order not preserved: %q, %q", active[0].Title, active[1].Title)
	}
}

func TestDeactivateFlipsFlagOnce(t *testing.T) {
	s := NewReminderStore(filepath.Join(t.TempDir(), "reminders.json"))

	r, _ := s.Add(testDraft())

	if err := s.Deactivate(r.ID); err != nil {
		t.Fatal(err)
	}
	got, ok := s.Get(r.ID)
	if !ok || got.Active {
		t.Fatal("reminder must be inactive after deactivate")
	}

	// Deactivating again is fine; deactivating a missing id is not.
	if err := s.Deactivate(r.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Deactivate(99999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRoundTripAfterMutations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reminders.json")
	s := NewReminderStore(path)

	a, _ := s.Add(testDraft())
	draft := testDraft()
	draft.Title = "Water plants"
	draft.Priority = models.PriorityUrgent
	draft.VoiceNote = "/notes/voice_1717000000.wav"
	b, _ := s.Add(draft)
	s.Add(testDraft())

	third := s.ListActive()[2]
	s.Delete(third.ID)
	if _, err := s.Update(a.ID, models.Draft{Title: "Call Bob later", Date: "2024-06-03", Time: "10:00", Priority: models.PriorityNormal}); err != nil {
		t.Fatal(err)
	}
	s.Deactivate(b.ID)

	reloaded := NewReminderStore(path)

	want := map[int64]models.Reminder{}
	s.mu.RLock()
	for _, r := range s.reminders {
		want[r.ID] = *r
	}
	s.mu.RUnlock()

	reloaded.mu.RLock()
	defer reloaded.mu.RUnlock()
	if len(reloaded.reminders) != len(want) {
		t.Fatalf("expected %d reminders after reload, got %d", len(want), len(reloaded.reminders))
	}
	for _, r := range reloaded.reminders {
		if *r != want[r.ID] {
			t.Errorf("reminder %d differs after reload: %+v != %+v", r.ID, *r, want[r.ID])
		}
	}
}

func TestMissingDocumentYieldsEmptyStore(t *testing.T) {
	s := NewReminderStore(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if len(s.ListActive()) != 0 {
		t.Fatal("missing document must load as empty store")
	}
}

func TestMalformedDocumentYieldsEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reminders.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewReminderStore(path)
	if len(s.ListActive()) != 0 {
		t.Fatal("malformed document must load as empty store")
	}

	// The store must still be usable and persist over the bad file.
	if _, err := s.Add(testDraft()); err != nil {
		t.Fatal(err)
	}
	if len(NewReminderStore(path).ListActive()) != 1 {
		t.Fatal("store must recover by overwriting the malformed document")
	}
}

func TestNullEntryInDocumentIsSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reminders.json")
	doc := `{"reminders": [
		null,
		{"id": 5, "title": "kept", "date": "2024-06-01", "time": "12:00", "priority": "normal", "active": true},
		null
	], "alarms": []}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewReminderStore(path)

	active := s.ListActive()
	if len(active) != 1 || active[0].Title != "kept" {
		t.Fatalf("expected only the valid entry, got %+v", active)
	}

	// Null entries must not poison id assignment or persistence.
	if _, err := s.Add(testDraft()); err != nil {
		t.Fatal(err)
	}
	if len(NewReminderStore(path).ListActive()) != 2 {
		t.Fatal("store must persist cleanly after dropping null entries")
	}
}

func TestPersistedDocumentKeepsAlarmsKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reminders.json")
	s := NewReminderStore(path)
	s.Add(testDraft())

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"reminders"`, `"alarms"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("document missing %s key", key)
		}
	}
}

func TestSnoozeTruncatesToMinute(t *testing.T) {
	s := NewReminderStore(filepath.Join(t.TempDir(), "reminders.json"))
	at := time.Date(2024, 6, 1, 14, 30, 12, 0, time.Local)
	s.now = func() time.Time { return at }

	item := s.Snooze(42, 10, "Call Bob", "about the thing", "")

	if item.TriggerTime != "2024-06-01 14:40" {
		t.Fatalf("expected trigger 2024-06-01 14:40, got %s", item.TriggerTime)
	}
	if item.OriginalID != 42 {
		t.Errorf("expected original id 42, got %d", item.OriginalID)
	}
	if !item.Active {
		t.Error("new snoozed item must be active")
	}
}

func TestSnoozeChainAndDeactivate(t *testing.T) {
	s := NewReminderStore(filepath.Join(t.TempDir(), "reminders.json"))

	first := s.Snooze(1, 5, "t", "m", "")
	second := s.Snooze(first.ID, 5, "t", "m", "")

	if second.OriginalID != first.ID {
		t.Fatalf("re-snooze must chain via the previous item id, got %d", second.OriginalID)
	}
	if len(s.ListActiveSnoozed()) != 2 {
		t.Fatal("both snoozed items must be active")
	}

	if err := s.DeactivateSnoozed(first.ID); err != nil {
		t.Fatal(err)
	}
	remaining := s.ListActiveSnoozed()
	if len(remaining) != 1 || remaining[0].ID != second.ID {
		t.Fatal("deactivate must only affect the named snoozed item")
	}

	if err := s.DeactivateSnoozed(404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSnoozedItemsAreNotPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reminders.json")
	s := NewReminderStore(path)

	s.Add(testDraft())
	s.Snooze(7, 5, "t", "m", "")

	reloaded := NewReminderStore(path)
	if len(reloaded.ListActiveSnoozed()) != 0 {
		t.Fatal("snoozed items are process-lifetime state and must not survive a reload")
	}
	if len(reloaded.ListActive()) != 1 {
		t.Fatal("reminders must survive a reload")
	}
}

func TestRevisionMovesOnEveryMutation(t *testing.T) {
	s := NewReminderStore(filepath.Join(t.TempDir(), "reminders.json"))

	rev := s.Revision()
	r, _ := s.Add(testDraft())
	if s.Revision() == rev {
		t.Fatal("add must bump the revision")
	}

	rev = s.Revision()
	s.ListActive()
	s.Get(r.ID)
	if s.Revision() != rev {
		t.Fatal("reads must not bump the revision")
	}

	s.Deactivate(r.ID)
	if s.Revision() == rev {
		t.Fatal("deactivate must bump the revision")
	}
}
