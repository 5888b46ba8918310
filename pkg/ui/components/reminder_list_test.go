package components

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/ebenmoss/deskminder/pkg/models"
)

func TestReminderListSelectionFollowsReload(t *testing.T) {
	test.NewApp()

	rows := []models.Reminder{
		{ID: 1, Title: "first", Active: true},
		{ID: 2, Title: "second", Active: true},
	}

	rl, obj := NewReminderList(
		func() []models.Reminder { return rows },
		func(r models.Reminder) string { return r.Title },
	)
	w := test.NewWindow(obj)
	defer w.Close()

	if _, ok := rl.Selected(); ok {
		t.Fatal("nothing should be selected before a reload")
	}

	rl.Reload()
	rl.list.Select(1)

	r, ok := rl.Selected()
	if !ok || r.ID != 2 {
		t.Fatalf("Selected() = %+v, %v; want the second row", r, ok)
	}

	// A reload drops the selection: the row it pointed at may be gone.
	rows = rows[:1]
	rl.Reload()

	if _, ok := rl.Selected(); ok {
		t.Fatal("selection must be dropped on reload")
	}

	rl.list.Select(0)
	if r, ok := rl.Selected(); !ok || r.ID != 1 {
		t.Fatalf("Selected() = %+v, %v; want the remaining row", r, ok)
	}
}

func TestReminderListSelectedOutOfRange(t *testing.T) {
	test.NewApp()

	rl, obj := NewReminderList(
		func() []models.Reminder { return nil },
		func(r models.Reminder) string { return r.Title },
	)
	w := test.NewWindow(obj)
	defer w.Close()

	rl.Reload()
	if _, ok := rl.Selected(); ok {
		t.Fatal("empty list can have no selection")
	}
}
