// Package components holds reusable Fyne building blocks for the main
// window.
package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/ebenmoss/deskminder/pkg/models"
)

// ReminderList is a selectable list over store-owned reminders. The
// component never owns the data: Reload pulls a fresh snapshot through the
// source callback, so mutations made anywhere show up on the next reload.
type ReminderList struct {
	list *widget.List
	rows []models.Reminder

	selected int

	source func() []models.Reminder
	render func(models.Reminder) string
}

// NewReminderList creates the component and the canvas object to place in a
// layout. source supplies the rows on every Reload; render formats one row.
func NewReminderList(source func() []models.Reminder, render func(models.Reminder) string) (*ReminderList, fyne.CanvasObject) {
	rl := &ReminderList{
		selected: -1,
		source:   source,
		render:   render,
	}

	rl.list = widget.NewList(
		func() int {
			return len(rl.rows)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i < len(rl.rows) {
				o.(*widget.Label).SetText(rl.render(rl.rows[i]))
			}
		})

	rl.list.OnSelected = func(id widget.ListItemID) {
		rl.selected = id
	}
	rl.list.OnUnselected = func(widget.ListItemID) {
		rl.selected = -1
	}

	return rl, rl.list
}

// Selected returns a copy of the reminder behind the current selection.
func (rl *ReminderList) Selected() (models.Reminder, bool) {
	if rl.selected < 0 || rl.selected >= len(rl.rows) {
		return models.Reminder{}, false
	}
	return rl.rows[rl.selected], true
}

// Reload pulls a fresh snapshot and redraws. Safe to call from any
// goroutine; the widget refresh runs on the Fyne thread. Any selection is
// dropped because the row it pointed at may be gone.
func (rl *ReminderList) Reload() {
	rl.rows = rl.source()
	fyne.Do(func() {
		rl.list.UnselectAll()
		rl.list.Refresh()
	})
	rl.selected = -1
}
