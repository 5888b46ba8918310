package main

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/ebenmoss/deskminder/pkg/calendar"
	"github.com/ebenmoss/deskminder/pkg/models"
	"github.com/ebenmoss/deskminder/pkg/store"
)

func (mw *MainWindow) showEditDialog(r models.Reminder) {
	titleEntry := widget.NewEntry()
	titleEntry.SetText(r.Title)

	descEntry := widget.NewEntry()
	descEntry.SetText(r.Description)

	dateEntry := widget.NewEntry()
	dateEntry.SetText(r.Date)

	timeEntry := widget.NewEntry()
	timeEntry.SetText(r.Time)

	prioritySelect := widget.NewSelect([]string{string(models.PriorityNormal), string(models.PriorityUrgent)}, nil)
	prioritySelect.SetSelected(string(r.Priority))

	voiceEntry := widget.NewEntry()
	voiceEntry.SetText(r.VoiceNote)
	voiceEntry.SetPlaceHolder("path to .wav (optional)")

	items := []*widget.FormItem{
		widget.NewFormItem("Title", titleEntry),
		widget.NewFormItem("Description", descEntry),
		widget.NewFormItem("Date", dateEntry),
		widget.NewFormItem("Time", timeEntry),
		widget.NewFormItem("Priority", prioritySelect),
		widget.NewFormItem("Voice note", voiceEntry),
	}

	dialog.ShowForm("Edit Reminder", "Save", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}

		draft := models.Draft{
			Title:       titleEntry.Text,
			Description: descEntry.Text,
			Date:        dateEntry.Text,
			Time:        timeEntry.Text,
			Priority:    models.Priority(prioritySelect.Selected),
			VoiceNote:   voiceEntry.Text,
		}

		if _, err := mw.reminders.Update(r.ID, draft); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				dialog.ShowError(fmt.Errorf("reminder was deleted in the meantime"), mw.window)
			} else {
				dialog.ShowError(err, mw.window)
			}
			return
		}
		mw.refreshList()
	}, mw.window)
}

func (mw *MainWindow) showImportDialog() {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		mw.importCalendar(reader.URI().Path())
	}, mw.window)
	fileDialog.SetFilter(storage.NewExtensionFileFilter([]string{".ics"}))
	fileDialog.Show()
}

func (mw *MainWindow) importCalendar(path string) {
	drafts, err := calendar.ImportFile(path)
	if err != nil {
		dialog.ShowError(err, mw.window)
		return
	}

	added, skipped := 0, 0
	for _, draft := range drafts {
		if _, err := mw.reminders.Add(draft); err != nil {
			skipped++
			continue
		}
		added++
	}
	mw.refreshList()

	dialog.ShowInformation("Import Complete",
		fmt.Sprintf("Imported %d reminder(s), skipped %d event(s)", added, skipped), mw.window)
}
