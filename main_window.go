package main

import (
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ebenmoss/deskminder/pkg/models"
	"github.com/ebenmoss/deskminder/pkg/store"
	"github.com/ebenmoss/deskminder/pkg/ui/components"
	"github.com/ebenmoss/deskminder/pkg/voice"
)

// MainWindow is the interactive surface: the reminder list, the add/edit
// forms and the settings tab. It only ever talks to the core through store
// operations.
type MainWindow struct {
	window fyne.Window
	app    fyne.App

	reminders        *store.ReminderStore
	settings         *models.Settings
	voices           *voice.Library
	onSettingsChange func(*models.Settings)

	// Reminders tab
	titleEntry       *widget.Entry
	descEntry        *widget.Entry
	dateEntry        *widget.Entry
	timeEntry        *widget.Entry
	prioritySelect   *widget.Select
	voiceLabel       *widget.Label
	pendingVoicePath string

	reminderList *components.ReminderList

	// Settings tab
	toneLabel *widget.Label
}

func NewMainWindow(app fyne.App, reminders *store.ReminderStore, settings *models.Settings, voices *voice.Library, onSettingsChange func(*models.Settings)) *MainWindow {
	mw := &MainWindow{
		app:              app,
		reminders:        reminders,
		settings:         settings,
		voices:           voices,
		onSettingsChange: onSettingsChange,
	}

	mw.window = app.NewWindow("Deskminder")
	mw.window.Resize(fyne.NewSize(760, 620))
	mw.buildUI()

	return mw
}

func (mw *MainWindow) buildUI() {
	tabs := container.NewAppTabs(
		container.NewTabItem("Reminders", mw.buildRemindersTab()),
		container.NewTabItem("Settings", mw.buildSettingsTab()),
	)

	mw.window.SetContent(tabs)
	mw.refreshList()
}

func (mw *MainWindow) buildRemindersTab() fyne.CanvasObject {
	mw.titleEntry = widget.NewEntry()
	mw.titleEntry.SetPlaceHolder("Call Bob")

	mw.descEntry = widget.NewEntry()
	mw.descEntry.SetPlaceHolder("What is this about?")

	now := time.Now()
	mw.dateEntry = widget.NewEntry()
	mw.dateEntry.SetText(now.Format(models.DateLayout))
	mw.dateEntry.SetPlaceHolder("YYYY-MM-DD")

	mw.timeEntry = widget.NewEntry()
	mw.timeEntry.SetText(now.Add(time.Hour).Format(models.ClockLayout))
	mw.timeEntry.SetPlaceHolder("HH:MM")

	mw.prioritySelect = widget.NewSelect([]string{string(models.PriorityNormal), string(models.PriorityUrgent)}, nil)
	mw.prioritySelect.SetSelected(string(models.PriorityNormal))

	mw.voiceLabel = widget.NewLabel("None")
	attachVoice := widget.NewButton("Attach Voice Note...", func() {
		mw.pickVoiceNote()
	})
	clearVoice := widget.NewButton("Clear", func() {
		mw.pendingVoicePath = ""
		mw.voiceLabel.SetText("None")
	})

	form := widget.NewForm(
		widget.NewFormItem("Title", mw.titleEntry),
		widget.NewFormItem("Description", mw.descEntry),
		widget.NewFormItem("Date", mw.dateEntry),
		widget.NewFormItem("Time", mw.timeEntry),
		widget.NewFormItem("Priority", mw.prioritySelect),
		widget.NewFormItem("Voice note", container.NewHBox(mw.voiceLabel, attachVoice, clearVoice)),
	)

	addButton := widget.NewButton("Add Reminder", func() {
		mw.addReminder()
	})
	addButton.Importance = widget.HighImportance

	list, listObject := components.NewReminderList(mw.reminders.ListActive, formatReminderRow)
	mw.reminderList = list

	editButton := widget.NewButton("Edit", func() {
		if r, ok := mw.reminderList.Selected(); ok {
			mw.showEditDialog(r)
		}
	})
	deleteButton := widget.NewButton("Delete", func() {
		mw.deleteSelected()
	})
	importButton := widget.NewButton("Import .ics...", func() {
		mw.showImportDialog()
	})

	actions := container.NewHBox(editButton, deleteButton, importButton)

	top := container.NewVBox(
		form,
		container.NewCenter(addButton),
		widget.NewSeparator(),
		widget.NewLabel("Your reminders:"),
	)

	return container.NewBorder(top, actions, nil, nil, listObject)
}

func (mw *MainWindow) addReminder() {
	draft := models.Draft{
		Title:       mw.titleEntry.Text,
		Description: mw.descEntry.Text,
		Date:        mw.dateEntry.Text,
		Time:        mw.timeEntry.Text,
		Priority:    models.Priority(mw.prioritySelect.Selected),
		VoiceNote:   mw.pendingVoicePath,
	}

	r, err := mw.reminders.Add(draft)
	if err != nil {
		dialog.ShowError(err, mw.window)
		return
	}
	log.Printf("Added reminder %d %q for %s %s", r.ID, r.Title, r.Date, r.Time)

	mw.titleEntry.SetText("")
	mw.descEntry.SetText("")
	mw.pendingVoicePath = ""
	mw.voiceLabel.SetText("None")
	mw.refreshList()
}

func (mw *MainWindow) deleteSelected() {
	r, ok := mw.reminderList.Selected()
	if !ok {
		return
	}

	dialog.ShowConfirm("Delete Reminder", fmt.Sprintf("Delete %q?", r.Title), func(confirmed bool) {
		if !confirmed {
			return
		}
		if !mw.reminders.Delete(r.ID) {
			log.Printf("Reminder %d already gone", r.ID)
		}
		// A note recorded for this reminder is orphaned once it is gone.
		if r.VoiceNote != "" && mw.voices.Owns(r.VoiceNote) {
			if err := mw.voices.Remove(r.VoiceNote); err != nil {
				log.Printf("Failed to remove voice note: %v", err)
			}
		}
		mw.refreshList()
	}, mw.window)
}

// refreshList reloads the active reminders into the list component.
func (mw *MainWindow) refreshList() {
	if mw.reminderList != nil {
		mw.reminderList.Reload()
	}
}

func (mw *MainWindow) pickVoiceNote() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		path := reader.URI().Path()
		mw.pendingVoicePath = path
		mw.voiceLabel.SetText(shortPath(path))
	}, mw.window)
}

func (mw *MainWindow) Show() {
	mw.window.Show()
}

func formatReminderRow(r models.Reminder) string {
	marker := "•"
	if r.Priority == models.PriorityUrgent {
		marker = "!"
	}
	voiceMark := ""
	if r.VoiceNote != "" {
		voiceMark = " [voice]"
	}
	return fmt.Sprintf("%s %s | %s %s%s", marker, r.Title, r.Date, r.Time, voiceMark)
}
