package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ebenmoss/deskminder/pkg/alert"
	"github.com/ebenmoss/deskminder/pkg/models"
	"github.com/ebenmoss/deskminder/pkg/platform"
	"github.com/ebenmoss/deskminder/pkg/scheduler"
	"github.com/ebenmoss/deskminder/pkg/store"
	"github.com/ebenmoss/deskminder/pkg/voice"
)

// alertQueueSize bounds undelivered alerts between the poller and the UI.
const alertQueueSize = 16

type Deskminder struct {
	app fyne.App

	settings      *models.Settings
	settingsStore *store.SettingsStore
	reminders     *store.ReminderStore
	voices        *voice.Library

	alerts     *alert.Queue
	poller     *scheduler.Poller
	cancelPoll context.CancelFunc

	mainWindow *MainWindow

	mu          sync.Mutex
	activeAlert *AlertWindow
}

func main() {
	dm := &Deskminder{
		app: app.NewWithID("com.ebenmoss.deskminder"),
	}

	if err := dm.initialize(); err != nil {
		log.Fatal(err)
	}

	dm.run()
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Failed to resolve home directory, using working dir: %v", err)
		return ".deskminder"
	}
	return filepath.Join(home, ".deskminder")
}

func (dm *Deskminder) initialize() error {
	dir := dataDir()

	dm.settingsStore = store.NewSettingsStore(filepath.Join(dir, "settings.json"))
	dm.settings = dm.settingsStore.Load()

	dm.reminders = store.NewReminderStore(filepath.Join(dir, "reminders.json"))

	voices, err := voice.NewLibrary(filepath.Join(dir, "voice_notes"))
	if err != nil {
		return err
	}
	dm.voices = voices

	// Sync autostart state with settings on startup
	if err := setupAutostart(dm.settings.AutoStart); err != nil {
		log.Printf("Warning: failed to setup autostart: %v", err)
	}

	dm.alerts = alert.NewQueue(alertQueueSize)
	dm.poller = scheduler.NewPoller(dm.reminders, dm.alerts, scheduler.DefaultInterval)

	ctx, cancel := context.WithCancel(context.Background())
	dm.cancelPoll = cancel
	go dm.poller.Run(ctx)
	go dm.dispatchLoop()

	dm.setupSystemTray()
	dm.showMainWindow()

	return nil
}

func (dm *Deskminder) run() {
	dm.app.Lifecycle().SetOnStarted(func() {
		platform.SetActivationPolicy()
	})
	dm.app.Run()
}

// dispatchLoop drains the alert queue. The poller keeps ticking while an
// alert is on screen; decisions come back through onDecision.
func (dm *Deskminder) dispatchLoop() {
	for req := range dm.alerts.Requests() {
		dm.showAlert(req)
	}
}

func (dm *Deskminder) showAlert(req alert.Request) {
	log.Printf("Dispatching alert %q (id %d)", req.Title, req.ReminderID)

	dm.mu.Lock()
	// A newer alert takes over the audio channel.
	if dm.activeAlert != nil {
		dm.activeAlert.StopSound()
	}
	dm.mu.Unlock()

	aw := NewAlertWindow(dm.app, req, dm.settings, func(decision alert.Decision) {
		dm.onDecision(req, decision)
	})

	dm.mu.Lock()
	dm.activeAlert = aw
	dm.mu.Unlock()

	aw.Show()
	dm.updateSystemTrayMenu()
	dm.refreshMainWindow()
}

func (dm *Deskminder) onDecision(req alert.Request, decision alert.Decision) {
	if decision.Snoozed {
		item := dm.reminders.Snooze(req.ReminderID, decision.SnoozeMinutes, req.Title, req.Message, req.VoiceNote)
		log.Printf("Snoozed %q until %s", item.Title, item.TriggerTime)
	} else {
		log.Printf("Dismissed %q", req.Title)
	}

	dm.mu.Lock()
	if dm.activeAlert != nil {
		dm.activeAlert = nil
	}
	dm.mu.Unlock()

	dm.updateSystemTrayMenu()
}

// applySettings persists the new settings and re-syncs autostart.
func (dm *Deskminder) applySettings(settings *models.Settings) {
	dm.settings = settings
	if err := dm.settingsStore.Save(settings); err != nil {
		log.Printf("Failed to save settings: %v", err)
	}
	if err := setupAutostart(settings.AutoStart); err != nil {
		log.Printf("Warning: failed to setup autostart: %v", err)
	}
}

func (dm *Deskminder) showMainWindow() {
	if dm.mainWindow != nil && dm.mainWindow.window != nil {
		dm.mainWindow.window.RequestFocus()
		dm.mainWindow.window.Show()
		return
	}

	dm.mainWindow = NewMainWindow(dm.app, dm.reminders, dm.settings, dm.voices, dm.applySettings)
	dm.mainWindow.window.SetOnClosed(func() {
		dm.mainWindow = nil
	})
	dm.mainWindow.Show()
}

func (dm *Deskminder) refreshMainWindow() {
	if dm.mainWindow != nil {
		dm.mainWindow.refreshList()
	}
}

// lastCheck formats the poller health signal for the tray.
func (dm *Deskminder) lastCheck() string {
	t := dm.poller.LastTick()
	if t.IsZero() {
		return "Last check: starting..."
	}
	return "Last check: " + t.Format(time.Kitchen)
}

func (dm *Deskminder) quit() {
	if dm.cancelPoll != nil {
		dm.cancelPoll()
	}
	dm.app.Quit()
}
