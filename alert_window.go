package main

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ebenmoss/deskminder/pkg/alert"
	"github.com/ebenmoss/deskminder/pkg/audio"
	"github.com/ebenmoss/deskminder/pkg/models"
)

// AlertWindow is the delivery surface for one alert request: a topmost
// fullscreen (or large windowed) notification that plays the alert cue and
// resolves exactly one decision, dismiss or snooze.
type AlertWindow struct {
	window   fyne.Window
	app      fyne.App
	req      alert.Request
	settings *models.Settings

	onDecision func(alert.Decision)
	decideOnce sync.Once

	audioPlayer    *audio.Player
	stopMonitoring chan struct{}
}

func NewAlertWindow(app fyne.App, req alert.Request, settings *models.Settings, onDecision func(alert.Decision)) *AlertWindow {
	aw := &AlertWindow{
		app:            app,
		req:            req,
		settings:       settings,
		onDecision:     onDecision,
		stopMonitoring: make(chan struct{}),
	}

	// A reminder's voice note takes precedence over the configured tone.
	tone := settings.CustomTonePath
	if req.VoiceNote != "" {
		tone = req.VoiceNote
	}
	aw.audioPlayer = audio.Play(tone)

	// Create window and build UI on the main Fyne thread
	fyne.Do(func() {
		aw.window = app.NewWindow("Reminder")
		if settings.FullscreenMode {
			aw.window.SetFullScreen(true)
		} else {
			aw.window.Resize(fyne.NewSize(900, 600))
			aw.window.CenterOnScreen()
		}
		aw.buildUI()

		aw.registerQuitPrevention()
		aw.setupFocusMonitoring()

		aw.window.SetOnClosed(func() {
			close(aw.stopMonitoring)

			if aw.audioPlayer != nil {
				aw.audioPlayer.Stop()
			}

			// Closing the window without choosing counts as a dismissal
			// so the caller always gets exactly one decision.
			aw.decideOnce.Do(func() {
				aw.onDecision(alert.Dismiss())
			})
		})
	})

	return aw
}

func (aw *AlertWindow) buildUI() {
	banner := "REMINDER"
	if aw.req.Priority == models.PriorityUrgent {
		banner = "URGENT REMINDER"
	}
	bannerText := canvas.NewText(banner, nil)
	bannerText.TextSize = 20
	bannerText.Alignment = fyne.TextAlignCenter

	title := canvas.NewText(aw.req.Title, nil)
	title.TextSize = 36
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Alignment = fyne.TextAlignCenter

	message := widget.NewLabel(aw.req.Message)
	message.Wrapping = fyne.TextWrapWord
	message.Alignment = fyne.TextAlignCenter

	clock := widget.NewLabel(time.Now().Format("3:04 PM"))
	clock.Alignment = fyne.TextAlignCenter

	content := container.NewVBox(
		container.NewPadded(bannerText),
		container.NewPadded(title),
		widget.NewSeparator(),
		container.NewPadded(message),
		clock,
	)

	if aw.req.VoiceNote != "" {
		note := widget.NewLabel("Voice note: " + shortPath(aw.req.VoiceNote))
		note.Alignment = fyne.TextAlignCenter
		content.Add(note)
	}

	content.Add(widget.NewSeparator())

	snoozeRow := container.NewHBox()
	for _, minutes := range alert.SnoozeChoices {
		m := minutes
		snoozeRow.Add(widget.NewButton(fmt.Sprintf("Snooze %d min", m), func() {
			aw.decide(alert.Snooze(m))
		}))
	}
	content.Add(container.NewCenter(snoozeRow))

	dismiss := widget.NewButton("Dismiss", func() {
		aw.decide(alert.Dismiss())
	})
	dismiss.Importance = widget.HighImportance
	content.Add(container.NewCenter(dismiss))

	aw.window.SetContent(container.NewPadded(container.NewCenter(content)))
}

// decide resolves the alert with d and closes the window. Only the first
// decision wins; the close handler's implicit dismiss is a no-op after it.
func (aw *AlertWindow) decide(d alert.Decision) {
	aw.decideOnce.Do(func() {
		aw.onDecision(d)
	})
	fyne.Do(func() {
		aw.window.Close()
	})
}

// StopSound silences this alert without resolving it, used when a newer
// alert takes over the audio channel.
func (aw *AlertWindow) StopSound() {
	if aw.audioPlayer != nil {
		aw.audioPlayer.Stop()
	}
}

func (aw *AlertWindow) Show() {
	fyne.Do(func() {
		if aw.window != nil {
			aw.window.Show()
			aw.window.RequestFocus()
		}
	})
}

// registerQuitPrevention swallows the platform quit shortcut while the
// alert is on screen so the app cannot be killed instead of answered. The
// goroutine owns the hotkey end to end; closing stopMonitoring releases it,
// so no other goroutine ever touches it.
func (aw *AlertWindow) registerQuitPrevention() {
	go func() {
		hk := newQuitHotkey()
		if err := hk.Register(); err != nil {
			log.Printf("Failed to register quit-shortcut prevention: %v", err)
			return
		}
		defer hk.Unregister()

		for {
			select {
			case <-aw.stopMonitoring:
				return
			case <-hk.Keydown():
				log.Println("Quit shortcut blocked - answer the reminder to continue")
			}
		}
	}()
}

func shortPath(path string) string {
	if idx := strings.LastIndexAny(path, `/\`); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
