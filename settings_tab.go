package main

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/ebenmoss/deskminder/pkg/audio"
	"github.com/ebenmoss/deskminder/pkg/models"
)

var screenChoices = []string{models.ScreensAll, models.ScreensPrimary, "0", "1", "2", "3"}

func (mw *MainWindow) buildSettingsTab() fyne.CanvasObject {
	mw.toneLabel = widget.NewLabel(currentToneName(mw.settings))

	selectTone := widget.NewButton("Select Custom Tone...", func() {
		dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, mw.window)
				return
			}
			if reader == nil {
				return
			}
			defer reader.Close()

			mw.settings.CustomTonePath = reader.URI().Path()
			mw.toneLabel.SetText(currentToneName(mw.settings))
			mw.onSettingsChange(mw.settings)
		}, mw.window)
	})
	clearTone := widget.NewButton("Use Default Beep", func() {
		mw.settings.CustomTonePath = ""
		mw.toneLabel.SetText(currentToneName(mw.settings))
		mw.onSettingsChange(mw.settings)
	})
	testSound := widget.NewButton("Test Sound", func() {
		player := audio.Play(mw.settings.CustomTonePath)
		time.AfterFunc(3*time.Second, player.Stop)
	})

	fullscreenCheck := widget.NewCheck("Show alerts fullscreen", func(checked bool) {
		mw.settings.FullscreenMode = checked
		mw.onSettingsChange(mw.settings)
	})
	fullscreenCheck.SetChecked(mw.settings.FullscreenMode)
	fullscreenHelp := widget.NewLabel("Unchecked: alerts open as a large centered window")
	fullscreenHelp.Importance = widget.MediumImportance

	screenSelect := widget.NewSelect(screenChoices, func(value string) {
		mw.settings.SelectedScreens = value
		mw.onSettingsChange(mw.settings)
	})
	screenSelect.SetSelected(mw.settings.SelectedScreens)
	screenHelp := widget.NewLabel("Which screen(s) receive alerts")
	screenHelp.Importance = widget.MediumImportance

	autoStartCheck := widget.NewCheck("Launch Deskminder at login", func(checked bool) {
		mw.settings.AutoStart = checked
		mw.onSettingsChange(mw.settings)
	})
	autoStartCheck.SetChecked(mw.settings.AutoStart)

	form := container.New(layout.NewFormLayout(),
		widget.NewLabel("Alarm tone:"),
		container.NewVBox(mw.toneLabel, container.NewHBox(selectTone, clearTone, testSound)),

		widget.NewLabel("Alert mode:"),
		container.NewVBox(fullscreenCheck, fullscreenHelp),

		widget.NewLabel("Screens:"),
		container.NewVBox(screenSelect, screenHelp),

		widget.NewLabel("Startup:"),
		autoStartCheck,
	)

	return container.NewVBox(
		widget.NewLabel("Settings"),
		widget.NewSeparator(),
		form,
	)
}

func currentToneName(settings *models.Settings) string {
	if settings.CustomTonePath == "" {
		return "Default beep"
	}
	return shortPath(settings.CustomTonePath)
}
