package models

// Screen selection values for alert delivery. A numeric string selects a
// single screen by index.
const (
	ScreensAll     = "all"
	ScreensPrimary = "primary"
)

// Settings holds the process-wide preferences. Loaded once at startup and
// rewritten wholesale on every change; last saved wins.
type Settings struct {
	CustomTonePath  string `json:"custom_tone_path"`
	FullscreenMode  bool   `json:"fullscreen_mode"`
	SelectedScreens string `json:"selected_screens"` // "all", "primary" or screen index
	AutoStart       bool   `json:"auto_start"`
}

// DefaultSettings returns the settings used when no document exists or the
// stored one cannot be read.
func DefaultSettings() *Settings {
	return &Settings{
		FullscreenMode:  true,
		SelectedScreens: ScreensAll,
	}
}
