// Package voice manages the voice-note files attached to reminders. The
// core treats a note as an opaque WAV blob under a fixed directory;
// recording and encoding are the recorder surface's concern.
package voice

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const notePrefix = "voice_"

// Library is the on-disk home of the voice notes.
type Library struct {
	dir string
	now func() time.Time
}

// NewLibrary ensures dir exists and returns a library over it.
func NewLibrary(dir string) (*Library, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create voice notes directory %s: %w", dir, err)
	}
	return &Library{dir: dir, now: time.Now}, nil
}

// Dir returns the notes directory.
func (l *Library) Dir() string {
	return l.dir
}

// NewPath returns the absolute path a new note should be written to,
// named voice_<unix-seconds>.wav.
func (l *Library) NewPath() string {
	return filepath.Join(l.dir, fmt.Sprintf("%s%d.wav", notePrefix, l.now().Unix()))
}

// Save writes wavData as a fresh note and returns its absolute path.
func (l *Library) Save(wavData []byte) (string, error) {
	path := l.NewPath()
	if err := os.WriteFile(path, wavData, 0o644); err != nil {
		return "", fmt.Errorf("failed to write voice note: %w", err)
	}
	return path, nil
}

// Remove deletes a note. Paths outside the library are refused so a
// reminder pointing at an arbitrary file can never delete it. Removing a
// missing note is a no-op.
func (l *Library) Remove(path string) error {
	if !l.Owns(path) {
		return fmt.Errorf("refusing to remove %s: not a library note", path)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove voice note: %w", err)
	}
	return nil
}

// Owns reports whether path is a note file inside the library directory.
func (l *Library) Owns(path string) bool {
	dir, base := filepath.Split(filepath.Clean(path))
	return filepath.Clean(dir) == l.dir && strings.HasPrefix(base, notePrefix)
}

// List returns the absolute paths of all notes, lexically sorted, which for
// the unix-seconds naming is creation order within a second's resolution.
func (l *Library) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(l.dir, notePrefix+"*.wav"))
	if err != nil {
		return nil, fmt.Errorf("failed to list voice notes: %w", err)
	}
	return matches, nil
}
