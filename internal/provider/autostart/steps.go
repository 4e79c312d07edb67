// Package autostart provides the desktop autostart registration step that
// makes the kiosk session launch on boot.
package autostart

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDir is the system-wide desktop autostart directory.
const DefaultDir = "/etc/xdg/autostart"

// EntryStep registers the kiosk session script as a desktop autostart
// entry.
type EntryStep struct {
	dir        string
	scriptPath string
}

// NewEntryStep creates a new EntryStep launching the given script.
func NewEntryStep(scriptPath string) *EntryStep {
	return &EntryStep{dir: DefaultDir, scriptPath: scriptPath}
}

// WithDir overrides the autostart directory. Intended for tests.
func (s *EntryStep) WithDir(dir string) *EntryStep {
	return &EntryStep{dir: dir, scriptPath: s.scriptPath}
}

// ID returns the step identifier.
func (s *EntryStep) ID() string { return "autostart:desktop-entry" }

// Apply writes the .desktop entry. Overwriting is the idempotent path.
func (s *EntryStep) Apply(_ context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", s.dir, err)
	}

	entry := fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=Kiosk Session
Comment=Launches the kiosk browser session
Exec=%s
X-GNOME-Autostart-enabled=true
`, s.scriptPath)

	path := filepath.Join(s.dir, "kiosk-session.desktop")
	if err := os.WriteFile(path, []byte(entry), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
