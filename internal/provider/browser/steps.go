// Package browser provides the kiosk shell steps: installing the browser
// and writing the launch helper script the appliance boots into.
package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultScriptPath is where the kiosk launch helper lives.
const DefaultScriptPath = "/usr/local/bin/kiosk-session"

// ScriptStep writes the kiosk launch helper script. The script's content
// is deliberately minimal; the engine only cares that writing it succeeds.
type ScriptStep struct {
	path    string
	browser string
	url     string
}

// NewScriptStep creates a new ScriptStep.
func NewScriptStep(browser, url string) *ScriptStep {
	return &ScriptStep{path: DefaultScriptPath, browser: browser, url: url}
}

// WithPath overrides the script location. Intended for tests.
func (s *ScriptStep) WithPath(path string) *ScriptStep {
	return &ScriptStep{path: path, browser: s.browser, url: s.url}
}

// ID returns the step identifier.
func (s *ScriptStep) ID() string { return "browser:kiosk-script" }

// Apply writes the helper script executable. Overwriting an existing
// script is the idempotent path.
func (s *ScriptStep) Apply(_ context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(s.path), err)
	}

	script := fmt.Sprintf(`#!/bin/sh
# Written by kioskpilot. Do not edit.
xset s off
xset -dpms
exec %s --kiosk --noerrdialogs --disable-session-crashed-bubble %q
`, s.browser, s.url)

	if err := os.WriteFile(s.path, []byte(script), 0o755); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
