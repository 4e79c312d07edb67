// Package display provides the boot-time display configuration step.
package display

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Default firmware config locations on Raspberry Pi OS.
const (
	DefaultBootDir = "/boot/firmware"
	snippetFile    = "kioskpilot-display.txt"
	includeLine    = "include " + snippetFile
)

// ConfigStep writes the display rotation into a dedicated firmware config
// snippet and makes sure config.txt includes it. Firmware settings only
// apply at boot, so the display stage ends in a reboot.
type ConfigStep struct {
	bootDir  string
	rotation int
}

// NewConfigStep creates a new ConfigStep for the given rotation.
func NewConfigStep(rotation int) *ConfigStep {
	return &ConfigStep{bootDir: DefaultBootDir, rotation: rotation}
}

// WithBootDir overrides the firmware directory. Intended for tests.
func (s *ConfigStep) WithBootDir(dir string) *ConfigStep {
	return &ConfigStep{bootDir: dir, rotation: s.rotation}
}

// ID returns the step identifier.
func (s *ConfigStep) ID() string { return "display:config" }

// Apply writes the snippet and registers it in config.txt. Both writes are
// idempotent: the snippet is overwritten in place and the include line is
// only appended when absent.
func (s *ConfigStep) Apply(_ context.Context) error {
	if _, err := os.Stat(s.bootDir); err != nil {
		return fmt.Errorf("firmware directory %s: %w", s.bootDir, err)
	}

	snippet := fmt.Sprintf("# Written by kioskpilot. Do not edit.\ndisplay_rotate=%d\n", s.rotation/90)
	snippetPath := filepath.Join(s.bootDir, snippetFile)
	if err := os.WriteFile(snippetPath, []byte(snippet), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", snippetPath, err)
	}

	return s.ensureInclude()
}

// ensureInclude appends the include line to config.txt when missing.
func (s *ConfigStep) ensureInclude() error {
	configPath := filepath.Join(s.bootDir, "config.txt")
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", configPath, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == includeLine {
			return nil
		}
	}

	file, err := os.OpenFile(configPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", configPath, err)
	}
	entry := includeLine + "\n"
	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		entry = "\n" + entry
	}
	if _, err := file.WriteString(entry); err != nil {
		_ = file.Close()
		return fmt.Errorf("append to %s: %w", configPath, err)
	}
	return file.Close()
}
