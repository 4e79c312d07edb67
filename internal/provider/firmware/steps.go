// Package firmware provides the bootloader/EEPROM update step for
// Raspberry-Pi-class boards.
package firmware

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/kioskpilot/internal/ports"
)

// UpdateStep applies any pending bootloader EEPROM update. The update only
// takes effect on the next boot, which is why the firmware stage ends in a
// mandatory reboot.
type UpdateStep struct {
	runner ports.CommandRunner
}

// NewUpdateStep creates a new UpdateStep.
func NewUpdateStep(runner ports.CommandRunner) *UpdateStep {
	return &UpdateStep{runner: runner}
}

// ID returns the step identifier.
func (s *UpdateStep) ID() string { return "firmware:eeprom-update" }

// Timeout keeps a stuck flasher from wedging the run.
func (s *UpdateStep) Timeout() time.Duration { return 10 * time.Minute }

// Apply checks for and stages a pending EEPROM update. A board without the
// tool (non-Pi hardware) is treated as up to date rather than failed.
func (s *UpdateStep) Apply(ctx context.Context) error {
	check, err := s.runner.Run(ctx, "rpi-eeprom-update")
	if err != nil {
		return err
	}
	if check.ExitCode == 127 {
		// Tool absent, nothing to update on this board.
		return nil
	}
	if !strings.Contains(check.Stdout, "UPDATE AVAILABLE") {
		return nil
	}

	result, err := s.runner.Run(ctx, "rpi-eeprom-update", "-a")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("rpi-eeprom-update -a exited %d: %s", result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	return nil
}
