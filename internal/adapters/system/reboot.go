// Package system provides host-level adapters: triggering the reboot that
// ends a provisioning invocation.
package system

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/kioskpilot/internal/ports"
)

// ExecRebooter reboots the host through systemd. Once the command is
// issued the process is living on borrowed time; nothing after it is
// expected to run.
type ExecRebooter struct {
	runner ports.CommandRunner
}

// NewExecRebooter creates a rebooter over the given command runner.
func NewExecRebooter(runner ports.CommandRunner) *ExecRebooter {
	return &ExecRebooter{runner: runner}
}

// Reboot triggers an immediate system reboot.
func (r *ExecRebooter) Reboot(ctx context.Context) error {
	result, err := r.runner.Run(ctx, "systemctl", "reboot")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("systemctl reboot exited %d: %s", result.ExitCode, result.Stderr)
	}
	return nil
}
