// Package ports defines the interfaces the provisioning engine consumes:
// running host commands and structured logging. Step bodies and the
// reboot trigger reach the host exclusively through these ports, which is
// what lets an entire provisioning run execute against fakes in tests.
package ports

import (
	"context"
)

// CommandResult is the outcome of one host command: an apt-get run, a
// dpkg-query probe, hostnamectl, the EEPROM updater, systemctl reboot.
// Steps decide idempotence from Stdout and surface Stderr in failure
// messages, which end up verbatim in the stage ledger.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CommandCall records a command invocation, command name plus arguments.
// Fakes collect these so tests can assert exactly what a step would have
// done to the appliance.
type CommandCall struct {
	Command string
	Args    []string
}

// CommandRunner executes host commands. A non-zero exit is reported in
// CommandResult, not as an error; the error return is for failing to run
// the command at all. The context carries the step deadline, so a hung
// tool is cancelled rather than wedging the provisioning run.
type CommandRunner interface {
	Run(ctx context.Context, command string, args ...string) (CommandResult, error)
}
