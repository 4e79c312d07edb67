// Package hostname provides the appliance renaming step.
package hostname

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/kioskpilot/internal/ports"
)

// SetStep renames the host through hostnamectl. It checks the current name
// first so re-running is a no-op.
type SetStep struct {
	name   string
	runner ports.CommandRunner
}

// NewSetStep creates a new SetStep.
func NewSetStep(name string, runner ports.CommandRunner) *SetStep {
	return &SetStep{name: name, runner: runner}
}

// ID returns the step identifier.
func (s *SetStep) ID() string { return "hostname:set" }

// Apply sets the hostname when it differs from the desired one.
func (s *SetStep) Apply(ctx context.Context) error {
	current, err := s.runner.Run(ctx, "hostnamectl", "--static")
	if err != nil {
		return err
	}
	if current.Success() && strings.TrimSpace(current.Stdout) == s.name {
		return nil
	}

	result, err := s.runner.Run(ctx, "hostnamectl", "set-hostname", s.name)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("hostnamectl set-hostname %s exited %d: %s", s.name, result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	return nil
}
