// Package apt provides provisioning steps backed by the Debian package
// manager.
package apt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/kioskpilot/internal/ports"
)

// UpdateStep refreshes the apt package index.
type UpdateStep struct {
	runner ports.CommandRunner
}

// NewUpdateStep creates a new UpdateStep.
func NewUpdateStep(runner ports.CommandRunner) *UpdateStep {
	return &UpdateStep{runner: runner}
}

// ID returns the step identifier.
func (s *UpdateStep) ID() string { return "apt:update" }

// Apply refreshes the package index.
func (s *UpdateStep) Apply(ctx context.Context) error {
	result, err := s.runner.Run(ctx, "apt-get", "update")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get update exited %d: %s", result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	return nil
}

// UpgradeStep brings all installed packages up to date. This is the slow
// step of a fresh install, so it carries a generous timeout of its own.
type UpgradeStep struct {
	runner ports.CommandRunner
}

// NewUpgradeStep creates a new UpgradeStep.
func NewUpgradeStep(runner ports.CommandRunner) *UpgradeStep {
	return &UpgradeStep{runner: runner}
}

// ID returns the step identifier.
func (s *UpgradeStep) ID() string { return "apt:upgrade" }

// Timeout allows for a full-system upgrade on a slow SD card.
func (s *UpgradeStep) Timeout() time.Duration { return 2 * time.Hour }

// Apply upgrades all installed packages non-interactively.
func (s *UpgradeStep) Apply(ctx context.Context) error {
	result, err := s.runner.Run(ctx, "apt-get", "-y", "full-upgrade")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get full-upgrade exited %d: %s", result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	return nil
}

// InstallStep installs a set of packages. Already-installed packages are
// skipped, so re-running after an interrupted stage is safe.
type InstallStep struct {
	id       string
	packages []string
	runner   ports.CommandRunner
}

// NewInstallStep creates a new InstallStep.
func NewInstallStep(id string, packages []string, runner ports.CommandRunner) *InstallStep {
	return &InstallStep{id: "apt:install:" + id, packages: packages, runner: runner}
}

// ID returns the step identifier.
func (s *InstallStep) ID() string { return s.id }

// Apply installs the packages that are not yet present.
func (s *InstallStep) Apply(ctx context.Context) error {
	missing, err := s.missingPackages(ctx)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		return nil
	}

	args := append([]string{"-y", "install"}, missing...)
	result, err := s.runner.Run(ctx, "apt-get", args...)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get install %s exited %d: %s",
			strings.Join(missing, " "), result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	return nil
}

// missingPackages filters the set down to packages dpkg does not know as
// installed.
func (s *InstallStep) missingPackages(ctx context.Context) ([]string, error) {
	var missing []string
	for _, pkg := range s.packages {
		result, err := s.runner.Run(ctx, "dpkg-query", "-W", "-f=${db:Status-Status}", pkg)
		if err != nil {
			return nil, err
		}
		if !result.Success() || strings.TrimSpace(result.Stdout) != "installed" {
			missing = append(missing, pkg)
		}
	}
	return missing, nil
}
