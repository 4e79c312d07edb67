package apt

import (
	"context"
	"strings"
	"testing"

	"github.com/felixgeelhaar/kioskpilot/internal/adapters/command"
	"github.com/felixgeelhaar/kioskpilot/internal/ports"
)

func TestUpdateStep(t *testing.T) {
	runner := command.NewFakeRunner()
	if err := NewUpdateStep(runner).Apply(context.Background()); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !runner.CalledWith("apt-get") {
		t.Error("apt-get should have been invoked")
	}
}

func TestUpdateStep_Failure(t *testing.T) {
	runner := command.NewFakeRunner()
	runner.Script("apt-get", ports.CommandResult{ExitCode: 100, Stderr: "mirror unreachable"})

	err := NewUpdateStep(runner).Apply(context.Background())
	if err == nil {
		t.Fatal("Apply() should fail")
	}
	if !strings.Contains(err.Error(), "mirror unreachable") {
		t.Errorf("error %q should carry stderr", err)
	}
}

func TestInstallStep_SkipsInstalledPackages(t *testing.T) {
	runner := command.NewFakeRunner()
	runner.Script("dpkg-query", ports.CommandResult{Stdout: "installed"})

	step := NewInstallStep("base", []string{"xserver-xorg", "lightdm"}, runner)
	if err := step.Apply(context.Background()); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if runner.CalledWith("apt-get") {
		t.Error("nothing to install, apt-get must not run")
	}
}

func TestInstallStep_InstallsMissingPackages(t *testing.T) {
	runner := command.NewFakeRunner()
	runner.Script("dpkg-query", ports.CommandResult{ExitCode: 1})

	step := NewInstallStep("base", []string{"xserver-xorg", "lightdm"}, runner)
	if err := step.Apply(context.Background()); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	var installArgs []string
	for _, call := range runner.Calls() {
		if call.Command == "apt-get" {
			installArgs = call.Args
		}
	}
	if installArgs == nil {
		t.Fatal("apt-get install should have run")
	}
	joined := strings.Join(installArgs, " ")
	if !strings.Contains(joined, "xserver-xorg") || !strings.Contains(joined, "lightdm") {
		t.Errorf("install args %q should list both packages", joined)
	}
}

func TestInstallStep_ID(t *testing.T) {
	step := NewInstallStep("base", nil, command.NewFakeRunner())
	if step.ID() != "apt:install:base" {
		t.Errorf("ID() = %q", step.ID())
	}
}

func TestUpgradeStep_TimeoutIsGenerous(t *testing.T) {
	step := NewUpgradeStep(command.NewFakeRunner())
	if step.Timeout() <= 0 {
		t.Error("upgrade step should declare its own timeout")
	}
}
