package app

import (
	"testing"

	"github.com/felixgeelhaar/kioskpilot/internal/adapters/command"
	"github.com/felixgeelhaar/kioskpilot/internal/domain/kiosk"
	"github.com/felixgeelhaar/kioskpilot/internal/domain/runner"
)

func TestBuildStages_TableShape(t *testing.T) {
	stages := BuildStages(kiosk.Default(), command.NewFakeRunner())

	want := []struct {
		name string
		post runner.Post
	}{
		{"system-update", runner.PostReboot},
		{"firmware", runner.PostReboot},
		{"display", runner.PostReboot},
		{"kiosk-shell", runner.PostNone},
		{"autostart", runner.PostNone},
	}

	if len(stages) != len(want) {
		t.Fatalf("stages = %d, want %d", len(stages), len(want))
	}
	for i, w := range want {
		if stages[i].Name != w.name {
			t.Errorf("stage %d name = %q, want %q", i+1, stages[i].Name, w.name)
		}
		if stages[i].Post != w.post {
			t.Errorf("stage %d post = %v, want %v", i+1, stages[i].Post, w.post)
		}
		if len(stages[i].Steps) == 0 {
			t.Errorf("stage %d has no steps", i+1)
		}
	}

	for _, s := range stages[:3] {
		if s.RebootMessage == "" {
			t.Errorf("rebooting stage %q needs a confirmation message", s.Name)
		}
	}
}

func TestBuildStages_HostnameStepIsOptional(t *testing.T) {
	cfg := kiosk.Default()
	without := BuildStages(cfg, command.NewFakeRunner())

	cfg.Hostname = "kiosk-lobby"
	with := BuildStages(cfg, command.NewFakeRunner())

	if len(with[0].Steps) != len(without[0].Steps)+1 {
		t.Fatalf("hostname step missing: %d vs %d steps", len(with[0].Steps), len(without[0].Steps))
	}
	last := with[0].Steps[len(with[0].Steps)-1]
	if last.ID() != "hostname:set" {
		t.Errorf("last system step = %q, want hostname:set", last.ID())
	}
}

func TestBuildStages_StepIDs(t *testing.T) {
	stages := BuildStages(kiosk.Default(), command.NewFakeRunner())

	got := []string{}
	for _, s := range stages {
		for _, step := range s.Steps {
			got = append(got, step.ID())
		}
	}

	want := []string{
		"apt:update",
		"apt:upgrade",
		"apt:install:base",
		"firmware:eeprom-update",
		"display:config",
		"apt:install:browser",
		"browser:kiosk-script",
		"autostart:desktop-entry",
	}
	if len(got) != len(want) {
		t.Fatalf("step ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("step %d = %q, want %q", i, got[i], want[i])
		}
	}
}
