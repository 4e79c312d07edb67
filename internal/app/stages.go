package app

import (
	"github.com/felixgeelhaar/kioskpilot/internal/domain/kiosk"
	"github.com/felixgeelhaar/kioskpilot/internal/domain/runner"
	"github.com/felixgeelhaar/kioskpilot/internal/ports"
	"github.com/felixgeelhaar/kioskpilot/internal/provider/apt"
	"github.com/felixgeelhaar/kioskpilot/internal/provider/autostart"
	"github.com/felixgeelhaar/kioskpilot/internal/provider/browser"
	"github.com/felixgeelhaar/kioskpilot/internal/provider/display"
	"github.com/felixgeelhaar/kioskpilot/internal/provider/firmware"
	"github.com/felixgeelhaar/kioskpilot/internal/provider/hostname"
)

// basePackages is the package set every kiosk appliance gets in stage 1.
var basePackages = []string{
	"xserver-xorg",
	"x11-xserver-utils",
	"lightdm",
	"unclutter",
}

// BuildStages assembles the stage table for the given kiosk configuration.
// Stage order matters: the ledger addresses stages by position, so entries
// must only ever be appended, never reordered, once appliances exist in
// the field.
func BuildStages(cfg kiosk.Config, cmdRunner ports.CommandRunner) []runner.Stage {
	systemSteps := []runner.Step{
		apt.NewUpdateStep(cmdRunner),
		apt.NewUpgradeStep(cmdRunner),
		apt.NewInstallStep("base", append(basePackages, cfg.ExtraPackages...), cmdRunner),
	}
	if cfg.Hostname != "" {
		systemSteps = append(systemSteps, hostname.NewSetStep(cfg.Hostname, cmdRunner))
	}

	scriptStep := browser.NewScriptStep(cfg.Browser, cfg.URL)

	return []runner.Stage{
		{
			Name:          "system-update",
			Steps:         systemSteps,
			Post:          runner.PostReboot,
			RebootMessage: "Base system updated. The appliance must reboot before firmware can be updated.",
		},
		{
			Name:          "firmware",
			Steps:         []runner.Step{firmware.NewUpdateStep(cmdRunner)},
			Post:          runner.PostReboot,
			RebootMessage: "Bootloader update staged. Reboot to apply it.",
		},
		{
			Name:          "display",
			Steps:         []runner.Step{display.NewConfigStep(cfg.Rotation)},
			Post:          runner.PostReboot,
			RebootMessage: "Display configuration written. Reboot to bring the panel up with the new settings.",
		},
		{
			Name: "kiosk-shell",
			Steps: []runner.Step{
				apt.NewInstallStep("browser", []string{cfg.Browser}, cmdRunner),
				scriptStep,
			},
			Post: runner.PostNone,
		},
		{
			Name:  "autostart",
			Steps: []runner.Step{autostart.NewEntryStep(browser.DefaultScriptPath)},
			Post:  runner.PostNone,
		},
	}
}
