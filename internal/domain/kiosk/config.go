// Package kiosk holds the appliance configuration: what the finished kiosk
// should display and how. The engine itself never looks inside; the config
// only parameterizes step bodies.
package kiosk

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// Rotation values accepted for the display.
var validRotations = map[int]bool{0: true, 90: true, 180: true, 270: true}

// Config describes the kiosk appliance to provision.
type Config struct {
	// URL is the page the kiosk browser locks onto.
	URL string `yaml:"url"`

	// Rotation is the display rotation in degrees: 0, 90, 180 or 270.
	Rotation int `yaml:"rotation"`

	// Browser is the browser binary to install and launch.
	Browser string `yaml:"browser"`

	// Hostname, when set, renames the appliance during provisioning.
	Hostname string `yaml:"hostname"`

	// ExtraPackages are installed alongside the base package set.
	ExtraPackages []string `yaml:"extra_packages"`
}

// Default returns the configuration used when no kiosk.yaml exists.
func Default() Config {
	return Config{
		URL:      "http://localhost",
		Rotation: 0,
		Browser:  "chromium-browser",
	}
}

// Load reads a kiosk.yaml. A missing file yields Default(); a present but
// invalid file is an error, never a silent fallback.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration fields.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url must not be empty")
	}
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("url %q is not an absolute URL", c.URL)
	}
	if !validRotations[c.Rotation] {
		return fmt.Errorf("rotation %d is not one of 0, 90, 180, 270", c.Rotation)
	}
	if c.Browser == "" {
		return fmt.Errorf("browser must not be empty")
	}
	return nil
}
