package display

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigStep_WritesSnippetAndInclude(t *testing.T) {
	dir := t.TempDir()
	step := NewConfigStep(90).WithBootDir(dir)

	if err := step.Apply(context.Background()); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	snippet, err := os.ReadFile(filepath.Join(dir, "kioskpilot-display.txt"))
	if err != nil {
		t.Fatalf("read snippet: %v", err)
	}
	if !strings.Contains(string(snippet), "display_rotate=1") {
		t.Errorf("snippet %q should set display_rotate=1 for 90 degrees", snippet)
	}

	config, err := os.ReadFile(filepath.Join(dir, "config.txt"))
	if err != nil {
		t.Fatalf("read config.txt: %v", err)
	}
	if !strings.Contains(string(config), "include kioskpilot-display.txt") {
		t.Errorf("config.txt %q should include the snippet", config)
	}
}

func TestConfigStep_Idempotent(t *testing.T) {
	dir := t.TempDir()
	step := NewConfigStep(180).WithBootDir(dir)

	for i := 0; i < 3; i++ {
		if err := step.Apply(context.Background()); err != nil {
			t.Fatalf("Apply() #%d error = %v", i+1, err)
		}
	}

	config, err := os.ReadFile(filepath.Join(dir, "config.txt"))
	if err != nil {
		t.Fatalf("read config.txt: %v", err)
	}
	if got := strings.Count(string(config), "include kioskpilot-display.txt"); got != 1 {
		t.Errorf("include line appears %d times, want 1", got)
	}
}

func TestConfigStep_PreservesExistingConfig(t *testing.T) {
	dir := t.TempDir()
	existing := "dtparam=audio=on"
	if err := os.WriteFile(filepath.Join(dir, "config.txt"), []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := NewConfigStep(0).WithBootDir(dir).Apply(context.Background()); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	config, _ := os.ReadFile(filepath.Join(dir, "config.txt"))
	if !strings.Contains(string(config), existing) {
		t.Error("existing config lines must survive")
	}
}

func TestConfigStep_MissingBootDir(t *testing.T) {
	step := NewConfigStep(0).WithBootDir(filepath.Join(t.TempDir(), "nope"))
	if err := step.Apply(context.Background()); err == nil {
		t.Fatal("Apply() should fail without a firmware directory")
	}
}
