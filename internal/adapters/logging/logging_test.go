package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/kioskpilot/internal/ports"
)

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleLogger(WithOutput(&buf), WithLevel(ports.LevelWarn))

	ctx := context.Background()
	log.Debug(ctx, "dropped debug")
	log.Info(ctx, "dropped info")
	log.Warn(ctx, "kept warn")
	log.Error(ctx, "kept error")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("output %q should not contain filtered lines", out)
	}
	if !strings.Contains(out, "[WARN] kept warn") || !strings.Contains(out, "[ERROR] kept error") {
		t.Errorf("output %q missing kept lines", out)
	}
}

func TestConsoleLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleLogger(WithOutput(&buf)).With(ports.F("run", "abc123"))

	log.Info(context.Background(), "stage starting", ports.F("stage", 2))

	out := buf.String()
	if !strings.Contains(out, "run=abc123") || !strings.Contains(out, "stage=2") {
		t.Errorf("output %q missing fields", out)
	}
}

func TestJournalLogger_AppendsAcrossOpens(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	journal, err := OpenJournal(dir)
	if err != nil {
		t.Fatalf("OpenJournal() error = %v", err)
	}
	journal.Info(ctx, "first invocation")
	if err := journal.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	journal, err = OpenJournal(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	journal.Info(ctx, "second invocation")
	_ = journal.Close()

	content, err := os.ReadFile(filepath.Join(dir, JournalFile))
	if err != nil {
		t.Fatal(err)
	}
	out := string(content)
	if !strings.Contains(out, "first invocation") || !strings.Contains(out, "second invocation") {
		t.Errorf("journal %q should keep lines from both invocations", out)
	}
	first := strings.Index(out, "first invocation")
	second := strings.Index(out, "second invocation")
	if first > second {
		t.Error("journal lines out of order")
	}
}

func TestJournalLogger_WithSharesFile(t *testing.T) {
	dir := t.TempDir()
	journal, err := OpenJournal(dir)
	if err != nil {
		t.Fatal(err)
	}

	scoped := journal.With(ports.F("run", "r1"))
	scoped.Info(context.Background(), "scoped line")
	_ = journal.Close()

	content, _ := os.ReadFile(filepath.Join(dir, JournalFile))
	if !strings.Contains(string(content), "scoped line run=r1") {
		t.Errorf("journal %q missing scoped line with field", content)
	}
}

func TestTeeLogger_FansOut(t *testing.T) {
	a := NewMemoryLogger()
	b := NewMemoryLogger()
	tee := NewTeeLogger(a, b).With(ports.F("run", "r1"))

	tee.Error(context.Background(), "step failed")

	for name, log := range map[string]*MemoryLogger{"first": a, "second": b} {
		if !log.Contains("step failed") {
			t.Errorf("%s sink missing the entry", name)
		}
	}
}

func TestMemoryLogger_WithSharesBuffer(t *testing.T) {
	log := NewMemoryLogger()
	log.With(ports.F("stage", 1)).Info(context.Background(), "hello")

	entries := log.Entries()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Level != ports.LevelInfo || entries[0].Msg != "hello" {
		t.Errorf("entry = %+v", entries[0])
	}
	if len(entries[0].Fields) != 1 || entries[0].Fields[0].Key != "stage" {
		t.Errorf("fields = %+v, want the scoped stage field", entries[0].Fields)
	}
}
