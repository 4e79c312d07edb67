package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/kioskpilot/internal/app"
	"github.com/felixgeelhaar/kioskpilot/internal/domain/ledger"
)

func withTestApp(t *testing.T, dir string) func() {
	t.Helper()
	prev := newApp
	newApp = func(out io.Writer) *app.Kioskpilot {
		return app.New(out, app.WithStateDir(dir))
	}
	return func() { newApp = prev }
}

func newStatusCommand(buf *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{RunE: runStatus}
	cmd.SetOut(buf)
	return cmd
}

func TestRunStatus_NoState(t *testing.T) {
	reset := withTestApp(t, t.TempDir())
	defer reset()

	var buf bytes.Buffer
	require.NoError(t, runStatus(newStatusCommand(&buf), nil))
	assert.Contains(t, buf.String(), "No provisioning state")
}

func TestRunStatus_RendersHistory(t *testing.T) {
	dir := t.TempDir()
	led := ledger.NewFileLedger(dir)
	require.NoError(t, led.Initialize())
	require.NoError(t, led.Append(ledger.StageRecord{Stage: 1, Outcome: ledger.OutcomeOK}))
	require.NoError(t, led.Append(ledger.StageRecord{Stage: 2, Outcome: "eeprom write failed"}))

	reset := withTestApp(t, dir)
	defer reset()

	var buf bytes.Buffer
	require.NoError(t, runStatus(newStatusCommand(&buf), nil))

	out := buf.String()
	assert.Contains(t, out, "TIME")
	assert.Contains(t, out, "eeprom write failed")
	assert.Contains(t, out, "Stage 2 failed")
}

func TestRunStatus_ResumeHint(t *testing.T) {
	dir := t.TempDir()
	led := ledger.NewFileLedger(dir)
	require.NoError(t, led.Initialize())
	require.NoError(t, led.Append(ledger.StageRecord{Stage: 1, Outcome: ledger.OutcomeOK}))

	reset := withTestApp(t, dir)
	defer reset()

	var buf bytes.Buffer
	require.NoError(t, runStatus(newStatusCommand(&buf), nil))
	assert.Contains(t, buf.String(), "resumes at stage 2")
}
