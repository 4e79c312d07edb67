// Package integration exercises the full provisioning engine across
// simulated reboot boundaries: each invocation gets a fresh runner over the
// same on-disk state directory, just like the real binary after a reboot.
package integration

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/kioskpilot/internal/domain/ledger"
	"github.com/felixgeelhaar/kioskpilot/internal/domain/runner"
)

// boardSim tracks side effects applied to a pretend appliance.
type boardSim struct {
	applied []string
	reboots int
}

func (b *boardSim) Reboot(context.Context) error {
	b.reboots++
	return nil
}

func (b *boardSim) step(id string) runner.Step {
	return runner.NewFuncStep(id, func(context.Context) error {
		b.applied = append(b.applied, id)
		return nil
	})
}

// stages builds a five-stage table shaped like the real one: three stages
// that end in a reboot, then two that chain in-process.
func (b *boardSim) stages() []runner.Stage {
	return []runner.Stage{
		{Name: "system-update", Steps: []runner.Step{b.step("update"), b.step("upgrade")}, Post: runner.PostReboot, RebootMessage: "reboot 1"},
		{Name: "firmware", Steps: []runner.Step{b.step("eeprom")}, Post: runner.PostReboot, RebootMessage: "reboot 2"},
		{Name: "display", Steps: []runner.Step{b.step("display")}, Post: runner.PostReboot, RebootMessage: "reboot 3"},
		{Name: "kiosk-shell", Steps: []runner.Step{b.step("browser"), b.step("script")}, Post: runner.PostNone},
		{Name: "autostart", Steps: []runner.Step{b.step("desktop-entry")}, Post: runner.PostNone},
	}
}

func invoke(t *testing.T, dir string, board *boardSim) ([]runner.StageResult, error) {
	t.Helper()
	eng := runner.New(ledger.NewFileLedger(dir), board.stages(),
		runner.WithRebooter(board),
		runner.WithConfirm(func(context.Context, string) bool { return true }),
	)
	return eng.Run(context.Background())
}

func TestProvisioningRunsToCompletionAcrossReboots(t *testing.T) {
	dir := t.TempDir()
	board := &boardSim{}

	// Three invocations each complete one rebooting stage.
	for i := 1; i <= 3; i++ {
		results, err := invoke(t, dir, board)
		require.NoError(t, err, "invocation %d", i)
		require.Len(t, results, 1, "invocation %d runs exactly one stage", i)
		assert.Equal(t, i, results[0].Stage())
		assert.True(t, results[0].Rebooted())
	}
	assert.Equal(t, 3, board.reboots)

	// The fourth invocation chains the two remaining stages in-process.
	results, err := invoke(t, dir, board)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "kiosk-shell", results[0].Name())
	assert.Equal(t, "autostart", results[1].Name())
	assert.Equal(t, 3, board.reboots, "no reboot after the final stages")

	assert.Equal(t, []string{
		"update", "upgrade", "eeprom", "display", "browser", "script", "desktop-entry",
	}, board.applied, "every step ran exactly once, in order")

	// Completion is terminal: further invocations do nothing and succeed.
	before := len(board.applied)
	results, err = invoke(t, dir, board)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, before, len(board.applied))

	state, err := ledger.NewFileLedger(dir).Current()
	require.NoError(t, err)
	assert.Equal(t, 6, state.Stage, "seed plus five completed stages")
}

func TestStepFailureStopsEverythingUntilReset(t *testing.T) {
	dir := t.TempDir()
	board := &boardSim{}

	// Get past stage 1, then break stage 2.
	_, err := invoke(t, dir, board)
	require.NoError(t, err)

	broken := board.stages()
	broken[1].Steps = []runner.Step{
		runner.NewFuncStep("eeprom", func(context.Context) error {
			return errors.New("write failed: EEPROM verify mismatch")
		}),
	}
	eng := runner.New(ledger.NewFileLedger(dir), broken, runner.WithRebooter(board))
	_, err = eng.Run(context.Background())

	ue := runner.GetUserError(err)
	require.NotNil(t, ue)
	assert.Equal(t, runner.ErrCodeStepFailed, ue.Code)
	assert.Equal(t, 2, ue.Stage)

	// Every later invocation fail-stops with the stored message, verbatim,
	// and applies nothing.
	for i := 0; i < 2; i++ {
		before := len(board.applied)
		_, err := invoke(t, dir, board)
		ue := runner.GetUserError(err)
		require.NotNil(t, ue, "invocation after failure must error")
		assert.Equal(t, runner.ErrCodePreviousStageFailed, ue.Code)
		assert.Contains(t, ue.Message, "EEPROM verify mismatch")
		assert.Equal(t, before, len(board.applied), "fail-stop must have zero side effects")
	}

	// Reset is the only recovery: state restarts from stage 1.
	led := ledger.NewFileLedger(dir)
	require.NoError(t, led.Reset())

	fresh := &boardSim{}
	results, err := invoke(t, dir, fresh)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Stage())
	assert.Equal(t, []string{"update", "upgrade"}, fresh.applied)
}

func TestCorruptLedgerRefusesToRun(t *testing.T) {
	dir := t.TempDir()
	board := &boardSim{}
	_, err := invoke(t, dir, board)
	require.NoError(t, err)

	// Scribble over the ledger between invocations.
	led := ledger.NewFileLedger(dir)
	require.NoError(t, corruptFile(led.Path()))

	before := len(board.applied)
	_, err = invoke(t, dir, board)
	ue := runner.GetUserError(err)
	require.NotNil(t, ue)
	assert.Equal(t, runner.ErrCodeLedgerCorrupt, ue.Code)
	assert.Equal(t, before, len(board.applied))
}

func TestConcurrentInvocationBlockedByLock(t *testing.T) {
	dir := t.TempDir()

	lock, err := ledger.Acquire(dir)
	require.NoError(t, err)
	defer func() { _ = lock.Release() }()

	_, err = ledger.Acquire(dir)
	assert.ErrorIs(t, err, ledger.ErrLocked)

	require.NoError(t, lock.Release())
	again, err := ledger.Acquire(dir)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func corruptFile(path string) error {
	return os.WriteFile(path, []byte("this is not a ledger line\n"), 0o644)
}
