// Package app wires the provisioning engine together: ledger, journal,
// lock, stage table and runner.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/kioskpilot/internal/adapters/command"
	"github.com/felixgeelhaar/kioskpilot/internal/adapters/logging"
	"github.com/felixgeelhaar/kioskpilot/internal/adapters/system"
	"github.com/felixgeelhaar/kioskpilot/internal/domain/kiosk"
	"github.com/felixgeelhaar/kioskpilot/internal/domain/ledger"
	"github.com/felixgeelhaar/kioskpilot/internal/domain/privilege"
	"github.com/felixgeelhaar/kioskpilot/internal/domain/runner"
	"github.com/felixgeelhaar/kioskpilot/internal/ports"
)

// Default locations on the appliance.
const (
	DefaultStateDir   = "/var/lib/kioskpilot"
	DefaultConfigPath = "/etc/kioskpilot/kiosk.yaml"
)

// Kioskpilot is the application orchestrator.
type Kioskpilot struct {
	out        io.Writer
	stateDir   string
	configPath string
	cmdRunner  ports.CommandRunner
	rebooter   runner.Rebooter
	confirm    runner.ConfirmFunc
}

// Option configures the application.
type Option func(*Kioskpilot)

// WithStateDir overrides the state directory.
func WithStateDir(dir string) Option {
	return func(k *Kioskpilot) {
		k.stateDir = dir
	}
}

// WithConfigPath overrides the kiosk.yaml location.
func WithConfigPath(path string) Option {
	return func(k *Kioskpilot) {
		k.configPath = path
	}
}

// WithCommandRunner overrides the command runner. Intended for tests.
func WithCommandRunner(r ports.CommandRunner) Option {
	return func(k *Kioskpilot) {
		k.cmdRunner = r
	}
}

// WithRebooter overrides the reboot trigger. Intended for tests.
func WithRebooter(r runner.Rebooter) Option {
	return func(k *Kioskpilot) {
		k.rebooter = r
	}
}

// WithConfirm sets the reboot confirmation gate.
func WithConfirm(confirm runner.ConfirmFunc) Option {
	return func(k *Kioskpilot) {
		k.confirm = confirm
	}
}

// New creates the application with real adapters.
func New(out io.Writer, opts ...Option) *Kioskpilot {
	cmdRunner := command.NewRealRunner()

	k := &Kioskpilot{
		out:        out,
		stateDir:   DefaultStateDir,
		configPath: DefaultConfigPath,
		cmdRunner:  cmdRunner,
		rebooter:   system.NewExecRebooter(cmdRunner),
	}

	for _, opt := range opts {
		opt(k)
	}

	return k
}

// Provision runs or resumes the staged provisioning sequence. It holds the
// state-directory lock for the whole invocation and logs to both console
// and journal.
func (k *Kioskpilot) Provision(ctx context.Context) error {
	if !privilege.IsElevated() {
		return runner.NewPrivilegeError()
	}

	cfg, err := kiosk.Load(k.configPath)
	if err != nil {
		return runner.NewConfigInvalidError(err.Error(), err)
	}

	lock, err := ledger.Acquire(k.stateDir)
	if err != nil {
		if errors.Is(err, ledger.ErrLocked) {
			return runner.NewLockHeldError(err)
		}
		return err
	}
	defer func() { _ = lock.Release() }()

	journal, err := logging.OpenJournal(k.stateDir)
	if err != nil {
		return err
	}
	defer func() { _ = journal.Close() }()

	log := logging.NewTeeLogger(
		logging.NewConsoleLogger(logging.WithOutput(k.out)),
		journal,
	).With(ports.F("run", uuid.NewString()[:8]))

	led := ledger.NewFileLedger(k.stateDir)
	eng := runner.New(led, BuildStages(cfg, k.cmdRunner),
		runner.WithLogger(log),
		runner.WithConfirm(k.confirm),
		runner.WithRebooter(k.rebooter),
	)

	results, err := eng.Run(ctx)
	log.Info(ctx, "invocation finished",
		ports.F("phase", string(eng.Phase())),
		ports.F("stage", eng.Position()))
	k.printResults(results)
	return err
}

// Reset destroys all provisioning state: ledger, journal and lock. It
// takes the state-directory lock first so it cannot pull the ledger out
// from under an active run.
func (k *Kioskpilot) Reset() error {
	if !privilege.IsElevated() {
		return runner.NewPrivilegeError()
	}

	lock, err := ledger.Acquire(k.stateDir)
	if err != nil {
		if errors.Is(err, ledger.ErrLocked) {
			return runner.NewLockHeldError(err)
		}
		return err
	}
	// Reset removes the lock file along with the directory; Release after
	// that is a no-op.
	defer func() { _ = lock.Release() }()

	led := ledger.NewFileLedger(k.stateDir)
	if err := led.Reset(); err != nil {
		return err
	}
	fmt.Fprintf(k.out, "Provisioning state removed from %s\n", k.stateDir)
	return nil
}

// History returns the full ledger history for status output. A missing
// ledger yields an empty history, not an error.
func (k *Kioskpilot) History() ([]ledger.StageRecord, error) {
	led := ledger.NewFileLedger(k.stateDir)
	state, err := led.Current()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		if errors.Is(err, ledger.ErrCorrupt) {
			return nil, runner.NewLedgerCorruptError(err)
		}
		return nil, err
	}
	return state.Records, nil
}

// printResults summarizes the stages attempted by this invocation.
func (k *Kioskpilot) printResults(results []runner.StageResult) {
	for _, r := range results {
		status := "ok"
		if r.Outcome() != ledger.OutcomeOK {
			status = "failed"
		}
		suffix := ""
		if r.Rebooted() {
			suffix = " (reboot pending)"
		}
		fmt.Fprintf(k.out, "stage %d %-14s %s%s\n", r.Stage(), r.Name(), status, suffix)
	}
}
