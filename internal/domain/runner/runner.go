package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/kioskpilot/internal/domain/ledger"
	"github.com/felixgeelhaar/kioskpilot/internal/ports"
	"github.com/felixgeelhaar/statekit"
)

// ConfirmFunc is the reboot gate. It blocks until the operator acknowledges
// the pending reboot and reports whether to go ahead. Declining defers the
// reboot to the operator; the completed stage stays recorded, so the next
// invocation resumes at the following stage.
type ConfirmFunc func(ctx context.Context, message string) bool

// Rebooter triggers the system reboot that ends the invocation.
type Rebooter interface {
	Reboot(ctx context.Context) error
}

// Runner drives the stage table against the ledger. One Runner owns its
// ledger for the duration of one invocation; there is no concurrency
// inside the engine.
type Runner struct {
	ledger   ledger.Ledger
	stages   []Stage
	logger   ports.Logger
	confirm  ConfirmFunc
	reboot   Rebooter
	interp   *statekit.Interpreter[machineContext]
	progress machineContext
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger (default: discard).
func WithLogger(logger ports.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithConfirm sets the reboot confirmation gate (default: always proceed).
func WithConfirm(confirm ConfirmFunc) Option {
	return func(r *Runner) {
		r.confirm = confirm
	}
}

// WithRebooter sets the reboot trigger (default: none, the run ends
// normally and the operator reboots by hand).
func WithRebooter(rebooter Rebooter) Option {
	return func(r *Runner) {
		r.reboot = rebooter
	}
}

// New creates a Runner over the given ledger and stage table.
func New(led ledger.Ledger, stages []Stage, opts ...Option) *Runner {
	r := &Runner{
		ledger: led,
		stages: stages,
		logger: nopLogger{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Phase returns the engine's current coarse state.
func (r *Runner) Phase() Phase {
	if r.interp == nil {
		return PhaseIdle
	}
	return Phase(r.interp.State().Value)
}

// Position returns the ledger-derived stage number at the most recent
// phase transition: the stage about to run while running, the completed
// stage at a reboot, the failing stage after a failure.
func (r *Runner) Position() int {
	return r.progress.Stage
}

// Run executes one invocation of the engine: resume position is derived
// from the ledger, consecutive no-reboot stages chain in-process, and the
// invocation ends at a reboot, a failure, or overall completion. Returned
// results cover the stages attempted by this invocation only.
func (r *Runner) Run(ctx context.Context) ([]StageResult, error) {
	interp, err := buildRunnerMachine(&r.progress)
	if err != nil {
		return nil, fmt.Errorf("build state machine: %w", err)
	}
	r.interp = interp
	interp.Start()

	if err := r.ledger.Initialize(); err != nil {
		r.send(EventFail, 0)
		return nil, fmt.Errorf("initialize ledger: %w", err)
	}

	state, err := r.ledger.Current()
	if err != nil {
		r.send(EventFail, 0)
		if errors.Is(err, ledger.ErrCorrupt) {
			return nil, NewLedgerCorruptError(err)
		}
		return nil, err
	}

	// Branch 1: a prior invocation recorded a failure. Surface the stored
	// message verbatim and stop before any side effect.
	if !state.Last.Success() {
		r.send(EventFail, state.Last.Stage)
		r.logger.Error(ctx, "refusing to proceed, previous stage failed",
			ports.F("stage", state.Last.Stage),
			ports.F("message", state.Last.Outcome))
		return nil, NewPreviousStageFailureError(state.Last.Stage, state.Last.Outcome)
	}

	r.send(EventStart, state.Stage)

	var results []StageResult
	for {
		// Branch 2: table exhausted, terminal-complete.
		if state.Stage > len(r.stages) {
			r.send(EventComplete, state.Stage)
			r.logger.Info(ctx, "provisioning complete",
				ports.F("stages", len(r.stages)))
			return results, nil
		}

		stage := r.stages[state.Stage-1]
		result, err := r.runStage(ctx, state.Stage, stage)
		results = append(results, result)
		if err != nil {
			r.send(EventFail, state.Stage)
			return results, err
		}

		if stage.Post == PostReboot {
			r.send(EventReboot, state.Stage)
			results[len(results)-1] = result.WithRebooted(true)
			return results, r.rebootGate(ctx, stage)
		}

		r.send(EventStageOK, state.Stage+1)

		// Re-derive the position from the ledger rather than counting
		// locally; the record count is the only source of truth.
		state, err = r.ledger.Current()
		if err != nil {
			r.send(EventFail, state.Stage)
			return results, err
		}
	}
}

// runStage executes a stage's steps in order, stopping at the first
// failure, and appends the stage's ledger record.
func (r *Runner) runStage(ctx context.Context, num int, stage Stage) (StageResult, error) {
	log := r.logger.With(ports.F("stage", num), ports.F("name", stage.Name))
	log.Info(ctx, "stage starting", ports.F("steps", len(stage.Steps)))
	start := time.Now()

	for i, step := range stage.Steps {
		if err := r.applyStep(ctx, step); err != nil {
			message := err.Error()
			result := NewStageResult(num, stage.Name, message).
				WithStepsRun(i + 1).
				WithDuration(time.Since(start))

			if aerr := r.ledger.Append(ledger.StageRecord{Stage: num, Outcome: message}); aerr != nil {
				log.Error(ctx, "failed to record step failure", ports.F("error", aerr))
			}
			log.Error(ctx, "step failed",
				ports.F("step", step.ID()),
				ports.F("error", message))

			return result, NewStepFailedError(num, step.ID(), message, err)
		}
		log.Info(ctx, "step complete", ports.F("step", step.ID()))
	}

	result := NewStageResult(num, stage.Name, ledger.OutcomeOK).
		WithStepsRun(len(stage.Steps)).
		WithDuration(time.Since(start))

	if err := r.ledger.Append(ledger.StageRecord{Stage: num, Outcome: ledger.OutcomeOK}); err != nil {
		return result, fmt.Errorf("record stage %d success: %w", num, err)
	}
	log.Info(ctx, "stage complete")

	return result, nil
}

// applyStep runs one step under its timeout. A step that outlives its
// deadline surfaces as a normal step failure.
func (r *Runner) applyStep(ctx context.Context, step Step) error {
	timeout := stepTimeout(step)
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := step.Apply(stepCtx)
	if err != nil && errors.Is(stepCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s timed out after %s", step.ID(), timeout)
	}
	return err
}

// rebootGate holds at the confirmation gate, then triggers the reboot. The
// completed stage is already in the ledger, so whether the reboot happens
// now or later the next invocation resumes at the following stage.
func (r *Runner) rebootGate(ctx context.Context, stage Stage) error {
	r.logger.Info(ctx, "reboot required", ports.F("message", stage.RebootMessage))

	if r.confirm != nil && !r.confirm(ctx, stage.RebootMessage) {
		r.logger.Warn(ctx, "reboot deferred, re-run kioskpilot after rebooting manually")
		return nil
	}

	if r.reboot == nil {
		return nil
	}
	if err := r.reboot.Reboot(ctx); err != nil {
		return fmt.Errorf("trigger reboot: %w", err)
	}
	return nil
}

// send forwards an event carrying the stage position to the state machine.
func (r *Runner) send(event string, stage int) {
	if r.interp != nil {
		r.interp.Send(statekit.Event{Type: statekit.EventType(event), Payload: stage})
	}
}

// nopLogger is the default logger when none is configured.
type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...ports.Field) {}
func (nopLogger) Info(context.Context, string, ...ports.Field)  {}
func (nopLogger) Warn(context.Context, string, ...ports.Field)  {}
func (nopLogger) Error(context.Context, string, ...ports.Field) {}
func (nopLogger) With(...ports.Field) ports.Logger              { return nopLogger{} }
