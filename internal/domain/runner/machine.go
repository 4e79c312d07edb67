package runner

import (
	"github.com/felixgeelhaar/statekit"
)

// Phase is the engine's coarse state, tracked by a statekit machine. The
// fine-grained position (which stage is next) lives in the ledger alone;
// the machine only mirrors the control-flow branch the invocation is in.
type Phase string

const (
	// PhaseIdle is the state before the ledger has been consulted.
	PhaseIdle Phase = "idle"
	// PhaseRunning indicates stage steps are executing.
	PhaseRunning Phase = "running"
	// PhaseRebooting indicates a stage completed and the process is about
	// to end in a reboot.
	PhaseRebooting Phase = "rebooting"
	// PhaseComplete indicates every stage in the table has succeeded.
	PhaseComplete Phase = "complete"
	// PhaseFailed is terminal-fatal: a step failed or a previous failure
	// was found in the ledger. Only an out-of-band reset leaves it.
	PhaseFailed Phase = "failed"
)

// Event types for the runner state machine. Every event carries the
// ledger-derived stage number as its payload.
const (
	EventStart    = "START"
	EventStageOK  = "STAGE_OK"
	EventReboot   = "REBOOT"
	EventComplete = "COMPLETE"
	EventFail     = "FAIL"
)

// machineContext tracks the stage position at the most recent phase
// transition. Actions mutate it through a captured pointer so the value
// observed via Runner.Position stays current; the machine's own context
// snapshot is initialization-only.
type machineContext struct {
	Stage int
}

// buildRunnerMachine constructs the engine state machine. The recordStage
// action copies each event's stage payload into progress on phase entry.
func buildRunnerMachine(progress *machineContext) (*statekit.Interpreter[machineContext], error) {
	machine, err := statekit.NewMachine[machineContext]("kioskpilot-runner").
		WithInitial(statekit.StateID(PhaseIdle)).
		WithContext(machineContext{}).
		WithAction("recordStage", func(_ *machineContext, event statekit.Event) {
			if stage, ok := event.Payload.(int); ok {
				progress.Stage = stage
			}
		}).
		State(statekit.StateID(PhaseIdle)).
		On(EventStart).Target(statekit.StateID(PhaseRunning)).
		On(EventComplete).Target(statekit.StateID(PhaseComplete)).
		On(EventFail).Target(statekit.StateID(PhaseFailed)).Done().
		State(statekit.StateID(PhaseRunning)).
		OnEntry("recordStage").
		On(EventStageOK).Target(statekit.StateID(PhaseRunning)).
		On(EventReboot).Target(statekit.StateID(PhaseRebooting)).
		On(EventComplete).Target(statekit.StateID(PhaseComplete)).
		On(EventFail).Target(statekit.StateID(PhaseFailed)).Done().
		State(statekit.StateID(PhaseRebooting)).
		OnEntry("recordStage").Done().
		State(statekit.StateID(PhaseComplete)).
		OnEntry("recordStage").Done().
		State(statekit.StateID(PhaseFailed)).
		OnEntry("recordStage").Done().
		Build()

	if err != nil {
		return nil, err
	}

	return statekit.NewInterpreter(machine), nil
}
