// Package runner implements the resumable staged-execution engine. A stage
// table is an ordered list of stages; each stage is an ordered list of
// idempotent steps plus a post-condition (nothing, or a mandatory reboot).
// The engine consults the stage ledger for its resume position, never
// repeats a completed stage, and fails loudly with the recorded message
// when a previous attempt went wrong.
package runner

import (
	"context"
	"time"
)

// DefaultStepTimeout bounds a step that declares no timeout of its own. A
// hung package mirror or firmware tool surfaces as an ordinary step
// failure instead of wedging the whole run.
const DefaultStepTimeout = 30 * time.Minute

// Step is one provisioning action within a stage. Steps are written to be
// idempotent: re-running an already-applied step is a no-op. The engine
// only consumes the error outcome; everything else about a step is opaque.
type Step interface {
	// ID returns a short identifier used in logs and failure messages.
	ID() string

	// Apply executes the step. The context carries the step deadline.
	Apply(ctx context.Context) error
}

// TimedStep extends Step with an explicit per-step timeout. Steps that do
// not implement it get DefaultStepTimeout.
type TimedStep interface {
	Step

	// Timeout returns the maximum duration Apply may take.
	Timeout() time.Duration
}

// stepTimeout resolves the effective timeout for a step.
func stepTimeout(step Step) time.Duration {
	if ts, ok := step.(TimedStep); ok {
		if d := ts.Timeout(); d > 0 {
			return d
		}
	}
	return DefaultStepTimeout
}

// Post is a stage post-condition.
type Post int

const (
	// PostNone lets the runner continue with the next stage in the same
	// invocation.
	PostNone Post = iota

	// PostReboot requires a system reboot before the next stage. The
	// runner gates the reboot on operator confirmation and the process
	// ends with the reboot.
	PostReboot
)

// Stage is one ordered group of steps gated by the ledger.
type Stage struct {
	// Name labels the stage in logs and status output.
	Name string

	// Steps run in order; the first failure stops the stage.
	Steps []Step

	// Post is what happens after the stage succeeds.
	Post Post

	// RebootMessage is shown at the confirmation gate when Post is
	// PostReboot.
	RebootMessage string
}

// FuncStep adapts a function to the Step interface.
type FuncStep struct {
	id      string
	timeout time.Duration
	fn      func(ctx context.Context) error
}

// NewFuncStep creates a Step from a function.
func NewFuncStep(id string, fn func(ctx context.Context) error) *FuncStep {
	return &FuncStep{id: id, fn: fn}
}

// WithTimeout returns the step with an explicit timeout.
func (s *FuncStep) WithTimeout(d time.Duration) *FuncStep {
	return &FuncStep{id: s.id, timeout: d, fn: s.fn}
}

// ID returns the step identifier.
func (s *FuncStep) ID() string { return s.id }

// Timeout returns the explicit timeout, or zero for the default.
func (s *FuncStep) Timeout() time.Duration { return s.timeout }

// Apply runs the wrapped function.
func (s *FuncStep) Apply(ctx context.Context) error { return s.fn(ctx) }

// Ensure FuncStep implements TimedStep.
var _ TimedStep = (*FuncStep)(nil)
