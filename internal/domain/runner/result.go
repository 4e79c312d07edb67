package runner

import "time"

// StageResult captures the outcome of one stage attempt within an
// invocation.
type StageResult struct {
	stage    int
	name     string
	outcome  string
	stepsRun int
	rebooted bool
	duration time.Duration
}

// NewStageResult creates a new StageResult.
func NewStageResult(stage int, name, outcome string) StageResult {
	return StageResult{stage: stage, name: name, outcome: outcome}
}

// Stage returns the stage number.
func (r StageResult) Stage() int { return r.stage }

// Name returns the stage name.
func (r StageResult) Name() string { return r.name }

// Outcome returns the recorded outcome string.
func (r StageResult) Outcome() string { return r.outcome }

// StepsRun returns how many steps executed before the stage ended.
func (r StageResult) StepsRun() int { return r.stepsRun }

// Rebooted reports whether the stage ended in a reboot request.
func (r StageResult) Rebooted() bool { return r.rebooted }

// Duration returns how long the stage took.
func (r StageResult) Duration() time.Duration { return r.duration }

// WithStepsRun returns a new StageResult with the step count set.
func (r StageResult) WithStepsRun(n int) StageResult {
	r.stepsRun = n
	return r
}

// WithRebooted returns a new StageResult marked as reboot-terminated.
func (r StageResult) WithRebooted(rebooted bool) StageResult {
	r.rebooted = rebooted
	return r
}

// WithDuration returns a new StageResult with duration set.
func (r StageResult) WithDuration(d time.Duration) StageResult {
	r.duration = d
	return r
}
