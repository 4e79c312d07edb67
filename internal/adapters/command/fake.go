package command

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/kioskpilot/internal/ports"
)

// FakeRunner records invocations and returns scripted results. Intended for
// tests; step bodies never touch the host through it.
type FakeRunner struct {
	mu      sync.Mutex
	calls   []ports.CommandCall
	results map[string]ports.CommandResult
	errs    map[string]error
}

// NewFakeRunner creates an empty FakeRunner. Unscripted commands succeed
// with exit code 0 and empty output.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		results: make(map[string]ports.CommandResult),
		errs:    make(map[string]error),
	}
}

// Script sets the result returned for a command name.
func (f *FakeRunner) Script(command string, result ports.CommandResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[command] = result
}

// ScriptError sets the error returned for a command name.
func (f *FakeRunner) ScriptError(command string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[command] = err
}

// Run records the call and returns the scripted result, if any.
func (f *FakeRunner) Run(_ context.Context, command string, args ...string) (ports.CommandResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, ports.CommandCall{Command: command, Args: args})

	if err, ok := f.errs[command]; ok {
		return ports.CommandResult{ExitCode: 1}, err
	}
	if result, ok := f.results[command]; ok {
		return result, nil
	}
	return ports.CommandResult{}, nil
}

// Calls returns a copy of all recorded invocations.
func (f *FakeRunner) Calls() []ports.CommandCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := make([]ports.CommandCall, len(f.calls))
	copy(calls, f.calls)
	return calls
}

// CalledWith reports whether a command with the given name was run.
func (f *FakeRunner) CalledWith(command string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c.Command == command {
			return true
		}
	}
	return false
}

// Ensure FakeRunner implements ports.CommandRunner.
var _ ports.CommandRunner = (*FakeRunner)(nil)
