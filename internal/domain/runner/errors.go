package runner

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorization.
const (
	ErrCodePrivilegeRequired    = "PRIVILEGE_REQUIRED"
	ErrCodeLedgerCorrupt        = "LEDGER_CORRUPT"
	ErrCodeStepFailed           = "STEP_FAILED"
	ErrCodePreviousStageFailed  = "PREVIOUS_STAGE_FAILED"
	ErrCodeLockHeld             = "LOCK_HELD"
	ErrCodeConfigInvalid        = "CONFIG_INVALID"
)

// UserError represents a user-facing failure with an actionable suggestion.
// Every fatal path of the engine surfaces one of these, carrying the stage
// number and stored message so the operator can diagnose from the terminal
// alone.
type UserError struct {
	Code       string // Error code for categorization (e.g. "STEP_FAILED")
	Message    string // User-facing error message
	Stage      int    // Stage the failure belongs to, 0 when not applicable
	Suggestion string // Actionable suggestion to fix the error
	Underlying error  // Wrapped error for error chain
}

// Error returns the formatted error message.
func (e *UserError) Error() string {
	if e.Stage > 0 {
		return fmt.Sprintf("stage %d: %s", e.Stage, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain support.
func (e *UserError) Unwrap() error {
	return e.Underlying
}

// Is supports errors.Is() for comparing error codes.
func (e *UserError) Is(target error) bool {
	if t, ok := target.(*UserError); ok {
		return e.Code == t.Code
	}
	return false
}

// Format returns a fully formatted error with all details.
func (e *UserError) Format() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Error())

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n  Suggestion: %s", e.Suggestion)
	}

	return b.String()
}

// NewPrivilegeError reports a missing elevation pre-flight failure.
func NewPrivilegeError() *UserError {
	return &UserError{
		Code:       ErrCodePrivilegeRequired,
		Message:    "kioskpilot must run as root",
		Suggestion: "Re-run with sudo. No changes were made.",
	}
}

// NewLedgerCorruptError reports an unreadable or seedless ledger.
func NewLedgerCorruptError(err error) *UserError {
	return &UserError{
		Code:       ErrCodeLedgerCorrupt,
		Message:    "the stage ledger is corrupt",
		Suggestion: "Run 'kioskpilot --reset' to discard provisioning state and start over.",
		Underlying: err,
	}
}

// NewStepFailedError reports a step failure within a stage.
func NewStepFailedError(stage int, stepID, message string, err error) *UserError {
	return &UserError{
		Code:       ErrCodeStepFailed,
		Message:    fmt.Sprintf("step %s failed: %s", stepID, message),
		Stage:      stage,
		Suggestion: "See logs.txt in the state directory for detail, fix the cause, then reset to retry.",
		Underlying: err,
	}
}

// NewPreviousStageFailureError surfaces a failure recorded by an earlier
// invocation, verbatim, so the operator need not open the log file.
func NewPreviousStageFailureError(stage int, message string) *UserError {
	return &UserError{
		Code:       ErrCodePreviousStageFailed,
		Message:    fmt.Sprintf("previous run failed: %s", message),
		Stage:      stage,
		Suggestion: "Fix the cause, then run 'kioskpilot --reset' to start over.",
	}
}

// NewLockHeldError reports a concurrent invocation holding the state lock.
func NewLockHeldError(err error) *UserError {
	return &UserError{
		Code:       ErrCodeLockHeld,
		Message:    "another kioskpilot invocation is already running",
		Suggestion: "Wait for it to finish, or remove the stale lock file if the process is gone.",
		Underlying: err,
	}
}

// NewConfigInvalidError reports a bad kiosk configuration.
func NewConfigInvalidError(message string, err error) *UserError {
	return &UserError{
		Code:       ErrCodeConfigInvalid,
		Message:    message,
		Suggestion: "Check kiosk.yaml against the documented fields.",
		Underlying: err,
	}
}

// GetUserError extracts a UserError from an error chain, if present.
func GetUserError(err error) *UserError {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue
	}
	return nil
}
