package ledger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LockFile is the advisory lock file name inside the state directory.
const LockFile = "kioskpilot.lock"

// ErrLocked is returned when another invocation already holds the state
// directory lock.
var ErrLocked = errors.New("state directory is locked")

// Lock is an exclusive advisory lock scoped to the state directory, held
// for the duration of one invocation. It guards against two runners
// interleaving appends into the same ledger.
type Lock struct {
	path string
	held bool
}

// Acquire takes the lock for the given state directory. The lock file is
// created with O_EXCL and carries the holder's pid so a second invocation
// can report who owns it.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, LockFile)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w: held by pid %s (%s)", ErrLocked, holderPid(path), path)
		}
		return nil, fmt.Errorf("create lock file %s: %w", path, err)
	}

	_, werr := file.WriteString(strconv.Itoa(os.Getpid()) + "\n")
	cerr := file.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write lock file %s: %w", path, errors.Join(werr, cerr))
	}

	return &Lock{path: path, held: true}, nil
}

// Release removes the lock file. Safe to call more than once.
func (l *Lock) Release() error {
	if !l.held {
		return nil
	}
	l.held = false
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock file %s: %w", l.path, err)
	}
	return nil
}

// holderPid reads the pid stored in an existing lock file, or "unknown".
func holderPid(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return "unknown"
	}
	pid := strings.TrimSpace(string(data))
	if pid == "" {
		return "unknown"
	}
	return pid
}
