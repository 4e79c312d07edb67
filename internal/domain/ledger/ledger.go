package ledger

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LedgerFile is the ledger file name inside the state directory.
const LedgerFile = "stage.txt"

// ErrCorrupt is returned when the ledger file exists but cannot be parsed,
// including the empty-file case left behind by a crashed initialize. A
// corrupt ledger never defaults to "fresh install"; the operator must reset.
var ErrCorrupt = errors.New("corrupt ledger")

// State is what the runner needs from the ledger on each invocation.
type State struct {
	// Stage is the stage about to run, derived purely from record count:
	// after the seed record alone it is 1.
	Stage int

	// Last is the most recently appended record. Only its outcome gates
	// execution.
	Last StageRecord

	// Records is the full history, oldest first.
	Records []StageRecord
}

// Ledger is the durable stage-outcome store consulted by the runner.
type Ledger interface {
	// Initialize ensures the backing store exists, writing the single
	// seed record when creating it. Idempotent.
	Initialize() error

	// Current reads the ledger and derives the resume position.
	Current() (State, error)

	// Append durably adds one record. Existing records are never
	// rewritten or deleted.
	Append(record StageRecord) error

	// Reset destroys the entire state directory, ledger and journal
	// included. Unrecoverable.
	Reset() error
}

// FileLedger implements Ledger as a line-oriented text file inside a
// dedicated state directory.
type FileLedger struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

// NewFileLedger creates a ledger rooted at the given state directory.
func NewFileLedger(dir string) *FileLedger {
	return &FileLedger{dir: dir, now: time.Now}
}

// WithClock overrides the ledger's clock. Intended for tests.
func (l *FileLedger) WithClock(now func() time.Time) *FileLedger {
	l.now = now
	return l
}

// Dir returns the state directory the ledger lives in.
func (l *FileLedger) Dir() string {
	return l.dir
}

// Path returns the ledger file path.
func (l *FileLedger) Path() string {
	return filepath.Join(l.dir, LedgerFile)
}

// Initialize ensures the state directory and ledger file exist. On first
// creation it writes exactly one seed record so the record count, and with
// it the current stage, starts at 1.
func (l *FileLedger) Initialize() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("create state directory %s: %w", l.dir, err)
	}

	if _, err := os.Stat(l.Path()); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat ledger %s: %w", l.Path(), err)
	}

	return l.appendLocked(SeedRecord(l.now()))
}

// Current reads every record and derives the resume position. The stage
// about to run equals the record count; it is never cached anywhere else.
func (l *FileLedger) Current() (State, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.readAll()
	if err != nil {
		return State{}, err
	}
	if len(records) == 0 {
		// Only possible when a crashed initialize left an empty file.
		return State{}, fmt.Errorf("%w: %s exists but holds no records", ErrCorrupt, l.Path())
	}

	return State{
		Stage:   len(records),
		Last:    records[len(records)-1],
		Records: records,
	}, nil
}

// Append durably adds one record to the ledger.
func (l *FileLedger) Append(record StageRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if record.Timestamp.IsZero() {
		record.Timestamp = l.now()
	}
	return l.appendLocked(record)
}

// Reset deletes the state directory and everything in it.
func (l *FileLedger) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.RemoveAll(l.dir); err != nil {
		return fmt.Errorf("remove state directory %s: %w", l.dir, err)
	}
	return nil
}

// appendLocked writes one line with O_APPEND and fsyncs before closing, so
// a crash mid-invocation cannot corrupt records already on disk.
func (l *FileLedger) appendLocked(record StageRecord) error {
	file, err := os.OpenFile(l.Path(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger %s: %w", l.Path(), err)
	}

	if _, err := file.WriteString(record.String() + "\n"); err != nil {
		_ = file.Close()
		return fmt.Errorf("append to ledger %s: %w", l.Path(), err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return fmt.Errorf("sync ledger %s: %w", l.Path(), err)
	}
	return file.Close()
}

// readAll parses the whole ledger, oldest record first.
func (l *FileLedger) readAll() ([]StageRecord, error) {
	file, err := os.Open(l.Path())
	if err != nil {
		// A missing ledger is "not initialized", which is distinct from
		// corruption: Initialize() handles it, and status output treats
		// it as an empty history.
		return nil, fmt.Errorf("open ledger %s: %w", l.Path(), err)
	}
	defer func() { _ = file.Close() }()

	var records []StageRecord
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		record, err := parseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", l.Path(), err)
	}

	return records, nil
}

// MemoryLedger implements Ledger in memory (for testing).
type MemoryLedger struct {
	mu          sync.Mutex
	records     []StageRecord
	initialized bool
	now         func() time.Time
}

// NewMemoryLedger creates a new in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{now: time.Now}
}

// Initialize seeds the ledger on first call.
func (l *MemoryLedger) Initialize() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.initialized {
		l.records = append(l.records, SeedRecord(l.now()))
		l.initialized = true
	}
	return nil
}

// Current derives the resume position from the in-memory records.
func (l *MemoryLedger) Current() (State, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.records) == 0 {
		return State{}, fmt.Errorf("%w: no records", ErrCorrupt)
	}
	records := make([]StageRecord, len(l.records))
	copy(records, l.records)
	return State{
		Stage:   len(records),
		Last:    records[len(records)-1],
		Records: records,
	}, nil
}

// Append adds one record.
func (l *MemoryLedger) Append(record StageRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if record.Timestamp.IsZero() {
		record.Timestamp = l.now()
	}
	l.records = append(l.records, record)
	return nil
}

// Reset clears all records.
func (l *MemoryLedger) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
	l.initialized = false
	return nil
}

// Ensure implementations satisfy Ledger.
var (
	_ Ledger = (*FileLedger)(nil)
	_ Ledger = (*MemoryLedger)(nil)
)
