// Package ledger implements the durable append-only record of stage
// outcomes. The ledger is the sole source of truth for where a
// provisioning run resumes: the current stage number is always the record
// count, and only the last record's outcome decides whether execution may
// proceed. Earlier records are audit trail.
package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// OutcomeOK is the literal success marker stored in the ledger. Any other
// outcome string is a free-form failure message.
const OutcomeOK = "ok"

// StageRecord is one ledger entry reporting on a single stage attempt.
type StageRecord struct {
	// Timestamp is when the record was appended.
	Timestamp time.Time

	// Stage is the stage number this record reports on. The synthetic
	// seed record carries stage 0.
	Stage int

	// Outcome is OutcomeOK or a failure message.
	Outcome string
}

// Success reports whether the record marks a successful stage.
func (r StageRecord) Success() bool {
	return r.Outcome == OutcomeOK
}

// SeedRecord returns the synthetic first entry meaning "stage 0 complete,
// safe to enter stage 1".
func SeedRecord(now time.Time) StageRecord {
	return StageRecord{Timestamp: now, Stage: 0, Outcome: OutcomeOK}
}

// recordSeparator delimits the three fields of a ledger line. The format
// stays plain text so a field engineer can read and diff it directly.
const recordSeparator = " | "

// String renders the record as one ledger line (without newline). The
// outcome is flattened to a single line: step failures embed tool stderr,
// which is routinely multi-line, and a raw line break would split the
// record across ledger lines.
func (r StageRecord) String() string {
	return r.Timestamp.Format(time.RFC3339) + recordSeparator +
		"stage " + strconv.Itoa(r.Stage) + recordSeparator +
		flattenOutcome(r.Outcome)
}

// flattenOutcome replaces line breaks in an outcome with single spaces.
func flattenOutcome(outcome string) string {
	outcome = strings.ReplaceAll(outcome, "\r\n", " ")
	outcome = strings.ReplaceAll(outcome, "\n", " ")
	return strings.ReplaceAll(outcome, "\r", " ")
}

// parseRecord parses one ledger line. Failure messages may themselves
// contain the separator, so the line is split at most twice and the
// remainder is taken verbatim as the outcome. Outcomes are single-line by
// construction: String flattens line breaks before writing.
func parseRecord(line string) (StageRecord, error) {
	parts := strings.SplitN(line, recordSeparator, 3)
	if len(parts) != 3 {
		return StageRecord{}, fmt.Errorf("malformed ledger line %q", line)
	}

	ts, err := time.Parse(time.RFC3339, parts[0])
	if err != nil {
		return StageRecord{}, fmt.Errorf("malformed timestamp in ledger line %q: %w", line, err)
	}

	label := strings.TrimPrefix(parts[1], "stage ")
	stage, err := strconv.Atoi(label)
	if err != nil || stage < 0 {
		return StageRecord{}, fmt.Errorf("malformed stage label in ledger line %q", line)
	}

	return StageRecord{Timestamp: ts, Stage: stage, Outcome: parts[2]}, nil
}
