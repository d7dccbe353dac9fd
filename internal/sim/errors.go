package sim

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrTeamNotFound  = errors.New("team not found")
)

// ValidationError reports that an assembled result violated its own schema
// invariants. It indicates a defect in the engine, so the result is never
// patched or returned alongside it.
type ValidationError struct {
	MatchID    string
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("result for match %s failed validation: %s", e.MatchID, strings.Join(e.Violations, "; "))
}

// PersistenceError reports a failed store write. Under transaction mode the
// whole result is discarded with it; outside transaction mode the caller
// still receives the computed result and this error separately.
type PersistenceError struct {
	MatchID string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting result for match %s: %v", e.MatchID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
