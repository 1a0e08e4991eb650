package drawmatch

import (
	"errors"
	"fmt"

	"github.com/hupe1980/drawmatch/ingest"
	"github.com/hupe1980/drawmatch/internal/snapshot"
	"github.com/hupe1980/drawmatch/scanner"
	"github.com/hupe1980/drawmatch/selection"
)

var (
	// ErrInvalidSelection is returned for selections with values outside
	// 1..90 or repeated values.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrParse is returned when a line does not hold five integers.
	ErrParse = errors.New("unparsable line")

	// ErrCapacityExceeded is returned when a load would exceed the player capacity.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrAllocationFailed is returned when storage for more players cannot be reserved.
	ErrAllocationFailed = errors.New("allocation failed")

	// ErrNotReady is returned for queries before the database is sealed.
	ErrNotReady = errors.New("database not ready")

	// ErrSealed is returned for loads after the database is sealed.
	ErrSealed = errors.New("database sealed")

	// ErrCorruptSnapshot is returned when a snapshot fails validation.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

// LoadError reports a load-stopping error at a specific input line.
//
// The original underlying error can be accessed via errors.Unwrap.
type LoadError struct {
	Line  int
	Err   error
	cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load failed at line %d: %v", e.Line, e.Err)
}

func (e *LoadError) Unwrap() []error { return []error{e.Err, e.cause} }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var le *ingest.LineError
	if errors.As(err, &le) {
		return &LoadError{Line: le.Line, Err: translateError(le.Err), cause: err}
	}

	switch {
	case errors.Is(err, scanner.ErrCapacityExceeded):
		return fmt.Errorf("%w: %w", ErrCapacityExceeded, err)
	case errors.Is(err, scanner.ErrAllocationFailed):
		return fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	case errors.Is(err, scanner.ErrNotReady):
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	case errors.Is(err, scanner.ErrSealed):
		return fmt.Errorf("%w: %w", ErrSealed, err)
	case errors.Is(err, selection.ErrInvalidSelection):
		return fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	case errors.Is(err, selection.ErrParse):
		return fmt.Errorf("%w: %w", ErrParse, err)
	case errors.Is(err, snapshot.ErrCorrupt):
		return fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	return err
}
