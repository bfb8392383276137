package dataset

import (
	"errors"
	"fmt"
)

// ErrNoBoundary is returned by the boundary scans when every card between
// the starting position and the end of the scan shares the reference set.
// Callers treat it as a quiet no-op, not a user-facing error.
var ErrNoBoundary = errors.New("no set boundary in scan direction")

// ParseError reports a rejected load. The previously loaded dataset is
// untouched when this is returned.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse dataset: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// OutOfRangeError reports an explicit ordinal jump outside the valid range.
// Requested carries the attempted value so the caller can render it; Min and
// Max are the bounds that were in force.
type OutOfRangeError struct {
	Requested int
	Min       int
	Max       int
}

func (e *OutOfRangeError) Error() string {
	if e.Requested < e.Min {
		return fmt.Sprintf("index %d is below the first card (index %d)", e.Requested, e.Min)
	}
	return fmt.Sprintf("index %d is past the last card (index %d)", e.Requested, e.Max)
}

// NotFoundError reports an identifier lookup that matched nothing.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no card with id %d", e.ID)
}

// NoSuchRelationError reports a relation field that is absent or whose shape
// does not match the request. Callers are expected to swallow it (disable
// the affordance) rather than show it.
type NoSuchRelationError struct {
	Relation string
}

func (e *NoSuchRelationError) Error() string {
	return fmt.Sprintf("card has no %s relation", e.Relation)
}
