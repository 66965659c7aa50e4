package thresh

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrShapeMismatch indicates two paired vectors differ in length.
	ErrShapeMismatch = errors.New("thresh: length mismatch")

	// ErrInvalidLabel indicates a label vector holds a value other than 0 or 1.
	ErrInvalidLabel = errors.New("thresh: label must be 0 or 1")

	// ErrEmptyResults indicates selection or summary over no results.
	ErrEmptyResults = errors.New("thresh: empty results")

	// ErrNoEligible indicates no threshold satisfied a selection constraint.
	ErrNoEligible = errors.New("thresh: no eligible threshold")
)

// ShapeError reports a length mismatch between the truth vector and the
// vector paired with it.
type ShapeError struct {
	Op    string // operation that detected the mismatch
	Other string // name of the vector paired with truth
	Truth int
	Got   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("thresh: %s: length mismatch: truth has %d elements, %s has %d",
		e.Op, e.Truth, e.Other, e.Got)
}

func (e *ShapeError) Unwrap() error { return ErrShapeMismatch }

// LabelError reports the first non-binary value found in a label vector.
type LabelError struct {
	Vector string
	Index  int
	Value  int
}

func (e *LabelError) Error() string {
	return fmt.Sprintf("thresh: %s[%d] = %d: label must be 0 or 1", e.Vector, e.Index, e.Value)
}

func (e *LabelError) Unwrap() error { return ErrInvalidLabel }

// NoEligibleError reports that no result reached the requested recall floor.
type NoEligibleError struct {
	MinRecall float64
}

func (e *NoEligibleError) Error() string {
	return fmt.Sprintf("thresh: no thresholds achieve recall >= %g", e.MinRecall)
}

func (e *NoEligibleError) Unwrap() error { return ErrNoEligible }
