// Package skein provides the change-tracking and undo/redo layer for a
// collaboratively-edited segment sequence, together with a sparse
// two-dimensional addressing scheme built on top of that sequence.
//
// Local edits are recorded into Revertibles through tracking groups, so an
// edit can still be reversed after concurrent remote edits have split,
// merged, or removed the segments it touched. Remote edits are never
// touched by a revert.
package skein

import "errors"

// Segment errors
var (
	// ErrKindMismatch indicates an append between segments of different kinds.
	ErrKindMismatch = errors.New("cannot append segments of different kinds")

	// ErrInvalidOffset indicates a split or range offset outside the segment.
	ErrInvalidOffset = errors.New("offset out of segment bounds")

	// ErrUnrecognizedSegment indicates a serialized shape matching no known kind.
	ErrUnrecognizedSegment = errors.New("unrecognized serialized segment shape")

	// ErrTagOnPadding indicates an attempt to write a defined tag onto padding.
	ErrTagOnPadding = errors.New("cannot write tag onto padding segment")
)

// Sequence errors
var (
	// ErrInvalidPosition indicates a position outside the sequence.
	ErrInvalidPosition = errors.New("position out of bounds")

	// ErrSegmentNotFound indicates that a segment is not part of the sequence.
	ErrSegmentNotFound = errors.New("segment not found in sequence")

	// ErrGroupNested indicates a grouped operation opened inside another one.
	ErrGroupNested = errors.New("grouped operation already in progress")
)

// Revert errors
var (
	// ErrUnsupportedOperation indicates an operation kind this layer cannot
	// invert; it signals a version mismatch with the sequence engine.
	ErrUnsupportedOperation = errors.New("unsupported operation kind")
)

// Stack errors
var (
	// ErrNothingToUndo indicates an empty undo stack.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates an empty redo stack.
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Matrix errors
var (
	// ErrRowRange indicates a row outside [0, MaxRows).
	ErrRowRange = errors.New("row out of range")

	// ErrColRange indicates a column outside [0, MaxCols).
	ErrColRange = errors.New("column out of range")
)
