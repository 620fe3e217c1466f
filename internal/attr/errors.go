package attr

import "errors"

var (
	// ErrUnknownGroup is returned when a group id outside the closed set is
	// encountered. Renderers index a fixed style table by id, so it is never
	// skipped silently.
	ErrUnknownGroup = errors.New("unknown highlight group")

	// ErrDanglingSentinel means an encoded stream ended right after a sentinel.
	ErrDanglingSentinel = errors.New("sentinel byte without group id")

	// ErrSentinelInText means visible text contains the sentinel byte and
	// cannot be encoded unambiguously.
	ErrSentinelInText = errors.New("visible text contains the sentinel byte")

	// ErrInvalidRange is returned for inverted or out-of-bounds logical ranges.
	ErrInvalidRange = errors.New("invalid logical range")

	// ErrUnorderedMarks is returned by NewLine when marks are not sorted by
	// offset or fall outside the text.
	ErrUnorderedMarks = errors.New("marks out of order or out of bounds")
)
