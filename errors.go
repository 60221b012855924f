package gridcore

import "github.com/olekukonko/errors"

// Configuration errors. Operations that hit these degrade to no-ops and
// log; the sentinels exist for callers that ask the engine directly.
var (
	// ErrUnknownColumn indicates a column id that is not in the set.
	ErrUnknownColumn = errors.New("unknown column id")

	// ErrColumnFixed indicates a resize against a non-resizable neighbor.
	ErrColumnFixed = errors.New("column is not resizable")
)

// Measurement errors. Recoverable, expected states: the caller retries
// after the next layout pass.
var (
	// ErrNotMounted indicates measurement was requested before the
	// container is mounted and sized.
	ErrNotMounted = errors.New("measurement surface not ready")
)
