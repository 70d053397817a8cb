package dfir

import "errors"

// Public error values for the dfir package.
var (
	// ErrInvalidArgument indicates a programmer error: a nil/empty tap
	// vector, a non-positive decimation factor, an undersized output
	// buffer, or pushing the same buffer object twice.
	ErrInvalidArgument = errors.New("dfir: invalid argument")

	// ErrBusy indicates Push was called while both buffer slots were
	// already occupied. It is expected back-pressure: the caller should
	// drain output with Process and retry.
	ErrBusy = errors.New("dfir: both buffer slots occupied")
)

// errExhausted is an internal, non-error control signal: fewer than N
// samples remain queued across the active and next buffers. It never
// escapes the package; Process converts it into a short write.
var errExhausted = errors.New("dfir: input exhausted")
