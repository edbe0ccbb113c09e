package parallel

import "errors"

var (
	// ErrInvalidArgument is returned for inconsistent dispatch arguments
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrJobPanic wraps a panic recovered from a partition job
	ErrJobPanic = errors.New("job panicked")

	// ErrPoolClosed is returned when submitting to a released pool
	ErrPoolClosed = errors.New("worker pool closed")
)
