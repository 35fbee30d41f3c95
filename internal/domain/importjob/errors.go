package importjob

import "errors"

var (
	// ErrEmptyName indicates a job was requested without a display name
	ErrEmptyName = errors.New("import job name must not be empty")

	// ErrEmptySource indicates a job was requested without a source descriptor
	ErrEmptySource = errors.New("import job source path must not be empty")

	// ErrInvalidTransition indicates an illegal lifecycle transition
	ErrInvalidTransition = errors.New("invalid import job status transition")

	// ErrJobTerminal indicates a mutation attempt on a finished job
	ErrJobTerminal = errors.New("import job already reached a terminal status")

	// ErrCounterOverflow indicates counters would exceed rows consumed
	ErrCounterOverflow = errors.New("import job counters cannot exceed rows consumed")
)
