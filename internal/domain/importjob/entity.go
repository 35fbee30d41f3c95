// Package importjob contains the core domain logic for dataset import jobs.
// The persisted job record is the single source of truth for job status.
package importjob

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of an import job
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// IsTerminal reports whether the status admits no further transitions
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

// Job represents one execution of the ingestion pipeline over one source
// file. Counters never exceed the number of rows consumed, and a terminal
// status is never overwritten.
type Job struct {
	id         uuid.UUID
	name       string
	sourcePath string
	status     Status
	message    string

	totalRows int
	imported  int
	skipped   int
	errored   int

	queuedAt    time.Time
	startedAt   *time.Time
	completedAt *time.Time
}

// NewJob creates a new Queued import job
func NewJob(name, sourcePath string) (*Job, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if sourcePath == "" {
		return nil, ErrEmptySource
	}

	return &Job{
		id:         uuid.New(),
		name:       name,
		sourcePath: sourcePath,
		status:     StatusQueued,
		queuedAt:   time.Now(),
	}, nil
}

// Restore rebuilds a job from persisted state
func Restore(
	id uuid.UUID,
	name, sourcePath string,
	status Status,
	message string,
	totalRows, imported, skipped, errored int,
	queuedAt time.Time,
	startedAt, completedAt *time.Time,
) *Job {
	return &Job{
		id:          id,
		name:        name,
		sourcePath:  sourcePath,
		status:      status,
		message:     message,
		totalRows:   totalRows,
		imported:    imported,
		skipped:     skipped,
		errored:     errored,
		queuedAt:    queuedAt,
		startedAt:   startedAt,
		completedAt: completedAt,
	}
}

// ID returns the job's process identifier
func (j *Job) ID() uuid.UUID { return j.id }

// Name returns the display name of the job
func (j *Job) Name() string { return j.name }

// SourcePath returns the source descriptor the job ingests from
func (j *Job) SourcePath() string { return j.sourcePath }

// Status returns the current lifecycle status
func (j *Job) Status() Status { return j.status }

// Message returns the latest status message
func (j *Job) Message() string { return j.message }

// TotalRows returns the number of rows consumed so far
func (j *Job) TotalRows() int { return j.totalRows }

// Imported returns the number of rows persisted as recipes
func (j *Job) Imported() int { return j.imported }

// Skipped returns the number of rows skipped
func (j *Job) Skipped() int { return j.skipped }

// Errored returns the number of rows that failed
func (j *Job) Errored() int { return j.errored }

// QueuedAt returns when the job was accepted
func (j *Job) QueuedAt() time.Time { return j.queuedAt }

// StartedAt returns when row processing began
func (j *Job) StartedAt() *time.Time { return j.startedAt }

// CompletedAt returns when the job reached a terminal status
func (j *Job) CompletedAt() *time.Time { return j.completedAt }

// Start transitions the job from Queued to Running
func (j *Job) Start() error {
	if j.status != StatusQueued {
		return ErrInvalidTransition
	}
	now := time.Now()
	j.status = StatusRunning
	j.startedAt = &now
	return nil
}

// Complete marks the job as successfully finished
func (j *Job) Complete(message string) error {
	return j.finish(StatusCompleted, message)
}

// Fail marks the job as failed with an explanatory message
func (j *Job) Fail(message string) error {
	return j.finish(StatusFailed, message)
}

// Cancel marks the job as canceled by an external signal
func (j *Job) Cancel(message string) error {
	return j.finish(StatusCanceled, message)
}

// finish moves the job into a terminal status exactly once
func (j *Job) finish(status Status, message string) error {
	if j.status.IsTerminal() {
		return ErrJobTerminal
	}
	now := time.Now()
	j.status = status
	j.message = message
	j.completedAt = &now
	return nil
}

// ConsumeRow records that one source row has been read
func (j *Job) ConsumeRow() {
	j.totalRows++
}

// AddImported advances the imported counter by n, bounded by rows consumed
func (j *Job) AddImported(n int) error {
	if j.imported+j.skipped+j.errored+n > j.totalRows {
		return ErrCounterOverflow
	}
	j.imported += n
	return nil
}

// AddSkipped records one skipped row
func (j *Job) AddSkipped() error {
	if j.imported+j.skipped+j.errored+1 > j.totalRows {
		return ErrCounterOverflow
	}
	j.skipped++
	return nil
}

// AddErrored records one failed row
func (j *Job) AddErrored() error {
	if j.imported+j.skipped+j.errored+1 > j.totalRows {
		return ErrCounterOverflow
	}
	j.errored++
	return nil
}
