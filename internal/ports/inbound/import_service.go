// Package inbound defines the interfaces for inbound ports (primary/driving adapters).
package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StartImportCommand carries an import request: a readable source file and
// a display name for the job.
type StartImportCommand struct {
	Name       string
	SourcePath string
}

// ImportReceipt is the synchronous answer to an accepted import request;
// the work itself runs detached.
type ImportReceipt struct {
	ProcessID uuid.UUID
	Message   string
}

// JobStatusDTO is the externally visible snapshot of one job.
// EnrichmentPending counts nutrient enrichment tasks still queued for
// ingredients created by this job; it can be non-zero after the job itself
// is Completed.
type JobStatusDTO struct {
	ProcessID         uuid.UUID
	Name              string
	Status            string
	Message           string
	TotalRows         int
	Imported          int
	Skipped           int
	Errored           int
	EnrichmentPending int
	QueuedAt          time.Time
	StartedAt         *time.Time
	CompletedAt       *time.Time
}

// ImportService is the use-case surface of the ingestion pipeline
type ImportService interface {
	// StartImport validates the source synchronously, creates a Queued job
	// and returns immediately; ingestion runs as a detached unit of work.
	StartImport(ctx context.Context, cmd StartImportCommand) (*ImportReceipt, error)

	// GetStatus returns the job snapshot or a not-found error.
	GetStatus(ctx context.Context, processID uuid.UUID) (*JobStatusDTO, error)

	// CancelImport requests cancellation of a running job. The job finishes
	// the current row and goes Canceled with its counters intact.
	CancelImport(ctx context.Context, processID uuid.UUID) error
}
