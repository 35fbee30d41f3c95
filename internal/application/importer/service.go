// Package importer owns the import job lifecycle: it accepts an import
// request, persists a durable job record, runs row-by-row ingestion as a
// detached unit of work, batches persistence and exposes status queries.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/mealforge/importer/internal/application/enrichment"
	"github.com/mealforge/importer/internal/domain/importjob"
	"github.com/mealforge/importer/internal/domain/recipe"
	"github.com/mealforge/importer/internal/ports/inbound"
	"github.com/mealforge/importer/internal/ports/outbound"
	apperrors "github.com/mealforge/importer/pkg/errors"
	"go.uber.org/zap"
)

// DefaultBatchSize is the number of assembled recipes persisted per
// transaction when no batch size is configured.
const DefaultBatchSize = 1000

// Service implements the inbound ImportService port
type Service struct {
	jobs      outbound.ImportJobRepository
	recipes   outbound.RecipeRepository
	assembler *Assembler
	enricher  *enrichment.Service
	batchSize int
	logger    *zap.Logger

	// cancel flags keyed by process id, consulted between rows
	cancels sync.Map
}

// NewService creates the ingestion coordinator
func NewService(
	jobs outbound.ImportJobRepository,
	recipes outbound.RecipeRepository,
	assembler *Assembler,
	enricher *enrichment.Service,
	batchSize int,
	logger *zap.Logger,
) inbound.ImportService {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Service{
		jobs:      jobs,
		recipes:   recipes,
		assembler: assembler,
		enricher:  enricher,
		batchSize: batchSize,
		logger:    logger.Named("import-service"),
	}
}

// StartImport validates the source file synchronously, creates a Queued
// job and returns at once; ingestion continues detached from the caller.
func (s *Service) StartImport(ctx context.Context, cmd inbound.StartImportCommand) (*inbound.ImportReceipt, error) {
	if strings.TrimSpace(cmd.SourcePath) == "" {
		return nil, apperrors.NewValidationError("source path is required")
	}

	file, err := os.Open(cmd.SourcePath)
	if err != nil {
		return nil, apperrors.NewSourceNotFoundError(cmd.SourcePath, err)
	}

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		name = filepath.Base(cmd.SourcePath)
	}

	job, err := importjob.NewJob(name, cmd.SourcePath)
	if err != nil {
		file.Close()
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		file.Close()
		return nil, apperrors.NewDatabaseError("create import job", err)
	}

	s.cancels.Store(job.ID(), new(atomic.Bool))

	s.logger.Info("import job accepted",
		zap.String("process_id", job.ID().String()),
		zap.String("name", name),
		zap.String("source", cmd.SourcePath),
	)

	go s.run(job, file)

	return &inbound.ImportReceipt{
		ProcessID: job.ID(),
		Message:   "import accepted",
	}, nil
}

// GetStatus returns the persisted job snapshot
func (s *Service) GetStatus(ctx context.Context, processID uuid.UUID) (*inbound.JobStatusDTO, error) {
	job, err := s.jobs.FindByID(ctx, processID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("find import job", err)
	}
	if job == nil {
		return nil, apperrors.NewJobNotFoundError(processID.String())
	}

	return &inbound.JobStatusDTO{
		ProcessID:         job.ID(),
		Name:              job.Name(),
		Status:            string(job.Status()),
		Message:           job.Message(),
		TotalRows:         job.TotalRows(),
		Imported:          job.Imported(),
		Skipped:           job.Skipped(),
		Errored:           job.Errored(),
		EnrichmentPending: s.enricher.Pending(processID),
		QueuedAt:          job.QueuedAt(),
		StartedAt:         job.StartedAt(),
		CompletedAt:       job.CompletedAt(),
	}, nil
}

// CancelImport flags a running job for cancellation; the row loop checks
// the flag between rows.
func (s *Service) CancelImport(ctx context.Context, processID uuid.UUID) error {
	job, err := s.jobs.FindByID(ctx, processID)
	if err != nil {
		return apperrors.NewDatabaseError("find import job", err)
	}
	if job == nil {
		return apperrors.NewJobNotFoundError(processID.String())
	}
	if job.Status().IsTerminal() {
		return apperrors.NewJobTerminalError(processID.String(), string(job.Status()))
	}

	flag, _ := s.cancels.LoadOrStore(processID, new(atomic.Bool))
	flag.(*atomic.Bool).Store(true)

	s.logger.Info("import job cancellation requested",
		zap.String("process_id", processID.String()),
	)
	return nil
}

// run is the detached per-job unit of work. Every failure past this point
// is captured at row or job level, never thrown back to the caller.
func (s *Service) run(job *importjob.Job, file *os.File) {
	ctx := context.Background()
	defer file.Close()
	defer s.cancels.Delete(job.ID())
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("import job panicked",
				zap.String("process_id", job.ID().String()),
				zap.Any("panic", r),
			)
			if err := job.Fail(fmt.Sprintf("unhandled failure: %v", r)); err == nil {
				s.updateJob(ctx, job)
			}
		}
	}()

	if err := job.Start(); err != nil {
		s.logger.Error("import job could not start",
			zap.String("process_id", job.ID().String()),
			zap.Error(err),
		)
		return
	}
	s.updateJob(ctx, job)

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		s.failJob(ctx, job, fmt.Sprintf("cannot read source header: %v", err))
		return
	}
	cols, err := mapColumns(header)
	if err != nil {
		s.failJob(ctx, job, err.Error())
		return
	}

	batch := make([]*recipe.Recipe, 0, s.batchSize)
	seenTitles := make(map[string]struct{})

	for {
		if s.isCanceled(job.ID()) {
			if err := job.Cancel("canceled by request"); err == nil {
				s.logger.Info("import job canceled",
					zap.String("process_id", job.ID().String()),
					zap.Int("rows", job.TotalRows()),
				)
			}
			break
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.failJob(ctx, job, fmt.Sprintf("source became unreadable: %v", err))
			return
		}

		job.ConsumeRow()
		row := cols.rowFrom(record)

		if row.Title == "" || row.IngredientsBlob == "" || row.InstructionsBlob == "" {
			_ = job.AddSkipped()
			continue
		}

		titleKey := strings.ToLower(row.Title)
		if _, dup := seenTitles[titleKey]; dup {
			_ = job.AddSkipped()
			continue
		}
		exists, err := s.recipes.ExistsByTitle(ctx, row.Title)
		if err != nil {
			_ = job.AddErrored()
			s.logger.Error("duplicate-title check failed",
				zap.String("process_id", job.ID().String()),
				zap.String("title", row.Title),
				zap.Error(err),
			)
			continue
		}
		if exists {
			_ = job.AddSkipped()
			continue
		}

		rec, err := s.assembler.Assemble(ctx, job.ID(), row)
		if err != nil {
			if errors.Is(err, ErrRowUnparsable) {
				_ = job.AddSkipped()
				continue
			}
			// Row failures never abort the job
			_ = job.AddErrored()
			s.logger.Error("row assembly failed",
				zap.String("process_id", job.ID().String()),
				zap.String("title", row.Title),
				zap.Error(err),
			)
			continue
		}

		seenTitles[titleKey] = struct{}{}
		batch = append(batch, rec)
		if len(batch) >= s.batchSize {
			batch = s.flush(ctx, job, batch)
			s.updateJob(ctx, job)
		}
	}

	if job.Status() == importjob.StatusRunning {
		s.flush(ctx, job, batch)
		_ = job.Complete(fmt.Sprintf("imported %d of %d rows", job.Imported(), job.TotalRows()))
		s.logger.Info("import job completed",
			zap.String("process_id", job.ID().String()),
			zap.Int("total", job.TotalRows()),
			zap.Int("imported", job.Imported()),
			zap.Int("skipped", job.Skipped()),
			zap.Int("errored", job.Errored()),
		)
	}
	s.updateJob(ctx, job)
}

// flush persists the buffered recipes in one transaction. The batch is
// durable before the next begins; a persistence failure marks every row in
// it as errored and ingestion continues.
func (s *Service) flush(ctx context.Context, job *importjob.Job, batch []*recipe.Recipe) []*recipe.Recipe {
	if len(batch) == 0 {
		return batch
	}

	if err := s.recipes.SaveBatch(ctx, batch); err != nil {
		for range batch {
			_ = job.AddErrored()
		}
		s.logger.Error("batch persistence failed",
			zap.String("process_id", job.ID().String()),
			zap.Int("batch_size", len(batch)),
			zap.Error(err),
		)
	} else {
		_ = job.AddImported(len(batch))
	}

	return batch[:0]
}

func (s *Service) failJob(ctx context.Context, job *importjob.Job, message string) {
	s.logger.Error("import job failed",
		zap.String("process_id", job.ID().String()),
		zap.String("message", message),
	)
	if err := job.Fail(message); err == nil {
		s.updateJob(ctx, job)
	}
}

func (s *Service) updateJob(ctx context.Context, job *importjob.Job) {
	if err := s.jobs.Update(ctx, job); err != nil {
		s.logger.Error("failed to persist job status",
			zap.String("process_id", job.ID().String()),
			zap.Error(err),
		)
	}
}

func (s *Service) isCanceled(id uuid.UUID) bool {
	flag, ok := s.cancels.Load(id)
	if !ok {
		return false
	}
	return flag.(*atomic.Bool).Load()
}
