package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mealforge/importer/internal/domain/importjob"
	"github.com/mealforge/importer/internal/ports/outbound"
	"gorm.io/gorm"
)

// ImportJobRepository implements the import job repository interface using GORM
type ImportJobRepository struct {
	db *gorm.DB
}

// NewImportJobRepository creates a new import job repository
func NewImportJobRepository(db *gorm.DB) outbound.ImportJobRepository {
	return &ImportJobRepository{db: db}
}

// Create persists a new job record
func (r *ImportJobRepository) Create(ctx context.Context, job *importjob.Job) error {
	model := JobToModel(job)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return result.Error
	}

	return nil
}

// Update overwrites the persisted job snapshot with the current state
func (r *ImportJobRepository) Update(ctx context.Context, job *importjob.Job) error {
	model := JobToModel(job)

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}

	return nil
}

// FindByID loads a job by its process id; absence is (nil, nil)
func (r *ImportJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*importjob.Job, error) {
	var model ImportJobModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return ModelToJob(&model), nil
}
