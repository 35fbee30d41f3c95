package gorm

import (
	"context"

	"github.com/mealforge/importer/internal/domain/measurement"
	"github.com/mealforge/importer/internal/ports/outbound"
	"gorm.io/gorm"
)

// UnitRepository implements the measurement unit repository using GORM
type UnitRepository struct {
	db *gorm.DB
}

// NewUnitRepository creates a new unit repository
func NewUnitRepository(db *gorm.DB) outbound.UnitRepository {
	return &UnitRepository{db: db}
}

// ListAll returns the full unit taxonomy
func (r *UnitRepository) ListAll(ctx context.Context) ([]measurement.Unit, error) {
	var models []MeasurementUnitModel

	result := r.db.WithContext(ctx).Order("name").Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	units := make([]measurement.Unit, 0, len(models))
	for _, model := range models {
		units = append(units, measurement.Unit{
			ID:    model.ID,
			Name:  model.Name,
			Group: measurement.UnitGroup(model.UnitGroup),
		})
	}

	return units, nil
}
