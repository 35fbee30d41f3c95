package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mealforge/importer/internal/domain/ingredient"
	"github.com/mealforge/importer/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NutrientRepository implements the nutrient repository interface using GORM
type NutrientRepository struct {
	db *gorm.DB
}

// NewNutrientRepository creates a new nutrient repository
func NewNutrientRepository(db *gorm.DB) outbound.NutrientRepository {
	return &NutrientRepository{db: db}
}

// GetOrCreate resolves a nutrient by name, inserting it if absent.
// Uses the same conflict-then-fetch pattern as ingredients.
func (r *NutrientRepository) GetOrCreate(ctx context.Context, nut *ingredient.Nutrient) (*ingredient.Nutrient, bool, error) {
	model := NutrientToModel(nut)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		return nil, false, result.Error
	}

	if result.RowsAffected > 0 {
		return ModelToNutrient(model), true, nil
	}

	var existing NutrientModel
	lookup := r.db.WithContext(ctx).First(&existing, "name = ?", nut.Name())
	if lookup.Error != nil {
		return nil, false, lookup.Error
	}
	return ModelToNutrient(&existing), false, nil
}

// HasAmount reports whether an amount is already recorded for the pair
func (r *NutrientRepository) HasAmount(ctx context.Context, ingredientID, nutrientID uuid.UUID) (bool, error) {
	var count int64

	result := r.db.WithContext(ctx).Model(&IngredientNutrientModel{}).
		Where("ingredient_id = ? AND nutrient_id = ?", ingredientID, nutrientID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

// SaveAmount records one nutrient amount for one ingredient. A concurrent
// writer landing first wins; the later write is dropped.
func (r *NutrientRepository) SaveAmount(ctx context.Context, amount ingredient.NutrientAmount) error {
	model := &IngredientNutrientModel{
		IngredientID: amount.IngredientID,
		NutrientID:   amount.NutrientID,
		Amount:       amount.Amount,
		Unit:         amount.Unit,
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return result.Error
	}

	return nil
}
