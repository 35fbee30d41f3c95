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

// IngredientRepository implements the ingredient repository interface using GORM
type IngredientRepository struct {
	db *gorm.DB
}

// NewIngredientRepository creates a new ingredient repository
func NewIngredientRepository(db *gorm.DB) outbound.IngredientRepository {
	return &IngredientRepository{db: db}
}

// FindByName looks up an ingredient by its case-insensitive name;
// absence is (nil, nil)
func (r *IngredientRepository) FindByName(ctx context.Context, name string) (*ingredient.Ingredient, error) {
	var model IngredientModel

	result := r.db.WithContext(ctx).
		First(&model, "name_key = ?", ingredient.NameKey(name))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return ModelToIngredient(&model), nil
}

// GetOrCreate resolves an ingredient by name key, inserting it if absent.
// Concurrent creators racing on the same name are resolved by the unique
// index: the loser's insert becomes a no-op and the winner's row is
// fetched back.
func (r *IngredientRepository) GetOrCreate(ctx context.Context, ing *ingredient.Ingredient) (*ingredient.Ingredient, bool, error) {
	model := IngredientToModel(ing)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name_key"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		return nil, false, result.Error
	}

	created := result.RowsAffected > 0
	if created {
		return ModelToIngredient(model), true, nil
	}

	existing, err := r.FindByName(ctx, ing.Name())
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, gorm.ErrRecordNotFound
	}
	return existing, false, nil
}

// SaveExternalID records the external catalog id resolved for an ingredient
func (r *IngredientRepository) SaveExternalID(ctx context.Context, id uuid.UUID, externalID string) error {
	return r.db.WithContext(ctx).
		Model(&IngredientModel{}).
		Where("id = ?", id).
		Update("external_id", externalID).Error
}
