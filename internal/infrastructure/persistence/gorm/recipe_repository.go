package gorm

import (
	"context"
	"strings"

	"github.com/mealforge/importer/internal/domain/recipe"
	"github.com/mealforge/importer/internal/ports/outbound"
	"gorm.io/gorm"
)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) outbound.RecipeRepository {
	return &RecipeRepository{db: db}
}

// SaveBatch writes every recipe in one transaction; either the whole
// batch lands or none of it does
func (r *RecipeRepository) SaveBatch(ctx context.Context, recipes []*recipe.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	models := make([]*RecipeModel, 0, len(recipes))
	for _, rec := range recipes {
		models = append(models, RecipeToModel(rec))
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range models {
			if err := tx.Create(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ExistsByTitle reports whether a recipe with the same case-insensitive
// title has already been imported
func (r *RecipeRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	var count int64

	result := r.db.WithContext(ctx).Model(&RecipeModel{}).
		Where("title_key = ?", strings.ToLower(title)).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}
