// Package outbound defines the interfaces for outbound ports (secondary/driven adapters).
// These are the interfaces the import pipeline uses to reach external systems.
package outbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/mealforge/importer/internal/domain/importjob"
	"github.com/mealforge/importer/internal/domain/ingredient"
	"github.com/mealforge/importer/internal/domain/measurement"
	"github.com/mealforge/importer/internal/domain/recipe"
)

// ImportJobRepository persists the durable job record that is the single
// source of truth for job status. FindByID returns (nil, nil) when no job
// matches the id.
type ImportJobRepository interface {
	Create(ctx context.Context, job *importjob.Job) error
	Update(ctx context.Context, job *importjob.Job) error
	FindByID(ctx context.Context, id uuid.UUID) (*importjob.Job, error)
}

// RecipeRepository persists assembled recipes. SaveBatch must write the
// whole batch in one transaction.
type RecipeRepository interface {
	SaveBatch(ctx context.Context, recipes []*recipe.Recipe) error
	ExistsByTitle(ctx context.Context, title string) (bool, error)
}

// IngredientRepository resolves and creates canonical ingredients.
// GetOrCreate must be safe against concurrent creators racing on the same
// name: the store carries a case-insensitive unique index and the lookup
// fetches on conflict.
type IngredientRepository interface {
	FindByName(ctx context.Context, name string) (*ingredient.Ingredient, error)
	GetOrCreate(ctx context.Context, ing *ingredient.Ingredient) (*ingredient.Ingredient, bool, error)
	SaveExternalID(ctx context.Context, id uuid.UUID, externalID string) error
}

// NutrientRepository resolves and creates nutrients and per-ingredient
// nutrient amounts.
type NutrientRepository interface {
	GetOrCreate(ctx context.Context, nut *ingredient.Nutrient) (*ingredient.Nutrient, bool, error)
	HasAmount(ctx context.Context, ingredientID, nutrientID uuid.UUID) (bool, error)
	SaveAmount(ctx context.Context, amount ingredient.NutrientAmount) error
}

// UnitRepository reads the measurement unit taxonomy. Read-only for this
// pipeline.
type UnitRepository interface {
	ListAll(ctx context.Context) ([]measurement.Unit, error)
}
