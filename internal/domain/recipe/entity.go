// Package recipe contains the core domain logic for imported recipes.
// Entities are assembled once by the ingestion pipeline and not mutated
// by it thereafter.
package recipe

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mealforge/importer/internal/domain/measurement"
)

// MaxSteps bounds the step ordinal range; spans past the cap are dropped
// by the segmenter.
const MaxSteps = 99

// Recipe represents an imported recipe aggregate. It keeps the verbatim
// source texts alongside the derived structured form.
type Recipe struct {
	id               uuid.UUID
	title            string
	ingredientsText  string
	instructionsText string

	prepTimeMinutes int
	cookTimeMinutes int
	servings        int

	steps       []Step
	ingredients []IngredientLink

	createdAt time.Time
}

// Step is one instruction step, owned exclusively by its recipe. Ordinals
// are recipe-scoped, 1-based, contiguous and strictly increasing.
type Step struct {
	Number      int
	Summary     string
	Description string
}

// IngredientLink associates a canonical ingredient with a recipe, with the
// parsed quantity and resolved unit. Quantity is nil when the source line
// carried none (e.g. "to taste").
type IngredientLink struct {
	IngredientID uuid.UUID
	Name         string
	Quantity     *float64
	Unit         measurement.Unit
}

// NewRecipe creates a recipe with the verbatim source texts
func NewRecipe(title, ingredientsText, instructionsText string) (*Recipe, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	return &Recipe{
		id:               uuid.New(),
		title:            title,
		ingredientsText:  ingredientsText,
		instructionsText: instructionsText,
		createdAt:        time.Now(),
	}, nil
}

// ID returns the recipe's identifier
func (r *Recipe) ID() uuid.UUID { return r.id }

// Title returns the recipe title
func (r *Recipe) Title() string { return r.title }

// TitleKey returns the case-insensitive duplicate-detection key
func (r *Recipe) TitleKey() string { return strings.ToLower(r.title) }

// IngredientsText returns the verbatim ingredients blob
func (r *Recipe) IngredientsText() string { return r.ingredientsText }

// InstructionsText returns the verbatim instructions text
func (r *Recipe) InstructionsText() string { return r.instructionsText }

// PrepTimeMinutes returns the derived preparation minutes
func (r *Recipe) PrepTimeMinutes() int { return r.prepTimeMinutes }

// CookTimeMinutes returns the derived cooking minutes
func (r *Recipe) CookTimeMinutes() int { return r.cookTimeMinutes }

// Servings returns the serving count
func (r *Recipe) Servings() int { return r.servings }

// Steps returns the ordered instruction steps
func (r *Recipe) Steps() []Step { return r.steps }

// Ingredients returns the ingredient associations
func (r *Recipe) Ingredients() []IngredientLink { return r.ingredients }

// CreatedAt returns when the recipe was assembled
func (r *Recipe) CreatedAt() time.Time { return r.createdAt }

// SetTiming records the derived timing and serving fields
func (r *Recipe) SetTiming(prepMinutes, cookMinutes, servings int) {
	r.prepTimeMinutes = prepMinutes
	r.cookTimeMinutes = cookMinutes
	r.servings = servings
}

// AddStep appends a step, enforcing the contiguous 1-based ordering
// invariant. The caller-supplied number must be exactly one past the
// current last ordinal.
func (r *Recipe) AddStep(step Step) error {
	if step.Number != len(r.steps)+1 {
		return ErrStepOutOfOrder
	}
	if step.Number > MaxSteps {
		return ErrTooManySteps
	}
	if strings.TrimSpace(step.Description) == "" {
		return ErrEmptyStep
	}

	r.steps = append(r.steps, step)
	return nil
}

// AddIngredient appends an ingredient association
func (r *Recipe) AddIngredient(link IngredientLink) error {
	if link.IngredientID == uuid.Nil {
		return ErrUnresolvedIngredient
	}

	r.ingredients = append(r.ingredients, link)
	return nil
}

// ValidateForImport ensures the assembled recipe meets the minimum the
// pipeline persists: at least one parsed ingredient and one step.
func (r *Recipe) ValidateForImport() error {
	if len(r.ingredients) == 0 {
		return ErrNoIngredients
	}
	if len(r.steps) == 0 {
		return ErrNoSteps
	}
	return nil
}
