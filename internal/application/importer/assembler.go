package importer

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mealforge/importer/internal/application/parser"
	"github.com/mealforge/importer/internal/domain/recipe"
	"go.uber.org/zap"
)

// ErrRowUnparsable marks a row that produced no usable recipe. The
// coordinator counts such rows as skipped, not errored.
var ErrRowUnparsable = errors.New("row could not be assembled into a recipe")

// Assembler composes one raw source row into a structured recipe using the
// ingredient standardizer and the step segmenter. As a side effect it
// creates or reuses canonical ingredients.
type Assembler struct {
	parser    *parser.IngredientParser
	segmenter *parser.StepSegmenter
	logger    *zap.Logger
}

// NewAssembler creates a recipe assembler
func NewAssembler(ingredients *parser.IngredientParser, segmenter *parser.StepSegmenter, logger *zap.Logger) *Assembler {
	return &Assembler{
		parser:    ingredients,
		segmenter: segmenter,
		logger:    logger.Named("assembler"),
	}
}

// Assemble builds a recipe from one raw row. A row without at least one
// parsed ingredient and one step yields ErrRowUnparsable.
func (a *Assembler) Assemble(ctx context.Context, jobID uuid.UUID, row RawRow) (*recipe.Recipe, error) {
	rec, err := recipe.NewRecipe(row.Title, row.IngredientsBlob, row.InstructionsBlob)
	if err != nil {
		return nil, ErrRowUnparsable
	}

	parsed, err := a.parser.ParseAll(ctx, jobID, row.IngredientsBlob)
	if err != nil {
		return nil, err
	}

	for _, item := range parsed {
		link := recipe.IngredientLink{
			IngredientID: item.Ingredient.ID(),
			Name:         item.Ingredient.Name(),
			Quantity:     item.Quantity,
			Unit:         item.Unit,
		}
		if err := rec.AddIngredient(link); err != nil {
			return nil, err
		}
	}

	for _, step := range a.segmenter.Segment(row.InstructionsBlob) {
		if err := rec.AddStep(step); err != nil {
			return nil, err
		}
	}

	// Whole-row seconds reduce to minutes by integer division
	cookMinutes := 0
	if row.CookTimeSeconds != nil {
		cookMinutes = *row.CookTimeSeconds / 60
	}
	prepMinutes := 0
	if row.PrepTimeMinutes != nil {
		prepMinutes = *row.PrepTimeMinutes
	}
	servings := 0
	if row.Servings != nil {
		servings = *row.Servings
	}
	rec.SetTiming(prepMinutes, cookMinutes, servings)

	if err := rec.ValidateForImport(); err != nil {
		a.logger.Debug("row did not assemble into an importable recipe",
			zap.String("title", row.Title),
			zap.Error(err),
		)
		return nil, ErrRowUnparsable
	}

	return rec, nil
}
