package gorm

import (
	"github.com/mealforge/importer/internal/domain/importjob"
	"github.com/mealforge/importer/internal/domain/ingredient"
	"github.com/mealforge/importer/internal/domain/recipe"
)

// JobToModel converts an import job entity to its GORM model
func JobToModel(job *importjob.Job) *ImportJobModel {
	return &ImportJobModel{
		ID:          job.ID(),
		Name:        job.Name(),
		SourcePath:  job.SourcePath(),
		Status:      string(job.Status()),
		Message:     job.Message(),
		TotalRows:   job.TotalRows(),
		Imported:    job.Imported(),
		Skipped:     job.Skipped(),
		Errored:     job.Errored(),
		QueuedAt:    job.QueuedAt(),
		StartedAt:   job.StartedAt(),
		CompletedAt: job.CompletedAt(),
	}
}

// ModelToJob converts a GORM model back to an import job entity
func ModelToJob(model *ImportJobModel) *importjob.Job {
	return importjob.Restore(
		model.ID,
		model.Name,
		model.SourcePath,
		importjob.Status(model.Status),
		model.Message,
		model.TotalRows,
		model.Imported,
		model.Skipped,
		model.Errored,
		model.QueuedAt,
		model.StartedAt,
		model.CompletedAt,
	)
}

// RecipeToModel converts an assembled recipe to its GORM model tree
func RecipeToModel(rec *recipe.Recipe) *RecipeModel {
	model := &RecipeModel{
		ID:               rec.ID(),
		Title:            rec.Title(),
		TitleKey:         rec.TitleKey(),
		IngredientsText:  rec.IngredientsText(),
		InstructionsText: rec.InstructionsText(),
		PrepTimeMinutes:  rec.PrepTimeMinutes(),
		CookTimeMinutes:  rec.CookTimeMinutes(),
		Servings:         rec.Servings(),
		CreatedAt:        rec.CreatedAt(),
	}

	for _, step := range rec.Steps() {
		model.Steps = append(model.Steps, RecipeStepModel{
			RecipeID:    rec.ID(),
			Number:      step.Number,
			Summary:     step.Summary,
			Description: step.Description,
		})
	}

	for _, link := range rec.Ingredients() {
		model.Ingredients = append(model.Ingredients, RecipeIngredientModel{
			RecipeID:     rec.ID(),
			IngredientID: link.IngredientID,
			Name:         link.Name,
			Quantity:     link.Quantity,
			UnitID:       link.Unit.ID,
		})
	}

	return model
}

// IngredientToModel converts an ingredient entity to its GORM model
func IngredientToModel(ing *ingredient.Ingredient) *IngredientModel {
	return &IngredientModel{
		ID:          ing.ID(),
		Name:        ing.Name(),
		NameKey:     ing.NameKey(),
		Description: ing.Description(),
		ExternalID:  ing.ExternalID(),
	}
}

// ModelToIngredient converts a GORM model back to an ingredient entity
func ModelToIngredient(model *IngredientModel) *ingredient.Ingredient {
	return ingredient.RestoreIngredient(model.ID, model.Name, model.Description, model.ExternalID)
}

// NutrientToModel converts a nutrient entity to its GORM model
func NutrientToModel(n *ingredient.Nutrient) *NutrientModel {
	return &NutrientModel{
		ID:          n.ID(),
		Name:        n.Name(),
		DefaultUnit: n.DefaultUnit(),
	}
}

// ModelToNutrient converts a GORM model back to a nutrient entity
func ModelToNutrient(model *NutrientModel) *ingredient.Nutrient {
	return ingredient.RestoreNutrient(model.ID, model.Name, model.DefaultUnit)
}
