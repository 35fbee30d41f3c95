package gorm

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mealforge/importer/internal/domain/importjob"
	"github.com/mealforge/importer/internal/domain/ingredient"
	"github.com/mealforge/importer/internal/domain/measurement"
	"github.com/mealforge/importer/internal/domain/recipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	gormio "gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gormio.DB {
	t.Helper()

	db, err := gormio.Open(sqlite.Open(":memory:"), &gormio.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(AllModels()...))
	return db
}

func TestImportJobRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewImportJobRepository(db)
	ctx := context.Background()

	job, err := importjob.NewJob("round trip", "/data/recipes.csv")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, job))

	require.NoError(t, job.Start())
	job.ConsumeRow()
	job.ConsumeRow()
	require.NoError(t, job.AddImported(1))
	require.NoError(t, job.AddSkipped())
	require.NoError(t, job.Complete("done"))
	require.NoError(t, repo.Update(ctx, job))

	loaded, err := repo.FindByID(ctx, job.ID())
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, importjob.StatusCompleted, loaded.Status())
	assert.Equal(t, 2, loaded.TotalRows())
	assert.Equal(t, 1, loaded.Imported())
	assert.Equal(t, 1, loaded.Skipped())
	assert.NotNil(t, loaded.CompletedAt())
}

func TestImportJobFindByIDAbsence(t *testing.T) {
	db := newTestDB(t)
	repo := NewImportJobRepository(db)

	loaded, err := repo.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestIngredientGetOrCreateCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	repo := NewIngredientRepository(db)
	ctx := context.Background()

	first, err := ingredient.NewIngredient("Basil")
	require.NoError(t, err)
	resolved, created, err := repo.GetOrCreate(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	second, err := ingredient.NewIngredient("basil")
	require.NoError(t, err)
	again, created, err := repo.GetOrCreate(ctx, second)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, resolved.ID(), again.ID())

	found, err := repo.FindByName(ctx, "BASIL")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, resolved.ID(), found.ID())
}

func TestIngredientSaveExternalID(t *testing.T) {
	db := newTestDB(t)
	repo := NewIngredientRepository(db)
	ctx := context.Background()

	ing, err := ingredient.NewIngredient("oregano")
	require.NoError(t, err)
	resolved, _, err := repo.GetOrCreate(ctx, ing)
	require.NoError(t, err)

	require.NoError(t, repo.SaveExternalID(ctx, resolved.ID(), "fdc-171325"))

	found, err := repo.FindByName(ctx, "oregano")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "fdc-171325", found.ExternalID())
}

func TestNutrientAmountsFirstWriterWins(t *testing.T) {
	db := newTestDB(t)
	repo := NewNutrientRepository(db)
	ctx := context.Background()

	nut, err := ingredient.NewNutrient("Calories", "kcal")
	require.NoError(t, err)
	stored, created, err := repo.GetOrCreate(ctx, nut)
	require.NoError(t, err)
	assert.True(t, created)

	ingredientID := uuid.New()
	require.NoError(t, repo.SaveAmount(ctx, ingredient.NutrientAmount{
		IngredientID: ingredientID,
		NutrientID:   stored.ID(),
		Amount:       120,
		Unit:         "kcal",
	}))
	// A repeated write for the same pair is a no-op
	require.NoError(t, repo.SaveAmount(ctx, ingredient.NutrientAmount{
		IngredientID: ingredientID,
		NutrientID:   stored.ID(),
		Amount:       0,
		Unit:         "kcal",
	}))

	has, err := repo.HasAmount(ctx, ingredientID, stored.ID())
	require.NoError(t, err)
	assert.True(t, has)

	var model IngredientNutrientModel
	require.NoError(t, db.First(&model, "ingredient_id = ?", ingredientID).Error)
	assert.InDelta(t, 120, model.Amount, 1e-9)
}

func TestRecipeSaveBatchAndExistsByTitle(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	unitRepo := NewUnitRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&MeasurementUnitModel{
		Name: "cup", UnitGroup: string(measurement.GroupVolume),
	}).Error)
	units, err := unitRepo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, units, 1)

	rec, err := recipe.NewRecipe("Tomato Soup", `["2 cups tomatoes"]`, "1. Simmer.")
	require.NoError(t, err)
	quantity := 2.0
	require.NoError(t, rec.AddIngredient(recipe.IngredientLink{
		IngredientID: uuid.New(),
		Name:         "tomatoes",
		Quantity:     &quantity,
		Unit:         units[0],
	}))
	require.NoError(t, rec.AddStep(recipe.Step{Number: 1, Summary: "Step 1", Description: "Simmer."}))

	require.NoError(t, repo.SaveBatch(ctx, []*recipe.Recipe{rec}))

	exists, err := repo.ExistsByTitle(ctx, "tomato soup")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByTitle(ctx, "miso soup")
	require.NoError(t, err)
	assert.False(t, exists)

	var steps int64
	require.NoError(t, db.Model(&RecipeStepModel{}).Count(&steps).Error)
	assert.EqualValues(t, 1, steps)
}

func TestSaveBatchIsAtomic(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	first, err := recipe.NewRecipe("Unique Dish", `["1 cup rice"]`, "1. Cook.")
	require.NoError(t, err)
	duplicate, err := recipe.NewRecipe("Unique Dish", `["1 cup rice"]`, "1. Cook.")
	require.NoError(t, err)

	err = repo.SaveBatch(ctx, []*recipe.Recipe{first, duplicate})
	require.Error(t, err)

	// The title collision rolled the whole batch back
	var count int64
	require.NoError(t, db.Model(&RecipeModel{}).Count(&count).Error)
	assert.Zero(t, count)
}
