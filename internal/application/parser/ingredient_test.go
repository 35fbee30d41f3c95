package parser

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mealforge/importer/internal/application/refcache"
	"github.com/mealforge/importer/internal/domain/measurement"
	"github.com/mealforge/importer/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestParser(t *testing.T) (*IngredientParser, *testutils.FakeIngredientRepository, *testutils.RecordingDispatcher) {
	t.Helper()

	cache := refcache.New(testutils.NewFakeUnitRepository(), zap.NewNop())
	repo := testutils.NewFakeIngredientRepository()
	dispatcher := &testutils.RecordingDispatcher{}
	parser := NewIngredientParser(cache, repo, dispatcher, zap.NewNop())
	return parser, repo, dispatcher
}

func TestParseQuantityUnitName(t *testing.T) {
	parser, _, _ := newTestParser(t)
	ctx := context.Background()
	jobID := uuid.New()

	item, err := parser.Parse(ctx, jobID, "1/2 cup flour")
	require.NoError(t, err)
	require.NotNil(t, item.Quantity)
	assert.InDelta(t, 0.5, *item.Quantity, 1e-9)
	assert.Equal(t, "cup", item.Unit.Name)
	assert.Equal(t, "flour", item.Ingredient.Name())
}

func TestParseMixedNumberQuantity(t *testing.T) {
	parser, _, _ := newTestParser(t)
	ctx := context.Background()

	item, err := parser.Parse(ctx, uuid.New(), "1 1/2 cups sugar")
	require.NoError(t, err)
	require.NotNil(t, item.Quantity)
	assert.InDelta(t, 1.5, *item.Quantity, 1e-9)
	assert.Equal(t, "cup", item.Unit.Name)
	assert.Equal(t, "sugar", item.Ingredient.Name())
}

func TestParseTwoWordUnit(t *testing.T) {
	parser, _, _ := newTestParser(t)
	ctx := context.Background()

	item, err := parser.Parse(ctx, uuid.New(), "4 fl oz milk")
	require.NoError(t, err)
	require.NotNil(t, item.Quantity)
	assert.InDelta(t, 4.0, *item.Quantity, 1e-9)
	assert.Equal(t, "fl oz", item.Unit.Name)
	assert.Equal(t, "milk", item.Ingredient.Name())
}

func TestParseQuantityWithoutUnitCountsPieces(t *testing.T) {
	parser, _, _ := newTestParser(t)
	ctx := context.Background()

	item, err := parser.Parse(ctx, uuid.New(), "2 eggs")
	require.NoError(t, err)
	require.NotNil(t, item.Quantity)
	assert.InDelta(t, 2.0, *item.Quantity, 1e-9)
	assert.Equal(t, measurement.UnitEach, item.Unit.Name)
	assert.Equal(t, "eggs", item.Ingredient.Name())
}

func TestParseToTaste(t *testing.T) {
	parser, _, _ := newTestParser(t)
	ctx := context.Background()

	for _, line := range []string{"salt to taste", "pepper, as needed"} {
		item, err := parser.Parse(ctx, uuid.New(), line)
		require.NoError(t, err, line)
		assert.Nil(t, item.Quantity, line)
		assert.Equal(t, measurement.UnitToTaste, item.Unit.Name, line)
	}
}

func TestParseToTasteDiscardsLeadingMeasure(t *testing.T) {
	parser, _, _ := newTestParser(t)
	ctx := context.Background()

	item, err := parser.Parse(ctx, uuid.New(), "1/2 tsp salt, to taste")
	require.NoError(t, err)
	assert.Nil(t, item.Quantity)
	assert.Equal(t, measurement.UnitToTaste, item.Unit.Name)
	assert.Equal(t, "salt", item.Ingredient.Name())
}

func TestParseStripsAdjectives(t *testing.T) {
	parser, _, _ := newTestParser(t)
	ctx := context.Background()

	item, err := parser.Parse(ctx, uuid.New(), "2 cups finely chopped fresh parsley")
	require.NoError(t, err)
	assert.Equal(t, "parsley", item.Ingredient.Name())
}

func TestParseUnresolvableUnitFallsBackToUnknown(t *testing.T) {
	parser, _, _ := newTestParser(t)
	ctx := context.Background()

	item, err := parser.Parse(ctx, uuid.New(), "butter for greasing")
	require.NoError(t, err)
	assert.Nil(t, item.Quantity)
	assert.Equal(t, measurement.UnitUnknown, item.Unit.Name)
}

func TestParseDeduplicatesByNameKey(t *testing.T) {
	parser, repo, dispatcher := newTestParser(t)
	ctx := context.Background()
	jobID := uuid.New()

	first, err := parser.Parse(ctx, jobID, "1 cup Flour")
	require.NoError(t, err)
	second, err := parser.Parse(ctx, jobID, "2 cups flour")
	require.NoError(t, err)

	assert.Equal(t, first.Ingredient.ID(), second.Ingredient.ID())
	assert.Equal(t, 1, repo.Count())
	// Only the creating parse triggers enrichment
	assert.Equal(t, 1, dispatcher.Count())
}

func TestParseAllSplitsOutsideQuotes(t *testing.T) {
	parser, _, _ := newTestParser(t)
	ctx := context.Background()

	blob := `["1 cup flour", "2 eggs", "salt, to taste"]`
	items, err := parser.ParseAll(ctx, uuid.New(), blob)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "flour", items[0].Ingredient.Name())
	assert.Equal(t, "eggs", items[1].Ingredient.Name())
	assert.Equal(t, "salt", items[2].Ingredient.Name())
	assert.Equal(t, measurement.UnitToTaste, items[2].Unit.Name)
}

func TestParseAllDropsEmptySegments(t *testing.T) {
	parser, _, _ := newTestParser(t)
	ctx := context.Background()

	items, err := parser.ParseAll(ctx, uuid.New(), "1 cup flour,, chopped")
	require.NoError(t, err)
	// The bare adjective segment cleans to nothing and is dropped
	require.Len(t, items, 1)
	assert.Equal(t, "flour", items[0].Ingredient.Name())
}

func TestParseQuantityZeroDenominator(t *testing.T) {
	parser, _, _ := newTestParser(t)
	ctx := context.Background()

	item, err := parser.Parse(ctx, uuid.New(), "1/0 cup flour")
	require.NoError(t, err)
	assert.Nil(t, item.Quantity)
	assert.Equal(t, "cup", item.Unit.Name)
	assert.Equal(t, "flour", item.Ingredient.Name())
}
