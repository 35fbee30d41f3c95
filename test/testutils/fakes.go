package testutils

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mealforge/importer/internal/domain/ingredient"
	"github.com/mealforge/importer/internal/domain/measurement"
	"github.com/mealforge/importer/internal/ports/outbound"
)

// FakeUnitRepository serves a fixed unit taxonomy from memory
type FakeUnitRepository struct {
	Units []measurement.Unit
	Err   error

	mu        sync.Mutex
	ListCalls int
}

// NewFakeUnitRepository returns a repository seeded with the standard
// taxonomy, including the placeholder units the parser falls back to
func NewFakeUnitRepository() *FakeUnitRepository {
	names := map[measurement.UnitGroup][]string{
		measurement.GroupWeight: {"g", "kg", "oz", "lb"},
		measurement.GroupVolume: {"ml", "l", "tsp", "tbsp", "cup", "fl oz"},
		measurement.GroupCount:  {"each", "clove", "slice"},
		measurement.GroupMisc:   {"unknown", "to taste", "pinch", "kcal"},
	}

	repo := &FakeUnitRepository{}
	for group, groupNames := range names {
		for _, name := range groupNames {
			repo.Units = append(repo.Units, measurement.Unit{
				ID:    uuid.New(),
				Name:  name,
				Group: group,
			})
		}
	}
	return repo
}

// ListAll returns the seeded taxonomy
func (r *FakeUnitRepository) ListAll(ctx context.Context) ([]measurement.Unit, error) {
	r.mu.Lock()
	r.ListCalls++
	r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	return r.Units, nil
}

// Remove drops a unit by name, for exercising missing-placeholder paths
func (r *FakeUnitRepository) Remove(name string) {
	kept := r.Units[:0]
	for _, u := range r.Units {
		if u.Name != name {
			kept = append(kept, u)
		}
	}
	r.Units = kept
}

// FakeIngredientRepository resolves ingredients from an in-memory map
// keyed by the case-insensitive name
type FakeIngredientRepository struct {
	mu          sync.Mutex
	byKey       map[string]*ingredient.Ingredient
	externalIDs map[uuid.UUID]string
}

// NewFakeIngredientRepository creates an empty in-memory store
func NewFakeIngredientRepository() *FakeIngredientRepository {
	return &FakeIngredientRepository{
		byKey:       make(map[string]*ingredient.Ingredient),
		externalIDs: make(map[uuid.UUID]string),
	}
}

// FindByName looks up an ingredient; absence is (nil, nil)
func (r *FakeIngredientRepository) FindByName(ctx context.Context, name string) (*ingredient.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.byKey[ingredient.NameKey(name)], nil
}

// GetOrCreate inserts the ingredient unless its name key already exists
func (r *FakeIngredientRepository) GetOrCreate(ctx context.Context, ing *ingredient.Ingredient) (*ingredient.Ingredient, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ing.NameKey()
	if existing, ok := r.byKey[key]; ok {
		return existing, false, nil
	}
	r.byKey[key] = ing
	return ing, true, nil
}

// SaveExternalID records the external catalog id for an ingredient
func (r *FakeIngredientRepository) SaveExternalID(ctx context.Context, id uuid.UUID, externalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.externalIDs[id] = externalID
	return nil
}

// ExternalIDFor returns the stored external id for an ingredient, if any
func (r *FakeIngredientRepository) ExternalIDFor(id uuid.UUID) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.externalIDs[id]
}

// Count returns the number of distinct ingredients stored
func (r *FakeIngredientRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byKey)
}

// FakeNutrientRepository stores nutrients and amounts in memory
type FakeNutrientRepository struct {
	mu      sync.Mutex
	byName  map[string]*ingredient.Nutrient
	amounts map[string]ingredient.NutrientAmount
}

// NewFakeNutrientRepository creates an empty in-memory store
func NewFakeNutrientRepository() *FakeNutrientRepository {
	return &FakeNutrientRepository{
		byName:  make(map[string]*ingredient.Nutrient),
		amounts: make(map[string]ingredient.NutrientAmount),
	}
}

// GetOrCreate inserts the nutrient unless its name already exists
func (r *FakeNutrientRepository) GetOrCreate(ctx context.Context, nut *ingredient.Nutrient) (*ingredient.Nutrient, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := nut.NameKey()
	if existing, ok := r.byName[key]; ok {
		return existing, false, nil
	}
	r.byName[key] = nut
	return nut, true, nil
}

// HasAmount reports whether an amount exists for the pair
func (r *FakeNutrientRepository) HasAmount(ctx context.Context, ingredientID, nutrientID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.amounts[pairKey(ingredientID, nutrientID)]
	return ok, nil
}

// SaveAmount records the amount for the pair; first writer wins
func (r *FakeNutrientRepository) SaveAmount(ctx context.Context, amount ingredient.NutrientAmount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(amount.IngredientID, amount.NutrientID)
	if _, ok := r.amounts[key]; ok {
		return nil
	}
	r.amounts[key] = amount
	return nil
}

// AmountsFor returns every stored amount for an ingredient
func (r *FakeNutrientRepository) AmountsFor(ingredientID uuid.UUID) []ingredient.NutrientAmount {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []ingredient.NutrientAmount
	for _, amount := range r.amounts {
		if amount.IngredientID == ingredientID {
			out = append(out, amount)
		}
	}
	return out
}

// NutrientByName returns a stored nutrient definition, if any
func (r *FakeNutrientRepository) NutrientByName(name string) *ingredient.Nutrient {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byName[ingredient.NameKey(name)]
}

func pairKey(ingredientID, nutrientID uuid.UUID) string {
	return ingredientID.String() + "/" + nutrientID.String()
}

// FakeLookupService serves canned food search results keyed by a
// substring of the query. An empty service behaves like an unreachable
// upstream: every call comes back empty.
type FakeLookupService struct {
	mu      sync.Mutex
	foods   map[string]outbound.FoodDetail
	nextID  int
	Queries []string
	Limits  []int
}

// NewFakeLookupService creates an empty lookup fake
func NewFakeLookupService() *FakeLookupService {
	return &FakeLookupService{foods: make(map[string]outbound.FoodDetail)}
}

// AddFood registers a food matched when the query contains match
func (s *FakeLookupService) AddFood(match, description string, nutrients ...outbound.FoodNutrient) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := uuid.NewString()[:8]
	s.foods[strings.ToLower(match)] = outbound.FoodDetail{
		ExternalID:  id,
		Description: description,
		Nutrients:   nutrients,
	}
	return id
}

// Search returns the first registered food whose match key appears in
// the query
func (s *FakeLookupService) Search(ctx context.Context, query string, limit int) ([]outbound.FoodCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Queries = append(s.Queries, query)
	s.Limits = append(s.Limits, limit)
	lowered := strings.ToLower(query)
	for match, detail := range s.foods {
		if strings.Contains(lowered, match) {
			return []outbound.FoodCandidate{{
				ExternalID:  detail.ExternalID,
				Description: detail.Description,
			}}, nil
		}
	}
	return nil, nil
}

// Details returns the registered food with the given external id
func (s *FakeLookupService) Details(ctx context.Context, externalID string) (*outbound.FoodDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, detail := range s.foods {
		if detail.ExternalID == externalID {
			d := detail
			return &d, nil
		}
	}
	return nil, nil
}

// RecordingDispatcher captures enrichment dispatches without running them
type RecordingDispatcher struct {
	mu         sync.Mutex
	Dispatched []*ingredient.Ingredient
}

// Dispatch records the ingredient and returns immediately
func (d *RecordingDispatcher) Dispatch(ctx context.Context, jobID uuid.UUID, ing *ingredient.Ingredient) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Dispatched = append(d.Dispatched, ing)
}

// Count returns the number of recorded dispatches
func (d *RecordingDispatcher) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Dispatched)
}
