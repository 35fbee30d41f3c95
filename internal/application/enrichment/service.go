// Package enrichment fills in per-ingredient nutrient profiles from the
// external food-composition lookup, falling back to zero-valued core
// nutrients so every ingredient stays uniformly queryable.
package enrichment

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mealforge/importer/internal/application/refcache"
	"github.com/mealforge/importer/internal/domain/ingredient"
	"github.com/mealforge/importer/internal/ports/outbound"
	"go.uber.org/zap"
)

// coreNutrients is the fixed minimal set guaranteed present for every
// enriched ingredient, with the default unit used for zero-valued rows.
var coreNutrients = []struct {
	Name string
	Unit string
}{
	{Name: "Calories", Unit: "kcal"},
	{Name: "Protein", Unit: "g"},
	{Name: "Fat", Unit: "g"},
	{Name: "Carbohydrates", Unit: "g"},
}

// nutrientSynonyms maps external nutrient names to canonical ones before
// title-casing. Keys are lowercase.
var nutrientSynonyms = map[string]string{
	"energy":                        "Calories",
	"total lipid":                   "Fat",
	"total fat":                     "Fat",
	"carbohydrate":                  "Carbohydrates",
	"carbohydrate by difference":    "Carbohydrates",
	"fiber":                         "Fiber",
	"total dietary fiber":           "Fiber",
	"sugars":                        "Sugar",
	"total sugars":                  "Sugar",
	"sodium na":                     "Sodium",
	"calcium ca":                    "Calcium",
	"iron fe":                       "Iron",
	"potassium k":                   "Potassium",
	"vitamin c total ascorbic acid": "Vitamin C",
}

type task struct {
	jobID uuid.UUID
	ing   *ingredient.Ingredient
}

// Service performs best-effort, idempotent nutrient enrichment. Dispatch
// hands tasks to a bounded worker pool so recipe throughput is never gated
// by external-API latency; failures are logged and never propagated.
type Service struct {
	lookup      outbound.NutrientLookupService
	nutrients   outbound.NutrientRepository
	ingredients outbound.IngredientRepository
	cache       *refcache.Cache
	searchLimit int
	logger      *zap.Logger

	queue chan task
	done  chan struct{}
	wg    sync.WaitGroup

	mu      sync.Mutex
	pending map[uuid.UUID]int
}

// NewService creates an enrichment service with a queue of the given size.
// searchLimit caps how many lookup candidates one query requests.
func NewService(
	lookup outbound.NutrientLookupService,
	nutrients outbound.NutrientRepository,
	ingredients outbound.IngredientRepository,
	cache *refcache.Cache,
	queueSize int,
	searchLimit int,
	logger *zap.Logger,
) *Service {
	if queueSize < 1 {
		queueSize = 1
	}
	if searchLimit < 1 {
		searchLimit = 1
	}
	return &Service{
		lookup:      lookup,
		nutrients:   nutrients,
		ingredients: ingredients,
		cache:       cache,
		searchLimit: searchLimit,
		logger:      logger.Named("enrichment"),
		queue:       make(chan task, queueSize),
		done:        make(chan struct{}),
		pending:     make(map[uuid.UUID]int),
	}
}

// Start launches the worker pool
func (s *Service) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
}

// Close stops accepting tasks and waits for in-flight enrichment
func (s *Service) Close() {
	close(s.done)
	s.wg.Wait()
}

// Dispatch queues enrichment for a newly created ingredient. The bounded
// queue applies backpressure rather than dropping tasks, because dropped
// tasks would break the core-nutrient guarantee.
func (s *Service) Dispatch(ctx context.Context, jobID uuid.UUID, ing *ingredient.Ingredient) {
	s.addPending(jobID, 1)

	select {
	case s.queue <- task{jobID: jobID, ing: ing}:
	case <-s.done:
		s.addPending(jobID, -1)
		s.logger.Warn("enrichment service closed, dropping task",
			zap.String("ingredient", ing.Name()),
		)
	case <-ctx.Done():
		s.addPending(jobID, -1)
		s.logger.Warn("context canceled before enrichment could be queued",
			zap.String("ingredient", ing.Name()),
		)
	}
}

// Pending reports how many enrichment tasks are still queued or running
// for the given job.
func (s *Service) Pending(jobID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[jobID]
}

// addPending adjusts the per-job task counter, dropping zeroed entries so
// the map does not accumulate keys for finished jobs.
func (s *Service) addPending(jobID uuid.UUID, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[jobID] += delta
	if s.pending[jobID] <= 0 {
		delete(s.pending, jobID)
	}
}

func (s *Service) worker() {
	defer s.wg.Done()
	for {
		select {
		case t := <-s.queue:
			s.runTask(t)
		case <-s.done:
			// Drain what was already queued before shutting down
			for {
				select {
				case t := <-s.queue:
					s.runTask(t)
				default:
					return
				}
			}
		}
	}
}

func (s *Service) runTask(t task) {
	defer s.addPending(t.jobID, -1)

	ctx := context.Background()
	if err := s.Enrich(ctx, t.ing); err != nil {
		// Never propagated: ingestion must not notice enrichment failures
		s.logger.Error("nutrient enrichment failed",
			zap.String("process_id", t.jobID.String()),
			zap.String("ingredient", t.ing.Name()),
			zap.Error(err),
		)
	}
}

// Enrich fetches, normalizes and persists the nutrient profile for one
// ingredient. It is idempotent by (ingredient, nutrient) pair and always
// leaves the four core nutrients present.
func (s *Service) Enrich(ctx context.Context, ing *ingredient.Ingredient) error {
	detail := s.lookupDetail(ctx, ing)

	if detail != nil {
		for _, entry := range detail.Nutrients {
			if err := s.stageNutrient(ctx, ing, entry); err != nil {
				return err
			}
		}
	}

	return s.ensureCoreNutrients(ctx, ing)
}

// lookupDetail finds the single best textual match and its detail payload.
// Any external failure surfaces here as nil, which routes straight to the
// core-nutrient fallback.
func (s *Service) lookupDetail(ctx context.Context, ing *ingredient.Ingredient) *outbound.FoodDetail {
	candidates, err := s.lookup.Search(ctx, ing.Name(), s.searchLimit)
	if err != nil || len(candidates) == 0 {
		s.logger.Debug("no lookup candidate for ingredient",
			zap.String("ingredient", ing.Name()),
			zap.Error(err),
		)
		return nil
	}

	detail, err := s.lookup.Details(ctx, candidates[0].ExternalID)
	if err != nil || detail == nil {
		s.logger.Debug("no detail payload for ingredient",
			zap.String("ingredient", ing.Name()),
			zap.String("external_id", candidates[0].ExternalID),
			zap.Error(err),
		)
		return nil
	}

	ing.SetExternalID(detail.ExternalID)
	if err := s.ingredients.SaveExternalID(ctx, ing.ID(), detail.ExternalID); err != nil {
		// Best effort, the nutrient amounts still land without it
		s.logger.Warn("could not persist external catalog id",
			zap.String("ingredient", ing.Name()),
			zap.String("external_id", detail.ExternalID),
			zap.Error(err),
		)
	}
	return detail
}

// stageNutrient normalizes one external nutrient entry and records the
// association unless one already exists for the pair.
func (s *Service) stageNutrient(ctx context.Context, ing *ingredient.Ingredient, entry outbound.FoodNutrient) error {
	name := normalizeNutrientName(entry.Name)
	if name == "" {
		return nil
	}

	unitName := entry.Unit
	if unit, ok := s.cache.ResolveUnitLoose(ctx, unitName); ok {
		unitName = unit.Name
	}

	candidate, err := ingredient.NewNutrient(name, unitName)
	if err != nil {
		return nil
	}

	nutrient, _, err := s.nutrients.GetOrCreate(ctx, candidate)
	if err != nil {
		return err
	}

	exists, err := s.nutrients.HasAmount(ctx, ing.ID(), nutrient.ID())
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return s.nutrients.SaveAmount(ctx, ingredient.NutrientAmount{
		IngredientID: ing.ID(),
		NutrientID:   nutrient.ID(),
		Amount:       entry.Amount,
		Unit:         unitName,
	})
}

// ensureCoreNutrients force-creates zero-valued associations for any core
// nutrient still missing.
func (s *Service) ensureCoreNutrients(ctx context.Context, ing *ingredient.Ingredient) error {
	for _, core := range coreNutrients {
		candidate, err := ingredient.NewNutrient(core.Name, core.Unit)
		if err != nil {
			return err
		}

		nutrient, _, err := s.nutrients.GetOrCreate(ctx, candidate)
		if err != nil {
			return err
		}

		exists, err := s.nutrients.HasAmount(ctx, ing.ID(), nutrient.ID())
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		if err := s.nutrients.SaveAmount(ctx, ingredient.NutrientAmount{
			IngredientID: ing.ID(),
			NutrientID:   nutrient.ID(),
			Amount:       0,
			Unit:         nutrient.DefaultUnit(),
		}); err != nil {
			return err
		}
	}

	return nil
}

// normalizeNutrientName strips parenthetical and comma qualifiers, applies
// the synonym table and title-cases the result.
func normalizeNutrientName(raw string) string {
	name := raw
	if i := strings.IndexAny(name, "(,"); i >= 0 {
		name = name[:i]
	}
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}

	if canonical, ok := nutrientSynonyms[strings.ToLower(name)]; ok {
		return canonical
	}

	return strings.Title(strings.ToLower(name))
}
