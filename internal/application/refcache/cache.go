// Package refcache holds the lazily-loaded, process-wide lookup tables for
// measurement units. The cache loads once on first access behind a mutex
// guard and is never refreshed; it is injected as a dependency rather than
// living in package-level state.
package refcache

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mealforge/importer/internal/domain/measurement"
	"github.com/mealforge/importer/internal/ports/outbound"
	"go.uber.org/zap"
)

// FallbackKind selects one of the distinguished fallback units
type FallbackKind int

const (
	KindUnknown FallbackKind = iota
	KindEach
	KindToTaste
)

// sizeWords maps descriptive size words to the count unit
var sizeWords = map[string]struct{}{
	"large":  {},
	"medium": {},
	"small":  {},
}

// Cache is the in-memory mirror of the measurement unit table
type Cache struct {
	units  outbound.UnitRepository
	logger *zap.Logger

	mu      sync.Mutex
	loaded  bool
	byName  map[string]measurement.Unit
	unknown measurement.Unit
	each    measurement.Unit
	toTaste measurement.Unit
}

// New creates a unit cache backed by the given repository
func New(units outbound.UnitRepository, logger *zap.Logger) *Cache {
	return &Cache{
		units:  units,
		logger: logger.Named("refcache"),
	}
}

// ResolveUnit looks a unit up by exact, case-insensitive name
func (c *Cache) ResolveUnit(ctx context.Context, name string) (measurement.Unit, bool) {
	c.ensureLoaded(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	unit, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return unit, ok
}

// ResolveFallbackUnit returns one of the distinguished fallback units
func (c *Cache) ResolveFallbackUnit(ctx context.Context, kind FallbackKind) measurement.Unit {
	c.ensureLoaded(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	switch kind {
	case KindEach:
		return c.each
	case KindToTaste:
		return c.toTaste
	default:
		return c.unknown
	}
}

// ResolveUnitLoose applies the full resolution chain: exact match, then
// singular/plural toggle, then descriptive size words mapping to the count
// unit. The second return reports whether anything in the chain matched;
// callers decide between the count default and the unknown fallback.
func (c *Cache) ResolveUnitLoose(ctx context.Context, token string) (measurement.Unit, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return c.ResolveFallbackUnit(ctx, KindUnknown), false
	}

	if unit, ok := c.ResolveUnit(ctx, token); ok {
		return unit, true
	}

	// Singular/plural toggle
	if strings.HasSuffix(token, "s") {
		if unit, ok := c.ResolveUnit(ctx, strings.TrimSuffix(token, "s")); ok {
			return unit, true
		}
	} else if unit, ok := c.ResolveUnit(ctx, token+"s"); ok {
		return unit, true
	}

	if _, ok := sizeWords[token]; ok {
		return c.ResolveFallbackUnit(ctx, KindEach), true
	}

	return c.ResolveFallbackUnit(ctx, KindUnknown), false
}

// ensureLoaded populates the cache on first access. A load failure leaves
// the cache unloaded so a later access retries.
func (c *Cache) ensureLoaded(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return
	}

	units, err := c.units.ListAll(ctx)
	if err != nil {
		c.logger.Error("failed to load measurement units", zap.Error(err))
		c.substitutePlaceholders()
		return
	}

	c.byName = make(map[string]measurement.Unit, len(units))
	for _, unit := range units {
		c.byName[strings.ToLower(unit.Name)] = unit
	}

	c.unknown = c.byName[measurement.UnitUnknown]
	c.each = c.byName[measurement.UnitEach]
	c.toTaste = c.byName[measurement.UnitToTaste]

	if c.unknown.IsZero() {
		// The pipeline must make forward progress, so a placeholder stands
		// in for the missing row.
		c.logger.Error("critical: measurement unit table has no 'unknown' entry, substituting in-memory placeholder")
		c.unknown = placeholderUnit(measurement.UnitUnknown)
		c.byName[measurement.UnitUnknown] = c.unknown
	}
	if c.each.IsZero() {
		c.logger.Warn("measurement unit table has no 'each' entry, substituting placeholder")
		c.each = placeholderUnit(measurement.UnitEach)
		c.byName[measurement.UnitEach] = c.each
	}
	if c.toTaste.IsZero() {
		c.logger.Warn("measurement unit table has no 'to taste' entry, substituting placeholder")
		c.toTaste = placeholderUnit(measurement.UnitToTaste)
		c.byName[measurement.UnitToTaste] = c.toTaste
	}

	c.loaded = true
}

// substitutePlaceholders keeps lookups usable while the store is unreachable
func (c *Cache) substitutePlaceholders() {
	if c.byName == nil {
		c.byName = make(map[string]measurement.Unit)
	}
	if c.unknown.IsZero() {
		c.unknown = placeholderUnit(measurement.UnitUnknown)
	}
	if c.each.IsZero() {
		c.each = placeholderUnit(measurement.UnitEach)
	}
	if c.toTaste.IsZero() {
		c.toTaste = placeholderUnit(measurement.UnitToTaste)
	}
}

func placeholderUnit(name string) measurement.Unit {
	group := measurement.GroupMisc
	if name == measurement.UnitEach {
		group = measurement.GroupCount
	}
	return measurement.Unit{ID: uuid.New(), Name: name, Group: group}
}
