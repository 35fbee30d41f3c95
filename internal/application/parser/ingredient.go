// Package parser turns free-text ingredient lines and instruction blocks
// into normalized domain values using ordered heuristics over data-driven
// vocabulary tables.
package parser

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mealforge/importer/internal/application/refcache"
	"github.com/mealforge/importer/internal/domain/ingredient"
	"github.com/mealforge/importer/internal/domain/measurement"
	"github.com/mealforge/importer/internal/ports/outbound"
	"go.uber.org/zap"
)

// ErrEmptySegment marks a line whose candidate name cleaned down to
// nothing. ParseAll drops such segments silently.
var ErrEmptySegment = errors.New("ingredient segment cleaned to an empty name")

// quantityPattern matches a leading quantity token: integer, decimal,
// simple fraction "n/d" or mixed number "w n/d".
var quantityPattern = regexp.MustCompile(`^\s*(\d+\s+\d+/\d+|\d+/\d+|\d+\.\d+|\.\d+|\d+)\s*`)

// EnrichmentDispatcher triggers nutrient enrichment for a newly created
// ingredient without the caller waiting for it to finish.
type EnrichmentDispatcher interface {
	Dispatch(ctx context.Context, jobID uuid.UUID, ing *ingredient.Ingredient)
}

// ParsedIngredient is the standardized form of one ingredient line.
// Quantity is nil for "to taste" lines and unparsable quantities.
type ParsedIngredient struct {
	Quantity   *float64
	Unit       measurement.Unit
	Ingredient *ingredient.Ingredient
}

// IngredientParser standardizes raw ingredient text into
// (quantity, unit, canonical ingredient) triples.
type IngredientParser struct {
	cache       *refcache.Cache
	ingredients outbound.IngredientRepository
	dispatcher  EnrichmentDispatcher
	logger      *zap.Logger
}

// NewIngredientParser creates an ingredient standardizer
func NewIngredientParser(
	cache *refcache.Cache,
	ingredients outbound.IngredientRepository,
	dispatcher EnrichmentDispatcher,
	logger *zap.Logger,
) *IngredientParser {
	return &IngredientParser{
		cache:       cache,
		ingredients: ingredients,
		dispatcher:  dispatcher,
		logger:      logger.Named("ingredient-parser"),
	}
}

// Parse standardizes one raw ingredient line
func (p *IngredientParser) Parse(ctx context.Context, jobID uuid.UUID, rawLine string) (*ParsedIngredient, error) {
	line := strings.TrimSpace(rawLine)
	if line == "" {
		return nil, ErrEmptySegment
	}

	working, toTaste := stripToTasteMarkers(line)

	var quantity *float64
	var unit measurement.Unit
	unitResolved := true

	if toTaste {
		unit = p.cache.ResolveFallbackUnit(ctx, refcache.KindToTaste)
		// Quantity stays none, but leading measure tokens still leave the name
		_, _, working = p.matchQuantityAndUnit(ctx, working)
	} else {
		var unitToken string
		quantity, unitToken, working = p.matchQuantityAndUnit(ctx, working)

		switch {
		case unitToken != "":
			unit, _ = p.cache.ResolveUnitLoose(ctx, unitToken)
		case quantity != nil:
			// A quantity with no unit token counts pieces
			unit = p.cache.ResolveFallbackUnit(ctx, refcache.KindEach)
		default:
			unit = p.cache.ResolveFallbackUnit(ctx, refcache.KindUnknown)
			unitResolved = false
		}
	}

	name := cleanCandidateName(working)
	if name == "" {
		// The cleanup emptied the remainder, fall back to the full line
		name = cleanCandidateName(line)
	}
	if name == "" {
		return nil, ErrEmptySegment
	}

	if !unitResolved {
		p.logger.Warn("could not resolve measurement unit",
			zap.String("line", rawLine),
			zap.String("name", name),
		)
	}

	candidate, err := ingredient.NewIngredient(name)
	if err != nil {
		return nil, ErrEmptySegment
	}

	// Create synchronously so the link has an identity; enrichment for a
	// new ingredient runs detached.
	resolved, created, err := p.ingredients.GetOrCreate(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if created && p.dispatcher != nil {
		p.dispatcher.Dispatch(ctx, jobID, resolved)
	}

	return &ParsedIngredient{
		Quantity:   quantity,
		Unit:       unit,
		Ingredient: resolved,
	}, nil
}

// ParseAll standardizes a whole ingredients blob: bracket decoration is
// stripped, segments split on commas outside quotation marks, and segments
// that clean to an empty name are dropped silently.
func (p *IngredientParser) ParseAll(ctx context.Context, jobID uuid.UUID, rawBlob string) ([]ParsedIngredient, error) {
	blob := strings.TrimSpace(rawBlob)
	blob = strings.TrimPrefix(blob, "[")
	blob = strings.TrimSuffix(blob, "]")

	var parsed []ParsedIngredient
	for _, segment := range splitOutsideQuotes(blob, ',') {
		segment = strings.Trim(strings.TrimSpace(segment), `'"`)
		if segment == "" {
			continue
		}

		item, err := p.Parse(ctx, jobID, segment)
		if err != nil {
			if errors.Is(err, ErrEmptySegment) {
				continue
			}
			return nil, err
		}
		parsed = append(parsed, *item)
	}

	return parsed, nil
}

// matchQuantityAndUnit consumes a leading quantity token and, when the
// following word or word pair resolves as a unit, that too. It returns the
// parsed quantity, the consumed unit token and the remaining candidate name.
func (p *IngredientParser) matchQuantityAndUnit(ctx context.Context, working string) (*float64, string, string) {
	m := quantityPattern.FindStringSubmatch(working)
	if m == nil {
		return nil, "", working
	}

	quantity := parseQuantity(m[1])
	rest := strings.TrimSpace(working[len(m[0]):])

	fields := strings.Fields(rest)
	// Two-word units like "fl oz" shadow their one-word prefix
	if len(fields) > 2 {
		token := strings.Trim(fields[0]+" "+fields[1], ".,;:")
		if _, ok := p.cache.ResolveUnitLoose(ctx, token); ok {
			return quantity, token, strings.TrimSpace(strings.Join(fields[2:], " "))
		}
	}
	if len(fields) > 1 {
		token := strings.Trim(fields[0], ".,;:")
		if _, ok := p.cache.ResolveUnitLoose(ctx, token); ok {
			return quantity, token, strings.TrimSpace(strings.Join(fields[1:], " "))
		}
	}

	return quantity, "", rest
}

// parseQuantity reduces a quantity token to a decimal. A zero denominator
// is a local parse failure and yields nil.
func parseQuantity(token string) *float64 {
	token = strings.TrimSpace(token)

	var whole float64
	if i := strings.IndexAny(token, " \t"); i >= 0 {
		w, err := strconv.ParseFloat(token[:i], 64)
		if err != nil {
			return nil
		}
		whole = w
		token = strings.TrimSpace(token[i:])
	}

	if n, d, ok := strings.Cut(token, "/"); ok {
		num, err1 := strconv.ParseFloat(n, 64)
		den, err2 := strconv.ParseFloat(d, 64)
		if err1 != nil || err2 != nil || den == 0 {
			return nil
		}
		v := whole + num/den
		return &v
	}

	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil
	}
	v += whole
	return &v
}

// stripToTasteMarkers removes any "to taste"-style marker from the line
// and reports whether one was present.
func stripToTasteMarkers(line string) (string, bool) {
	found := false
	for _, marker := range toTasteMarkers {
		for {
			idx := strings.Index(strings.ToLower(line), marker)
			if idx < 0 {
				break
			}
			line = line[:idx] + line[idx+len(marker):]
			found = true
		}
	}
	return strings.TrimSpace(line), found
}

// cleanCandidateName strips commas and the adjective vocabulary, collapses
// whitespace and trims trailing punctuation.
func cleanCandidateName(s string) string {
	s = strings.ReplaceAll(s, ",", " ")

	var kept []string
	for _, word := range strings.Fields(s) {
		key := strings.ToLower(strings.Trim(word, ".,;:()"))
		if _, skip := adjectiveVocabulary[key]; skip {
			continue
		}
		kept = append(kept, word)
	}

	name := strings.Join(kept, " ")
	return strings.TrimRight(strings.TrimSpace(name), ".,;:!-")
}

// splitOutsideQuotes splits s on sep, ignoring separators inside single or
// double quotation marks.
func splitOutsideQuotes(s string, sep rune) []string {
	var segments []string
	var current strings.Builder
	var inSingle, inDouble bool

	for _, r := range s {
		switch {
		case r == '\'' && !inDouble:
			inSingle = !inSingle
			current.WriteRune(r)
		case r == '"' && !inSingle:
			inDouble = !inDouble
			current.WriteRune(r)
		case r == sep && !inSingle && !inDouble:
			segments = append(segments, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	segments = append(segments, current.String())

	return segments
}
