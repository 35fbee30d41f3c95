package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mealforge/importer/internal/domain/recipe"
	"go.uber.org/zap"
)

// stepMarkerPattern matches explicit ordinal markers such as "1.", "2)" or
// "Step 3:" at a word boundary.
var stepMarkerPattern = regexp.MustCompile(`(?:^|\s)(?:[Ss]tep\s+)?(\d{1,2})\s*[.):]\s+`)

// StepSegmenter splits one free-text instruction block into an ordered
// list of steps.
type StepSegmenter struct {
	logger *zap.Logger
}

// NewStepSegmenter creates a step segmenter
func NewStepSegmenter(logger *zap.Logger) *StepSegmenter {
	return &StepSegmenter{logger: logger.Named("step-segmenter")}
}

// Segment splits raw instruction text into steps. Explicit ordinal markers
// win; spans are renumbered sequentially from 1 regardless of the literal
// source numbers. Without markers the text falls back to line splitting,
// and a single span becomes one step covering the full text.
func (s *StepSegmenter) Segment(rawInstructions string) []recipe.Step {
	text := strings.TrimSpace(rawInstructions)
	if text == "" {
		return nil
	}

	spans := markerSpans(text)
	if len(spans) == 0 {
		spans = fallbackSpans(text)
	}

	if len(spans) <= 1 {
		return []recipe.Step{makeStep(1, text)}
	}

	if len(spans) > recipe.MaxSteps {
		s.logger.Warn("instruction block exceeds the step limit, dropping excess spans",
			zap.Int("spans", len(spans)),
			zap.Int("limit", recipe.MaxSteps),
		)
		spans = spans[:recipe.MaxSteps]
	}

	steps := make([]recipe.Step, 0, len(spans))
	for i, span := range spans {
		steps = append(steps, makeStep(i+1, span))
	}
	return steps
}

// markerSpans splits text at explicit ordinal markers. Literal source
// numbers are discarded; only marker positions matter.
func markerSpans(text string) []string {
	matches := stepMarkerPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	var spans []string
	if lead := strings.TrimSpace(text[:matches[0][0]]); isNonTrivial(lead) {
		spans = append(spans, lead)
	}

	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		if span := strings.TrimSpace(text[m[1]:end]); isNonTrivial(span) {
			spans = append(spans, span)
		}
	}

	return spans
}

// fallbackSpans splits unmarked text on line breaks
func fallbackSpans(text string) []string {
	var spans []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); isNonTrivial(line) {
			spans = append(spans, line)
		}
	}
	return spans
}

// isNonTrivial filters fragments too short to be a step
func isNonTrivial(span string) bool {
	return len(span) > 2
}

func makeStep(number int, description string) recipe.Step {
	return recipe.Step{
		Number:      number,
		Summary:     fmt.Sprintf("Step %d", number),
		Description: description,
	}
}
