package recipe

import "errors"

var (
	// ErrEmptyTitle indicates a recipe without a title
	ErrEmptyTitle = errors.New("recipe title must not be empty")

	// ErrStepOutOfOrder indicates a step ordinal breaking contiguity
	ErrStepOutOfOrder = errors.New("step ordinals must be contiguous and strictly increasing")

	// ErrTooManySteps indicates a step past the bounded ordinal range
	ErrTooManySteps = errors.New("step ordinal exceeds the supported range")

	// ErrEmptyStep indicates a step with no description
	ErrEmptyStep = errors.New("step description must not be empty")

	// ErrUnresolvedIngredient indicates a link without an ingredient identity
	ErrUnresolvedIngredient = errors.New("ingredient link requires a resolved ingredient id")

	// ErrNoIngredients indicates an assembled recipe with nothing parsed
	ErrNoIngredients = errors.New("recipe requires at least one parsed ingredient")

	// ErrNoSteps indicates an assembled recipe with no steps
	ErrNoSteps = errors.New("recipe requires at least one step")
)
