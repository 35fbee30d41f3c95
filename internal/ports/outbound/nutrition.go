package outbound

import "context"

// FoodCandidate is one textual match from the food-composition search
type FoodCandidate struct {
	ExternalID  string
	Description string
}

// FoodNutrient is one nutrient entry in a detail payload
type FoodNutrient struct {
	Name   string
	Unit   string
	Amount float64
}

// FoodDetail is the nutrient profile of one external catalog entry
type FoodDetail struct {
	ExternalID  string
	Description string
	Nutrients   []FoodNutrient
}

// NutrientLookupService queries the external food-composition database.
// Implementations classify and swallow transport failures at this
// boundary: a failed call yields an empty result, and a missing detail is
// a typed absence (nil detail, nil error), never an error.
type NutrientLookupService interface {
	Search(ctx context.Context, query string, limit int) ([]FoodCandidate, error)
	Details(ctx context.Context, externalID string) (*FoodDetail, error)
}
