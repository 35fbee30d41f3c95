// Package ingredient contains the canonical ingredient and nutrient
// domain entities shared across recipes.
package ingredient

import (
	"strings"

	"github.com/google/uuid"
)

// Ingredient is the deduplicated, name-keyed representation of a food item.
// Names are globally unique, case-insensitive. Created lazily on first
// encounter and never deleted by the import pipeline.
type Ingredient struct {
	id          uuid.UUID
	name        string
	description string
	externalID  string
}

// NewIngredient creates an ingredient with a canonical name
func NewIngredient(name string) (*Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	return &Ingredient{
		id:   uuid.New(),
		name: name,
	}, nil
}

// RestoreIngredient rebuilds an ingredient from persisted state
func RestoreIngredient(id uuid.UUID, name, description, externalID string) *Ingredient {
	return &Ingredient{
		id:          id,
		name:        name,
		description: description,
		externalID:  externalID,
	}
}

// ID returns the ingredient's identifier
func (i *Ingredient) ID() uuid.UUID { return i.id }

// Name returns the canonical display name
func (i *Ingredient) Name() string { return i.name }

// NameKey returns the case-insensitive uniqueness key
func (i *Ingredient) NameKey() string { return NameKey(i.name) }

// Description returns the optional description
func (i *Ingredient) Description() string { return i.description }

// ExternalID returns the optional external-catalog identifier
func (i *Ingredient) ExternalID() string { return i.externalID }

// SetExternalID records the external-catalog identifier once known
func (i *Ingredient) SetExternalID(id string) { i.externalID = id }

// NameKey lowers a name to its case-insensitive uniqueness key
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Nutrient is a canonical nutrient in the taxonomy, created lazily on
// first observation from the external source.
type Nutrient struct {
	id          uuid.UUID
	name        string
	defaultUnit string
}

// NewNutrient creates a nutrient with a canonical name and default unit
func NewNutrient(name, defaultUnit string) (*Nutrient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	return &Nutrient{
		id:          uuid.New(),
		name:        name,
		defaultUnit: defaultUnit,
	}, nil
}

// RestoreNutrient rebuilds a nutrient from persisted state
func RestoreNutrient(id uuid.UUID, name, defaultUnit string) *Nutrient {
	return &Nutrient{id: id, name: name, defaultUnit: defaultUnit}
}

// ID returns the nutrient's identifier
func (n *Nutrient) ID() uuid.UUID { return n.id }

// Name returns the canonical nutrient name
func (n *Nutrient) Name() string { return n.name }

// NameKey returns the case-insensitive uniqueness key
func (n *Nutrient) NameKey() string { return NameKey(n.name) }

// DefaultUnit returns the unit amounts default to
func (n *Nutrient) DefaultUnit() string { return n.defaultUnit }

// NutrientAmount associates an amount of one nutrient with one ingredient,
// unique per (ingredient, nutrient) pair.
type NutrientAmount struct {
	IngredientID uuid.UUID
	NutrientID   uuid.UUID
	Amount       float64
	Unit         string
}
