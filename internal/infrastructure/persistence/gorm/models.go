// Package gorm provides GORM model definitions and repository
// implementations for the importer
package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportJobModel represents the GORM model for import jobs
type ImportJobModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name        string    `gorm:"type:varchar(255);not null"`
	SourcePath  string    `gorm:"type:text;not null"`
	Status      string    `gorm:"type:varchar(20);not null;index"`
	Message     string    `gorm:"type:text"`
	TotalRows   int       `gorm:"default:0"`
	Imported    int       `gorm:"default:0"`
	Skipped     int       `gorm:"default:0"`
	Errored     int       `gorm:"default:0"`
	QueuedAt    time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for import jobs
func (ImportJobModel) TableName() string {
	return "import_jobs"
}

// RecipeModel represents the GORM model for imported recipes
type RecipeModel struct {
	ID               uuid.UUID `gorm:"type:char(36);primaryKey"`
	Title            string    `gorm:"type:varchar(255);not null"`
	TitleKey         string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	IngredientsText  string    `gorm:"type:text"`
	InstructionsText string    `gorm:"type:text"`
	PrepTimeMinutes  int       `gorm:"default:0"`
	CookTimeMinutes  int       `gorm:"default:0"`
	Servings         int       `gorm:"default:0"`
	CreatedAt        time.Time `gorm:"index"`

	Steps       []RecipeStepModel       `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredientModel `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for recipes
func (RecipeModel) TableName() string {
	return "recipes"
}

// RecipeStepModel represents one ordered instruction step
type RecipeStepModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	RecipeID    uuid.UUID `gorm:"type:char(36);not null;index"`
	Number      int       `gorm:"not null"`
	Summary     string    `gorm:"type:varchar(64)"`
	Description string    `gorm:"type:text;not null"`
}

// TableName returns the table name for recipe steps
func (RecipeStepModel) TableName() string {
	return "recipe_steps"
}

// RecipeIngredientModel links a recipe to a standardized ingredient with
// the quantity and unit parsed from the source line
type RecipeIngredientModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	RecipeID     uuid.UUID `gorm:"type:char(36);not null;index"`
	IngredientID uuid.UUID `gorm:"type:char(36);not null;index"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Quantity     *float64
	UnitID       uuid.UUID `gorm:"type:char(36);not null"`
}

// TableName returns the table name for recipe ingredients
func (RecipeIngredientModel) TableName() string {
	return "recipe_ingredients"
}

// IngredientModel represents the GORM model for standardized ingredients
type IngredientModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name        string    `gorm:"type:varchar(255);not null"`
	NameKey     string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description string    `gorm:"type:text"`
	ExternalID  string    `gorm:"type:varchar(64);index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for ingredients
func (IngredientModel) TableName() string {
	return "ingredients"
}

// NutrientModel represents the GORM model for nutrient definitions
type NutrientModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name        string    `gorm:"type:varchar(128);not null;uniqueIndex"`
	DefaultUnit string    `gorm:"type:varchar(32)"`
	CreatedAt   time.Time
}

// TableName returns the table name for nutrients
func (NutrientModel) TableName() string {
	return "nutrients"
}

// IngredientNutrientModel records the amount of one nutrient for one
// ingredient; the pair is the identity
type IngredientNutrientModel struct {
	IngredientID uuid.UUID `gorm:"type:char(36);primaryKey"`
	NutrientID   uuid.UUID `gorm:"type:char(36);primaryKey"`
	Amount       float64   `gorm:"default:0"`
	Unit         string    `gorm:"type:varchar(32)"`
	CreatedAt    time.Time
}

// TableName returns the table name for ingredient nutrient amounts
func (IngredientNutrientModel) TableName() string {
	return "ingredient_nutrients"
}

// MeasurementUnitModel represents the GORM model for measurement units
type MeasurementUnitModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name      string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	UnitGroup string    `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time
}

// TableName returns the table name for measurement units
func (MeasurementUnitModel) TableName() string {
	return "measurement_units"
}

// BeforeCreate generates a UUID for new recipe steps
func (m *RecipeStepModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate generates a UUID for new recipe ingredient links
func (m *RecipeIngredientModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate generates a UUID for new ingredients
func (m *IngredientModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate generates a UUID for new nutrients
func (m *NutrientModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate generates a UUID for new measurement units
func (m *MeasurementUnitModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// AllModels lists every model for migration
func AllModels() []interface{} {
	return []interface{}{
		&ImportJobModel{},
		&RecipeModel{},
		&RecipeStepModel{},
		&RecipeIngredientModel{},
		&IngredientModel{},
		&NutrientModel{},
		&IngredientNutrientModel{},
		&MeasurementUnitModel{},
	}
}
