// Package sqlite provides SQLite database setup and configuration
package sqlite

import (
	"fmt"

	gormModels "github.com/mealforge/importer/internal/infrastructure/persistence/gorm"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupDatabase creates and configures the SQLite database
func SetupDatabase(dbPath string, logLevel logger.LogLevel) (*gorm.DB, error) {
	// Use in-memory database if no path provided
	if dbPath == "" {
		dbPath = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(gormModels.AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// SeedUnits populates the measurement unit taxonomy. The importer treats
// units as reference data, so the rows must exist before the first job
// runs. Includes the placeholder units the parser falls back to.
func SeedUnits(db *gorm.DB) error {
	var count int64
	db.Model(&gormModels.MeasurementUnitModel{}).Count(&count)
	if count > 0 {
		return nil // Already seeded
	}

	taxonomy := map[string][]string{
		"weight": {"g", "mg", "kg", "oz", "lb"},
		"volume": {"ml", "l", "tsp", "tbsp", "cup", "pint", "quart", "gallon", "fl oz"},
		"count":  {"each", "clove", "slice", "can", "piece", "stick", "bunch"},
		"misc":   {"unknown", "to taste", "pinch", "dash", "kcal", "kj", "iu"},
	}

	units := make([]gormModels.MeasurementUnitModel, 0, 32)
	for group, names := range taxonomy {
		for _, name := range names {
			units = append(units, gormModels.MeasurementUnitModel{
				Name:      name,
				UnitGroup: group,
			})
		}
	}

	if err := db.Create(&units).Error; err != nil {
		return fmt.Errorf("failed to seed measurement units: %w", err)
	}

	return nil
}
