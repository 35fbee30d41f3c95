package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "mealforge-importer", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 1000, cfg.Import.BatchSize)
	assert.Equal(t, 4, cfg.Import.EnrichmentWorkers)
	assert.Equal(t, "https://api.nal.usda.gov/fdc", cfg.Nutrition.BaseURL)
	assert.Equal(t, 60, cfg.Nutrition.RequestsPerMinute)
	assert.False(t, cfg.IsProduction())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("MEALFORGE_IMPORT_BATCH_SIZE", "250")
	t.Setenv("MEALFORGE_DATABASE_DRIVER", "postgres")
	t.Setenv("MEALFORGE_DATABASE_DATABASE", "mealforge")
	t.Setenv("MEALFORGE_DATABASE_USERNAME", "importer")
	t.Setenv("MEALFORGE_DATABASE_PASSWORD", "secret")
	t.Setenv("MEALFORGE_NUTRITION_API_KEY", "demo-key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Import.BatchSize)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "mealforge", cfg.Database.Database)
	assert.Equal(t, "importer", cfg.Database.Username)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "demo-key", cfg.Nutrition.APIKey)
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Setenv("MEALFORGE_IMPORT_BATCH_SIZE", "0")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch_size")
}

func TestValidateRequiresPostgresDatabase(t *testing.T) {
	t.Setenv("MEALFORGE_DATABASE_DRIVER", "postgres")
	t.Setenv("MEALFORGE_DATABASE_DATABASE", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.database")
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "db.internal",
			Port:     5432,
			Username: "importer",
			Password: "secret",
			Database: "mealforge",
			SSLMode:  "require",
		},
	}

	dsn := cfg.GetDSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "dbname=mealforge")
	assert.Contains(t, dsn, "sslmode=require")
}
