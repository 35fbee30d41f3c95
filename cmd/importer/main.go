// Command importer ingests a recipe dataset file into the catalog
// database and waits for the resulting job to reach a terminal state.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mealforge/importer/internal/application/enrichment"
	"github.com/mealforge/importer/internal/application/importer"
	"github.com/mealforge/importer/internal/application/parser"
	"github.com/mealforge/importer/internal/application/refcache"
	"github.com/mealforge/importer/internal/infrastructure/config"
	"github.com/mealforge/importer/internal/infrastructure/nutrition/fdc"
	gormRepos "github.com/mealforge/importer/internal/infrastructure/persistence/gorm"
	"github.com/mealforge/importer/internal/infrastructure/persistence/postgres"
	"github.com/mealforge/importer/internal/infrastructure/persistence/sqlite"
	"github.com/mealforge/importer/internal/ports/inbound"
	"github.com/mealforge/importer/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file")
		sourceFile = flag.String("file", "", "recipe dataset file to import")
		jobName    = flag.String("name", "", "display name for the import job")
		pollEvery  = flag.Duration("poll", 2*time.Second, "status poll interval")
	)
	flag.Parse()

	if *sourceFile == "" {
		fmt.Fprintln(os.Stderr, "usage: importer -file <dataset.csv> [-config <path>] [-name <label>]")
		os.Exit(2)
	}

	if err := run(*configPath, *sourceFile, *jobName, *pollEvery); err != nil {
		fmt.Fprintf(os.Stderr, "importer: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, sourceFile, jobName string, pollEvery time.Duration) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Development: !cfg.IsProduction(),
	})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	db, err := openDatabase(cfg, log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	jobs := gormRepos.NewImportJobRepository(db)
	recipes := gormRepos.NewRecipeRepository(db)
	ingredients := gormRepos.NewIngredientRepository(db)
	nutrients := gormRepos.NewNutrientRepository(db)
	units := gormRepos.NewUnitRepository(db)

	cache := refcache.New(units, log)
	lookup := fdc.NewClient(cfg.Nutrition, log)

	enricher := enrichment.NewService(lookup, nutrients, ingredients, cache, cfg.Import.EnrichmentQueueSize, cfg.Nutrition.PageSize, log)
	enricher.Start(cfg.Import.EnrichmentWorkers)
	defer enricher.Close()

	ingredientParser := parser.NewIngredientParser(cache, ingredients, enricher, log)
	segmenter := parser.NewStepSegmenter(log)
	assembler := importer.NewAssembler(ingredientParser, segmenter, log)

	service := importer.NewService(jobs, recipes, assembler, enricher, cfg.Import.BatchSize, log)

	ctx := context.Background()
	receipt, err := service.StartImport(ctx, inboundCommand(jobName, sourceFile))
	if err != nil {
		return err
	}
	log.Info("import started", zap.String("process_id", receipt.ProcessID.String()))

	ticker := time.NewTicker(pollEvery)
	defer ticker.Stop()

	for range ticker.C {
		status, err := service.GetStatus(ctx, receipt.ProcessID)
		if err != nil {
			return err
		}

		log.Info("import progress",
			zap.String("status", status.Status),
			zap.Int("rows", status.TotalRows),
			zap.Int("imported", status.Imported),
			zap.Int("skipped", status.Skipped),
			zap.Int("errored", status.Errored),
			zap.Int("enrichment_pending", status.EnrichmentPending),
		)

		if isTerminal(status.Status) {
			fmt.Printf("job %s finished: %s\n", status.ProcessID, status.Status)
			fmt.Printf("  rows=%d imported=%d skipped=%d errored=%d\n",
				status.TotalRows, status.Imported, status.Skipped, status.Errored)
			if status.Message != "" {
				fmt.Printf("  %s\n", status.Message)
			}
			break
		}
	}

	return nil
}

func inboundCommand(name, sourceFile string) inbound.StartImportCommand {
	if name == "" {
		name = filepath.Base(sourceFile)
	}
	return inbound.StartImportCommand{Name: name, SourcePath: sourceFile}
}

func openDatabase(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	if cfg.Database.Driver == "postgres" {
		return postgres.Connect(cfg, log)
	}

	db, err := sqlite.SetupDatabase(cfg.Database.SQLitePath, gormlogger.Warn)
	if err != nil {
		return nil, err
	}
	if err := sqlite.SeedUnits(db); err != nil {
		return nil, err
	}
	return db, nil
}

func isTerminal(status string) bool {
	switch status {
	case "completed", "failed", "canceled":
		return true
	}
	return false
}
