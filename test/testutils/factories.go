// Package testutils provides test data factories and in-memory fakes for
// the import pipeline
package testutils

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
)

// DatasetFactory generates recipe dataset files in the source CSV shape
type DatasetFactory struct {
	faker *gofakeit.Faker
}

// NewDatasetFactory creates a factory with a seeded faker so generated
// datasets are reproducible per test
func NewDatasetFactory(seed int64) *DatasetFactory {
	return &DatasetFactory{faker: gofakeit.New(seed)}
}

// DatasetRow is one raw CSV row before encoding
type DatasetRow struct {
	Title           string
	Ingredients     string
	Instructions    string
	CookTimeSeconds int
	PrepTimeMinutes int
	Servings        int
}

// Row generates one well-formed dataset row with a unique title
func (f *DatasetFactory) Row(n int) DatasetRow {
	return DatasetRow{
		Title: fmt.Sprintf("%s %s %d", f.faker.Adjective(), f.faker.Dinner(), n),
		Ingredients: fmt.Sprintf("[\"%d cup %s\", \"%d tsp %s\", \"salt, to taste\"]",
			f.faker.Number(1, 3), f.faker.Vegetable(),
			f.faker.Number(1, 4), f.faker.Fruit()),
		Instructions: fmt.Sprintf("1. %s 2. %s 3. %s",
			f.faker.Sentence(6), f.faker.Sentence(6), f.faker.Sentence(6)),
		CookTimeSeconds: f.faker.Number(5, 90) * 60,
		PrepTimeMinutes: f.faker.Number(5, 45),
		Servings:        f.faker.Number(1, 8),
	}
}

// WriteCSV writes rows to a CSV file under dir and returns its path
func (f *DatasetFactory) WriteCSV(t *testing.T, dir string, rows []DatasetRow) string {
	t.Helper()

	path := filepath.Join(dir, "dataset.csv")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	w := csv.NewWriter(file)
	require.NoError(t, w.Write([]string{
		"title", "ingredients", "instructions",
		"cook_time_seconds", "prep_time_minutes", "servings",
	}))
	for _, row := range rows {
		require.NoError(t, w.Write([]string{
			row.Title,
			row.Ingredients,
			row.Instructions,
			strconv.Itoa(row.CookTimeSeconds),
			strconv.Itoa(row.PrepTimeMinutes),
			strconv.Itoa(row.Servings),
		}))
	}
	w.Flush()
	require.NoError(t, w.Error())

	return path
}

// Rows generates n well-formed rows
func (f *DatasetFactory) Rows(n int) []DatasetRow {
	rows := make([]DatasetRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, f.Row(i+1))
	}
	return rows
}
