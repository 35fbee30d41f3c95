package importer

import (
	"fmt"
	"strconv"
	"strings"
)

// RawRow is the ephemeral per-line projection of one source record. It is
// never persisted and consumed exactly once by the assembler.
type RawRow struct {
	Title            string
	IngredientsBlob  string
	InstructionsBlob string
	CookTimeSeconds  *int
	PrepTimeMinutes  *int
	Servings         *int
}

// columnIndex maps header names to record positions. Required columns are
// title, ingredients and instructions; the rest are optional hints.
type columnIndex struct {
	title        int
	ingredients  int
	instructions int
	cookSeconds  int
	prepMinutes  int
	servings     int
}

// mapColumns resolves the header row case-insensitively
func mapColumns(header []string) (*columnIndex, error) {
	cols := &columnIndex{
		title:        -1,
		ingredients:  -1,
		instructions: -1,
		cookSeconds:  -1,
		prepMinutes:  -1,
		servings:     -1,
	}

	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "title", "name":
			cols.title = i
		case "ingredients":
			cols.ingredients = i
		case "instructions", "directions":
			cols.instructions = i
		case "cook_time_seconds", "cook_time":
			cols.cookSeconds = i
		case "prep_time_minutes", "prep_time":
			cols.prepMinutes = i
		case "servings":
			cols.servings = i
		}
	}

	var missing []string
	if cols.title < 0 {
		missing = append(missing, "title")
	}
	if cols.ingredients < 0 {
		missing = append(missing, "ingredients")
	}
	if cols.instructions < 0 {
		missing = append(missing, "instructions")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("source header is missing required columns: %s", strings.Join(missing, ", "))
	}

	return cols, nil
}

// rowFrom projects one record into a RawRow
func (c *columnIndex) rowFrom(record []string) RawRow {
	row := RawRow{
		Title:            strings.TrimSpace(fieldAt(record, c.title)),
		IngredientsBlob:  strings.TrimSpace(fieldAt(record, c.ingredients)),
		InstructionsBlob: strings.TrimSpace(fieldAt(record, c.instructions)),
	}

	row.CookTimeSeconds = intField(record, c.cookSeconds)
	row.PrepTimeMinutes = intField(record, c.prepMinutes)
	row.Servings = intField(record, c.servings)

	return row
}

func fieldAt(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func intField(record []string, idx int) *int {
	raw := strings.TrimSpace(fieldAt(record, idx))
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}
