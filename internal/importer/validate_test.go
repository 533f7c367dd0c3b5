package importer

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrStr(s string) *string     { return &s }
func ptrFloat(f float64) *float64 { return &f }

func validMinimalSchema() *ImportSchema {
	return &ImportSchema{
		Entries: []EntryImport{
			{Date: "2025-03-01", Production: ptrFloat(4200), Quality: ptrFloat(96), SafetyStatus: ptrStr("safe")},
		},
	}
}

func TestValidateImportSchema_ValidMinimal(t *testing.T) {
	errs := ValidateImportSchema(validMinimalSchema())
	assert.Empty(t, errs)
}

func TestValidateImportSchema_NoEntries(t *testing.T) {
	errs := ValidateImportSchema(&ImportSchema{})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "at least one entry")
}

func TestValidateImportSchema_InvalidDates(t *testing.T) {
	schema := &ImportSchema{Entries: []EntryImport{
		{Quality: ptrFloat(90)},
		{Date: "03/01/2025", Quality: ptrFloat(90)},
		{Date: "2025-02-30", Quality: ptrFloat(90)},
	}}
	errs := ValidateImportSchema(schema)
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0].Error(), "entries[0].date is required")
	assert.Contains(t, errs[1].Error(), "invalid date format")
	assert.Contains(t, errs[2].Error(), "2025-02-30")
}

func TestValidateImportSchema_DuplicateDate(t *testing.T) {
	schema := &ImportSchema{Entries: []EntryImport{
		{Date: "2025-03-01", Quality: ptrFloat(90)},
		{Date: "2025-03-01", Quality: ptrFloat(91)},
	}}
	errs := ValidateImportSchema(schema)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "duplicate date")
}

func TestValidateImportSchema_InvalidValues(t *testing.T) {
	schema := &ImportSchema{Entries: []EntryImport{
		{Date: "2025-03-01", Production: ptrFloat(-5)},
		{Date: "2025-03-02", Quality: ptrFloat(math.Inf(1))},
		{Date: "2025-03-03", SafetyStatus: ptrStr("hazardous")},
	}}
	errs := ValidateImportSchema(schema)
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0].Error(), "non-negative")
	assert.Contains(t, errs[1].Error(), "finite")
	assert.ErrorIs(t, errs[2], domain.ErrInvalidSafetyStatus)
}

func TestValidateImportSchema_EmptyEntryIsAClear(t *testing.T) {
	schema := &ImportSchema{Entries: []EntryImport{{Date: "2025-03-04"}}}
	assert.Empty(t, ValidateImportSchema(schema))
}

func TestLoadImportSchema_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "march.yaml")
	content := strings.Join([]string{
		"entries:",
		"  - date: 2025-03-01",
		"    production: 4200",
		"    quality: 96.5",
		"    safety_status: lost-time",
		"  - date: 2025-03-02",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	schema, err := LoadImportSchema(path)
	require.NoError(t, err)
	require.Len(t, schema.Entries, 2)
	assert.Equal(t, "2025-03-01", schema.Entries[0].Date)
	assert.Equal(t, 96.5, *schema.Entries[0].Quality)
	assert.Equal(t, "lost-time", *schema.Entries[0].SafetyStatus)
	assert.Nil(t, schema.Entries[1].Production)
}

func TestLoadImportSchema_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "march.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"entries":[{"date":"2025-03-01","production":0}]}`), 0644))

	schema, err := LoadImportSchema(path)
	require.NoError(t, err)
	require.Len(t, schema.Entries, 1)
	require.NotNil(t, schema.Entries[0].Production)
	assert.Equal(t, 0.0, *schema.Entries[0].Production)
}

func TestLoadImportSchema_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entries: [unterminated"), 0644))

	_, err := LoadImportSchema(path)
	assert.ErrorContains(t, err, "parsing import file")
}
