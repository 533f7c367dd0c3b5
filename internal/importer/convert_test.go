package importer

import (
	"testing"

	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_SplitsUpsertsAndClears(t *testing.T) {
	schema := &ImportSchema{Entries: []EntryImport{
		{Date: "2025-03-03", Quality: ptrFloat(88)},
		{Date: "2025-03-02"},
		{Date: "2025-03-01", Production: ptrFloat(4200), SafetyStatus: ptrStr("recordable")},
	}}

	got, err := Convert(schema)
	require.NoError(t, err)

	require.Len(t, got.Upserts, 2)
	assert.Equal(t, "2025-03-01", got.Upserts[0].Date.String(), "sorted by date")
	assert.Equal(t, 4200.0, *got.Upserts[0].Reading.Production)
	assert.Equal(t, domain.SafetyRecordable, *got.Upserts[0].Reading.Safety)
	assert.Nil(t, got.Upserts[0].Reading.Quality)
	assert.Equal(t, "2025-03-03", got.Upserts[1].Date.String())

	require.Len(t, got.Clears, 1)
	assert.Equal(t, "2025-03-02", got.Clears[0].String())
}

func TestConvert_SafetyAliases(t *testing.T) {
	schema := &ImportSchema{Entries: []EntryImport{{Date: "2025-03-01", SafetyStatus: ptrStr("lost_time")}}}

	got, err := Convert(schema)
	require.NoError(t, err)
	require.Len(t, got.Upserts, 1)
	assert.Equal(t, domain.SafetyLostTime, *got.Upserts[0].Reading.Safety)
}

func TestConvert_InvalidDate(t *testing.T) {
	_, err := Convert(&ImportSchema{Entries: []EntryImport{{Date: "nope", Quality: ptrFloat(1)}}})
	assert.Error(t, err)
}
