package bigquery

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDataTypeRoundTrip(t *testing.T) {
	for _, tt := range []struct {
		name string
		in   string
	}{
		{"scalar string", "STRING"},
		{"scalar int64", "INT64"},
		{"boolean synonym", "BOOLEAN"},
		{"array of string", "ARRAY<STRING>"},
		{"struct with named fields", "STRUCT<x FLOAT64,y FLOAT64>"},
		{"struct with unnamed field", "STRUCT<STRING>"},
		{"nested struct", "STRUCT<a STRUCT<b INT64>>"},
		{"struct containing array", "STRUCT<vals ARRAY<INT64>>"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			dt, err := ParseDataType(tt.in)
			require.NoError(t, err)
			require.NotEmpty(t, dt.String())
			back, err := ParseDataType(dt.String())
			require.NoError(t, err)
			require.Equal(t, dt.String(), back.String())
		})
	}
}

func TestParseDataTypeRejectsUnknownKeyword(t *testing.T) {
	_, err := ParseDataType("NOTATYPE")
	require.Error(t, err)
}

func TestParseDataTypeRejectsNestedArray(t *testing.T) {
	_, err := ParseDataType("ARRAY<ARRAY<STRING>>")
	require.Error(t, err)
}

func TestParseDataTypeRejectsTrailingInput(t *testing.T) {
	_, err := ParseDataType("STRING garbage")
	require.Error(t, err)
}

func TestParseRecordOrNonArrayDataTypeRecognizesRecord(t *testing.T) {
	rec, err := ParseRecordOrNonArrayDataType("RECORD")
	require.NoError(t, err)
	require.True(t, rec.IsRecord)

	rec, err = ParseRecordOrNonArrayDataType("record")
	require.NoError(t, err)
	require.True(t, rec.IsRecord)

	rec, err = ParseRecordOrNonArrayDataType("STRING")
	require.NoError(t, err)
	require.False(t, rec.IsRecord)
}

func TestStructFieldsNamedScenario(t *testing.T) {
	// Scenario S5 (spec §8): STRUCT<x FLOAT64, y FLOAT64> parses to two
	// named fields.
	nonArray, err := ParseNonArrayDataType("STRUCT<x FLOAT64, y FLOAT64>")
	require.NoError(t, err)
	require.Equal(t, Struct, nonArray.Kind)
	require.Len(t, nonArray.Fields, 2)
	require.Equal(t, "x", nonArray.Fields[0].Name)
	require.Equal(t, "y", nonArray.Fields[1].Name)
	require.True(t, nonArray.IsJSONSafe())
}
