package bigquery

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seamusabshere/dbcrossbar/portable"
)

func TestForDataTypeScalarMapping(t *testing.T) {
	for _, tt := range []struct {
		name     string
		in       portable.DataType
		usage    Usage
		expected string
	}{
		{"text to string", portable.Text, FinalTable, "STRING"},
		{"int64 to int64", portable.Int64, FinalTable, "INT64"},
		{"int16 widens to int64", portable.Int16, FinalTable, "INT64"},
		{"float32 to float64", portable.Float32, FinalTable, "FLOAT64"},
		{"decimal to numeric", portable.Decimal, FinalTable, "NUMERIC"},
		{"wgs84 geo_json to geography", portable.GeoJSON(portable.WGS84), FinalTable, "GEOGRAPHY"},
		{"non-wgs84 geo_json to string", portable.GeoJSON(3857), FinalTable, "STRING"},
		{"json to string", portable.JSON, FinalTable, "STRING"},
		{"timestamp with tz", portable.TimestampTZ, FinalTable, "TIMESTAMP"},
		{"timestamp without tz", portable.TimestampWithoutTZ, FinalTable, "DATETIME"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			dt, err := ForDataType(tt.in, tt.usage)
			require.NoError(t, err)
			require.Equal(t, tt.expected, dt.String())
		})
	}
}

// TestForDataTypeArrayOfArrayFinalTable is scenario S4 (spec §8):
// Array(Array(Int32)) under FinalTable wraps the inner array in a
// single-field anonymous struct, since BigQuery forbids ARRAY<ARRAY<_>>.
func TestForDataTypeArrayOfArrayFinalTable(t *testing.T) {
	in := portable.Array(portable.Array(portable.Int32))
	dt, err := ForDataType(in, FinalTable)
	require.NoError(t, err)
	require.True(t, dt.IsArray())
	require.Equal(t, "ARRAY<STRUCT<ARRAY<INT64>>>", dt.String())
}

// TestForDataTypeArrayCsvLoadIsString is testable property 3 (spec §4.2):
// arrays can't be loaded directly from CSV, so CsvLoad always emits
// STRING at the top level regardless of element type.
func TestForDataTypeArrayCsvLoadIsString(t *testing.T) {
	in := portable.Array(portable.Text)
	dt, err := ForDataType(in, CsvLoad)
	require.NoError(t, err)
	require.False(t, dt.IsArray())
	require.Equal(t, "STRING", dt.String())

	inNested := portable.Array(portable.Array(portable.Int32))
	dt, err = ForDataType(inNested, CsvLoad)
	require.NoError(t, err)
	require.Equal(t, "STRING", dt.String())
}

func TestToDataTypeStructArrayCollapsesToJSON(t *testing.T) {
	native := NewArray(StructOf([]StructField{{Name: "a", Type: NewNonArray(NonArrayOf(String))}}))
	pt, err := native.ToDataType()
	require.NoError(t, err)
	require.True(t, pt.Equal(portable.JSON))
}

func TestToDataTypeUnsupportedBytes(t *testing.T) {
	_, err := NonArrayOf(Bytes).ToDataType()
	require.Error(t, err)
}

func TestBigQueryDataTypeRoundTripThroughPortable(t *testing.T) {
	for _, in := range []portable.DataType{
		portable.Text,
		portable.Int64,
		portable.Float64,
		portable.Bool,
		portable.Date,
		portable.Decimal,
		portable.GeoJSON(portable.WGS84),
		portable.TimestampTZ,
		portable.TimestampWithoutTZ,
	} {
		native, err := ForDataType(in, FinalTable)
		require.NoError(t, err)
		back, err := native.ToDataType()
		require.NoError(t, err)
		require.True(t, in.Equal(back), "expected %s, got %s", in, back)
	}
}
