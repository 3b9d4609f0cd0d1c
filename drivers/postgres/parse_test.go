package postgres

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseCreateTableScenarioS1 is scenario S1 (spec §8): a CREATE TABLE
// with two columns parses with both columns present, in order.
func TestParseCreateTableScenarioS1(t *testing.T) {
	ct, err := ParseCreateTable(`CREATE TABLE widgets (
		id bigint NOT NULL,
		name text
	);`)
	require.NoError(t, err)
	require.Equal(t, "widgets", ct.Name)
	require.Len(t, ct.Columns, 2)
	require.Equal(t, "id", ct.Columns[0].Name)
	require.Equal(t, BigInt, ct.Columns[0].Type.Kind)
	require.False(t, ct.Columns[0].IsNullable)
	require.Equal(t, "name", ct.Columns[1].Name)
	require.Equal(t, Text, ct.Columns[1].Type.Kind)
	require.True(t, ct.Columns[1].IsNullable)
}

func TestParseCreateTableArraySuffix(t *testing.T) {
	ct, err := ParseCreateTable(`CREATE TABLE t (tags text[]);`)
	require.NoError(t, err)
	require.True(t, ct.Columns[0].Type.IsArray())
	require.Equal(t, Text, ct.Columns[0].Type.Kind)
}

func TestParseCreateTableArrayWithIgnoredLength(t *testing.T) {
	ct, err := ParseCreateTable(`CREATE TABLE t (nums int[3]);`)
	require.NoError(t, err)
	require.True(t, ct.Columns[0].Type.IsArray())
	require.Equal(t, Integer, ct.Columns[0].Type.Kind)
}

func TestParseCreateTableNestedArray(t *testing.T) {
	ct, err := ParseCreateTable(`CREATE TABLE t (matrix int[][]);`)
	require.NoError(t, err)
	elem, ok := ct.Columns[0].Type.Elem()
	require.True(t, ok)
	require.True(t, elem.IsArray())
}

func TestParseCreateTableNumericPrecisionScale(t *testing.T) {
	ct, err := ParseCreateTable(`CREATE TABLE t (price numeric(10,2));`)
	require.NoError(t, err)
	require.Equal(t, Numeric, ct.Columns[0].Type.Kind)
	require.Equal(t, 10, ct.Columns[0].Type.NumPrec)
	require.Equal(t, 2, ct.Columns[0].Type.NumScale)
}

func TestParseCreateTableGeometryWithSrid(t *testing.T) {
	ct, err := ParseCreateTable(`CREATE TABLE t (geom geometry(Geometry,4326));`)
	require.NoError(t, err)
	require.Equal(t, Geometry, ct.Columns[0].Type.Kind)
	require.Equal(t, 4326, ct.Columns[0].Type.GeometrySrid)
}

func TestParseCreateTableQuotedIdentifierPreservesCase(t *testing.T) {
	ct, err := ParseCreateTable(`CREATE TABLE "MixedCase" ("ColName" text);`)
	require.NoError(t, err)
	require.Equal(t, "MixedCase", ct.Name)
	require.Equal(t, "ColName", ct.Columns[0].Name)
}

func TestParseCreateTableUnknownTypeBecomesOtherEscape(t *testing.T) {
	ct, err := ParseCreateTable(`CREATE TABLE t (h hstore);`)
	require.NoError(t, err)
	require.Equal(t, Other, ct.Columns[0].Type.Kind)
	require.Equal(t, "hstore", ct.Columns[0].Type.Native)
}

func TestParseCreateTablePrintRoundTrip(t *testing.T) {
	src := `CREATE TABLE widgets (
		id bigint NOT NULL,
		price numeric(10,2),
		tags text[]
	);`
	ct, err := ParseCreateTable(src)
	require.NoError(t, err)

	printed := ct.Print()
	reparsed, err := ParseCreateTable(printed)
	require.NoError(t, err)
	require.Equal(t, ct.Name, reparsed.Name)
	require.Equal(t, len(ct.Columns), len(reparsed.Columns))
	for i := range ct.Columns {
		require.Equal(t, ct.Columns[i].Name, reparsed.Columns[i].Name)
		require.Equal(t, ct.Columns[i].Type.String(), reparsed.Columns[i].Type.String())
		require.Equal(t, ct.Columns[i].IsNullable, reparsed.Columns[i].IsNullable)
	}

	// Printing the reparsed table again must be byte-identical (scenario
	// S2's round-trip stability requirement, applied to the postgres
	// text format).
	require.Equal(t, printed, reparsed.Print())
}
