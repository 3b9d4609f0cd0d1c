package postgres

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadSchemaTextWriteSchemaTextRoundTrip(t *testing.T) {
	src := `CREATE TABLE widgets (
		id bigint NOT NULL,
		name text,
		price numeric(10,2)
	);`
	table, err := (Driver{}).ReadSchemaText([]byte(src))
	require.NoError(t, err)
	require.Equal(t, "widgets", table.Name)
	require.Len(t, table.Columns, 3)

	out, err := (Driver{}).WriteSchemaText(table)
	require.NoError(t, err)

	reparsed, err := (Driver{}).ReadSchemaText(out)
	require.NoError(t, err)
	require.Equal(t, table.Name, reparsed.Name)
	require.Len(t, reparsed.Columns, 3)
}

func TestNativeTypeFromCatalogScalar(t *testing.T) {
	dt, err := nativeTypeFromCatalog("bigint", "int8", 0, 0, 0)
	require.NoError(t, err)
	require.Equal(t, BigInt, dt.Kind)
}

func TestNativeTypeFromCatalogArray(t *testing.T) {
	dt, err := nativeTypeFromCatalog("ARRAY", "_int4", 0, 0, 0)
	require.NoError(t, err)
	require.True(t, dt.IsArray())
	elem, ok := dt.Elem()
	require.True(t, ok)
	require.Equal(t, Integer, elem.Kind)
}

func TestNativeTypeFromCatalogNumericAppliesModifiers(t *testing.T) {
	dt, err := nativeTypeFromCatalog("numeric", "numeric", 0, 10, 2)
	require.NoError(t, err)
	require.Equal(t, Numeric, dt.Kind)
	require.Equal(t, 10, dt.NumPrec)
	require.Equal(t, 2, dt.NumScale)
}

func TestNativeTypeFromCatalogVarcharAppliesLength(t *testing.T) {
	dt, err := nativeTypeFromCatalog("character varying", "varchar", 255, 0, 0)
	require.NoError(t, err)
	require.Equal(t, VarChar, dt.Kind)
	require.Equal(t, 255, dt.VarCharLen)
}
