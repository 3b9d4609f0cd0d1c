package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seamusabshere/dbcrossbar/drivers/bigquery"
	"github.com/seamusabshere/dbcrossbar/drivers/postgres"
)

// TestConvPostgresSQLToBigQuerySchemaEmitsGeographyAndRepeated exercises the
// same conversion conv performs for "postgres-sql:- bigquery-schema:-": a
// geometry(Geometry,4326) column must surface as GEOGRAPHY and a text[]
// column must surface as a REPEATED field in the emitted schema JSON.
func TestConvPostgresSQLToBigQuerySchemaEmitsGeographyAndRepeated(t *testing.T) {
	ddl := `CREATE TABLE places (
		id bigint NOT NULL,
		shape geometry(Geometry,4326),
		tags text[]
	);`

	table, err := (postgres.Driver{}).ReadSchemaText([]byte(ddl))
	require.NoError(t, err)
	require.Len(t, table.Columns, 3)

	data, err := (bigquery.Driver{}).WriteSchema(table)
	require.NoError(t, err)

	out := string(data)
	require.True(t, strings.Contains(out, "GEOGRAPHY"), "expected GEOGRAPHY token in %s", out)
	require.True(t, strings.Contains(out, "REPEATED"), "expected REPEATED token in %s", out)
}
