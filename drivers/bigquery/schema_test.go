package bigquery

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seamusabshere/dbcrossbar/portable"
)

func TestWriteSchemaThenReadSchemaRoundTrip(t *testing.T) {
	table := &portable.Table{
		Name: "widgets",
		Columns: []portable.Column{
			{Name: "id", Type: portable.Int64, IsNullable: false},
			{Name: "label", Type: portable.Text, IsNullable: true},
			{Name: "tags", Type: portable.Array(portable.Text), IsNullable: true},
		},
	}

	data, err := (Driver{}).WriteSchema(table)
	require.NoError(t, err)

	back, err := (Driver{}).ReadSchema("widgets", data)
	require.NoError(t, err)
	require.Len(t, back.Columns, 3)

	idCol, ok := back.Column("id")
	require.True(t, ok)
	require.False(t, idCol.IsNullable)
	require.True(t, idCol.Type.Equal(portable.Int64))

	tagsCol, ok := back.Column("tags")
	require.True(t, ok)
	require.True(t, tagsCol.Type.IsArray())
}

func TestReadSchemaParsesRecordFields(t *testing.T) {
	data := []byte(`[
		{"name": "point", "type": "RECORD", "mode": "NULLABLE", "fields": [
			{"name": "x", "type": "FLOAT64", "mode": "NULLABLE"},
			{"name": "y", "type": "FLOAT64", "mode": "NULLABLE"}
		]}
	]`)
	table, err := (Driver{}).ReadSchema("points", data)
	require.NoError(t, err)
	require.Len(t, table.Columns, 1)
	// RECORD with two scalar fields collapses to Json in the portable model.
	require.True(t, table.Columns[0].Type.Equal(portable.JSON))
}

func TestWriteSchemaForCSVLoadDiffersFromFinalTable(t *testing.T) {
	table := &portable.Table{
		Name: "widgets",
		Columns: []portable.Column{
			{Name: "tags", Type: portable.Array(portable.Text), IsNullable: true},
		},
	}
	final, err := (Driver{}).WriteSchema(table)
	require.NoError(t, err)
	csvLoad, err := (Driver{}).WriteSchemaForCSVLoad(table)
	require.NoError(t, err)
	require.NotEqual(t, string(final), string(csvLoad))
}
