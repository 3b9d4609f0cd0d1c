package postgres

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seamusabshere/dbcrossbar/portable"
)

func TestFromPortableToPortableRoundTrip(t *testing.T) {
	table := &portable.Table{
		Name: "widgets",
		Columns: []portable.Column{
			{Name: "id", Type: portable.Int64, IsNullable: false},
			{Name: "name", Type: portable.Text, IsNullable: true},
			{Name: "price", Type: portable.Decimal, IsNullable: true},
			{Name: "tags", Type: portable.Array(portable.Text), IsNullable: true},
			{Name: "loc", Type: portable.GeoJSON(portable.WGS84), IsNullable: true},
			{Name: "payload", Type: portable.JSON, IsNullable: true},
			{Name: "ext", Type: portable.Other("hstore"), IsNullable: true},
		},
	}

	ct, err := FromPortable(table)
	require.NoError(t, err)

	back, err := ct.ToPortable()
	require.NoError(t, err)

	require.Len(t, back.Columns, len(table.Columns))
	for i, c := range table.Columns {
		require.True(t, c.Type.Equal(back.Columns[i].Type), "column %s: expected %s, got %s", c.Name, c.Type, back.Columns[i].Type)
		require.Equal(t, c.IsNullable, back.Columns[i].IsNullable)
	}
}

func TestFromPortableGeoJSONNonDefaultSrid(t *testing.T) {
	dt, err := dataTypeFromPortable(portable.GeoJSON(3857))
	require.NoError(t, err)
	require.Equal(t, Geometry, dt.Kind)
	require.Equal(t, 3857, dt.GeometrySrid)
}

func TestToPortableGeometryDefaultsToWGS84WhenSridZero(t *testing.T) {
	pt, err := dataTypeToPortable(DataType{Kind: Geometry})
	require.NoError(t, err)
	srid, ok := pt.Srid()
	require.True(t, ok)
	require.Equal(t, portable.WGS84, srid)
}
