package dbxschema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seamusabshere/dbcrossbar/portable"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	table := &portable.Table{
		Name: "widgets",
		Columns: []portable.Column{
			{Name: "id", Type: portable.Int64, IsNullable: false},
			{Name: "tags", Type: portable.Array(portable.Text), IsNullable: true, Comment: "free-form labels"},
			{Name: "loc", Type: portable.GeoJSON(portable.WGS84), IsNullable: true},
		},
	}

	raw, err := Codec{}.Encode(table)
	require.NoError(t, err)

	back, err := Codec{}.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, table.Name, back.Name)
	require.Len(t, back.Columns, len(table.Columns))
	for i, c := range table.Columns {
		require.Equal(t, c.Name, back.Columns[i].Name)
		require.True(t, c.Type.Equal(back.Columns[i].Type))
		require.Equal(t, c.IsNullable, back.Columns[i].IsNullable)
		require.Equal(t, c.Comment, back.Columns[i].Comment)
	}
}

// TestEncodeTwiceIsByteIdentical is scenario S2 (spec §8): re-encoding a
// decoded table must be byte-identical to the first encoding.
func TestEncodeTwiceIsByteIdentical(t *testing.T) {
	table := &portable.Table{
		Name: "t",
		Columns: []portable.Column{
			{Name: "a", Type: portable.Text},
			{Name: "b", Type: portable.Int64},
		},
	}
	first, err := Codec{}.Encode(table)
	require.NoError(t, err)

	decoded, err := Codec{}.Decode(first)
	require.NoError(t, err)

	second, err := Codec{}.Encode(decoded)
	require.NoError(t, err)

	require.Equal(t, string(first), string(second))
}

func TestDecodeRejectsDuplicateColumnNames(t *testing.T) {
	raw := []byte(`{"name":"t","columns":[{"name":"a","data_type":"text","is_nullable":true},{"name":"a","data_type":"int64","is_nullable":true}]}`)
	_, err := Codec{}.Decode(raw)
	require.Error(t, err)
}
