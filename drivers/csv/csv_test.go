package csv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seamusabshere/dbcrossbar/portable"
)

func TestInferSchemaNarrowsTypes(t *testing.T) {
	r := strings.NewReader("id,name,price,active,born\n1,Widget,9.99,true,2020-01-02\n")
	table, err := InferSchema("widgets", r)
	require.NoError(t, err)
	require.Len(t, table.Columns, 5)

	idCol, _ := table.Column("id")
	require.True(t, idCol.Type.Equal(portable.Int64))

	nameCol, _ := table.Column("name")
	require.True(t, nameCol.Type.Equal(portable.Text))

	priceCol, _ := table.Column("price")
	require.True(t, priceCol.Type.Equal(portable.Float64))

	activeCol, _ := table.Column("active")
	require.True(t, activeCol.Type.Equal(portable.Bool))

	bornCol, _ := table.Column("born")
	require.True(t, bornCol.Type.Equal(portable.Date))

	for _, c := range table.Columns {
		require.True(t, c.IsNullable)
	}
}

func TestInferSchemaFallsBackToTextOnEmptyFile(t *testing.T) {
	r := strings.NewReader("a,b\n")
	table, err := InferSchema("t", r)
	require.NoError(t, err)
	for _, c := range table.Columns {
		require.True(t, c.Type.Equal(portable.Text))
	}
}

func TestWriteSchemaIsUnsupported(t *testing.T) {
	_, err := (Driver{}).WriteSchema(&portable.Table{})
	require.Error(t, err)
}

func TestWriteLocalDataCopiesThrough(t *testing.T) {
	var out strings.Builder
	n, err := WriteLocalData(&out, strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)
	require.Equal(t, int64(8), n)
	require.Equal(t, "a,b\n1,2\n", out.String())
}
