package postgres

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildCountSQLWithoutWhere(t *testing.T) {
	sql := buildCountSQL("widgets", "")
	require.Equal(t, `SELECT COUNT(*) AS count FROM widgets`, sql)
}

func TestBuildCountSQLWithWhere(t *testing.T) {
	sql := buildCountSQL("widgets", "price > 10")
	require.Equal(t, `SELECT COUNT(*) AS count FROM widgets WHERE price > 10`, sql)
}

func TestBuildCountSQLQuotesMixedCaseTable(t *testing.T) {
	sql := buildCountSQL("MixedCase", "")
	require.Equal(t, `SELECT COUNT(*) AS count FROM "MixedCase"`, sql)
}
