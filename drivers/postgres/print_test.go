package postgres

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuoteLiteralEscapesEmbeddedQuotes(t *testing.T) {
	require.Equal(t, `'plain'`, quoteLiteral("plain"))
	require.Equal(t, `'it''s quoted'`, quoteLiteral("it's quoted"))
	require.Equal(t, `''`, quoteLiteral(""))
}
