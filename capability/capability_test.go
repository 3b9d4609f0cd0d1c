package capability

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyRejectsUnsupportedWhere(t *testing.T) {
	caps := NewSet("csv", []Op{OpLocalData}, []IfExists{IfExistsError})
	args := NewArgs()
	args.Where = "x = 1"
	_, err := args.Verify(caps)
	require.Error(t, err)
}

func TestVerifyRejectsUnsupportedTemporary(t *testing.T) {
	caps := NewSet("csv", []Op{OpLocalData}, []IfExists{IfExistsError})
	args := NewArgs()
	args.Temporary = []string{"s3://bucket/prefix"}
	_, err := args.Verify(caps)
	require.Error(t, err)
}

func TestVerifyRejectsUnsupportedUpsert(t *testing.T) {
	caps := NewSet("csv", []Op{OpLocalData}, []IfExists{IfExistsError, IfExistsOverwrite})
	args := NewArgs()
	args.IfExists = IfExistsUpsert
	_, err := args.Verify(caps)
	require.Error(t, err)
}

func TestVerifyRejectsUnsupportedIfExists(t *testing.T) {
	caps := NewSet("csv", []Op{OpLocalData}, []IfExists{IfExistsError})
	args := NewArgs()
	args.IfExists = IfExistsOverwrite
	_, err := args.Verify(caps)
	require.Error(t, err)
}

func TestVerifyRejectsNonPositiveMaxStreams(t *testing.T) {
	caps := NewSet("csv", []Op{OpLocalData}, []IfExists{IfExistsError})
	args := NewArgs()
	args.MaxStreams = 0
	_, err := args.Verify(caps)
	require.Error(t, err)
}

func TestVerifyAcceptsSupportedOptions(t *testing.T) {
	caps := NewSet("postgres", []Op{OpLocalData, OpWhere, OpTemporary}, []IfExists{IfExistsError, IfExistsUpsert})
	args := NewArgs()
	args.Where = "x = 1"
	args.Temporary = []string{"s3://bucket/prefix"}
	args.IfExists = IfExistsUpsert
	args.UpsertOn = []string{"id"}
	verified, err := args.Verify(caps)
	require.NoError(t, err)
	require.Equal(t, "x = 1", verified.Where)
	require.Equal(t, []string{"id"}, verified.UpsertOn)
}
