package stage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLocatorS3(t *testing.T) {
	loc, err := ParseLocator("s3://my-bucket/some/prefix")
	require.NoError(t, err)
	require.Equal(t, SchemeS3, loc.Scheme)
	require.Equal(t, "my-bucket", loc.Bucket)
	require.Equal(t, "some/prefix", loc.Prefix)
}

func TestParseLocatorFile(t *testing.T) {
	loc, err := ParseLocator("file:///tmp/staging")
	require.NoError(t, err)
	require.Equal(t, SchemeFile, loc.Scheme)
	require.Equal(t, "/tmp/staging", loc.Prefix)
}

func TestParseLocatorRejectsUnknownScheme(t *testing.T) {
	_, err := ParseLocator("gs://bucket/prefix")
	require.Error(t, err)
}

func TestNewTempKeyIsUniqueAndPrefixed(t *testing.T) {
	loc := &Locator{Scheme: SchemeFile, Prefix: "/tmp/staging"}
	a := NewTempKey(loc)
	b := NewTempKey(loc)
	require.NotEqual(t, a, b)
	require.True(t, strings.HasPrefix(a, "/tmp/staging/"))
	require.True(t, strings.HasSuffix(a, ".csv"))
}

func TestWriteStreamThenReadStreamFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	loc := &Locator{Scheme: SchemeFile, Prefix: dir}
	key := filepath.Join(dir, "part-0.csv")

	err := WriteStream(context.Background(), loc, key, strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)

	rc, err := ReadStream(context.Background(), loc, key)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "a,b\n1,2\n", string(data))

	require.NoError(t, Cleanup(context.Background(), loc, key))
}
