package matcache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStorePutGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	key := Key([]byte("NCMAT v2\n..."), "temp=300;packfact=1")

	got, err := s.Get(key)
	require.NoError(t, err)
	require.Nil(t, got)

	entry := &Entry{
		Version:         2,
		SourceFullDescr: "Al.ncmat",
		AtomSymbols:     []string{"Al"},
		AtomCounts:      []int{4},
		Density:         2.7,
	}
	require.NoError(t, s.Put(key, entry))

	got, err = s.Get(key)
	require.NoError(t, err)
	require.Equal(t, entry, got)
}

func TestKeyIsStableAndSensitiveToInputs(t *testing.T) {
	k1 := Key([]byte("abc"), "temp=300")
	k2 := Key([]byte("abc"), "temp=300")
	k3 := Key([]byte("abc"), "temp=301")
	require.Equal(t, k1, k2)
	require.NotEqual(t, k1, k3)
}

func TestClearRemovesEntries(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	key := Key([]byte("abc"), "temp=300")
	require.NoError(t, s.Put(key, &Entry{Version: 2}))
	require.NoError(t, s.Clear())
	got, err := s.Get(key)
	require.NoError(t, err)
	require.Nil(t, got)
}
