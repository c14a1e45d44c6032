package textinput

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferStreamLines(t *testing.T) {
	s := NewBufferStream("mem", "line1\nline2\nline3")
	var got []string
	for s.MoreLines() {
		l, ok := s.GetLine()
		require.True(t, ok)
		got = append(got, l)
	}
	require.Equal(t, []string{"line1", "line2", "line3"}, got)
	require.Equal(t, "mem", s.Description())
	require.Equal(t, "memory buffer", s.StreamType())
	require.Equal(t, "", s.OnDiskResolvedPath())
}

func TestBufferStreamTrailingNewlineNoEmptyLine(t *testing.T) {
	s := NewBufferStream("mem", "only\n")
	require.Equal(t, []string{"only"}, ReadAll(s))
}

func TestFileStreamReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.ncmat")
	require.NoError(t, os.WriteFile(path, []byte("NCMAT v2\n@CELL\n"), 0644))

	s, err := NewFileStream(path)
	require.NoError(t, err)
	require.Equal(t, "on-disk file", s.StreamType())
	require.Equal(t, path, s.OnDiskResolvedPath())
	require.Equal(t, []string{"NCMAT v2", "@CELL"}, ReadAll(s))
}

func TestFileStreamMissing(t *testing.T) {
	_, err := NewFileStream("/no/such/path/really.ncmat")
	require.Error(t, err)
}

func TestFindFileSearchOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "found.ncmat")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	t.Setenv(DataDirEnvVar, dir)
	got := FindFile("found.ncmat")
	require.Equal(t, path, got)

	require.Equal(t, "", FindFile("definitely-not-there.ncmat"))
}

type stubManager struct {
	stream        Stream
	err           error
	allowFallback bool
}

func (m *stubManager) Create(sourcename string) (Stream, error) { return m.stream, m.err }
func (m *stubManager) AllowFallback() bool                      { return m.allowFallback }

func TestCreateStreamUsesRegisteredManager(t *testing.T) {
	custom := NewBufferStream("custom", "hello")
	RegisterManager(&stubManager{stream: custom})
	t.Cleanup(func() { RegisterManager(nil) })

	s, err := CreateStream("anything")
	require.NoError(t, err)
	require.Same(t, custom, s)
}

func TestCreateStreamFallbackDisabled(t *testing.T) {
	RegisterManager(&stubManager{stream: nil, allowFallback: false})
	t.Cleanup(func() { RegisterManager(nil) })

	_, err := CreateStream("anything")
	require.Error(t, err)
}
