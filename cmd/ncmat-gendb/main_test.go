package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleTable = `version: "1"
elements:
  - symbol: Al
    z: 13
    a: 0
    mass: 26.9815
    coherent_scat_len: 3.449
    incoherent_xs: 0.0082
    absorption_xs: 0.231
`

func TestRunGeneratesValidGoSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "elements.yaml")
	out := filepath.Join(dir, "zz_generated_elements.go")
	require.NoError(t, os.WriteFile(src, []byte(sampleTable), 0644))

	require.NoError(t, run(src, out, "elements.yaml"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), "package atomdata")
	require.Contains(t, string(data), "builtinElementCount = 1")
	require.Contains(t, string(data), "go:embed elements.yaml")
}

func TestRunRejectsEmptyTable(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "elements.yaml")
	out := filepath.Join(dir, "out.go")
	require.NoError(t, os.WriteFile(src, []byte("version: \"1\"\nelements: []\n"), 0644))

	err := run(src, out, "elements.yaml")
	require.Error(t, err)
}

func TestRunRejectsDuplicateNaturalAbundanceEntry(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "elements.yaml")
	out := filepath.Join(dir, "out.go")
	dup := `version: "1"
elements:
  - symbol: Al
    z: 13
    a: 0
    mass: 26.98
  - symbol: Al
    z: 13
    a: 0
    mass: 26.98
`
	require.NoError(t, os.WriteFile(src, []byte(dup), 0644))

	err := run(src, out, "elements.yaml")
	require.Error(t, err)
}
