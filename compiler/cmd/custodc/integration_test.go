package main

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repoRoot walks up from this file's location; it lives at
// <root>/compiler/cmd/custodc/integration_test.go.
func repoRoot(t *testing.T) string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("cannot determine caller path")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", "..", ".."))
}

func TestCollectSourcesWalksDirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.custod"), []byte("print 1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "b.custod"), []byte("print 2"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644))

	files, err := collectSources([]string{dir})
	require.NoError(t, err)
	require.Len(t, files, 2)
	for _, f := range files {
		assert.Equal(t, sourceExt, filepath.Ext(f))
	}
}

func TestCheckOneCleanAndDirty(t *testing.T) {
	dir := t.TempDir()

	clean := filepath.Join(dir, "clean.custod")
	require.NoError(t, os.WriteFile(clean, []byte("reads write c = 1\nprint c\n"), 0o644))
	assert.Equal(t, 0, checkOne(clean))

	dirty := filepath.Join(dir, "dirty.custod")
	require.NoError(t, os.WriteFile(dirty, []byte("read write x = 1\nwrite y = x\n"), 0o644))
	assert.Equal(t, 1, checkOne(dirty))
}

func TestShippedExamplesCheckClean(t *testing.T) {
	root := repoRoot(t)
	examples := filepath.Join(root, "examples")
	if _, err := os.Stat(examples); err != nil {
		t.Skipf("examples not found: %s", examples)
	}

	files, err := collectSources([]string{examples})
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, f := range files {
		assert.Equalf(t, 0, checkOne(f), "example %s should check clean", f)
	}
}
