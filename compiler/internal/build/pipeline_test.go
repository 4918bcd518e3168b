package build

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckSourceCleanProgram(t *testing.T) {
	res, err := CheckSource("demo.custod", `
reads write counter = 50
counter += 5
print counter
`)
	require.NoError(t, err)
	assert.True(t, res.Clean())

	prog, err := res.Lower()
	require.NoError(t, err)
	assert.NotEmpty(t, prog.Instrs)
}

func TestCheckSourceSyntaxErrorIsFatal(t *testing.T) {
	_, err := CheckSource("demo.custod", "read = 5")
	require.Error(t, err)
}

func TestLowerRefusesDirtyResult(t *testing.T) {
	res, err := CheckSource("demo.custod", `
read write x = 1
write y = x
`)
	require.NoError(t, err)
	require.False(t, res.Clean())

	_, err = res.Lower()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unresolved permission error")
}

func TestDiagnosticsHonorMaxErrors(t *testing.T) {
	res, err := CheckSource("demo.custod", `
print a
print b
print c
`)
	require.NoError(t, err)
	require.Len(t, res.Errors, 3)

	all := res.Diagnostics(Config{})
	capped := res.Diagnostics(Config{MaxErrors: 1})
	assert.Greater(t, len(all), len(capped))
	assert.Contains(t, capped, "'a'")
	assert.NotContains(t, capped, "'c'")
}

func TestCheckFileMissing(t *testing.T) {
	_, err := CheckFile(filepath.Join(t.TempDir(), "absent.custod"))
	require.Error(t, err)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "auto", cfg.Color)
	assert.Equal(t, 0, cfg.MaxErrors)
}

func TestLoadConfigFindsFileUpward(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, configName), []byte("color: never\nmax-errors: 3\n"), 0o644))

	cfg, err := LoadConfig(sub)
	require.NoError(t, err)
	assert.Equal(t, "never", cfg.Color)
	assert.Equal(t, 3, cfg.MaxErrors)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configName), []byte("color: sometimes\n"), 0o644))

	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "color must be")
}
