package assemble

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prefix: dbus\npackage_name: upstart\ncopyright: Copyright 2026 Example\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "dbus", cfg.Prefix)
	assert.Equal(t, "upstart", cfg.PackageName)
	assert.Equal(t, "Copyright 2026 Example", cfg.Copyright)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestWriteFileIsAtomicAndReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "foo.c")

	require.NoError(t, WriteFile(path, []byte("first"), 0o644))
	require.NoError(t, WriteFile(path, []byte("second"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no leftover temp file should remain")
}
