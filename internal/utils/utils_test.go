package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 10, ClampLimit(0, 10, 50))
	assert.Equal(t, 10, ClampLimit(-3, 10, 50))
	assert.Equal(t, 7, ClampLimit(7, 10, 50))
	assert.Equal(t, 50, ClampLimit(99, 10, 50))
	assert.Equal(t, 99, ClampLimit(99, 10, 0))
	assert.Equal(t, 1, ClampLimit(0, 0, 0))
}

func TestCreateRankList(t *testing.T) {
	assert.Equal(t, []uint16{1, 2, 3}, CreateRankList(3))
	assert.Empty(t, CreateRankList(0))
}

func TestSaveAndParseTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.toml")
	type section struct {
		Limit int    `toml:"limit"`
		Name  string `toml:"name"`
		On    bool   `toml:"on"`
	}
	require.NoError(t, SaveTOMLFile(map[string]section{"server": {Limit: 5, Name: "x", On: true}}, path))

	raw, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)
	server, ok := ExtractSection(raw, "server")
	require.True(t, ok)

	limit, ok := ExtractInt64(server, "limit")
	assert.True(t, ok)
	assert.Equal(t, 5, limit)
	name, ok := ExtractString(server, "name")
	assert.True(t, ok)
	assert.Equal(t, "x", name)
	on, ok := ExtractBool(server, "on")
	assert.True(t, ok)
	assert.True(t, on)

	_, ok = ExtractInt64(server, "name")
	assert.False(t, ok)
}

func TestResolveSnapshot(t *testing.T) {
	pr, err := NewPathResolver()
	require.NoError(t, err)

	dir := t.TempDir()
	_, err = pr.ResolveSnapshot(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	file := filepath.Join(dir, "snapshot.toml")
	require.NoError(t, os.WriteFile(file, []byte("commands = []\n"), 0644))

	got, err := pr.ResolveSnapshot(dir)
	require.NoError(t, err)
	assert.Equal(t, file, got)

	got, err = pr.ResolveSnapshot(file)
	require.NoError(t, err)
	assert.Equal(t, file, got)
}
