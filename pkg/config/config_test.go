package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/typeahead/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[server]
max_limit = 20

[realm]
email_visibility = "everyone"
`)
	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 20, config.Server.MaxLimit)
	assert.Equal(t, DefaultConfig().Server.DefaultLimit, config.Server.DefaultLimit)
	assert.Equal(t, render.DefaultDescriptionLimit, config.Render.DescriptionLimit)
	assert.True(t, config.EmailPolicy().ShowEmail())
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	// max_limit has the wrong type, which fails strict decoding.
	path := writeConfig(t, `
[server]
max_limit = "lots"
max_query = 12

[render]
description_limit = 20

[cli]
default_kind = "streams"
`)
	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig().Server.MaxLimit, config.Server.MaxLimit)
	assert.Equal(t, 12, config.Server.MaxQuery)
	assert.Equal(t, 20, config.Render.DescriptionLimit)
	assert.Equal(t, "streams", config.CLI.DefaultKind)
}

func TestLoadConfigGarbage(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "[server\nnot toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestInitConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	config, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
	assert.FileExists(t, path)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeConfig(t, "[server]\ndefault_limit = 3\n")

	config, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 3, config.Server.DefaultLimit)
}

func TestUpdate(t *testing.T) {
	path := writeConfig(t, "")
	config := DefaultConfig()

	maxLimit, maxQuery := 5, 30
	require.NoError(t, config.Update(path, &maxLimit, nil, &maxQuery))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.Server.MaxLimit)
	assert.Equal(t, DefaultConfig().Server.DefaultLimit, loaded.Server.DefaultLimit)
	assert.Equal(t, 30, loaded.Server.MaxQuery)
}

func TestEmailPolicy(t *testing.T) {
	config := DefaultConfig()
	assert.False(t, config.EmailPolicy().ShowEmail())

	config.Realm.ViewerIsAdmin = true
	assert.True(t, config.EmailPolicy().ShowEmail())

	config.Realm.EmailVisibility = "sometimes"
	assert.Equal(t, render.VisibilityNobody, config.EmailPolicy().Visibility)
	assert.False(t, config.EmailPolicy().ShowEmail())
}

func TestRebuildConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, ".config", "typeahead", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("[server]\nmax_limit = 2\n"), 0644))

	require.NoError(t, RebuildConfigFile())

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), loaded)
	assert.Equal(t, path, GetActiveConfigPath(""))
}
