package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.env")
	require.NoError(t, os.WriteFile(path, []byte("CATALOG_TABLE=from_file\nCLICKHOUSE_HOST=ch.file\n"), 0o600))

	t.Setenv("APP_ENV", "")
	t.Setenv("ENV_FILE", path)
	t.Setenv("CATALOG_TABLE", "")
	require.NoError(t, os.Unsetenv("CATALOG_TABLE"))
	t.Setenv("CLICKHOUSE_HOST", "ch.env")

	LoadEnv()

	assert.Equal(t, "development", os.Getenv("APP_ENV"))
	assert.Equal(t, "from_file", os.Getenv("CATALOG_TABLE"))
	assert.Equal(t, "ch.env", os.Getenv("CLICKHOUSE_HOST"), "existing variables are not overridden")
}

func TestLoadEnvMissingFileIsNotFatal(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	assert.NotPanics(t, LoadEnv)
}
