package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	path := writeTempConfig(t, `
server:
  port: 9090
  mode: debug
database:
  host: db.internal
  user: svc
  db_name: patents
search:
  rrf_k: 45
  default_semantic_weight: 0.7
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 45, cfg.Search.RRFK)
	assert.Equal(t, 0.7, cfg.Search.DefaultSemanticWeight)

	// Unset fields received defaults.
	assert.Equal(t, DefaultCitationMaxDepth, cfg.Citation.MaxDepth)
	assert.Equal(t, DefaultFetchMultiplier, cfg.Search.FetchMultiplier)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidContentFailsValidation(t *testing.T) {
	path := writeTempConfig(t, `
server:
  mode: production
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadFromEnv_DefaultsOnly(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultRRFK, cfg.Search.RRFK)
}

func TestMustLoad_PanicsOnMissingFile(t *testing.T) {
	assert.Panics(t, func() { MustLoad("/nonexistent/config.yaml") })
}
