package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "newsflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database: /var/lib/newsflow
embedding:
  model: nomic-embed-text
  batchSize: 8
pipeline:
  workers: 2
  strict: true
`), 0o644))

	t.Setenv(embeddingHostEnv, "http://embedder:8080")
	t.Setenv(workersEnv, "6")

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/newsflow", cfg.Database)
	assert.Equal(t, "nomic-embed-text", cfg.Embedding.Model)
	assert.Equal(t, 8, cfg.Embedding.BatchSize)
	assert.Equal(t, "http://embedder:8080", cfg.Embedding.Host)
	assert.Equal(t, 6, cfg.Pipeline.Workers)
	assert.Equal(t, 100, cfg.Pipeline.PageSize, "unset values keep defaults")
	assert.True(t, cfg.Pipeline.Strict)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pipeline: [unclosed"), 0o644))
	_, err = loadConfig(path)
	assert.ErrorContains(t, err, "parse config")

	t.Setenv(workersEnv, "many")
	_, err = loadConfig("")
	assert.ErrorContains(t, err, workersEnv)
}
