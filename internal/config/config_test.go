package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsEmptyConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Empty(t, cfg.Folders)
}

func TestLoadParsesJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{
		"version": "1.2.0",
		"folders": ["/a", "/b"],
		"embeddingModel": "test-model",
		"apiBaseUrl": "https://example.com",
		"apiKey": "secret"
	}`), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"/a", "/b"}, cfg.Folders)
	require.Equal(t, "test-model", cfg.EmbeddingModel)
	require.Equal(t, "https://example.com", cfg.APIBaseURL)
}

func TestEnvOverridesAPIBaseURL(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"apiBaseUrl":"https://from-config"}`), 0o644))

	t.Setenv("OPENAI_API_BASE_URL", "https://from-env")
	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "https://from-env", cfg.APIBaseURL)
}
