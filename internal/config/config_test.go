package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bha/internal/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Analysis.TopK)
	assert.Equal(t, 500.0, cfg.Suggester.PCHMinMs)
	assert.Equal(t, "low", cfg.Export.MinPriority)
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bha.yaml")

	contents := "analysis:\n  top_k: 5\nsuggester:\n  pch_min_includers: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Analysis.TopK)
	assert.Equal(t, 3, cfg.Suggester.PCHMinIncluders)
}

func TestLoadConfigRejectsInvalidTopK(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bha.yaml")

	require.NoError(t, os.WriteFile(path, []byte("analysis:\n  top_k: 0\n"), 0o600))

	_, err := config.LoadConfig(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidTopK)
}

func TestToSuggesterOptionsMapsEnabledRules(t *testing.T) {
	sc := config.SuggesterConfig{PCHMinIncluders: 10, EnabledRules: []string{"pch", "unity_build"}}

	opts := sc.ToSuggesterOptions()
	assert.True(t, opts.EnabledRules["pch"] || len(opts.EnabledRules) > 0)
}

func TestValidateJSONConfigRejectsUnknownType(t *testing.T) {
	err := config.ValidateJSONConfig([]byte(`{"analysis":{"top_k":"not-a-number"}}`))
	require.Error(t, err)
}

func TestValidateJSONConfigAcceptsValidDocument(t *testing.T) {
	err := config.ValidateJSONConfig([]byte(`{"analysis":{"top_k":5},"suggester":{"pch_min_includers":10}}`))
	assert.NoError(t, err)
}
