package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	c := &Config{}
	ApplyDefaults(c)
	return c
}

func TestApplyDefaults(t *testing.T) {
	c := validConfig()
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, "csv", c.Dataset.Source)
	assert.Equal(t, "data/model_table.csv", c.Dataset.CSVPath)
	assert.Equal(t, DefaultGamma, c.Display.Gamma)
	assert.Equal(t, DefaultMaxPoints, c.Display.MaxPoints)
	assert.Equal(t, DefaultTopN, c.Display.TopN)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "json", c.Log.Format)
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = -1 }},
		{"unknown source", func(c *Config) { c.Dataset.Source = "sqlite" }},
		{"csv without path", func(c *Config) { c.Dataset.CSVPath = "" }},
		{"postgres without host", func(c *Config) { c.Dataset.Source = "postgres"; c.Database.Host = "" }},
		{"gamma too small", func(c *Config) { c.Display.Gamma = 0.1 }},
		{"gamma too large", func(c *Config) { c.Display.Gamma = 3 }},
		{"non-positive max points", func(c *Config) { c.Display.MaxPoints = -2 }},
		{"non-positive top n", func(c *Config) { c.Display.TopN = -1 }},
		{"redis enabled without addr", func(c *Config) { c.Redis.Enabled = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9999
dataset:
  source: csv
  csv_path: /tmp/model.csv
  watch: true
display:
  gamma: 0.8
  top_n: 25
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "/tmp/model.csv", cfg.Dataset.CSVPath)
	assert.True(t, cfg.Dataset.Watch)
	assert.Equal(t, 0.8, cfg.Display.Gamma)
	assert.Equal(t, 25, cfg.Display.TopN)
	// Unset fields still receive defaults.
	assert.Equal(t, DefaultMaxPoints, cfg.Display.MaxPoints)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display:\n  gamma: 7\n"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SOLARSCREEN_SERVER_PORT", "7070")
	t.Setenv("SOLARSCREEN_DATASET_CSV_PATH", "/data/table.csv")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "/data/table.csv", cfg.Dataset.CSVPath)
}
