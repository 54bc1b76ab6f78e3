package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SALESBOARD_CONFIG", filepath.Join(t.TempDir(), "missing.yml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "data/sales_dashboard.csv", cfg.Dataset.File)
	assert.Equal(t, 100, cfg.Dataset.PreviewLimit)
	assert.True(t, cfg.Security.RateLimit.Enabled)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SALESBOARD_CONFIG", filepath.Join(t.TempDir(), "missing.yml"))
	t.Setenv("SALESBOARD_SERVER_PORT", "9090")
	t.Setenv("SALESBOARD_DATASET_FILE", "/srv/data/sales.xlsx")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/srv/data/sales.xlsx", cfg.Dataset.File)
	assert.Equal(t, ":9090", cfg.GetListenAddr())
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "salesboard.yml")
	content := []byte(`
server:
  port: 8181
dataset:
  file: data/monthly_sales.csv
  preview_limit: 25
logging:
  level: debug
`)
	require.NoError(t, os.WriteFile(configFile, content, 0644))
	t.Setenv("SALESBOARD_CONFIG", configFile)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, "data/monthly_sales.csv", cfg.Dataset.File)
	assert.Equal(t, 25, cfg.Dataset.PreviewLimit)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = -1 },
			wantErr: "invalid server port",
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid logging level",
		},
		{
			name:    "missing dataset file",
			mutate:  func(c *Config) { c.Dataset.File = "" },
			wantErr: "dataset file must be configured",
		},
		{
			name:    "bad preview limit",
			mutate:  func(c *Config) { c.Dataset.PreviewLimit = 0 },
			wantErr: "preview limit must be positive",
		},
		{
			name:    "bad rate limit",
			mutate:  func(c *Config) { c.Security.RateLimit.RPS = 0 },
			wantErr: "rate limit rps must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPaths_EnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	paths := &Paths{
		DataDir:    filepath.Join(dir, "data"),
		ExportsDir: filepath.Join(dir, "exports"),
		LogsDir:    filepath.Join(dir, "logs"),
	}

	require.NoError(t, paths.EnsureDirectories())

	for _, d := range []string{paths.DataDir, paths.ExportsDir, paths.LogsDir} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	assert.Equal(t, filepath.Join(paths.ExportsDir, "out.xlsx"), paths.GetExportPath("out.xlsx"))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(file, []byte("date,region,category,amount\n"), 0644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(filepath.Join(dir, "nope.csv")))
	assert.False(t, FileExists(dir))
}

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080},
		Logging: LoggingConfig{Level: "info"},
		Dataset: DatasetConfig{File: "data/sales.csv", PreviewLimit: 100},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{Enabled: true, RPS: 100, Burst: 50},
		},
	}
}
