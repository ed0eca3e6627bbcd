package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielFillol/CrawlerNavigator/internal/sink"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "https://www.linkedin.com", cfg.BaseURL)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 10*time.Second, cfg.ElementWait)
	assert.Equal(t, 60*time.Second, cfg.PageTimeout)
	assert.Equal(t, 3*time.Second, cfg.PaceMin)
	assert.Equal(t, 12*time.Second, cfg.PaceMax)
	assert.Equal(t, 100, cfg.MaxPages)
	assert.Equal(t, sink.FormatXLSX, cfg.Format)
	assert.Equal(t, "output", cfg.Output)
	assert.Equal(t, "OUT_OF_NETWORK", cfg.RestrictedMarker)
	assert.Equal(t, "info", cfg.Log.Level)

	assert.ErrorIs(t, cfg.Validate(), ErrMissingCredentials)
	assert.NoError(t, cfg.ValidateOffline())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("NAVIGATOR_CREDENTIALS_USERNAME", "ada@example.com")
	t.Setenv("NAVIGATOR_CREDENTIALS_PASSWORD", "s3cret")
	t.Setenv("NAVIGATOR_MAX_PAGES", "5")
	t.Setenv("NAVIGATOR_PACE_MIN", "1s")
	t.Setenv("NAVIGATOR_PACE_MAX", "2s")
	t.Setenv("NAVIGATOR_FORMAT", "CSV")

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", cfg.Credentials.Username)
	assert.Equal(t, 5, cfg.MaxPages)
	assert.Equal(t, time.Second, cfg.PaceMin)
	assert.Equal(t, sink.FormatCSV, cfg.Format)
	assert.NoError(t, cfg.Validate())
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "navigator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: https://example.test/
credentials:
  username: grace@example.com
  password: hunter2
headless: false
format: sqlite
output: runs/today
log:
  level: debug
`), 0o644))

	v := New()
	require.NoError(t, ReadFile(v, path))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "https://example.test", cfg.BaseURL)
	assert.False(t, cfg.Headless)
	assert.Equal(t, sink.FormatSQLite, cfg.Format)
	assert.Equal(t, "runs/today", cfg.Output)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestReadFile_ExplicitMissingFileFails(t *testing.T) {
	err := ReadFile(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(New())
		require.NoError(t, err)
		cfg.Credentials = Credentials{Username: "u", Password: "p"}
		return cfg
	}

	cfg := base()
	cfg.Format = "parquet"
	assert.ErrorIs(t, cfg.Validate(), sink.ErrUnknownFormat)

	cfg = base()
	cfg.PaceMin, cfg.PaceMax = 5*time.Second, time.Second
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)

	cfg = base()
	cfg.MaxPages = -1
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)

	cfg = base()
	cfg.Credentials.Password = ""
	assert.ErrorIs(t, cfg.Validate(), ErrMissingCredentials)
}

func TestRedacted(t *testing.T) {
	cfg := &Config{Credentials: Credentials{Username: "ada", Password: "s3cret"}}

	r := cfg.Redacted()
	assert.Equal(t, mask, r.Credentials.Password)
	assert.Equal(t, "s3cret", cfg.Credentials.Password, "original untouched")

	for _, f := range cfg.Fields() {
		assert.NotEqual(t, "s3cret", f.String)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("NAVIGATOR_TEST_DOTENV=loaded\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("NAVIGATOR_TEST_DOTENV") })

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "loaded", os.Getenv("NAVIGATOR_TEST_DOTENV"))

	assert.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env")))
}
