package logger_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielFillol/CrawlerNavigator/internal/logger"
)

func TestWithContext_FromContext_RoundTrip(t *testing.T) {
	nop := logger.NewNop()
	ctx := logger.WithContext(context.Background(), nop)
	assert.Same(t, nop, logger.FromContext(ctx))
}

func TestFromContext_FallbackIsSingleton(t *testing.T) {
	a := logger.FromContext(context.Background())
	b := logger.FromContext(context.Background())
	require.NotNil(t, a)
	assert.Same(t, a, b)

	// warn-level fallback must accept every level without panicking
	a.Debug("debug")
	a.Warn("warn", logger.String("key", "value"))
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	l, err := logger.New(logger.Config{Level: "debug", Encoding: "json", OutputPaths: []string{path}})
	require.NoError(t, err)

	l.With(logger.String("run_id", "abc")).Info("card processed", logger.Int("index", 3))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run_id":"abc"`)
	assert.Contains(t, string(data), `"index":3`)
}
