package retry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/DanielFillol/CrawlerNavigator/internal/logger"
)

var errStale = errors.New("stale element")

func observed(t *testing.T) (context.Context, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.WithContext(context.Background(), logger.FromZap(zap.New(core))), logs
}

func flaky(failures int, calls *int) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		*calls++
		if *calls <= failures {
			return "", errStale
		}
		return "Ada Lovelace", nil
	}
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	for failures := 0; failures < 3; failures++ {
		ctx, logs := observed(t)
		calls := 0

		v, ok, err := Do(ctx, FieldRead, "name", flaky(failures, &calls))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "Ada Lovelace", v)
		assert.Equal(t, failures+1, calls)
		assert.Equal(t, failures, logs.FilterMessage("attempt failed").Len())
	}
}

func TestDo_AlwaysFailingIsAbsentAfterThreeAttempts(t *testing.T) {
	ctx, logs := observed(t)
	calls := 0

	v, ok, err := Do(ctx, FieldRead, "summary", flaky(100, &calls))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
	assert.Equal(t, 3, calls)

	failures := logs.FilterMessage("attempt failed").All()
	require.Len(t, failures, 3)
	assert.Equal(t, "summary", failures[0].ContextMap()["op"])
	assert.Equal(t, int64(3), failures[2].ContextMap()["attempt"])
}

func TestRun_ExpandPolicyTriesFiveTimes(t *testing.T) {
	ctx, _ := observed(t)
	calls := 0
	err := Run(ctx, Expand, "skills show more", func(context.Context) error {
		calls++
		return errors.New("element is not clickable")
	})
	require.NoError(t, err)
	assert.Equal(t, 5, calls)
}

func TestDo_StrictPropagatesExhaustion(t *testing.T) {
	ctx, _ := observed(t)
	calls := 0
	_, ok, err := Do(ctx, FieldRead.Strict(), "search", flaky(100, &calls))
	assert.False(t, ok)
	require.ErrorIs(t, err, ErrExhausted)
	assert.ErrorIs(t, err, errStale)
	assert.Equal(t, 3, calls)
}

func TestDo_CancelledContextPropagates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, _, err := Do(ctx, FieldRead, "name", func(context.Context) (string, error) {
		calls++
		cancel()
		return "", errStale
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
