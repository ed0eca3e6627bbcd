// Package retry runs fallible page operations a bounded number of times.
//
// A Policy either swallows exhaustion, so a failing field read resolves to
// "absent" and the record carries on, or propagates it as ErrExhausted.
// Cancellation of the context always propagates.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DanielFillol/CrawlerNavigator/internal/logger"
)

// ErrExhausted is returned by propagating policies once every attempt failed.
var ErrExhausted = errors.New("retry attempts exhausted")

// Policy configures one guarded operation.
type Policy struct {
	// Attempts is the total number of tries, including the first.
	Attempts int
	// Delay is a fixed pause between tries.
	Delay time.Duration
	// Propagate returns ErrExhausted instead of an absent result.
	Propagate bool
}

// Policies used by the extraction steps.
var (
	FieldRead = Policy{Attempts: 3}
	Expand    = Policy{Attempts: 5}
)

// Strict returns a copy of p that propagates exhaustion.
func (p Policy) Strict() Policy {
	p.Propagate = true
	return p
}

// Do calls op until it succeeds or the policy runs out of attempts.
// On success it returns the value and true. On swallowed exhaustion it
// returns the zero value, false and a nil error.
func Do[T any](ctx context.Context, p Policy, name string, op func(context.Context) (T, error)) (T, bool, error) {
	var zero T
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	log := logger.FromContext(ctx)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, false, err
		}

		v, err := op(ctx)
		if err == nil {
			return v, true, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, false, ctxErr
		}
		lastErr = err
		log.Warn("attempt failed",
			logger.String("op", name),
			logger.Int("attempt", attempt),
			logger.Int("attempts", attempts),
			logger.Error(err),
		)

		if attempt < attempts && p.Delay > 0 {
			select {
			case <-ctx.Done():
				return zero, false, ctx.Err()
			case <-time.After(p.Delay):
			}
		}
	}

	if p.Propagate {
		return zero, false, fmt.Errorf("%s: %w after %d attempts: %w", name, ErrExhausted, attempts, lastErr)
	}
	log.Debug("giving up", logger.String("op", name))
	return zero, false, nil
}

// Run is Do for operations without a result.
func Run(ctx context.Context, p Policy, name string, op func(context.Context) error) error {
	_, _, err := Do(ctx, p, name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}
