package crawl

import (
	"context"
	"math/rand"
	"time"
)

// Pacer sleeps a random duration in [Min, Max] before page loads. The zero
// Pacer does not sleep.
type Pacer struct {
	Min time.Duration
	Max time.Duration
}

func (p Pacer) next() time.Duration {
	lo, hi := p.Min, p.Max
	if hi < lo {
		hi = lo
	}
	if hi <= 0 {
		return 0
	}
	if hi == lo {
		return lo
	}
	return lo + time.Duration(rand.Int63n(int64(hi-lo)+1))
}

// Wait sleeps for the next delay or until ctx is done.
func (p Pacer) Wait(ctx context.Context) error {
	d := p.next()
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
