// Package retry implements bounded exponential backoff with jitter.
//
// It exists for the reconnect path: transient transport faults get a
// widening, jittered backoff and a finite attempt budget instead of a
// tight reconnect loop. Exhausting the budget escalates to the caller.
package retry

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"
)

type Policy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	OnRetry        func(attempt int, err error, backoff time.Duration)
}

// Do runs op until it succeeds, the attempt budget is exhausted, or ctx is
// cancelled. Between attempts it sleeps on the given clock for the current
// backoff with jitter applied; the base backoff doubles each attempt up to
// MaxBackoff.
func Do(ctx context.Context, clock clockwork.Clock, p Policy, op func() error) error {
	backoff := p.InitialBackoff

	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil {
			return nil
		}

		if attempt >= p.MaxAttempts {
			return fmt.Errorf("failed after %d attempts: %w", p.MaxAttempts, err)
		}

		wait := withJitter(backoff)
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, wait)
		}

		select {
		case <-clock.After(wait):
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		}

		backoff = min(backoff*2, p.MaxBackoff)
	}
}

// withJitter spreads the wait uniformly over [d/2, d] so reconnect
// attempts after a shared outage do not synchronize.
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	return half + time.Duration(rand.Int64N(int64(half)+1))
}
