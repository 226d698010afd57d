package domain

import (
	"context"
	"time"
)

// RetryPolicy retries an operation a fixed number of attempts with a fixed
// pause between them. It is injected where transient write failures are
// tolerated instead of being hard-coded into business logic.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultWriteRetry is the policy used for series materialization writes.
var DefaultWriteRetry = RetryPolicy{MaxAttempts: 3, Backoff: time.Second}

// Do runs op until it succeeds, attempts are exhausted, or the context is
// done while waiting to retry. The last error from op is returned.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = op(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Backoff):
		}
	}
	return err
}
