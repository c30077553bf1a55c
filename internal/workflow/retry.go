package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RetryPolicy controls how a workflow run is retried.
type RetryPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxAttempts     int
}

// DefaultRetryPolicy matches the production workflow settings: retries start
// at one second, back off exponentially up to five minutes, and give up
// after three attempts.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		InitialInterval: time.Second,
		MaxInterval:     5 * time.Minute,
		MaxAttempts:     3,
	}
}

// Interval returns the wait before the given retry attempt (1-based).
func (p RetryPolicy) Interval(attempt int) time.Duration {
	interval := p.InitialInterval
	if interval <= 0 {
		interval = time.Second
	}
	for i := 1; i < attempt; i++ {
		interval *= 2
		if p.MaxInterval > 0 && interval >= p.MaxInterval {
			return p.MaxInterval
		}
	}
	if p.MaxInterval > 0 && interval > p.MaxInterval {
		return p.MaxInterval
	}
	return interval
}

// DefaultRunTimeout bounds a single workflow run end to end.
const DefaultRunTimeout = 30 * time.Minute

// Runner executes a function under the retry policy with a per-run timeout.
type Runner struct {
	policy  RetryPolicy
	timeout time.Duration
	logger  *slog.Logger
}

func NewRunner(policy RetryPolicy, timeout time.Duration, logger *slog.Logger) *Runner {
	if timeout <= 0 {
		timeout = DefaultRunTimeout
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	return &Runner{policy: policy, timeout: timeout, logger: logger}
}

// Execute runs fn, retrying on error until the policy's attempts are spent
// or the run timeout expires. The last error is returned.
func (r *Runner) Execute(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var lastErr error
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		r.logger.WarnContext(ctx, "workflow attempt failed",
			slog.String("workflow", name),
			slog.Int("attempt", attempt),
			slog.String("error", lastErr.Error()))
		if attempt == r.policy.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", name, ctx.Err())
		case <-time.After(r.policy.Interval(attempt)):
		}
	}
	return fmt.Errorf("%s: %w", name, lastErr)
}
