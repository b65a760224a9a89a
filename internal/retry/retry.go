// Package retry runs operations with exponential backoff, retrying only
// failures the upstream signals as rate limiting.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	apperrors "github.com/animevault/animevault-server/internal/errors"
)

// Policy describes the retry schedule. MaxRetries counts total invocations,
// so a policy of 3 calls the operation at most three times.
type Policy struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	// Jitter randomizes each delay by ±Jitter. Zero keeps the exact
	// doubling-with-cap schedule.
	Jitter float64
}

// DefaultPolicy is 3 attempts waiting 1s then 2s, never more than 10s.
var DefaultPolicy = Policy{
	MaxRetries:   3,
	InitialDelay: time.Second,
	MaxDelay:     10 * time.Second,
}

// Executor retries operations under a Policy. It holds no per-call state and
// is safe for concurrent use.
type Executor struct {
	policy    Policy
	retryable func(error) bool
	newTimer  func() backoff.Timer
	logger    *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithRetryable overrides which errors trigger another attempt.
func WithRetryable(fn func(error) bool) Option {
	return func(e *Executor) { e.retryable = fn }
}

// WithTimer overrides the timer used between attempts. Tests use it to
// observe the schedule without sleeping.
func WithTimer(newTimer func() backoff.Timer) Option {
	return func(e *Executor) { e.newTimer = newTimer }
}

// NewExecutor creates an executor. A zero MaxRetries is treated as 1.
func NewExecutor(policy Policy, logger *slog.Logger, opts ...Option) *Executor {
	if policy.MaxRetries < 1 {
		policy.MaxRetries = 1
	}
	if policy.MaxDelay < policy.InitialDelay {
		policy.MaxDelay = policy.InitialDelay
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Executor{
		policy:    policy,
		retryable: IsRateLimited,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the executor's retry policy.
func (e *Executor) Policy() Policy {
	return e.policy
}

// IsRateLimited is the default retry predicate.
func IsRateLimited(err error) bool {
	return apperrors.Is(err, apperrors.ErrRateLimited)
}

// Execute invokes op until it succeeds, fails with a non-retryable error, or
// the policy's attempts are used up. The error of the final attempt is
// returned unchanged. Canceling ctx aborts a pending wait and returns ctx.Err().
func Execute[T any](ctx context.Context, e *Executor, op func(context.Context) (T, error)) (T, error) {
	var (
		result  T
		attempt int
	)

	operation := func() error {
		attempt++
		res, err := op(ctx)
		if err == nil {
			result = res
			return nil
		}
		if !e.retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, delay time.Duration) {
		e.logger.Warn("retrying after rate limit",
			"attempt", attempt,
			"max_attempts", e.policy.MaxRetries,
			"delay", delay,
			"error", err,
		)
	}

	var timer backoff.Timer
	if e.newTimer != nil {
		timer = e.newTimer()
	}

	err := backoff.RetryNotifyWithTimer(operation, e.schedule(ctx), notify, timer)
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// schedule builds fresh backoff state for one Execute call.
func (e *Executor) schedule(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.policy.InitialDelay
	b.MaxInterval = e.policy.MaxDelay
	b.Multiplier = 2
	b.RandomizationFactor = e.policy.Jitter
	b.MaxElapsedTime = 0

	bounded := backoff.WithMaxRetries(b, uint64(e.policy.MaxRetries-1)) //#nosec G115 -- MaxRetries >= 1
	return backoff.WithContext(bounded, ctx)
}
