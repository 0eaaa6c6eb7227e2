// Package resilience wraps remote calls with retries and circuit breaking.
package resilience

import (
	"context"
	"log/slog"
	"time"

	"github.com/abgdnv/giftshop/pkg/config"
	"github.com/cenkalti/backoff/v5"
)

// Permanent marks an error as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Retry runs op once plus up to cfg.Retries more times with a fixed delay between attempts.
// The last error is returned when every attempt fails.
func Retry[T any](ctx context.Context, cfg config.RetryConfig, logger *slog.Logger, op func(ctx context.Context) (T, error)) (T, error) {
	opts := []backoff.RetryOption{
		backoff.WithBackOff(backoff.NewConstantBackOff(cfg.Delay)),
		backoff.WithMaxTries(cfg.Retries + 1),
	}
	if logger != nil {
		opts = append(opts, backoff.WithNotify(func(err error, next time.Duration) {
			logger.WarnContext(ctx, "Remote call failed, retrying", "error", err, "retry_in", next)
		}))
	}
	return backoff.Retry(ctx, func() (T, error) {
		return op(ctx)
	}, opts...)
}
