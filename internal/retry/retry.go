package retry

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/doccheck/marketplace/internal/middlewares/logger"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type Config struct {
	Delays []time.Duration
}

// DBRetryConfig is used for every repository call.
var DBRetryConfig = Config{
	Delays: []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second},
}

// HTTPRetryConfig is used for calls to external HTTP services.
var HTTPRetryConfig = Config{
	Delays: []time.Duration{500 * time.Millisecond, 2 * time.Second},
}

func DoRetry(ctx context.Context, fn func() error, configs ...Config) error {
	_, err := DoRetryWithResult(ctx, func() (struct{}, error) {
		return struct{}{}, fn()
	}, configs...)
	return err
}

// DoRetryWithResult calls fn until it succeeds, fails with a non retriable
// error, or the delays are exhausted. On failure the zero value of T is returned.
func DoRetryWithResult[T any](ctx context.Context, fn func() (T, error), configs ...Config) (T, error) {
	cfg := DBRetryConfig
	if len(configs) > 0 {
		cfg = configs[0]
	}

	var zero T
	result, err := fn()
	if err == nil {
		return result, nil
	}

	for attempt, delay := range cfg.Delays {
		if !IsRetriable(err) {
			return zero, err
		}

		logger.Log.Warn("retrying after error",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return zero, errors.Join(err, ctx.Err())
		case <-time.After(delay):
		}

		result, err = fn()
		if err == nil {
			return result, nil
		}
	}

	return zero, err
}

// IsRetriable reports whether err is a transient connection problem.
func IsRetriable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgerrcode.IsConnectionException(pgErr.Code)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	var connectErr *pgconn.ConnectError
	return errors.As(err, &connectErr)
}
