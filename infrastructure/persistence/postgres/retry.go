package postgres

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"ontologykg/pkg/kgerrors"
)

// RetryConfig bounds the exponential backoff applied to transient
// Postgres errors, grounded on the teacher's internal/repository/retry.go
// shape (MaxAttempts/BaseDelay/MaxDelay/BackoffFactor/JitterFactor),
// re-targeted at pgconn.PgError classes instead of DynamoDB's.
type RetryConfig struct {
	MaxAttempts   int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	JitterFactor  float64
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		BaseDelay:     50 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
		JitterFactor:  0.1,
	}
}

// isTransientPostgresError classifies connection failures and a narrow
// set of retryable SQLSTATE classes (serialization failure, deadlock
// detected, connection exception) as worth retrying; everything else
// — including unique_violation — is surfaced immediately.
func isTransientPostgresError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", // serialization_failure
			"40P01", // deadlock_detected
			"08000", "08003", "08006", "08001", "08004": // connection_exception family
			return true
		}
		return false
	}
	// Anything that isn't a classified *pgconn.PgError (dial timeouts,
	// context deadline while waiting on a pool slot) is presumed transient.
	return true
}

// withRetry runs op, retrying transient errors with jittered exponential
// backoff up to cfg.MaxAttempts. Non-transient errors return immediately.
func withRetry(ctx context.Context, cfg RetryConfig, op func() error) error {
	var lastErr error
	delay := cfg.BaseDelay
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isTransientPostgresError(lastErr) || attempt == cfg.MaxAttempts {
			return kgerrors.NewTransientIO("postgres operation failed", lastErr)
		}

		jitter := 1 + (rand.Float64()*2-1)*cfg.JitterFactor
		wait := time.Duration(math.Min(float64(delay)*jitter, float64(cfg.MaxDelay)))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		delay = time.Duration(float64(delay) * cfg.BackoffFactor)
	}
	return kgerrors.NewTransientIO("postgres operation failed", lastErr)
}
