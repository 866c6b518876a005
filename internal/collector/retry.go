package collector

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
)

const (
	maxRetryAttempts    = 3
	initialRetryBackoff = 100 * time.Millisecond
	maxRetryBackoff     = 2 * time.Second
)

// ClickHouse server codes for credential and access failures.
var authExceptionCodes = []int32{193, 194, 497, 516}

var (
	authErrorMarkers = []string{
		"authentication failed",
		"invalid credentials",
		"invalid password",
		"unknown user",
		"unauthorized",
		"access denied",
		"code: 193",
		"code: 194",
		"code: 497",
		"code: 516",
	}
	transientErrorMarkers = []string{
		"timeout",
		"i/o timeout",
		"eof",
		"broken pipe",
		"connection reset",
		"connection refused",
		"connection aborted",
		"connection closed",
		"use of closed network connection",
		"network is unreachable",
		"no route to host",
		"no such host",
	}
)

type retryPolicy struct {
	maxAttempts int
	baseBackoff time.Duration
	maxBackoff  time.Duration
	sleep       func(context.Context, time.Duration) error
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{
		maxAttempts: maxRetryAttempts,
		baseBackoff: initialRetryBackoff,
		maxBackoff:  maxRetryBackoff,
		sleep:       sleepWithContext,
	}
}

func (p retryPolicy) withDefaults() retryPolicy {
	if p.maxAttempts <= 0 {
		p.maxAttempts = maxRetryAttempts
	}
	if p.baseBackoff <= 0 {
		p.baseBackoff = initialRetryBackoff
	}
	if p.maxBackoff < p.baseBackoff {
		p.maxBackoff = p.baseBackoff
	}
	if p.sleep == nil {
		p.sleep = sleepWithContext
	}
	return p
}

// runWithRetry executes fn with exponential backoff on transient
// failures. Auth errors and non-retryable errors fail fast.
func runWithRetry(ctx context.Context, policy retryPolicy, fn func() error) error {
	policy = policy.withDefaults()
	backoff := policy.baseBackoff

	var lastErr error
	for attempt := 1; attempt <= policy.maxAttempts; attempt++ {
		if err := contextError(ctx); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if ctxErr := contextError(ctx); ctxErr != nil {
			return ctxErr
		}

		if isAuthError(err) || !isRetryableError(err) || attempt == policy.maxAttempts {
			return err
		}

		if err := policy.sleep(ctx, backoff); err != nil {
			if ctxErr := contextError(ctx); ctxErr != nil {
				return ctxErr
			}
			return err
		}

		backoff *= 2
		if backoff > policy.maxBackoff {
			backoff = policy.maxBackoff
		}
	}

	return lastErr
}

// withFetchDeadline bounds a whole collection run by timeout, keeping
// DeadlineExceeded as the cancellation cause.
func withFetchDeadline(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return parent, func() {}
	}

	ctx, cancelCause := context.WithCancelCause(parent)
	timer := time.AfterFunc(timeout, func() {
		cancelCause(context.DeadlineExceeded)
	})

	return ctx, func() {
		timer.Stop()
		cancelCause(context.Canceled)
	}
}

func contextError(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
			return cause
		}
		return err
	}
	return nil
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return contextError(ctx)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isAuthError(err error) bool {
	if err == nil {
		return false
	}

	var chErr *clickhouse.Exception
	if errors.As(err, &chErr) {
		for _, code := range authExceptionCodes {
			if chErr.Code == code {
				return true
			}
		}
	}

	errText := strings.ToLower(err.Error())
	for _, marker := range authErrorMarkers {
		if strings.Contains(errText, marker) {
			return true
		}
	}

	return false
}

func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	errText := strings.ToLower(err.Error())
	for _, marker := range transientErrorMarkers {
		if strings.Contains(errText, marker) {
			return true
		}
	}

	return false
}
