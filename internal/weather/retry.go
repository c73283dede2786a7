package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"
)

// RetryPolicy retries transient upstream failures with exponential backoff
// and jitter. It is pure backoff: no circuit breaker, no budget shared
// across calls.
type RetryPolicy struct {
	MaxRetries int // additional attempts after the first
	BaseDelay  time.Duration
	MaxDelay   time.Duration

	// Sleep overrides the wait between attempts; tests use it to avoid
	// real delays. Nil means a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy matches the upstream free-tier rate limits.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   60 * time.Second,
	}
}

// httpStatusError marks a response that came back with a non-2xx status.
type httpStatusError struct {
	Status int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Status)
}

// retryableStatus reports whether an HTTP status is worth another attempt.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// isRetryable reports whether an error from an upstream call is transient.
// Non-2xx statuses are retried only when listed in retryableStatus; anything
// else that reaches here is a transport-level failure and is retried.
func isRetryable(err error) bool {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return retryableStatus(statusErr.Status)
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return true
}

// Do runs call, retrying transient failures. The last error is returned as-is
// once retries are exhausted or a non-retryable error occurs.
func (p RetryPolicy) Do(ctx context.Context, call func() error) error {
	for attempt := 0; ; attempt++ {
		err := call()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || attempt >= p.MaxRetries || !isRetryable(err) {
			return err
		}

		delay := p.delay(attempt)
		log.Printf("DEBUG: upstream call failed, retrying in %s (attempt %d/%d): %v",
			delay, attempt+1, p.MaxRetries+1, err)

		if sleepErr := p.sleep(ctx, delay); sleepErr != nil {
			return err
		}
	}
}

// delay computes min(base * 2^attempt, max) scaled by a jitter factor in
// [1.0, 1.2).
func (p RetryPolicy) delay(attempt int) time.Duration {
	delay := p.BaseDelay << uint(attempt)
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return time.Duration(float64(delay) * (1 + rand.Float64()*0.2))
}

func (p RetryPolicy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
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
