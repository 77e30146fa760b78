// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RetryPolicy controls request retry behavior. Rate-limit responses
// (HTTP 429) wait out RateLimitCooldown and do not consume an attempt;
// every other failure waits RetryDelay and consumes one.
type RetryPolicy struct {
	MaxAttempts       int
	RateLimitCooldown time.Duration
	RetryDelay        time.Duration
}

// DefaultRetryPolicy is used when a zero policy is passed in.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts:       3,
	RateLimitCooldown: 60 * time.Second,
	RetryDelay:        2 * time.Second,
}

// DoWithRetry executes req and retries until it gets HTTP 200 or the
// attempt budget runs out. On HTTP 429 the response body is drained and
// the cooldown is waited without consuming an attempt. On transport
// errors and other non-200 statuses RetryDelay is waited and an attempt
// is consumed; after the last attempt the failure is returned to the
// caller. Waits are interruptible: a cancelled context returns ctx.Err().
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, policy RetryPolicy) (*http.Response, error) {
	if policy.MaxAttempts <= 0 {
		policy = DefaultRetryPolicy
	}

	var lastErr error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			lastErr = err
			if attempt < policy.MaxAttempts-1 {
				if err := sleep(ctx, policy.RetryDelay); err != nil {
					return nil, err
				}
			}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return resp, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			drain(resp)
			if err := sleep(ctx, policy.RateLimitCooldown); err != nil {
				return nil, err
			}
			attempt-- // a rate limit does not count against the budget

		default:
			lastErr = fmt.Errorf("HTTP %d from %s", resp.StatusCode, req.URL.Host)
			drain(resp)
			if attempt < policy.MaxAttempts-1 {
				if err := sleep(ctx, policy.RetryDelay); err != nil {
					return nil, err
				}
			}
		}
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", policy.MaxAttempts, lastErr)
}

// drain consumes and closes a response body so the connection can be reused.
func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
