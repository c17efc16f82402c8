// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package capability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// retryingGenerator retries failed Generate calls with exponential backoff.
type retryingGenerator struct {
	Generator
	maxRetries int
}

// WithRetry wraps gen so each Generate call is attempted up to maxRetries+1
// times. A non-positive maxRetries returns gen unchanged.
func WithRetry(gen Generator, maxRetries int) Generator {
	if maxRetries <= 0 {
		return gen
	}
	return &retryingGenerator{Generator: gen, maxRetries: maxRetries}
}

func (r *retryingGenerator) Generate(ctx context.Context, text string, target Length) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			slog.Debug("generator failed, retrying", "attempt", attempt, "backoff", backoff, "error", lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		out, err := r.Generator.Generate(ctx, text, target)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", r.maxRetries, lastErr)
}
