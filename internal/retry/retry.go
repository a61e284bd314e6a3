// internal/retry/retry.go
package retry

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Config defines retry behavior. Re-attempts are immediate: the only
// retryable condition in this program is a navigation timeout, which has
// already consumed its full timeout budget, so backoff would add nothing.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// Retryable reports whether an error should trigger another attempt.
	// A nil Retryable retries every error.
	Retryable func(error) bool
}

// Do executes fn until it succeeds, returns a non-retryable error, or
// exhausts MaxAttempts.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			if attempt > 0 {
				log.Debug().Int("attempts", attempt+1).Msg("Retry succeeded")
			}
			return nil
		}

		if cfg.Retryable != nil && !cfg.Retryable(err) {
			log.Debug().Err(err).Msg("Error is not retryable")
			return err
		}

		lastErr = err
		if attempt < cfg.MaxAttempts-1 {
			log.Debug().
				Int("attempt", attempt+1).
				Int("max_attempts", cfg.MaxAttempts).
				Err(err).
				Msg("Retrying immediately")
		}
	}

	log.Warn().Int("attempts", cfg.MaxAttempts).Err(lastErr).Msg("Max retry attempts exceeded")

	return fmt.Errorf("operation failed after %d attempts: %w", cfg.MaxAttempts, lastErr)
}
