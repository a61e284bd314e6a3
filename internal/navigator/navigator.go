// internal/navigator/navigator.go
package navigator

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/browser"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/ratelimit"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/retry"
)

// Navigator wraps page navigation with the program's only retry policy:
// navigation timeouts are re-attempted immediately a bounded number of
// times, everything else propagates at once.
type Navigator struct {
	page    browser.Page
	limiter *ratelimit.Limiter
	retries int
}

// New creates a Navigator. retries is the number of extra attempts after
// the first; limiter may be nil.
func New(page browser.Page, limiter *ratelimit.Limiter, retries int) *Navigator {
	if retries < 0 {
		retries = 0
	}
	return &Navigator{page: page, limiter: limiter, retries: retries}
}

// Goto loads url, retrying on navigation timeout. After retries exhaust the
// wrapped timeout propagates and aborts the run.
func (n *Navigator) Goto(ctx context.Context, url string) error {
	cfg := retry.Config{
		MaxAttempts: n.retries + 1,
		Retryable: func(err error) bool {
			return errors.Is(err, browser.ErrNavigationTimeout)
		},
	}
	return retry.Do(ctx, cfg, func() error {
		if err := n.limiter.Wait(ctx); err != nil {
			return err
		}
		log.Debug().Str("url", url).Msg("Navigating")
		return n.page.Navigate(ctx, url)
	})
}

// Back navigates to the previous page. Failures propagate without retry:
// history state after a failed back navigation is ambiguous, so repeating
// it could land on the wrong page.
func (n *Navigator) Back(ctx context.Context) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}
	return n.page.GoBack(ctx)
}
