// internal/crawler/walker.go
package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/browser"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/pkg/models"
)

// Categories navigates to the start URL and enumerates the top-level
// categories in document order. A selector wait timeout yields zero
// categories rather than an error; only navigation failures are fatal.
func (c *Crawler) Categories(ctx context.Context) ([]models.Category, error) {
	if err := c.nav.Goto(ctx, c.cfg.StartURL); err != nil {
		return nil, err
	}
	c.settle(ctx, c.cfg.StartSettle)

	if err := c.page.WaitVisible(ctx, c.cfg.Selectors.CategoryLink, c.cfg.WaitTimeout); err != nil {
		if errors.Is(err, browser.ErrWaitTimeout) {
			log.Warn().Msg("No category links appeared on the start page")
			return nil, nil
		}
		return nil, err
	}

	return c.linkPairs(ctx, c.cfg.Selectors.CategoryLink)
}

// subcategories enumerates the subcategories of one category. They are read
// fresh on every visit, never cached across runs. A wait timeout means the
// category legitimately has none.
func (c *Crawler) subcategories(ctx context.Context, cat models.Category) ([]models.Category, error) {
	if err := c.nav.Goto(ctx, cat.URL); err != nil {
		return nil, err
	}
	c.settle(ctx, c.cfg.PageSettle)

	if err := c.page.WaitVisible(ctx, c.cfg.Selectors.SubcategoryLink, c.cfg.WaitTimeout); err != nil {
		if errors.Is(err, browser.ErrWaitTimeout) {
			return nil, nil
		}
		return nil, err
	}

	return c.linkPairs(ctx, c.cfg.Selectors.SubcategoryLink)
}

// linkPairs reads (name, url) pairs for every link matching sel, resolves
// hrefs against the base URL, drops the "View All Exhibitors" entry, and
// dedupes by link target keeping the first occurrence.
func (c *Crawler) linkPairs(ctx context.Context, sel string) ([]models.Category, error) {
	links, err := c.page.Links(ctx, sel)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(links))
	out := make([]models.Category, 0, len(links))
	for _, link := range links {
		if link.Href == "" || link.Text == c.cfg.ViewAllLabel {
			continue
		}
		target := c.resolveURL(link.Href)
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, models.Category{Name: link.Text, URL: target})
	}
	return out, nil
}

// resolveURL resolves href against the configured base URL, mirroring what
// the browser would do for a relative link.
func (c *Crawler) resolveURL(href string) string {
	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// settle sleeps for a fixed delay to absorb client-side rendering after a
// navigation. Bounded by ctx so shutdown is not delayed.
func (c *Crawler) settle(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

// dismissOverlayJS removes the tutorial overlay that the directory site
// injects over the card list. Best effort; absence is fine.
const dismissOverlayJS = `(() => {
	const overlay = document.querySelector('.introjs-overlay');
	if (overlay) {
		overlay.remove();
	}
	const skip = document.querySelector('.introjs-skipbutton');
	if (skip) {
		skip.click();
	}
})()`

// dismissOverlay runs the overlay hook before interacting with a card.
func (c *Crawler) dismissOverlay(ctx context.Context) {
	if err := c.page.Eval(ctx, dismissOverlayJS); err != nil {
		log.Debug().Err(err).Msg("Overlay dismissal failed")
	}
}

// cardHref reads the detail link target of the index-th card. ok is false
// when the card has no link element, which the walker skips past.
func (c *Crawler) cardHref(ctx context.Context, index int) (string, bool, error) {
	href, ok, err := c.page.AttrInNth(ctx, c.cfg.Selectors.ExhibitorCard, index, c.cfg.Selectors.ExhibitorLink, "href")
	if err != nil {
		return "", false, fmt.Errorf("card %d link: %w", index, err)
	}
	if !ok || href == "" {
		return "", false, nil
	}
	return c.resolveURL(href), true, nil
}
