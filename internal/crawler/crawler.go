// internal/crawler/crawler.go

// Package crawler walks the directory's three-level hierarchy (category →
// subcategory → exhibitor card) against a live browser page, gates each
// extracted record through the resume controller, and appends accepted rows
// to the sink. Strictly sequential: the shared resource is one browser tab.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/browser"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/config"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/extract"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/navigator"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/resume"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/sink"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/ui"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/pkg/models"
)

// Crawler ties the walker, extractor, resume controller, checkpoint store,
// and sink into the sequential run loop.
type Crawler struct {
	page      browser.Page
	nav       *navigator.Navigator
	extractor *extract.Extractor
	ctrl      *resume.Controller
	store     *resume.Store
	out       sink.Sink
	cfg       *config.Config

	// Stdout receives human-readable listing output; defaults to os.Stdout.
	Stdout io.Writer
}

// New wires up a Crawler from its collaborators.
func New(page browser.Page, nav *navigator.Navigator, extractor *extract.Extractor,
	ctrl *resume.Controller, store *resume.Store, out sink.Sink, cfg *config.Config) *Crawler {
	return &Crawler{
		page:      page,
		nav:       nav,
		extractor: extractor,
		ctrl:      ctrl,
		store:     store,
		out:       out,
		cfg:       cfg,
		Stdout:    os.Stdout,
	}
}

// Run executes the full resumable crawl. Per-exhibitor failures are
// contained inside the card loop; only exhausted navigation retries and
// persistence failures propagate and abort the run.
func (c *Crawler) Run(ctx context.Context) error {
	if err := c.out.Init(); err != nil {
		return err
	}

	categories, err := c.Categories(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Stdout, "Found %d categories\n", len(categories))

	for _, cat := range categories {
		if c.ctrl.SkipCategory(cat.Name) {
			log.Debug().Str("category", cat.Name).Msg("Skipping category before resume point")
			continue
		}

		subs, err := c.subcategories(ctx, cat)
		if err != nil {
			return err
		}
		if len(subs) == 0 {
			log.Info().Str("category", cat.Name).Msg("Category has 0 subcategories")
			continue
		}
		log.Info().Str("category", cat.Name).Int("subcategories", len(subs)).Msg("Entering category")

		for _, sub := range subs {
			if c.ctrl.SkipSubcategory(cat.Name, sub.Name) {
				log.Debug().Str("subcategory", sub.Name).Msg("Skipping subcategory before resume point")
				continue
			}
			if err := c.crawlSubcategory(ctx, cat, sub); err != nil {
				return err
			}
		}
	}

	return nil
}

// crawlSubcategory runs the exhibitor card loop for one subcategory. The
// card list is live and may re-render between iterations: the index is a
// cursor, and index >= live count means the subcategory is exhausted.
func (c *Crawler) crawlSubcategory(ctx context.Context, cat, sub models.Category) error {
	if err := c.nav.Goto(ctx, sub.URL); err != nil {
		return err
	}
	c.settle(ctx, c.cfg.PageSettle)

	if err := c.page.WaitVisible(ctx, c.cfg.Selectors.ExhibitorCard, c.cfg.WaitTimeout); err != nil {
		if errors.Is(err, browser.ErrWaitTimeout) {
			log.Info().Str("subcategory", sub.Name).Msg("Subcategory has 0 exhibitors")
			return c.store.Save(resume.Position{Category: cat.Name, Subcategory: sub.Name, ExhibitorIndex: 0})
		}
		return err
	}

	count, err := c.page.Count(ctx, c.cfg.Selectors.ExhibitorCard)
	if err != nil {
		return err
	}
	log.Info().Str("subcategory", sub.Name).Int("exhibitors", count).Msg("Entering subcategory")

	var bar *progressbar.ProgressBar
	if c.cfg.Progress {
		bar = progressbar.Default(int64(count), sub.Name)
	}

	index := c.ctrl.StartIndex(cat.Name, sub.Name)
	seen := make(map[string]struct{})

	for index < count {
		if err := ctx.Err(); err != nil {
			return err
		}

		live, err := c.page.Count(ctx, c.cfg.Selectors.ExhibitorCard)
		if err != nil {
			return err
		}
		if index >= live {
			break
		}

		c.dismissOverlay(ctx)

		href, ok, err := c.cardHref(ctx, index)
		if err != nil {
			return err
		}
		if !ok {
			index++
			barAdd(bar)
			continue
		}
		if _, dup := seen[href]; dup {
			index++
			barAdd(bar)
			continue
		}
		seen[href] = struct{}{}

		clicked, err := c.page.ClickInNth(ctx, c.cfg.Selectors.ExhibitorCard, index, c.cfg.Selectors.ExhibitorLink)
		if err != nil {
			return err
		}
		if !clicked {
			// Card re-rendered between the href read and the click.
			index++
			barAdd(bar)
			continue
		}
		c.settle(ctx, c.cfg.ClickSettle)

		if err := c.processDetail(ctx, cat, sub, href); err != nil {
			return err
		}

		if err := c.nav.Back(ctx); err != nil {
			return err
		}
		c.settle(ctx, c.cfg.PageSettle)

		index++
		barAdd(bar)
		if err := c.store.Save(resume.Position{Category: cat.Name, Subcategory: sub.Name, ExhibitorIndex: index}); err != nil {
			return err
		}
	}

	// Idempotent re-write marking the subcategory exhausted.
	return c.store.Save(resume.Position{Category: cat.Name, Subcategory: sub.Name, ExhibitorIndex: index})
}

// processDetail extracts the current detail page and routes the result:
// timeouts and incomplete records are logged skips, valid records go
// through the name gate before reaching the sink.
func (c *Crawler) processDetail(ctx context.Context, cat, sub models.Category, href string) error {
	rec, err := c.extractor.Extract(ctx, c.page)
	switch {
	case errors.Is(err, browser.ErrWaitTimeout):
		log.Warn().Str("url", href).Msg("Skipping exhibitor due to timeout")
		return nil
	case errors.Is(err, extract.ErrIncompleteRecord):
		log.Warn().Str("url", href).Msg("Skipping exhibitor due to missing fields")
		return nil
	case err != nil:
		return err
	}

	gateWasActive := c.ctrl.NameGateActive()
	if !c.ctrl.Admit(rec.CompanyName) {
		if gateWasActive && !c.ctrl.NameGateActive() {
			log.Info().Str("company", rec.CompanyName).Msg("Found resume company, subsequent records will be written")
		} else {
			log.Debug().Str("company", rec.CompanyName).Msg("Record discarded by resume-name gate")
		}
		return nil
	}

	row := models.Row{Category: cat.Name, Subcategory: sub.Name, ExhibitorRecord: *rec}
	if err := c.out.Append(row); err != nil {
		return err
	}

	log.Info().
		Str("company", rec.CompanyName).
		Str("booth", rec.Booth).
		Str("phone", rec.Phone).
		Msg("Exhibitor recorded")

	return nil
}

// ListCategories prints every discovered top-level category name, one per
// line. No output or checkpoint writes happen in this mode.
func (c *Crawler) ListCategories(ctx context.Context) error {
	categories, err := c.Categories(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Stdout, "Found %d categories\n", len(categories))
	for _, cat := range categories {
		fmt.Fprintln(c.Stdout, cat.Name)
	}
	return nil
}

// ListSubcategories prints every category with its subcategory count and
// indented subcategory names. No output or checkpoint writes happen.
func (c *Crawler) ListSubcategories(ctx context.Context) error {
	categories, err := c.Categories(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Stdout, "Found %d categories\n", len(categories))
	for _, cat := range categories {
		subs, err := c.subcategories(ctx, cat)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.Stdout, "%s: %d subcategories\n", ui.Highlight(cat.Name), len(subs))
		for _, sub := range subs {
			fmt.Fprintf(c.Stdout, "- %s\n", sub.Name)
		}
	}
	return nil
}

func barAdd(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Add(1)
	}
}
