// internal/browser/session.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// Options configures a browser session.
type Options struct {
	Headless   bool
	ChromePath string
	UserAgent  string
	NavTimeout time.Duration
}

// Session owns a single headless Chrome tab. The whole crawl is sequential
// by design: navigation state lives in one tab and cannot be shared across
// concurrent callers.
type Session struct {
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	navTimeout    time.Duration
}

var _ Page = (*Session)(nil)

// NewSession starts Chrome and warms up a single tab.
func NewSession(opts Options) (*Session, error) {
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = 60 * time.Second
	}

	chromePath := FindChrome(opts.ChromePath)

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-prompt-on-repost", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("window-size", "1920,1080"),
	}
	if chromePath != "" {
		allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(chromePath)}, allocOpts...)
	}
	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Warm up the tab so the first real navigation doesn't pay startup cost.
	if err := chromedp.Run(browserCtx, chromedp.Navigate("about:blank")); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	log.Info().Bool("headless", opts.Headless).Msg("Browser session ready")

	return &Session{
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		navTimeout:    opts.NavTimeout,
	}, nil
}

// Close shuts down the tab and the browser process.
func (s *Session) Close() {
	s.browserCancel()
	s.allocCancel()
	log.Debug().Msg("Browser session closed")
}

// run executes chromedp actions under both the caller's context and the
// session's browser context, bounded by timeout.
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(s.browserCtx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- chromedp.Run(runCtx, actions...) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		cancel()
		<-done
		return ctx.Err()
	}
}

// Navigate implements Page.
func (s *Session) Navigate(ctx context.Context, url string) error {
	err := s.run(ctx, s.navTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("navigate %s: %w", url, ErrNavigationTimeout)
	}
	return err
}

// GoBack implements Page.
func (s *Session) GoBack(ctx context.Context) error {
	err := s.run(ctx, s.navTimeout,
		chromedp.NavigateBack(),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("go back: %w", ErrNavigationTimeout)
	}
	return err
}

// WaitVisible implements Page.
func (s *Session) WaitVisible(ctx context.Context, sel string, timeout time.Duration) error {
	err := s.run(ctx, timeout, chromedp.WaitVisible(sel, chromedp.ByQuery))
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("wait for %s: %w", sel, ErrWaitTimeout)
	}
	return err
}

// Count implements Page.
func (s *Session) Count(ctx context.Context, sel string) (int, error) {
	var n int
	js := fmt.Sprintf(`document.querySelectorAll(%q).length`, sel)
	if err := s.run(ctx, s.navTimeout, chromedp.Evaluate(js, &n)); err != nil {
		return 0, fmt.Errorf("count %s: %w", sel, err)
	}
	return n, nil
}

// Links implements Page.
func (s *Session) Links(ctx context.Context, sel string) ([]Link, error) {
	var links []Link
	js := fmt.Sprintf(
		`Array.from(document.querySelectorAll(%q)).map(a => ({text: (a.textContent || '').trim(), href: a.getAttribute('href') || ''}))`,
		sel,
	)
	if err := s.run(ctx, s.navTimeout, chromedp.Evaluate(js, &links)); err != nil {
		return nil, fmt.Errorf("links %s: %w", sel, err)
	}
	return links, nil
}

type nthResult struct {
	OK  bool   `json:"ok"`
	Val string `json:"val"`
}

// AttrInNth implements Page.
func (s *Session) AttrInNth(ctx context.Context, listSel string, index int, childSel, attr string) (string, bool, error) {
	var res nthResult
	js := fmt.Sprintf(`(() => {
		const card = document.querySelectorAll(%q)[%d];
		if (!card) return {ok: false, val: ''};
		const el = card.querySelector(%q);
		if (!el) return {ok: false, val: ''};
		return {ok: true, val: el.getAttribute(%q) || ''};
	})()`, listSel, index, childSel, attr)
	if err := s.run(ctx, s.navTimeout, chromedp.Evaluate(js, &res)); err != nil {
		return "", false, fmt.Errorf("attr in card %d: %w", index, err)
	}
	return res.Val, res.OK, nil
}

// ClickInNth implements Page.
func (s *Session) ClickInNth(ctx context.Context, listSel string, index int, childSel string) (bool, error) {
	var clicked bool
	js := fmt.Sprintf(`(() => {
		const card = document.querySelectorAll(%q)[%d];
		if (!card) return false;
		const el = card.querySelector(%q);
		if (!el) return false;
		el.scrollIntoView({block: 'center'});
		el.click();
		return true;
	})()`, listSel, index, childSel)
	if err := s.run(ctx, s.navTimeout, chromedp.Evaluate(js, &clicked)); err != nil {
		return false, fmt.Errorf("click in card %d: %w", index, err)
	}
	return clicked, nil
}

// HTML implements Page.
func (s *Session) HTML(ctx context.Context, sel string) (string, bool, error) {
	var html string
	js := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		return el ? el.outerHTML : '';
	})()`, sel)
	if err := s.run(ctx, s.navTimeout, chromedp.Evaluate(js, &html)); err != nil {
		return "", false, fmt.Errorf("html %s: %w", sel, err)
	}
	return html, html != "", nil
}

// Eval implements Page.
func (s *Session) Eval(ctx context.Context, js string) error {
	return s.run(ctx, s.navTimeout, chromedp.Evaluate(js, nil))
}
