// internal/browser/page.go
package browser

import (
	"context"
	"time"
)

// Link is a (text, href) pair read from an anchor element in document order.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// Page is the browser collaborator contract the crawl loop is written
// against. The chromedp Session implements it; tests use scripted fakes.
//
// Two failure kinds are kept distinct throughout: timeouts are returned as
// errors (ErrNavigationTimeout, ErrWaitTimeout), while element absence is a
// valid outcome reported via an ok=false return or a zero count.
type Page interface {
	// Navigate loads url and waits for the document to be ready, bounded
	// by the session's navigation timeout.
	Navigate(ctx context.Context, url string) error

	// GoBack returns to the previous history entry and waits for the
	// document to settle.
	GoBack(ctx context.Context) error

	// WaitVisible blocks until at least one element matching sel is
	// visible, or timeout elapses (ErrWaitTimeout).
	WaitVisible(ctx context.Context, sel string, timeout time.Duration) error

	// Count returns the number of elements currently matching sel.
	// The card list is live; callers must treat indexes as cursors into a
	// possibly re-rendered list, not stable identities.
	Count(ctx context.Context, sel string) (int, error)

	// Links returns the (text, href) pairs of all anchors matching sel.
	Links(ctx context.Context, sel string) ([]Link, error)

	// AttrInNth reads attr from the first childSel element inside the
	// index-th element matching listSel. ok is false when either the card
	// or the child element is absent.
	AttrInNth(ctx context.Context, listSel string, index int, childSel, attr string) (val string, ok bool, err error)

	// ClickInNth scrolls the first childSel element inside the index-th
	// listSel element into view and clicks it. ok is false when the
	// element is gone, which callers treat as a skip.
	ClickInNth(ctx context.Context, listSel string, index int, childSel string) (ok bool, err error)

	// HTML returns the outer HTML of the first element matching sel.
	HTML(ctx context.Context, sel string) (html string, ok bool, err error)

	// Eval runs an inline script against the page, ignoring its result.
	// Used for best-effort pre-interaction hooks such as dismissing the
	// tutorial overlay.
	Eval(ctx context.Context, js string) error
}
