// internal/extract/extractor.go
package extract

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/config"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/pkg/models"
)

// ErrIncompleteRecord means a detail page rendered but at least one required
// field was empty. Distinct from a wait timeout so the caller can log the
// two skip reasons differently.
var ErrIncompleteRecord = errors.New("incomplete exhibitor record")

// phonePattern takes the first run of 8+ digits with loose separators and an
// optional leading +. Deliberately best-effort: it can catch a suite number
// before the phone on unusual pages, and that behavior is preserved.
var phonePattern = regexp.MustCompile(`\+?\d[\d\-(). ]{6,}\d`)

// PageReader is the slice of the browser driver the extractor needs.
type PageReader interface {
	WaitVisible(ctx context.Context, sel string, timeout time.Duration) error
	HTML(ctx context.Context, sel string) (string, bool, error)
}

// Extractor reads the fixed field set from an exhibitor detail page. The
// rendered page is pulled once as HTML and parsed with goquery instead of
// issuing one CDP round trip per field.
type Extractor struct {
	sel         config.Selectors
	waitTimeout time.Duration
	converter   *md.Converter
}

// New creates an Extractor. When markdownDescriptions is set the
// description section is rendered as Markdown instead of flattened text.
func New(sel config.Selectors, waitTimeout time.Duration, markdownDescriptions bool) *Extractor {
	e := &Extractor{sel: sel, waitTimeout: waitTimeout}
	if markdownDescriptions {
		e.converter = md.NewConverter("", true, nil)
	}
	return e
}

// Extract reads the six required fields from the current page. A wait
// timeout on the name element propagates (browser.ErrWaitTimeout); a page
// that renders but is missing any field returns ErrIncompleteRecord.
func (e *Extractor) Extract(ctx context.Context, page PageReader) (*models.ExhibitorRecord, error) {
	if err := page.WaitVisible(ctx, e.sel.ExhibitorName, e.waitTimeout); err != nil {
		return nil, err
	}

	html, ok, err := page.HTML(ctx, "html")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("detail page produced no HTML")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse detail page: %w", err)
	}

	contact := doc.Find(e.sel.ContactInfo).First()

	rec := &models.ExhibitorRecord{
		CompanyName: strings.TrimSpace(doc.Find(e.sel.ExhibitorName).First().Text()),
		Address:     joinTexts(contact.Find(e.sel.AddressLine), ", "),
		Website:     firstHref(contact.Find(e.sel.WebsiteLink)),
		Phone:       strings.TrimSpace(phonePattern.FindString(contact.Text())),
		Description: e.description(doc),
		Booth:       joinTexts(doc.Find(e.sel.BoothLink), "; "),
	}

	if rec.CompanyName == "" || rec.Address == "" || rec.Website == "" ||
		rec.Phone == "" || rec.Description == "" || rec.Booth == "" {
		return nil, ErrIncompleteRecord
	}

	return rec, nil
}

func (e *Extractor) description(doc *goquery.Document) string {
	section := doc.Find(e.sel.Description)
	if section.Length() == 0 {
		return ""
	}
	if e.converter != nil {
		return strings.TrimSpace(e.converter.Convert(section.First()))
	}
	return strings.TrimSpace(section.First().Text())
}

// joinTexts joins the trimmed, non-empty texts of a selection.
func joinTexts(sel *goquery.Selection, separator string) string {
	var parts []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, separator)
}

// firstHref returns the trimmed href of the first element, or "".
func firstHref(sel *goquery.Selection) string {
	href, _ := sel.First().Attr("href")
	return strings.TrimSpace(href)
}
