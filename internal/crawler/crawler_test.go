package crawler

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/browser"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/config"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/extract"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/navigator"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/resume"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/sink"
)

const (
	startURL = "https://example.com/start"
	baseURL  = "https://example.com"
)

// fakeSite scripts the directory hierarchy behind the browser.Page
// interface. The current URL decides which page a selector query hits.
type fakeSite struct {
	current string
	history []string

	categories []browser.Link            // links on the start page
	subs       map[string][]browser.Link // category URL -> subcategory links
	cards      map[string][]string       // subcategory URL -> card hrefs ("" for a card without a link)
	details    map[string]detailPage     // detail URL -> scripted detail page

	sel config.Selectors
}

type detailPage struct {
	company     string
	noBooth     bool // renders, but with a required field missing
	neverLoads  bool // name element never becomes visible
	visitsCount int
}

func newFakeSite() *fakeSite {
	return &fakeSite{
		subs:    make(map[string][]browser.Link),
		cards:   make(map[string][]string),
		details: make(map[string]detailPage),
		sel:     config.DefaultSelectors(),
	}
}

func (s *fakeSite) addDetail(url, company string) {
	s.details[url] = detailPage{company: company}
}

func (s *fakeSite) Navigate(ctx context.Context, url string) error {
	if s.current != "" {
		s.history = append(s.history, s.current)
	}
	s.current = url
	return nil
}

func (s *fakeSite) GoBack(ctx context.Context) error {
	if len(s.history) == 0 {
		return fmt.Errorf("no history to go back to")
	}
	s.current = s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	return nil
}

func (s *fakeSite) WaitVisible(ctx context.Context, sel string, timeout time.Duration) error {
	switch sel {
	case s.sel.ExhibitorCard:
		if len(s.cards[s.current]) > 0 {
			return nil
		}
	case s.sel.ExhibitorName:
		if d, ok := s.details[s.current]; ok && !d.neverLoads {
			return nil
		}
	default:
		// Category and subcategory links share a selector; the page decides.
		if s.current == startURL {
			if len(s.categories) > 0 {
				return nil
			}
		} else if len(s.subs[s.current]) > 0 {
			return nil
		}
	}
	return fmt.Errorf("selector %q: %w", sel, browser.ErrWaitTimeout)
}

func (s *fakeSite) Count(ctx context.Context, sel string) (int, error) {
	return len(s.cards[s.current]), nil
}

func (s *fakeSite) Links(ctx context.Context, sel string) ([]browser.Link, error) {
	if s.current == startURL {
		return s.categories, nil
	}
	return s.subs[s.current], nil
}

func (s *fakeSite) AttrInNth(ctx context.Context, listSel string, index int, childSel, attr string) (string, bool, error) {
	cards := s.cards[s.current]
	if index < 0 || index >= len(cards) || cards[index] == "" {
		return "", false, nil
	}
	return cards[index], true, nil
}

func (s *fakeSite) ClickInNth(ctx context.Context, listSel string, index int, childSel string) (bool, error) {
	cards := s.cards[s.current]
	if index < 0 || index >= len(cards) || cards[index] == "" {
		return false, nil
	}
	href := cards[index]
	s.history = append(s.history, s.current)
	s.current = href

	d := s.details[href]
	d.visitsCount++
	s.details[href] = d
	return true, nil
}

func (s *fakeSite) HTML(ctx context.Context, sel string) (string, bool, error) {
	d, ok := s.details[s.current]
	if !ok {
		return "", false, nil
	}
	booth := `<a id="newfloorplanlink" href="#">B-100</a>`
	if d.noBooth {
		booth = ""
	}
	html := fmt.Sprintf(`<html><body>
	<h1 class="exhibitor-name">%s</h1>
	<article id="js-vue-contactinfo">
		<address><p>123 Main St</p><p>Springfield, IL 62701</p></address>
		<a href="https://acme.example.com/">Website</a>
		<p>Tel: 555-123-4567</p>
	</article>
	<div id="section-description">Heavy equipment.</div>
	<div id="myssidebar">%s</div>
	</body></html>`, d.company, booth)
	return html, true, nil
}

func (s *fakeSite) Eval(ctx context.Context, js string) error { return nil }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		BaseURL:        baseURL,
		StartURL:       startURL,
		ViewAllLabel:   config.DefaultViewAllLabel,
		Selectors:      config.DefaultSelectors(),
		OutputCSV:      filepath.Join(dir, "out.csv"),
		CheckpointFile: filepath.Join(dir, "checkpoint.json"),
		WaitTimeout:    time.Second,
	}
}

// newTestCrawler assembles a crawler over the fake site, loading any existing
// checkpoint the way the application does on startup.
func newTestCrawler(t *testing.T, site *fakeSite, cfg *config.Config) (*Crawler, *bytes.Buffer) {
	t.Helper()

	store := resume.NewStore(cfg.CheckpointFile)
	var cp *resume.Position
	if !cfg.Fresh {
		var err error
		cp, err = store.Load()
		if err != nil {
			t.Fatalf("load checkpoint: %v", err)
		}
	}
	ctrl := resume.NewController(cp, cfg.ResumeAfter, cfg.Fresh)
	nav := navigator.New(site, nil, cfg.NavRetries)
	ext := extract.New(cfg.Selectors, cfg.WaitTimeout, false)
	out := sink.NewCSV(cfg.OutputCSV)

	c := New(site, nav, ext, ctrl, store, out, cfg)
	var stdout bytes.Buffer
	c.Stdout = &stdout
	return c, &stdout
}

func readCompanies(t *testing.T, path string) []string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var names []string
	for _, row := range rows[1:] {
		names = append(names, row[2])
	}
	return names
}

func wantCompanies(t *testing.T, path string, want []string) {
	t.Helper()
	got := readCompanies(t, path)
	if len(got) != len(want) {
		t.Fatalf("companies = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("companies = %v, want %v", got, want)
		}
	}
}

func loadPosition(t *testing.T, path string) resume.Position {
	t.Helper()
	pos, err := resume.NewStore(path).Load()
	if err != nil {
		t.Fatalf("load checkpoint: %v", err)
	}
	if pos == nil {
		t.Fatal("no checkpoint written")
	}
	return *pos
}

// singleExhibitorSite builds one category with one subcategory holding one
// exhibitor. The subcategory link list carries a "View All Exhibitors" entry
// that must be filtered out, and a duplicate link that must be deduped.
func singleExhibitorSite() *fakeSite {
	site := newFakeSite()
	site.categories = []browser.Link{{Text: "Attachments", Href: "/cat/attachments"}}
	site.subs[baseURL+"/cat/attachments"] = []browser.Link{
		{Text: "View All Exhibitors", Href: "/cat/attachments/all"},
		{Text: "Augers", Href: "/cat/attachments/augers"},
		{Text: "Augers (again)", Href: "/cat/attachments/augers"},
	}
	site.cards[baseURL+"/cat/attachments/augers"] = []string{baseURL + "/exh/1"}
	site.addDetail(baseURL+"/exh/1", "Acme Corp")
	return site
}

func TestRun_EmptyDirectoryExitsCleanly(t *testing.T) {
	site := newFakeSite()
	cfg := testConfig(t)
	c, stdout := newTestCrawler(t, site, cfg)

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "Found 0 categories") {
		t.Errorf("stdout = %q, want category count", stdout.String())
	}
	wantCompanies(t, cfg.OutputCSV, nil)
	if _, err := os.Stat(cfg.CheckpointFile); !os.IsNotExist(err) {
		t.Error("no checkpoint should be written when nothing is visited")
	}
}

func TestRun_SingleExhibitor(t *testing.T) {
	site := singleExhibitorSite()
	cfg := testConfig(t)
	c, stdout := newTestCrawler(t, site, cfg)

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !strings.Contains(stdout.String(), "Found 1 categories") {
		t.Errorf("stdout = %q, want category count", stdout.String())
	}
	wantCompanies(t, cfg.OutputCSV, []string{"Acme Corp"})

	pos := loadPosition(t, cfg.CheckpointFile)
	want := resume.Position{Category: "Attachments", Subcategory: "Augers", ExhibitorIndex: 1}
	if pos != want {
		t.Errorf("checkpoint = %+v, want %+v", pos, want)
	}
}

func TestRun_ResumesFromCheckpoint(t *testing.T) {
	site := newFakeSite()
	site.categories = []browser.Link{
		{Text: "Aggregates", Href: "/cat/a"},
		{Text: "Attachments", Href: "/cat/b"},
		{Text: "Cranes", Href: "/cat/c"},
	}
	site.subs[baseURL+"/cat/a"] = []browser.Link{{Text: "A-Sub", Href: "/cat/a/s"}}
	site.cards[baseURL+"/cat/a/s"] = []string{baseURL + "/exh/a1"}
	site.addDetail(baseURL+"/exh/a1", "Should Be Skipped A")

	site.subs[baseURL+"/cat/b"] = []browser.Link{
		{Text: "S1", Href: "/cat/b/s1"},
		{Text: "S2", Href: "/cat/b/s2"},
	}
	site.cards[baseURL+"/cat/b/s1"] = []string{baseURL + "/exh/b10"}
	site.addDetail(baseURL+"/exh/b10", "Should Be Skipped S1")
	site.cards[baseURL+"/cat/b/s2"] = []string{
		baseURL + "/exh/b20", baseURL + "/exh/b21", baseURL + "/exh/b22",
		baseURL + "/exh/b23", baseURL + "/exh/b24",
	}
	for i, name := range []string{"B20", "B21", "B22", "B23", "B24"} {
		site.addDetail(fmt.Sprintf("%s/exh/b2%d", baseURL, i), name)
	}

	site.subs[baseURL+"/cat/c"] = []browser.Link{{Text: "C-Sub", Href: "/cat/c/s"}}
	site.cards[baseURL+"/cat/c/s"] = []string{baseURL + "/exh/c1"}
	site.addDetail(baseURL+"/exh/c1", "Crane Co")

	cfg := testConfig(t)
	seed := resume.Position{Category: "Attachments", Subcategory: "S2", ExhibitorIndex: 3}
	if err := resume.NewStore(cfg.CheckpointFile).Save(seed); err != nil {
		t.Fatalf("seed checkpoint: %v", err)
	}

	c, _ := newTestCrawler(t, site, cfg)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// S2 resumes at index 3; everything after the resume point runs fully.
	wantCompanies(t, cfg.OutputCSV, []string{"B23", "B24", "Crane Co"})

	for _, url := range []string{baseURL + "/exh/a1", baseURL + "/exh/b10", baseURL + "/exh/b20"} {
		if site.details[url].visitsCount != 0 {
			t.Errorf("%s was visited before the resume point", url)
		}
	}

	pos := loadPosition(t, cfg.CheckpointFile)
	want := resume.Position{Category: "Cranes", Subcategory: "C-Sub", ExhibitorIndex: 1}
	if pos != want {
		t.Errorf("checkpoint = %+v, want %+v", pos, want)
	}
}

func TestRun_FreshIgnoresCheckpointAndResumeName(t *testing.T) {
	site := singleExhibitorSite()
	cfg := testConfig(t)
	cfg.Fresh = true
	cfg.ResumeAfter = "Acme Corp"

	stale := resume.Position{Category: "Cranes", Subcategory: "Gone", ExhibitorIndex: 99}
	if err := resume.NewStore(cfg.CheckpointFile).Save(stale); err != nil {
		t.Fatalf("seed checkpoint: %v", err)
	}

	c, _ := newTestCrawler(t, site, cfg)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantCompanies(t, cfg.OutputCSV, []string{"Acme Corp"})

	pos := loadPosition(t, cfg.CheckpointFile)
	if pos == stale {
		t.Errorf("stale checkpoint survived a fresh run: %+v", pos)
	}
}

func TestRun_ResumeNameGate(t *testing.T) {
	site := newFakeSite()
	site.categories = []browser.Link{{Text: "Attachments", Href: "/cat/a"}}
	site.subs[baseURL+"/cat/a"] = []browser.Link{{Text: "Augers", Href: "/cat/a/s"}}
	site.cards[baseURL+"/cat/a/s"] = []string{
		baseURL + "/exh/1", baseURL + "/exh/2", baseURL + "/exh/3",
	}
	site.addDetail(baseURL+"/exh/1", "Alpha Inc")
	site.addDetail(baseURL+"/exh/2", "Bravo LLC")
	site.addDetail(baseURL+"/exh/3", "Charlie Co")

	cfg := testConfig(t)
	cfg.ResumeAfter = "bravo llc"

	c, _ := newTestCrawler(t, site, cfg)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// The match itself stays out of the output; only records after it land.
	wantCompanies(t, cfg.OutputCSV, []string{"Charlie Co"})

	// The checkpoint still advances through discarded records.
	pos := loadPosition(t, cfg.CheckpointFile)
	if pos.ExhibitorIndex != 3 {
		t.Errorf("ExhibitorIndex = %d, want 3", pos.ExhibitorIndex)
	}
}

func TestRun_DedupesRepeatedCards(t *testing.T) {
	site := newFakeSite()
	site.categories = []browser.Link{{Text: "Attachments", Href: "/cat/a"}}
	site.subs[baseURL+"/cat/a"] = []browser.Link{{Text: "Augers", Href: "/cat/a/s"}}
	site.cards[baseURL+"/cat/a/s"] = []string{
		baseURL + "/exh/1", baseURL + "/exh/2", baseURL + "/exh/1",
	}
	site.addDetail(baseURL+"/exh/1", "Acme Corp")
	site.addDetail(baseURL+"/exh/2", "Beta LLC")

	cfg := testConfig(t)
	c, _ := newTestCrawler(t, site, cfg)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantCompanies(t, cfg.OutputCSV, []string{"Acme Corp", "Beta LLC"})
	if site.details[baseURL+"/exh/1"].visitsCount != 1 {
		t.Errorf("duplicate card was visited %d times, want 1", site.details[baseURL+"/exh/1"].visitsCount)
	}

	// The cursor still covers the duplicate slot.
	pos := loadPosition(t, cfg.CheckpointFile)
	if pos.ExhibitorIndex != 3 {
		t.Errorf("ExhibitorIndex = %d, want 3", pos.ExhibitorIndex)
	}
}

func TestRun_SkipsBrokenDetailPages(t *testing.T) {
	site := newFakeSite()
	site.categories = []browser.Link{{Text: "Attachments", Href: "/cat/a"}}
	site.subs[baseURL+"/cat/a"] = []browser.Link{{Text: "Augers", Href: "/cat/a/s"}}
	site.cards[baseURL+"/cat/a/s"] = []string{
		baseURL + "/exh/ok", baseURL + "/exh/slow", baseURL + "/exh/bare", "",
	}
	site.addDetail(baseURL+"/exh/ok", "Acme Corp")
	site.details[baseURL+"/exh/slow"] = detailPage{company: "Slow Inc", neverLoads: true}
	site.details[baseURL+"/exh/bare"] = detailPage{company: "Bare LLC", noBooth: true}

	cfg := testConfig(t)
	c, _ := newTestCrawler(t, site, cfg)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Timeout, missing-field, and linkless cards are all skipped in place.
	wantCompanies(t, cfg.OutputCSV, []string{"Acme Corp"})

	pos := loadPosition(t, cfg.CheckpointFile)
	if pos.ExhibitorIndex != 4 {
		t.Errorf("ExhibitorIndex = %d, want 4", pos.ExhibitorIndex)
	}
}

func TestRun_EmptySubcategoryCheckpointsZero(t *testing.T) {
	site := newFakeSite()
	site.categories = []browser.Link{{Text: "Attachments", Href: "/cat/a"}}
	site.subs[baseURL+"/cat/a"] = []browser.Link{{Text: "Augers", Href: "/cat/a/s"}}
	// No cards for the subcategory.

	cfg := testConfig(t)
	c, _ := newTestCrawler(t, site, cfg)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantCompanies(t, cfg.OutputCSV, nil)
	pos := loadPosition(t, cfg.CheckpointFile)
	want := resume.Position{Category: "Attachments", Subcategory: "Augers", ExhibitorIndex: 0}
	if pos != want {
		t.Errorf("checkpoint = %+v, want %+v", pos, want)
	}
}

func TestListCategories(t *testing.T) {
	site := singleExhibitorSite()
	cfg := testConfig(t)
	c, stdout := newTestCrawler(t, site, cfg)

	if err := c.ListCategories(context.Background()); err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "Found 1 categories") || !strings.Contains(out, "Attachments") {
		t.Errorf("unexpected listing output: %q", out)
	}
	if _, err := os.Stat(cfg.CheckpointFile); !os.IsNotExist(err) {
		t.Error("listing must not write a checkpoint")
	}
	if _, err := os.Stat(cfg.OutputCSV); !os.IsNotExist(err) {
		t.Error("listing must not create the output file")
	}
}

func TestListSubcategories(t *testing.T) {
	site := singleExhibitorSite()
	cfg := testConfig(t)
	c, stdout := newTestCrawler(t, site, cfg)

	if err := c.ListSubcategories(context.Background()); err != nil {
		t.Fatalf("ListSubcategories failed: %v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "Augers") {
		t.Errorf("unexpected listing output: %q", out)
	}
	if strings.Contains(out, "View All Exhibitors") {
		t.Errorf("view-all entry leaked into listing: %q", out)
	}
}
