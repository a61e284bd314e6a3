package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel = "info"
	DefaultJSONLog  = false

	DefaultBaseURL  = "https://directory.conexpoconagg.com"
	DefaultStartURL = "https://directory.conexpoconagg.com/8_0/explore/exhibitor-categories-parent.cfm#/"

	DefaultOutputCSV      = "exhibitors.csv"
	DefaultCheckpointFile = "checkpoint.json"

	// Entries with this exact label are not real categories and are dropped.
	DefaultViewAllLabel = "View All Exhibitors"

	DefaultUserAgent = "Exhibitors/1.0 (+https://github.com/betaluis/conexpo-exhibitor-directory-scraper-2026)"

	DefaultNavTimeout  = 60 * time.Second
	DefaultWaitTimeout = 60 * time.Second
	DefaultNavRetries  = 2

	// Settle delays absorb client-side rendering after navigations.
	DefaultStartSettle = 1500 * time.Millisecond
	DefaultPageSettle  = 1 * time.Second
	DefaultClickSettle = 500 * time.Millisecond

	DefaultRateRPS   = 2.0
	DefaultRateBurst = 2

	DefaultBrowserHeadless = true
)

// DefaultSelectors returns the CSS selectors for the directory site. They can
// be overridden from a YAML config file when the site markup changes.
func DefaultSelectors() Selectors {
	return Selectors{
		CategoryLink:    "tbody a[href*='cat-exhibitorcategoriesparents|']",
		SubcategoryLink: "tbody a[href*='cat-exhibitorcategoriesparents|']",
		ExhibitorCard:   "li.js-Card",
		ExhibitorLink:   "a[href*='/exhibitor/exhibitor-details.cfm?exhid=']",
		ExhibitorName:   ".exhibitor-name",
		ContactInfo:     "article#js-vue-contactinfo",
		AddressLine:     "address p",
		WebsiteLink:     "a[href^='http']",
		Description:     "#section-description",
		BoothLink:       "#myssidebar a#newfloorplanlink",
	}
}
