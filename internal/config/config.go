package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Selectors holds the CSS selectors used to locate elements on the directory
// site. WebsiteLink and AddressLine are scoped to the contact block;
// everything else is page-scoped.
type Selectors struct {
	CategoryLink    string `yaml:"category_link"`
	SubcategoryLink string `yaml:"subcategory_link"`
	ExhibitorCard   string `yaml:"exhibitor_card"`
	ExhibitorLink   string `yaml:"exhibitor_link"`
	ExhibitorName   string `yaml:"exhibitor_name"`
	ContactInfo     string `yaml:"contact_info"`
	AddressLine     string `yaml:"address_line"`
	WebsiteLink     string `yaml:"website_link"`
	Description     string `yaml:"description"`
	BoothLink       string `yaml:"booth_link"`
}

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// Site
	BaseURL      string
	StartURL     string
	ViewAllLabel string
	Selectors    Selectors

	// Persistence
	OutputCSV      string
	CheckpointFile string

	// Resume behavior
	Fresh       bool
	ResumeAfter string

	// Browser
	Headless   bool
	ChromePath string
	UserAgent  string

	// Timeouts and pacing
	NavTimeout  time.Duration
	WaitTimeout time.Duration
	NavRetries  int
	StartSettle time.Duration
	PageSettle  time.Duration
	ClickSettle time.Duration
	RateRPS     float64
	RateBurst   int

	// Output shaping
	DescriptionMarkdown bool
	Progress            bool
}

// Load builds a Config by combining defaults, an optional YAML config file,
// environment variables (including a .env file if present), and CLI flags.
// Caller should pass the root *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := &Config{
		LogLevel:       DefaultLogLevel,
		JSONLog:        DefaultJSONLog,
		BaseURL:        DefaultBaseURL,
		StartURL:       DefaultStartURL,
		ViewAllLabel:   DefaultViewAllLabel,
		Selectors:      DefaultSelectors(),
		OutputCSV:      DefaultOutputCSV,
		CheckpointFile: DefaultCheckpointFile,
		Headless:       DefaultBrowserHeadless,
		UserAgent:      DefaultUserAgent,
		NavTimeout:     DefaultNavTimeout,
		WaitTimeout:    DefaultWaitTimeout,
		NavRetries:     DefaultNavRetries,
		StartSettle:    DefaultStartSettle,
		PageSettle:     DefaultPageSettle,
		ClickSettle:    DefaultClickSettle,
		RateRPS:        DefaultRateRPS,
		RateBurst:      DefaultRateBurst,
	}

	// Best-effort .env loading; absence is not an error.
	_ = godotenv.Load()

	applyEnv(cfg)

	// Config file before flags so explicit flags still win.
	if cmd != nil {
		if f := cmd.Flags().Lookup("config"); f != nil && f.Value.String() != "" {
			if err := loadFile(cfg, f.Value.String()); err != nil {
				return nil, err
			}
		}
	}

	applyFlags(cfg, cmd)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("EXHIBITORS_START_URL"); v != "" {
		cfg.StartURL = v
	}
	if v := os.Getenv("EXHIBITORS_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("EXHIBITORS_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("EXHIBITORS_CHROME_PATH"); v != "" {
		cfg.ChromePath = v
	}
	if v := os.Getenv("EXHIBITORS_OUTPUT"); v != "" {
		cfg.OutputCSV = v
	}
	if v := os.Getenv("EXHIBITORS_CHECKPOINT"); v != "" {
		cfg.CheckpointFile = v
	}
	if v := os.Getenv("EXHIBITORS_RESUME_AFTER"); v != "" {
		cfg.ResumeAfter = v
	}
	if v := os.Getenv("EXHIBITORS_RATE_RPS"); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateRPS = rps
		}
	}
}

func applyFlags(cfg *Config, cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	lookupString(cmd, "start-url", &cfg.StartURL)
	lookupString(cmd, "user-agent", &cfg.UserAgent)
	lookupString(cmd, "chrome", &cfg.ChromePath)
	lookupString(cmd, "output", &cfg.OutputCSV)
	lookupString(cmd, "checkpoint", &cfg.CheckpointFile)
	lookupString(cmd, "resume-after", &cfg.ResumeAfter)

	if f := cmd.Flags().Lookup("timeout"); f != nil && f.Changed {
		if d, err := time.ParseDuration(f.Value.String()); err == nil {
			cfg.NavTimeout = d
			cfg.WaitTimeout = d
		}
	}
	if f := cmd.Flags().Lookup("headful"); f != nil && f.Value.String() == "true" {
		cfg.Headless = false
	}
	if f := cmd.Flags().Lookup("json"); f != nil && f.Value.String() == "true" {
		cfg.JSONLog = true
	}
	if f := cmd.Flags().Lookup("verbose"); f != nil && f.Value.String() == "true" {
		cfg.LogLevel = "debug"
	}
	if f := cmd.Flags().Lookup("quiet"); f != nil && f.Value.String() == "true" {
		cfg.LogLevel = "error"
	}
	if f := cmd.Flags().Lookup("fresh"); f != nil && f.Value.String() == "true" {
		cfg.Fresh = true
	}
	if f := cmd.Flags().Lookup("description-markdown"); f != nil && f.Value.String() == "true" {
		cfg.DescriptionMarkdown = true
	}
	if f := cmd.Flags().Lookup("progress"); f != nil && f.Value.String() == "true" {
		cfg.Progress = true
	}
}

func lookupString(cmd *cobra.Command, name string, dst *string) {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		if s := f.Value.String(); s != "" {
			*dst = s
		}
	}
}
