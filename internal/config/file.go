package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML config file layout. Every field is optional;
// zero values leave the corresponding Config value untouched.
type fileConfig struct {
	LogLevel       string     `yaml:"log_level"`
	BaseURL        string     `yaml:"base_url"`
	StartURL       string     `yaml:"start_url"`
	ViewAllLabel   string     `yaml:"view_all_label"`
	Output         string     `yaml:"output"`
	Checkpoint     string     `yaml:"checkpoint"`
	ResumeAfter    string     `yaml:"resume_after"`
	UserAgent      string     `yaml:"user_agent"`
	ChromePath     string     `yaml:"chrome_path"`
	NavTimeout     string     `yaml:"nav_timeout"`
	WaitTimeout    string     `yaml:"wait_timeout"`
	NavRetries     *int       `yaml:"nav_retries"`
	StartSettle    string     `yaml:"start_settle"`
	PageSettle     string     `yaml:"page_settle"`
	ClickSettle    string     `yaml:"click_settle"`
	RateRPS        *float64   `yaml:"rate_rps"`
	RateBurst      *int       `yaml:"rate_burst"`
	Selectors      *Selectors `yaml:"selectors"`
}

// loadFile merges a YAML config file into cfg. Selectors are merged
// per-field so a file can override a single selector.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.BaseURL, fc.BaseURL)
	setString(&cfg.StartURL, fc.StartURL)
	setString(&cfg.ViewAllLabel, fc.ViewAllLabel)
	setString(&cfg.OutputCSV, fc.Output)
	setString(&cfg.CheckpointFile, fc.Checkpoint)
	setString(&cfg.ResumeAfter, fc.ResumeAfter)
	setString(&cfg.UserAgent, fc.UserAgent)
	setString(&cfg.ChromePath, fc.ChromePath)

	if err := setDuration(&cfg.NavTimeout, fc.NavTimeout); err != nil {
		return err
	}
	if err := setDuration(&cfg.WaitTimeout, fc.WaitTimeout); err != nil {
		return err
	}
	if err := setDuration(&cfg.StartSettle, fc.StartSettle); err != nil {
		return err
	}
	if err := setDuration(&cfg.PageSettle, fc.PageSettle); err != nil {
		return err
	}
	if err := setDuration(&cfg.ClickSettle, fc.ClickSettle); err != nil {
		return err
	}

	if fc.NavRetries != nil {
		cfg.NavRetries = *fc.NavRetries
	}
	if fc.RateRPS != nil {
		cfg.RateRPS = *fc.RateRPS
	}
	if fc.RateBurst != nil {
		cfg.RateBurst = *fc.RateBurst
	}

	if fc.Selectors != nil {
		setString(&cfg.Selectors.CategoryLink, fc.Selectors.CategoryLink)
		setString(&cfg.Selectors.SubcategoryLink, fc.Selectors.SubcategoryLink)
		setString(&cfg.Selectors.ExhibitorCard, fc.Selectors.ExhibitorCard)
		setString(&cfg.Selectors.ExhibitorLink, fc.Selectors.ExhibitorLink)
		setString(&cfg.Selectors.ExhibitorName, fc.Selectors.ExhibitorName)
		setString(&cfg.Selectors.ContactInfo, fc.Selectors.ContactInfo)
		setString(&cfg.Selectors.AddressLine, fc.Selectors.AddressLine)
		setString(&cfg.Selectors.WebsiteLink, fc.Selectors.WebsiteLink)
		setString(&cfg.Selectors.Description, fc.Selectors.Description)
		setString(&cfg.Selectors.BoothLink, fc.Selectors.BoothLink)
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", v, err)
	}
	*dst = d
	return nil
}
