// Package app provides application initialization and lifecycle management.
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/browser"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/config"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/crawler"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/extract"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/navigator"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/ratelimit"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/resume"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/sink"
)

// App holds the wired-up collaborators for one command invocation.
type App struct {
	Config  *config.Config
	Session *browser.Session
	Crawler *crawler.Crawler
}

// New configures logging, starts the browser session, loads the checkpoint,
// and wires the crawler. Close() must be called to shut the browser down.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	initLogger(cfg)

	session, err := browser.NewSession(browser.Options{
		Headless:   cfg.Headless,
		ChromePath: cfg.ChromePath,
		UserAgent:  cfg.UserAgent,
		NavTimeout: cfg.NavTimeout,
	})
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.New(cfg.RateRPS, cfg.RateBurst)
	nav := navigator.New(session, limiter, cfg.NavRetries)
	extractor := extract.New(cfg.Selectors, cfg.WaitTimeout, cfg.DescriptionMarkdown)

	store := resume.NewStore(cfg.CheckpointFile)
	var checkpoint *resume.Position
	if !cfg.Fresh {
		checkpoint, err = store.Load()
		if err != nil {
			session.Close()
			return nil, err
		}
	}
	ctrl := resume.NewController(checkpoint, cfg.ResumeAfter, cfg.Fresh)

	out := sink.NewCSV(cfg.OutputCSV)

	return &App{
		Config:  cfg,
		Session: session,
		Crawler: crawler.New(session, nav, extractor, ctrl, store, out, cfg),
	}, nil
}

// Close shuts down the browser session.
func (a *App) Close() {
	if a.Session != nil {
		a.Session.Close()
	}
}

func initLogger(cfg *config.Config) {
	level := zerolog.InfoLevel
	switch cfg.LogLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	var logWriter io.Writer
	if cfg.JSONLog {
		logWriter = os.Stderr
	} else {
		logWriter = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	log.Logger = log.Output(logWriter).With().Timestamp().Logger()

	log.Debug().Str("level", cfg.LogLevel).Bool("json", cfg.JSONLog).Msg("Logger initialized")
}
