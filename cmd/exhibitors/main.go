// cmd/exhibitors/main.go
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/cli"
)

func main() {
	// Mid-run cancellation is not supported; the checkpoint is durable
	// after every exhibitor, so restart is the recovery path.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Interrupt received, exiting; re-run to resume from the checkpoint")
		os.Exit(0)
	}()

	cli.Execute()
}
