// internal/sink/csv.go
package sink

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/pkg/models"
)

// Header is the fixed CSV column order.
var Header = []string{
	"category",
	"subcategory",
	"company_name",
	"address",
	"website",
	"phone",
	"description",
	"booth",
}

// Sink is the append-only record store the crawl writes accepted rows to.
type Sink interface {
	Init() error
	Append(row models.Row) error
}

// CSV appends rows to a CSV file. Initialization is idempotent: the header
// is written only when the file does not exist, and existing content is
// never truncated or rewritten.
type CSV struct {
	path string
}

var _ Sink = (*CSV)(nil)

// NewCSV creates a CSV sink backed by the given file path.
func NewCSV(path string) *CSV {
	return &CSV{path: path}
}

// Init creates the output file with a header row if it is absent.
func (c *CSV) Init() error {
	if _, err := os.Stat(c.path); err == nil {
		log.Debug().Str("path", c.path).Msg("Output file exists, appending")
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat output file: %w", err)
	}

	file, err := os.OpenFile(c.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		// Lost a race with another writer creating the file; header is
		// already their problem.
		if os.IsExist(err) {
			return nil
		}
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush header: %w", err)
	}

	log.Info().Str("path", c.path).Msg("Output file created")
	return nil
}

// Append writes one row and flushes it to disk before returning, so a crash
// can never lose an accepted record.
func (c *CSV) Append(row models.Row) error {
	file, err := os.OpenFile(c.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(row.Values()); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush row: %w", err)
	}

	return nil
}
