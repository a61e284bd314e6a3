// internal/resume/checkpoint.go
package resume

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// Position is the persisted crawl cursor: the next unit of work to attempt.
// ExhibitorIndex is meaningful only together with the matching
// category/subcategory pair; against any other pair it only decides whether
// that category or subcategory is skipped entirely.
type Position struct {
	Category       string `json:"category"`
	Subcategory    string `json:"subcategory"`
	ExhibitorIndex int    `json:"exhibitor_index"`
}

// Store persists the checkpoint as a single JSON object file, overwritten
// wholesale on every save.
type Store struct {
	path string
}

// NewStore creates a checkpoint store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the checkpoint. Returns (nil, nil) when no checkpoint exists.
func (s *Store) Load() (*Position, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	var pos Position
	if err := json.Unmarshal(data, &pos); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint %s: %w", s.path, err)
	}
	if pos.ExhibitorIndex < 0 {
		pos.ExhibitorIndex = 0
	}

	log.Info().
		Str("category", pos.Category).
		Str("subcategory", pos.Subcategory).
		Int("exhibitor_index", pos.ExhibitorIndex).
		Msg("Checkpoint loaded")

	return &pos, nil
}

// Save writes the checkpoint atomically via a temp file rename, so a crash
// mid-write can never leave a truncated checkpoint behind.
func (s *Store) Save(pos Position) error {
	data, err := json.Marshal(pos)
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace checkpoint: %w", err)
	}

	log.Debug().
		Str("category", pos.Category).
		Str("subcategory", pos.Subcategory).
		Int("exhibitor_index", pos.ExhibitorIndex).
		Msg("Checkpoint saved")

	return nil
}

// Delete removes the checkpoint file. Missing files are not an error.
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	return nil
}
