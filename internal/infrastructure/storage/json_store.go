package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"DealHunter/internal/domain"
	"DealHunter/internal/ports"
)

// JSONStore keeps the price state in a single JSON object file
// ({"item001": 50000}), the layout of the legacy last_prices.json.
type JSONStore struct {
	path string
}

var _ ports.StateStore = (*JSONStore)(nil)

// NewJSONStore binds the store to a file path; the file need not exist yet.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load returns the persisted state, or an empty state when the file is absent.
func (s *JSONStore) Load(_ context.Context) (domain.PriceState, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.PriceState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	state := domain.PriceState{}
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode state file %s: %w", s.path, err)
	}
	return state, nil
}

// Replace writes the whole state to a temporary file and renames it over the
// previous one, so readers never observe a half-written file.
func (s *JSONStore) Replace(_ context.Context, state domain.PriceState) error {
	if state == nil {
		state = domain.PriceState{}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".last_prices-*.json")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
