// Package seed loads sample tournaments from a YAML fixture and inserts them
// in a single bulk statement. Fixture entries are create payloads and go
// through the same validation as API requests.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/chessdir/tournaments/internal/tournament"
)

//go:embed tournaments.yaml
var defaultFixture []byte

// ErrInvalidFixture is returned when any fixture entry fails validation.
var ErrInvalidFixture = errors.New("invalid seed fixture")

// Inserter is the store capability seeding needs.
type Inserter interface {
	BulkCreate(ctx context.Context, ts []*tournament.Tournament) (int, error)
}

// DefaultFixture returns the embedded sample data.
func DefaultFixture() []byte {
	return defaultFixture
}

// Prepare decodes a YAML list of payloads and validates every entry. Entry
// failures are collected in the result rather than stopping at the first.
func Prepare(raw []byte) ([]*tournament.Tournament, Result, error) {
	var result Result

	var docs []map[string]any
	if err := yaml.Unmarshal(raw, &docs); err != nil {
		return nil, result, fmt.Errorf("decode seed fixture: %w", err)
	}
	result.Loaded = len(docs)

	records := make([]*tournament.Tournament, 0, len(docs))
	for i, doc := range docs {
		payload, err := json.Marshal(doc)
		if err != nil {
			result.AddErrorf("entry %d: encode payload: %v", i, err)
			continue
		}
		t, err := tournament.ValidateCreate(payload)
		if err != nil {
			result.AddErrorf("entry %d (%v): %v", i, doc["title"], err)
			continue
		}
		records = append(records, t)
	}
	return records, result, nil
}

// Run validates the fixture and inserts all of it or nothing.
func Run(ctx context.Context, store Inserter, raw []byte) (Result, error) {
	records, result, err := Prepare(raw)
	if err != nil {
		return result, err
	}
	if len(result.Errors) > 0 {
		return result, fmt.Errorf("%w: %d of %d entries rejected", ErrInvalidFixture, len(result.Errors), result.Loaded)
	}

	n, err := store.BulkCreate(ctx, records)
	if err != nil {
		return result, fmt.Errorf("insert seed records: %w", err)
	}
	result.Inserted = n
	return result, nil
}
