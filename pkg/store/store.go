// Package store keeps finished pipeline runs so the HTTP API can serve them
// after the request that produced them.
//
// Two backends implement [Store]:
//   - [MemoryStore]: bounded in-process storage for development and tests
//   - [MongoStore]: MongoDB-backed storage shared across server instances
//
// Runs are addressed by the UUID the pipeline assigns. Listings return
// summaries newest first and never load the series payload.
package store

import (
	"context"

	"github.com/matzehuels/porenet/pkg/pipeline"
)

// Listing bounds.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Store is the interface for run storage backends.
type Store interface {
	// Save stores a run. Saving a run with an existing ID replaces it.
	Save(ctx context.Context, res *pipeline.Result) error

	// Get retrieves a run by ID. A missing run yields an error with code
	// RUN_NOT_FOUND.
	Get(ctx context.Context, id string) (*pipeline.Result, error)

	// List returns up to limit run summaries, newest first. Limits outside
	// [1, MaxListLimit] are clamped.
	List(ctx context.Context, limit int) ([]pipeline.Summary, error)

	// Close releases backend resources.
	Close() error
}

// ClampLimit maps a requested listing size into [1, MaxListLimit]; zero
// or negative means DefaultListLimit.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	}
	return limit
}
