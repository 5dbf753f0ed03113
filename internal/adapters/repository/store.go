// Package repository defines the cutoff store interface and errors.
package repository

import (
	"context"

	"github.com/svyas/admitcast/internal/domain/types"
)

// Query selects the current-cycle candidate set. Institute and Program are
// case-insensitive substring filters; the remaining string filters are
// exact. Rank, when present, is only an ordering hint so the bounded result
// set stays near the candidate; the authoritative order is re-established
// in memory by the ranker.
type Query struct {
	Institute string
	Program   string
	Quota     string
	SeatType  string
	Gender    string
	Category  types.Category
	Year      int
	Round     int
	Rank      *int
	Limit     int
}

// Store provides read/write access to cutoff rows.
type Store interface {
	// Candidates returns the rows matching q for one admission cycle.
	Candidates(ctx context.Context, q Query) ([]types.CutoffRecord, error)

	// History returns all rows (every year and round) for the given program
	// identities, batched in one call.
	History(ctx context.Context, keys []types.ProgramKey) (map[types.ProgramKey][]types.CutoffRecord, error)

	// MaxYear returns the latest admission year present.
	// Returns ErrNoData when the store is empty.
	MaxYear(ctx context.Context) (int, error)

	// MaxRound returns the latest round recorded for a year.
	// Returns ErrNoData when the year is unknown.
	MaxRound(ctx context.Context, year int) (int, error)

	// Insert adds cutoff rows, skipping duplicates. Used by the seed tool.
	Insert(ctx context.Context, rows []types.CutoffRecord) error

	// Close releases the underlying connections.
	Close() error
}
