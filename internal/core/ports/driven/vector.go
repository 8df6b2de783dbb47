package driven

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// VectorIndex provides exact nearest-neighbour search over IndexedChunks.
// The index owns the chunks it was built from, so a search hit's position
// always resolves to the text that produced its vector.
type VectorIndex interface {
	// Build replaces the index contents with entries.
	// Entries must have positions 0..N-1 in order and equal-length vectors.
	Build(ctx context.Context, entries []domain.IndexedChunk) error

	// Search finds the k nearest entries to the query by Euclidean distance,
	// nearest first. Returns all entries when fewer than k are stored.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Chunk returns the entry stored at position.
	Chunk(position int) (domain.IndexedChunk, bool)

	// Len returns the number of stored entries.
	Len() int

	// Dimension returns the vector size, or 0 when empty.
	Dimension() int

	// Close releases resources.
	Close() error
}

// VectorHit represents a nearest-neighbour search result.
type VectorHit struct {
	// Position is the matched entry's position.
	Position int

	// Distance is the Euclidean distance to the query.
	Distance float64
}
