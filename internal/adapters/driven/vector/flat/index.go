// Package flat provides an exact, in-memory vector index that compares the
// query against every stored vector.
package flat

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is a brute-force L2 index. Build swaps contents atomically, so
// concurrent searches see either the old or the new entries, never a mix.
type Index struct {
	mu        sync.RWMutex
	entries   []domain.IndexedChunk
	dimension int
}

// New creates an empty index.
func New() *Index {
	return &Index{}
}

// Build replaces the index contents with entries.
func (x *Index) Build(ctx context.Context, entries []domain.IndexedChunk) error {
	dimension := 0
	if len(entries) > 0 {
		dimension = len(entries[0].Vector)
		if dimension == 0 {
			return fmt.Errorf("%w: entry 0 has an empty vector", domain.ErrInvalidInput)
		}
	}

	stored := make([]domain.IndexedChunk, len(entries))
	for i, e := range entries {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if e.Position != i {
			return fmt.Errorf("%w: entry %d has position %d", domain.ErrInvalidInput, i, e.Position)
		}
		if len(e.Vector) != dimension {
			return fmt.Errorf("%w: entry %d has %d dimensions, want %d",
				domain.ErrDimensionMismatch, i, len(e.Vector), dimension)
		}
		vec := make([]float32, dimension)
		copy(vec, e.Vector)
		e.Vector = vec
		stored[i] = e
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries = stored
	x.dimension = dimension
	return nil
}

// Search finds the k nearest entries to query, nearest first.
// Ties are broken by position so results are deterministic.
func (x *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	if len(x.entries) == 0 {
		return nil, domain.ErrIndexEmpty
	}
	if len(query) != x.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), x.dimension)
	}

	hits := make([]driven.VectorHit, len(x.entries))
	for i, e := range x.entries {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		hits[i] = driven.VectorHit{Position: e.Position, Distance: euclidean(query, e.Vector)}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Chunk returns the entry stored at position.
func (x *Index) Chunk(position int) (domain.IndexedChunk, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if position < 0 || position >= len(x.entries) {
		return domain.IndexedChunk{}, false
	}
	return x.entries[position], true
}

// Len returns the number of stored entries.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

// Dimension returns the vector size, or 0 when empty.
func (x *Index) Dimension() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.dimension
}

// Close releases resources.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries = nil
	x.dimension = 0
	return nil
}

// euclidean returns the L2 distance, accumulated in float64.
func euclidean(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
