package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Retriever embeds a query and assembles the nearest chunks into a context window.
type Retriever struct {
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	separator string
}

// NewRetriever creates a retriever. An empty separator uses domain.DefaultSeparator.
func NewRetriever(embedder driven.EmbeddingService, index driven.VectorIndex, separator string) *Retriever {
	if separator == "" {
		separator = domain.DefaultSeparator
	}
	return &Retriever{
		embedder:  embedder,
		index:     index,
		separator: separator,
	}
}

// Retrieve returns up to topK chunks nearest to query, nearest first.
// The context joins the stored chunk texts verbatim in rank order.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) (*domain.Retrieval, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", domain.ErrInvalidInput, topK)
	}
	if r.index.Len() == 0 {
		return nil, domain.ErrNoKnowledgeBase
	}

	vectors, err := r.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed query: expected 1 vector, got %d", len(vectors))
	}

	hits, err := r.index.Search(ctx, vectors[0], topK)
	if err != nil {
		if errors.Is(err, domain.ErrIndexEmpty) {
			return nil, domain.ErrNoKnowledgeBase
		}
		return nil, fmt.Errorf("search index: %w", err)
	}

	retrieval := &domain.Retrieval{
		Query:  query,
		Chunks: make([]domain.RetrievedChunk, 0, len(hits)),
	}
	texts := make([]string, 0, len(hits))
	for rank, hit := range hits {
		entry, ok := r.index.Chunk(hit.Position)
		if !ok {
			return nil, fmt.Errorf("search index: hit at position %d has no chunk", hit.Position)
		}
		retrieval.Chunks = append(retrieval.Chunks, domain.RetrievedChunk{
			Rank:     rank,
			Position: hit.Position,
			Distance: hit.Distance,
			Text:     entry.Text(),
			Source:   entry.Chunk.Source,
		})
		texts = append(texts, entry.Text())
	}
	retrieval.Context = strings.Join(texts, r.separator)

	logger.Debug("Retrieved %d chunks for %q", len(hits), query)
	return retrieval, nil
}
