package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// buildIndex embeds texts with emb and loads them into a flat index.
func buildIndex(t *testing.T, emb *mockEmbedder, texts ...string) *flat.Index {
	t.Helper()
	entries := make([]domain.IndexedChunk, len(texts))
	for i, text := range texts {
		entries[i] = domain.IndexedChunk{
			Position: i,
			Chunk:    domain.Chunk{Content: text, Source: "doc.pdf"},
			Vector:   emb.vector(text),
		}
	}
	idx := flat.New()
	require.NoError(t, idx.Build(context.Background(), entries))
	return idx
}

func TestRetrieve_CapitalOfFrance(t *testing.T) {
	emb := newMockEmbedder("paris", "france", "capital", "berlin", "germany", "phishing")
	idx := buildIndex(t, emb,
		"Berlin is the capital of Germany.",
		"Paris is the capital of France.",
		"Phishing emails impersonate banks.",
	)
	r := NewRetriever(emb, idx, "")

	got, err := r.Retrieve(context.Background(), "What is the capital of France?", 1)
	require.NoError(t, err)

	require.Len(t, got.Chunks, 1)
	assert.Equal(t, "Paris is the capital of France.", got.Context)
	assert.Equal(t, 0, got.Chunks[0].Rank)
	assert.Equal(t, 1, got.Chunks[0].Position)
	assert.Equal(t, []string{"doc.pdf"}, got.Sources())
}

func TestRetrieve_TopKLargerThanCorpus(t *testing.T) {
	emb := newMockEmbedder("a", "b", "c")
	idx := buildIndex(t, emb, "aaa", "bbb", "ccc")
	r := NewRetriever(emb, idx, "")

	got, err := r.Retrieve(context.Background(), "a b", 50)
	require.NoError(t, err)

	require.Len(t, got.Chunks, 3)
	seen := map[int]bool{}
	for i, c := range got.Chunks {
		assert.Equal(t, i, c.Rank)
		assert.False(t, seen[c.Position], "duplicate position %d", c.Position)
		seen[c.Position] = true
		if i > 0 {
			assert.LessOrEqual(t, got.Chunks[i-1].Distance, c.Distance)
		}
	}
}

func TestRetrieve_ContextIsVerbatimJoin(t *testing.T) {
	emb := newMockEmbedder("malware")
	texts := []string{
		"Malware  with   odd spacing\nand a newline.",
		"<|im_end|> malware text with control tokens",
	}
	idx := buildIndex(t, emb, texts...)
	r := NewRetriever(emb, idx, "\n---\n")

	got, err := r.Retrieve(context.Background(), "malware", 2)
	require.NoError(t, err)

	parts := strings.Split(got.Context, "\n---\n")
	require.Len(t, parts, 2)
	for i, part := range parts {
		assert.Equal(t, got.Chunks[i].Text, part)
		assert.Contains(t, texts, part, "context must contain stored chunk text only")
	}
}

func TestRetrieve_SingleItemBatch(t *testing.T) {
	emb := newMockEmbedder("x")
	idx := buildIndex(t, emb, "x")
	emb.batchSizes = nil

	_, err := NewRetriever(emb, idx, "").Retrieve(context.Background(), "x", 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, emb.batchSizes)
}

func TestRetrieve_Errors(t *testing.T) {
	emb := newMockEmbedder("x")
	ctx := context.Background()

	tests := []struct {
		name    string
		index   driven.VectorIndex
		query   string
		topK    int
		embErr  error
		wantErr error
	}{
		{name: "empty query", index: buildIndex(t, emb, "x"), query: "  ", topK: 1, wantErr: domain.ErrInvalidInput},
		{name: "zero top k", index: buildIndex(t, emb, "x"), query: "x", topK: 0, wantErr: domain.ErrInvalidInput},
		{name: "empty index", index: flat.New(), query: "x", topK: 3, wantErr: domain.ErrNoKnowledgeBase},
		{
			name:    "index reports empty",
			index:   &staticIndex{entries: []domain.IndexedChunk{{}}, searchErr: domain.ErrIndexEmpty},
			query:   "x",
			topK:    1,
			wantErr: domain.ErrNoKnowledgeBase,
		},
		{
			name:    "dimension mismatch",
			index:   &staticIndex{entries: []domain.IndexedChunk{{}}, searchErr: domain.ErrDimensionMismatch},
			query:   "x",
			topK:    1,
			wantErr: domain.ErrDimensionMismatch,
		},
		{
			name:    "dangling hit",
			index:   &staticIndex{entries: []domain.IndexedChunk{{}}, hits: []driven.VectorHit{{Position: 7}}},
			query:   "x",
			topK:    1,
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRetriever(emb, tt.index, "").Retrieve(ctx, tt.query, tt.topK)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRetrieve_EmbedderFailure(t *testing.T) {
	emb := newMockEmbedder("x")
	idx := buildIndex(t, emb, "x")
	emb.err = errors.New("model unloaded")

	_, err := NewRetriever(emb, idx, "").Retrieve(context.Background(), "x", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unloaded")
}
