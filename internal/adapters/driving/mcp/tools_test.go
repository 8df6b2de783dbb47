package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

func newTestServer(t *testing.T, query *mockQueryService) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Query: query})
	require.NoError(t, err)
	return server
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer", func(t *testing.T) {
		query := &mockQueryService{answer: &domain.Answer{
			Text:    "Paris.",
			Sources: []string{"europe.pdf"},
		}}
		server := newTestServer(t, query)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "Capital of France?", TopK: 2})

		require.NoError(t, err)
		assert.Equal(t, "Paris.", output.Answer)
		assert.Equal(t, []string{"europe.pdf"}, output.Sources)
		assert.False(t, output.Degraded)
		assert.Equal(t, "Capital of France?", query.lastQuestion)
		assert.Equal(t, 2, query.lastOpts.TopK)
	})

	t.Run("reports degraded answer", func(t *testing.T) {
		query := &mockQueryService{answer: &domain.Answer{Text: domain.NoKnowledgeBaseAnswer, Degraded: true}}
		server := newTestServer(t, query)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "q"})

		require.NoError(t, err)
		assert.True(t, output.Degraded)
	})

	t.Run("returns error from service", func(t *testing.T) {
		server := newTestServer(t, &mockQueryService{err: domain.ErrNotReady})

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "q"})

		assert.ErrorIs(t, err, domain.ErrNotReady)
	})
}

func TestServer_handleRetrieve(t *testing.T) {
	ctx := context.Background()

	t.Run("returns passages in rank order", func(t *testing.T) {
		query := &mockQueryService{retrieval: &domain.Retrieval{
			Query: "malware",
			Chunks: []domain.RetrievedChunk{
				{Rank: 0, Position: 4, Distance: 0.1, Text: "Malware is software...", Source: "a.pdf"},
				{Rank: 1, Position: 1, Distance: 0.7, Text: "Ransomware encrypts...", Source: "b.pdf"},
			},
		}}
		server := newTestServer(t, query)

		_, output, err := server.handleRetrieve(ctx, nil, RetrieveInput{Query: "malware", TopK: 5})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		require.Len(t, output.Passages, 2)
		assert.Equal(t, "a.pdf", output.Passages[0].Source)
		assert.Equal(t, 1, output.Passages[1].Rank)
		assert.Equal(t, "Ransomware encrypts...", output.Passages[1].Text)
		assert.Equal(t, 5, query.lastTopK)
	})

	t.Run("returns error from service", func(t *testing.T) {
		server := newTestServer(t, &mockQueryService{err: domain.ErrNoKnowledgeBase})

		_, _, err := server.handleRetrieve(ctx, nil, RetrieveInput{Query: "q"})

		assert.ErrorIs(t, err, domain.ErrNoKnowledgeBase)
	})
}

func TestServer_handleStatusResource(t *testing.T) {
	server := newTestServer(t, &mockQueryService{status: domain.PipelineStatus{
		Ready:     true,
		Documents: 3,
		Chunks:    12,
		LLMModel:  "tinyllama",
	}})

	result, err := server.handleStatusResource(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: statusURI},
	})
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, statusURI, result.Contents[0].URI)

	var info statusInfo
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &info))
	assert.True(t, info.Ready)
	assert.Equal(t, 12, info.Chunks)
	assert.Equal(t, "tinyllama", info.LLMModel)
}
