package hashing

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func l2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i] - b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

func TestNewEmbeddingService(t *testing.T) {
	assert.Equal(t, DefaultDimensions, NewEmbeddingService(0).Dimensions())
	assert.Equal(t, 64, NewEmbeddingService(64).Dimensions())
	assert.Equal(t, ModelName, NewEmbeddingService(0).ModelName())
}

func TestEmbed_Deterministic(t *testing.T) {
	svc := NewEmbeddingService(128)
	ctx := context.Background()

	a, err := svc.Embed(ctx, "Paris is the capital of France.")
	require.NoError(t, err)
	b, err := svc.Embed(ctx, "Paris is the capital of France.")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 128)
}

func TestEmbed_Normalised(t *testing.T) {
	svc := NewEmbeddingService(DefaultDimensions)

	v, err := svc.Embed(context.Background(), "The quick brown fox")
	require.NoError(t, err)

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)
}

func TestEmbed_EmptyIsZero(t *testing.T) {
	svc := NewEmbeddingService(16)

	v, err := svc.Embed(context.Background(), "  ...  ")
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 16), v)
}

func TestEmbed_SimilarTextsAreCloser(t *testing.T) {
	svc := NewEmbeddingService(DefaultDimensions)
	ctx := context.Background()

	query, _ := svc.Embed(ctx, "What is the capital of France?")
	related, _ := svc.Embed(ctx, "Paris is the capital of France.")
	unrelated, _ := svc.Embed(ctx, "Phishing emails often impersonate banks.")

	assert.Less(t, l2(query, related), l2(query, unrelated))
}

func TestEmbed_CaseInsensitive(t *testing.T) {
	svc := NewEmbeddingService(32)
	ctx := context.Background()

	a, _ := svc.Embed(ctx, "RANSOMWARE attack")
	b, _ := svc.Embed(ctx, "ransomware ATTACK")
	assert.Equal(t, a, b)
}

func TestEmbedBatch(t *testing.T) {
	svc := NewEmbeddingService(32)
	ctx := context.Background()

	out, err := svc.EmbedBatch(ctx, []string{"one", "two"})
	require.NoError(t, err)
	require.Len(t, out, 2)

	one, _ := svc.Embed(ctx, "one")
	assert.Equal(t, one, out[0])

	empty, err := svc.EmbedBatch(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestEmbedBatch_CancelledContext(t *testing.T) {
	svc := NewEmbeddingService(32)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.EmbedBatch(ctx, []string{"a"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"new"}, tokenize("  new!! "))
	assert.Equal(t, []string{"café", "42"}, tokenize("Café, 42."))
}

func TestPingClose(t *testing.T) {
	svc := NewEmbeddingService(8)
	assert.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
}
