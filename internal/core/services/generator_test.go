package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

func TestGenerate_PassesOptions(t *testing.T) {
	llm := &mockLLM{response: "  Paris.\n"}
	g := NewGenerator(llm, domain.LLMSettings{MaxTokens: 64, Temperature: 0.2, Timeout: time.Second})

	out, err := g.Generate(context.Background(), domain.Prompt{Text: "prompt", Stop: []string{"<|im_end|>"}})
	require.NoError(t, err)

	assert.Equal(t, "Paris.", out)
	assert.Equal(t, "prompt", llm.lastPrompt)
	assert.Equal(t, 64, llm.lastOpts.MaxTokens)
	assert.InDelta(t, 0.2, llm.lastOpts.Temperature, 1e-9)
	assert.Equal(t, []string{"<|im_end|>"}, llm.lastOpts.StopWords)
}

func TestGenerate_Defaults(t *testing.T) {
	g := NewGenerator(&mockLLM{}, domain.LLMSettings{})
	assert.Equal(t, domain.DefaultMaxTokens, g.maxTokens)
	assert.Equal(t, domain.DefaultLLMTimeout, g.timeout)
}

func TestGenerate_CutsAtStopMarker(t *testing.T) {
	llm := &mockLLM{response: "Paris.<|im_end|>\n<|im_start|>user\nmore"}
	g := NewGenerator(llm, domain.LLMSettings{Timeout: time.Second})

	out, err := g.Generate(context.Background(), domain.Prompt{Stop: []string{"<|im_end|>"}})
	require.NoError(t, err)
	assert.Equal(t, "Paris.", out)
}

func TestGenerate_EmptyCompletionIsError(t *testing.T) {
	for _, resp := range []string{"", "   \n", "<|im_end|>"} {
		g := NewGenerator(&mockLLM{response: resp}, domain.LLMSettings{Timeout: time.Second})
		_, err := g.Generate(context.Background(), domain.Prompt{Stop: []string{"<|im_end|>"}})
		assert.ErrorIs(t, err, domain.ErrInference, "response %q", resp)
	}
}

func TestGenerate_Timeout(t *testing.T) {
	llm := &mockLLM{response: "late", delay: time.Second}
	g := NewGenerator(llm, domain.LLMSettings{Timeout: 20 * time.Millisecond})

	_, err := g.Generate(context.Background(), domain.Prompt{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGenerationTimeout)
	assert.NotErrorIs(t, err, domain.ErrInference)
}

func TestGenerate_BackendError(t *testing.T) {
	g := NewGenerator(&mockLLM{err: errors.New("CUDA out of memory")}, domain.LLMSettings{Timeout: time.Second})

	_, err := g.Generate(context.Background(), domain.Prompt{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInference)
	assert.Contains(t, err.Error(), "CUDA out of memory")
}

func TestGenerate_RateLimitKeepsSentinel(t *testing.T) {
	g := NewGenerator(&mockLLM{err: domain.ErrRateLimited}, domain.LLMSettings{Timeout: time.Second})

	_, err := g.Generate(context.Background(), domain.Prompt{})
	assert.ErrorIs(t, err, domain.ErrInference)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestCutAtStop(t *testing.T) {
	tests := []struct {
		text  string
		stops []string
		want  string
	}{
		{"abc", nil, "abc"},
		{"abc</s>def", []string{"</s>"}, "abc"},
		{"a|b#c", []string{"#", "|"}, "a"},
		{"abc", []string{""}, "abc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cutAtStop(tt.text, tt.stops))
	}
}
