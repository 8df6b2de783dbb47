package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAIProvider_IsValid tests recognised and unknown providers
func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{"ollama is valid", AIProviderOllama, true},
		{"openai is valid", AIProviderOpenAI, true},
		{"hashing is valid", AIProviderHashing, true},
		{"anthropic is not supported", AIProvider("anthropic"), false},
		{"empty string is invalid", AIProvider(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

// TestAIProvider_Capabilities tests the capability predicates
func TestAIProvider_Capabilities(t *testing.T) {
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.False(t, AIProviderHashing.RequiresAPIKey())

	assert.True(t, AIProviderOllama.IsLocal())
	assert.True(t, AIProviderHashing.IsLocal())
	assert.False(t, AIProviderOpenAI.IsLocal())

	assert.True(t, AIProviderOllama.SupportsGeneration())
	assert.True(t, AIProviderOpenAI.SupportsGeneration())
	assert.False(t, AIProviderHashing.SupportsGeneration())
}

// TestAIProvider_Description tests human-readable descriptions
func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, "OpenAI-compatible API", AIProviderOpenAI.Description())
	assert.Equal(t, unknownDescription, AIProvider("nope").Description())
	assert.Equal(t, "ollama", AIProviderOllama.String())
}

// TestEmbeddingSettings_IsConfigured tests API key requirements
func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		expected bool
	}{
		{"ollama needs no key", EmbeddingSettings{Provider: AIProviderOllama}, true},
		{"openai without key or url", EmbeddingSettings{Provider: AIProviderOpenAI}, false},
		{"openai with key", EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk-test"}, true},
		{"openai-compatible server with url", EmbeddingSettings{Provider: AIProviderOpenAI, BaseURL: "http://localhost:8080/v1"}, true},
		{"invalid provider", EmbeddingSettings{Provider: "bogus"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

// TestLLMSettings_IsConfigured tests that embedding-only providers cannot generate
func TestLLMSettings_IsConfigured(t *testing.T) {
	assert.True(t, LLMSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.False(t, LLMSettings{Provider: AIProviderHashing}.IsConfigured())
	assert.False(t, LLMSettings{Provider: AIProviderOpenAI}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderOpenAI, APIKey: "k"}.IsConfigured())
}

// TestDefaultSettings tests the defaults match the reference pipeline
func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, "127.0.0.1:5000", s.Server.Addr)
	assert.Equal(t, "docs", s.Ingest.DocsDir)
	assert.Equal(t, 1000, s.Chunking.ChunkSize)
	assert.Equal(t, 150, s.Chunking.ChunkOverlap)
	assert.Equal(t, 3, s.Retrieval.TopK)
	assert.Equal(t, "\n---\n", s.Retrieval.Separator)
	assert.Equal(t, 256, s.LLM.MaxTokens)
	assert.InDelta(t, 0.2, s.LLM.Temperature, 1e-9)
	assert.Equal(t, 120*time.Second, s.LLM.Timeout)
	assert.Equal(t, PromptTemplateChatML, s.Prompt.Template)
	assert.Contains(t, s.Ingest.Extensions, ".pdf")

	require.NoError(t, s.Validate())
}

// TestSettings_Validate tests each invalid field is reported
func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantMsg string
	}{
		{"empty addr", func(s *Settings) { s.Server.Addr = " " }, "server.addr"},
		{"zero chunk size", func(s *Settings) { s.Chunking.ChunkSize = 0 }, "chunking.chunk_size"},
		{"overlap equal to size", func(s *Settings) { s.Chunking.ChunkOverlap = s.Chunking.ChunkSize }, "chunking.chunk_overlap"},
		{"negative overlap", func(s *Settings) { s.Chunking.ChunkOverlap = -1 }, "chunking.chunk_overlap"},
		{"zero top k", func(s *Settings) { s.Retrieval.TopK = 0 }, "retrieval.top_k"},
		{"max top k below top k", func(s *Settings) { s.Retrieval.MaxTopK = 1; s.Retrieval.TopK = 2 }, "retrieval.max_top_k"},
		{"unknown embedding provider", func(s *Settings) { s.Embedding.Provider = "x" }, "embedding.provider"},
		{"openai embedding without key", func(s *Settings) { s.Embedding.Provider = AIProviderOpenAI; s.Embedding.BaseURL = "" }, "embedding.api_key"},
		{"hashing generator", func(s *Settings) { s.LLM.Provider = AIProviderHashing }, "llm.provider"},
		{"zero max tokens", func(s *Settings) { s.LLM.MaxTokens = 0 }, "llm.max_tokens"},
		{"negative temperature", func(s *Settings) { s.LLM.Temperature = -0.1 }, "llm.temperature"},
		{"zero timeout", func(s *Settings) { s.LLM.Timeout = 0 }, "llm.timeout"},
		{"unknown template", func(s *Settings) { s.Prompt.Template = "alpaca" }, "prompt.template"},
		{"rate limit without burst", func(s *Settings) { s.Server.RequestsPerSecond = 5; s.Server.Burst = 0 }, "server.burst"},
		{"zero batch size", func(s *Settings) { s.Ingest.EmbedBatchSize = 0 }, "ingest.embed_batch_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)

			err := s.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

// TestPromptTemplate_IsValid tests template names
func TestPromptTemplate_IsValid(t *testing.T) {
	assert.True(t, PromptTemplateChatML.IsValid())
	assert.True(t, PromptTemplateZephyr.IsValid())
	assert.False(t, PromptTemplate("").IsValid())
}

// TestEmbeddingDimensions tests known model sizes
func TestEmbeddingDimensions(t *testing.T) {
	dims := EmbeddingDimensions()
	assert.Equal(t, 384, dims["all-minilm"])
	assert.Equal(t, 768, dims["nomic-embed-text"])
	assert.Equal(t, 1536, dims["text-embedding-3-small"])
}

func TestProviderLists(t *testing.T) {
	for _, p := range AllEmbeddingProviders() {
		assert.True(t, p.IsValid(), p)
		assert.NotEmpty(t, DefaultEmbeddingModels()[p], p)
	}
	for _, p := range AllLLMProviders() {
		assert.True(t, p.SupportsGeneration(), p)
		assert.NotEmpty(t, DefaultLLMModels()[p], p)
	}
}
