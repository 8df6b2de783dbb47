package file

import (
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Configuration keys, as dot-separated TOML paths.
const (
	KeyServerAddr         = "server.addr"
	KeyServerAllowOrigins = "server.allow_origins"
	KeyServerRPS          = "server.requests_per_second"
	KeyServerBurst        = "server.burst"
	KeyServerShutdown     = "server.shutdown_timeout"

	KeyIngestDocsDir    = "ingest.docs_dir"
	KeyIngestExtensions = "ingest.extensions"
	KeyIngestRecursive  = "ingest.recursive"
	KeyIngestBatchSize  = "ingest.embed_batch_size"

	KeyChunkSize    = "chunking.chunk_size"
	KeyChunkOverlap = "chunking.chunk_overlap"

	KeyRetrievalTopK      = "retrieval.top_k"
	KeyRetrievalMaxTopK   = "retrieval.max_top_k"
	KeyRetrievalSeparator = "retrieval.separator"

	KeyEmbeddingProvider   = "embedding.provider"
	KeyEmbeddingModel      = "embedding.model"
	KeyEmbeddingBaseURL    = "embedding.base_url"
	KeyEmbeddingAPIKey     = "embedding.api_key"
	KeyEmbeddingDimensions = "embedding.dimensions"

	KeyLLMProvider    = "llm.provider"
	KeyLLMModel       = "llm.model"
	KeyLLMBaseURL     = "llm.base_url"
	KeyLLMAPIKey      = "llm.api_key"
	KeyLLMMaxTokens   = "llm.max_tokens"
	KeyLLMTemperature = "llm.temperature"
	KeyLLMTimeout     = "llm.timeout"

	KeyPromptTemplate = "prompt.template"
	KeyPromptDir      = "prompt.dir"
)

// LoadSettings overlays every key present in store onto base.
// Absent keys keep their value from base.
func LoadSettings(store driven.ConfigStore, base domain.Settings) domain.Settings {
	s := base
	has := func(key string) bool {
		_, ok := store.Get(key)
		return ok
	}
	str := func(key string, dst *string) {
		if has(key) {
			*dst = store.GetString(key)
		}
	}
	num := func(key string, dst *int) {
		if has(key) {
			*dst = store.GetInt(key)
		}
	}

	str(KeyServerAddr, &s.Server.Addr)
	str(KeyServerAllowOrigins, &s.Server.AllowOrigins)
	if has(KeyServerRPS) {
		s.Server.RequestsPerSecond = store.GetFloat(KeyServerRPS)
	}
	num(KeyServerBurst, &s.Server.Burst)
	if has(KeyServerShutdown) {
		s.Server.ShutdownTimeout = store.GetDuration(KeyServerShutdown)
	}

	str(KeyIngestDocsDir, &s.Ingest.DocsDir)
	if has(KeyIngestExtensions) {
		s.Ingest.Extensions = store.GetStringSlice(KeyIngestExtensions)
	}
	if has(KeyIngestRecursive) {
		s.Ingest.Recursive = store.GetBool(KeyIngestRecursive)
	}
	num(KeyIngestBatchSize, &s.Ingest.EmbedBatchSize)

	num(KeyChunkSize, &s.Chunking.ChunkSize)
	num(KeyChunkOverlap, &s.Chunking.ChunkOverlap)

	num(KeyRetrievalTopK, &s.Retrieval.TopK)
	num(KeyRetrievalMaxTopK, &s.Retrieval.MaxTopK)
	str(KeyRetrievalSeparator, &s.Retrieval.Separator)

	if has(KeyEmbeddingProvider) {
		s.Embedding.Provider = domain.AIProvider(store.GetString(KeyEmbeddingProvider))
		if !has(KeyEmbeddingModel) && s.Embedding.Provider != base.Embedding.Provider {
			s.Embedding.Model = domain.DefaultEmbeddingModels()[s.Embedding.Provider]
		}
	}
	str(KeyEmbeddingModel, &s.Embedding.Model)
	str(KeyEmbeddingBaseURL, &s.Embedding.BaseURL)
	str(KeyEmbeddingAPIKey, &s.Embedding.APIKey)
	num(KeyEmbeddingDimensions, &s.Embedding.Dimensions)

	if has(KeyLLMProvider) {
		s.LLM.Provider = domain.AIProvider(store.GetString(KeyLLMProvider))
		if !has(KeyLLMModel) && s.LLM.Provider != base.LLM.Provider {
			s.LLM.Model = domain.DefaultLLMModels()[s.LLM.Provider]
		}
	}
	str(KeyLLMModel, &s.LLM.Model)
	str(KeyLLMBaseURL, &s.LLM.BaseURL)
	str(KeyLLMAPIKey, &s.LLM.APIKey)
	num(KeyLLMMaxTokens, &s.LLM.MaxTokens)
	if has(KeyLLMTemperature) {
		s.LLM.Temperature = store.GetFloat(KeyLLMTemperature)
	}
	if has(KeyLLMTimeout) {
		s.LLM.Timeout = store.GetDuration(KeyLLMTimeout)
	}

	if has(KeyPromptTemplate) {
		s.Prompt.Template = domain.PromptTemplate(store.GetString(KeyPromptTemplate))
	}
	str(KeyPromptDir, &s.Prompt.Dir)

	return s
}

// SaveSettings writes every field of s into store and persists it.
// Secrets are written only when set.
func SaveSettings(store driven.ConfigStore, s domain.Settings) error {
	values := map[string]any{
		KeyServerAddr:         s.Server.Addr,
		KeyServerAllowOrigins: s.Server.AllowOrigins,
		KeyServerRPS:          s.Server.RequestsPerSecond,
		KeyServerBurst:        s.Server.Burst,
		KeyServerShutdown:     s.Server.ShutdownTimeout.String(),

		KeyIngestDocsDir:    s.Ingest.DocsDir,
		KeyIngestExtensions: s.Ingest.Extensions,
		KeyIngestRecursive:  s.Ingest.Recursive,
		KeyIngestBatchSize:  s.Ingest.EmbedBatchSize,

		KeyChunkSize:    s.Chunking.ChunkSize,
		KeyChunkOverlap: s.Chunking.ChunkOverlap,

		KeyRetrievalTopK:      s.Retrieval.TopK,
		KeyRetrievalMaxTopK:   s.Retrieval.MaxTopK,
		KeyRetrievalSeparator: s.Retrieval.Separator,

		KeyEmbeddingProvider:   string(s.Embedding.Provider),
		KeyEmbeddingModel:      s.Embedding.Model,
		KeyEmbeddingBaseURL:    s.Embedding.BaseURL,
		KeyEmbeddingDimensions: s.Embedding.Dimensions,

		KeyLLMProvider:    string(s.LLM.Provider),
		KeyLLMModel:       s.LLM.Model,
		KeyLLMBaseURL:     s.LLM.BaseURL,
		KeyLLMMaxTokens:   s.LLM.MaxTokens,
		KeyLLMTemperature: s.LLM.Temperature,
		KeyLLMTimeout:     s.LLM.Timeout.String(),

		KeyPromptTemplate: string(s.Prompt.Template),
		KeyPromptDir:      s.Prompt.Dir,
	}
	if s.Embedding.APIKey != "" {
		values[KeyEmbeddingAPIKey] = s.Embedding.APIKey
	}
	if s.LLM.APIKey != "" {
		values[KeyLLMAPIKey] = s.LLM.APIKey
	}

	for key, value := range values {
		if err := store.Set(key, value); err != nil {
			return err
		}
	}
	return store.Save()
}
