package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI API or any OpenAI-compatible server
	// (llama.cpp server, LM Studio, vLLM).
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderHashing is the built-in feature-hashing embedder.
	// It needs no network and supports embeddings only.
	AIProviderHashing AIProvider = "hashing"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderHashing:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key
// when talking to its default endpoint.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHashing
}

// SupportsGeneration returns true if this provider can generate text.
func (p AIProvider) SupportsGeneration() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI-compatible API"
	case AIProviderHashing:
		return "Feature hashing (built-in, offline)"
	default:
		return unknownDescription
	}
}

// PromptTemplate names a chat template used to format prompts.
type PromptTemplate string

// Available prompt templates.
const (
	// PromptTemplateChatML uses <|im_start|>/<|im_end|> turn markers.
	PromptTemplateChatML PromptTemplate = "chatml"

	// PromptTemplateZephyr uses <|system|>/<|user|>/<|assistant|> markers and </s>.
	PromptTemplateZephyr PromptTemplate = "zephyr"
)

// IsValid returns true if the template is recognised.
func (t PromptTemplate) IsValid() bool {
	return t == PromptTemplateChatML || t == PromptTemplateZephyr
}

// ServerSettings holds HTTP server configuration.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// AllowOrigins is the CORS allowed origins list.
	AllowOrigins string

	// RequestsPerSecond limits /ask. Zero disables limiting.
	RequestsPerSecond float64

	// Burst is the limiter bucket size.
	Burst int

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// IngestSettings holds document loading configuration.
type IngestSettings struct {
	// DocsDir is the folder documents are loaded from.
	DocsDir string

	// Extensions are the recognised file extensions, matched case-insensitively.
	Extensions []string

	// Recursive walks subdirectories when true.
	Recursive bool

	// EmbedBatchSize is the number of chunks embedded per call.
	EmbedBatchSize int
}

// ChunkingSettings holds chunker configuration, measured in characters.
type ChunkingSettings struct {
	// ChunkSize is the maximum chunk length.
	ChunkSize int

	// ChunkOverlap is the target overlap between consecutive chunks.
	ChunkOverlap int
}

// RetrievalSettings holds retriever configuration.
type RetrievalSettings struct {
	// TopK is the default number of chunks retrieved per query.
	TopK int

	// MaxTopK caps a caller-supplied top_k.
	MaxTopK int

	// Separator joins retrieved chunk texts into the context.
	Separator string
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint. Empty selects the provider default.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the vector size for the hashing provider.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" && e.BaseURL == "" {
		return false
	}
	return true
}

// LLMSettings holds generation provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint. Empty selects the provider default.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// MaxTokens is the max_new_tokens generation limit.
	MaxTokens int

	// Temperature is the sampling temperature.
	Temperature float64

	// Timeout is the wall-clock budget for a single generation.
	Timeout time.Duration
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.SupportsGeneration() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" && l.BaseURL == "" {
		return false
	}
	return true
}

// PromptSettings holds prompt construction configuration.
type PromptSettings struct {
	// Template is the chat template matching the generation model.
	Template PromptTemplate

	// Dir holds user-editable prompt files. Empty uses built-in prompts.
	Dir string
}

// Settings is the complete runtime configuration.
type Settings struct {
	Server    ServerSettings
	Ingest    IngestSettings
	Chunking  ChunkingSettings
	Retrieval RetrievalSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Prompt    PromptSettings
}

// Default configuration values.
const (
	DefaultAddr            = "127.0.0.1:5000"
	DefaultDocsDir         = "docs"
	DefaultChunkSize       = 1000
	DefaultChunkOverlap    = 150
	DefaultTopK            = 3
	DefaultMaxTopK         = 100
	DefaultSeparator       = "\n---\n"
	DefaultMaxTokens       = 256
	DefaultTemperature     = 0.2
	DefaultLLMTimeout      = 120 * time.Second
	DefaultEmbedBatchSize  = 32
	DefaultHashDimensions  = 384
	DefaultShutdownTimeout = 10 * time.Second
)

// DefaultSettings returns settings that work against a local Ollama.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Addr:            DefaultAddr,
			AllowOrigins:    "*",
			Burst:           10,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Ingest: IngestSettings{
			DocsDir:        DefaultDocsDir,
			Extensions:     []string{".pdf", ".txt", ".md"},
			EmbedBatchSize: DefaultEmbedBatchSize,
		},
		Chunking: ChunkingSettings{
			ChunkSize:    DefaultChunkSize,
			ChunkOverlap: DefaultChunkOverlap,
		},
		Retrieval: RetrievalSettings{
			TopK:      DefaultTopK,
			MaxTopK:   DefaultMaxTopK,
			Separator: DefaultSeparator,
		},
		Embedding: EmbeddingSettings{
			Provider:   AIProviderOllama,
			Model:      DefaultEmbeddingModels()[AIProviderOllama],
			Dimensions: DefaultHashDimensions,
		},
		LLM: LLMSettings{
			Provider:    AIProviderOllama,
			Model:       DefaultLLMModels()[AIProviderOllama],
			MaxTokens:   DefaultMaxTokens,
			Temperature: DefaultTemperature,
			Timeout:     DefaultLLMTimeout,
		},
		Prompt: PromptSettings{
			Template: PromptTemplateChatML,
		},
	}
}

// Validate reports every invalid setting, wrapped in ErrInvalidInput.
func (s Settings) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(s.Server.Addr) == "" {
		add("server.addr must not be empty")
	}
	if s.Server.RequestsPerSecond < 0 {
		add("server.requests_per_second must be >= 0")
	}
	if s.Server.RequestsPerSecond > 0 && s.Server.Burst < 1 {
		add("server.burst must be >= 1 when rate limiting is enabled")
	}
	if s.Ingest.EmbedBatchSize < 1 {
		add("ingest.embed_batch_size must be >= 1")
	}
	if s.Chunking.ChunkSize < 1 {
		add("chunking.chunk_size must be >= 1")
	}
	if s.Chunking.ChunkOverlap < 0 || s.Chunking.ChunkOverlap >= s.Chunking.ChunkSize {
		add("chunking.chunk_overlap must be in [0, chunk_size)")
	}
	if s.Retrieval.TopK < 1 {
		add("retrieval.top_k must be >= 1")
	}
	if s.Retrieval.MaxTopK < s.Retrieval.TopK {
		add("retrieval.max_top_k must be >= top_k")
	}
	if !s.Embedding.Provider.IsValid() {
		add("embedding.provider %q is not supported", s.Embedding.Provider)
	} else if !s.Embedding.IsConfigured() {
		add("embedding.api_key or embedding.base_url is required for %s", s.Embedding.Provider)
	}
	if s.Embedding.Provider == AIProviderHashing && s.Embedding.Dimensions < 1 {
		add("embedding.dimensions must be >= 1")
	}
	if !s.LLM.Provider.SupportsGeneration() {
		add("llm.provider %q cannot generate text", s.LLM.Provider)
	} else if !s.LLM.IsConfigured() {
		add("llm.api_key or llm.base_url is required for %s", s.LLM.Provider)
	}
	if s.LLM.MaxTokens < 1 {
		add("llm.max_tokens must be >= 1")
	}
	if s.LLM.Temperature < 0 {
		add("llm.temperature must be >= 0")
	}
	if s.LLM.Timeout <= 0 {
		add("llm.timeout must be positive")
	}
	if !s.Prompt.Template.IsValid() {
		add("prompt.template %q is not supported", s.Prompt.Template)
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, errors.New(strings.Join(problems, "; ")))
}

// AllEmbeddingProviders returns the providers that can produce embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderHashing}
}

// AllLLMProviders returns the providers that can generate text.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:  "all-minilm",
		AIProviderOpenAI:  "text-embedding-3-small",
		AIProviderHashing: "hashing-trigram",
	}
}

// DefaultLLMModels returns default models for each generation provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "tinyllama",
		AIProviderOpenAI: "gpt-3.5-turbo-instruct",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
