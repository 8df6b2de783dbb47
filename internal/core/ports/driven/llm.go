package driven

import "context"

// LLMService produces completions for a fully formatted prompt.
// The prompt already carries the model's chat template, so implementations
// must send it verbatim without applying another template.
//
// Implementations may include:
//   - Ollama (local models, raw mode)
//   - OpenAI-compatible completion servers (llama.cpp server, LM Studio, vLLM)
type LLMService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
