package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Generator runs a prompt through the LLM under a wall-clock budget.
type Generator struct {
	llm         driven.LLMService
	maxTokens   int
	temperature float64
	timeout     time.Duration
}

// NewGenerator creates a generator from LLM settings.
func NewGenerator(llm driven.LLMService, settings domain.LLMSettings) *Generator {
	maxTokens := settings.MaxTokens
	if maxTokens <= 0 {
		maxTokens = domain.DefaultMaxTokens
	}
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultLLMTimeout
	}
	return &Generator{
		llm:         llm,
		maxTokens:   maxTokens,
		temperature: settings.Temperature,
		timeout:     timeout,
	}
}

// Generate returns the model's answer to prompt, cut at the first stop
// marker and trimmed. An empty answer is an error.
func (g *Generator) Generate(ctx context.Context, prompt domain.Prompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	out, err := g.llm.Generate(ctx, prompt.Text, driven.GenerateOptions{
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
		StopWords:   prompt.Stop,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: no answer within %s", domain.ErrGenerationTimeout, g.timeout)
		}
		return "", fmt.Errorf("%w: %w", domain.ErrInference, err)
	}
	logger.Debug("Generated %d bytes in %s", len(out), time.Since(start).Round(time.Millisecond))

	answer := strings.TrimSpace(cutAtStop(out, prompt.Stop))
	if answer == "" {
		return "", fmt.Errorf("%w: model returned an empty completion", domain.ErrInference)
	}
	return answer, nil
}

// cutAtStop truncates text at the earliest stop marker, for backends that
// do not honour stop sequences themselves.
func cutAtStop(text string, stops []string) string {
	cut := len(text)
	for _, stop := range stops {
		if stop == "" {
			continue
		}
		if i := strings.Index(text, stop); i >= 0 && i < cut {
			cut = i
		}
	}
	return text[:cut]
}
