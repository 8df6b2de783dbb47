package driving

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// QueryService answers questions against the loaded knowledge base.
type QueryService interface {
	// Ask retrieves context for the question and generates a grounded answer.
	// Returns domain.ErrNotReady before initialisation completes and
	// domain.ErrInvalidInput for an empty question. When no knowledge base is
	// loaded it returns a degraded Answer rather than an error.
	Ask(ctx context.Context, question string, opts AskOptions) (*domain.Answer, error)

	// Retrieve returns the ranked context window for a query without generating.
	Retrieve(ctx context.Context, query string, topK int) (*domain.Retrieval, error)

	// Status reports readiness and corpus size.
	Status() domain.PipelineStatus
}

// AskOptions configures a single question.
type AskOptions struct {
	// TopK overrides the configured number of retrieved chunks. Zero uses the default.
	TopK int
}
