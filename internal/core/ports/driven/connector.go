package driven

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// Connector fetches raw documents from a document source.
type Connector interface {
	// Type returns the connector type identifier.
	Type() string

	// SourceID returns the configured source ID.
	SourceID() string

	// Validate checks the source is reachable.
	// A missing document folder is not an error: it yields no documents.
	Validate(ctx context.Context) error

	// FullSync enumerates every recognised document in the source.
	// Returns channels for documents and errors. Errors on the error channel
	// are per-document and do not stop enumeration.
	FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error)

	// Close releases resources.
	Close() error
}
