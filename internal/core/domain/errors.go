package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider, template or normaliser type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service could not be created or reached.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service could not be created or reached.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// Pipeline Errors.

	// ErrNotReady indicates the pipeline has not finished initialising.
	ErrNotReady = errors.New("pipeline not ready")

	// ErrEmptyCorpus indicates ingestion produced no chunks.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrNoKnowledgeBase indicates retrieval was attempted with no stored chunks.
	// This is distinct from a query that simply matches nothing well.
	ErrNoKnowledgeBase = errors.New("no knowledge base loaded")

	// ErrIndexEmpty indicates a search against an unbuilt or empty vector index.
	ErrIndexEmpty = errors.New("vector index is empty")

	// ErrDimensionMismatch indicates vectors of differing dimensionality.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrExtraction indicates text could not be extracted from a document.
	ErrExtraction = errors.New("text extraction failed")

	// Generation Errors.

	// ErrInference indicates the language model failed to produce an answer.
	ErrInference = errors.New("inference failed")

	// ErrGenerationTimeout indicates generation exceeded its wall-clock budget.
	ErrGenerationTimeout = errors.New("generation timed out")

	// ErrRateLimited indicates the request rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
