package domain

import "time"

// IngestReport summarises one ingestion run.
type IngestReport struct {
	// Documents is the number of documents that produced at least one chunk.
	Documents int

	// Skipped counts documents with no extractable text.
	Skipped int

	// Failed counts documents that could not be read or extracted.
	Failed int

	// Chunks is the number of chunks placed in the vector index.
	Chunks int

	// Duration is the wall-clock time of the run.
	Duration time.Duration
}
