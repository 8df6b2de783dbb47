package domain

import "time"

// Document represents a loaded file after text extraction.
// It is the canonical representation after normalisation and is
// discarded once it has been chunked.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SourceID identifies the loader that produced this document.
	SourceID string

	// URI is the original location (file path).
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the full extracted text, pages concatenated in order.
	Content string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was loaded.
	CreatedAt time.Time
}

// Chunk represents a bounded span of a document's text.
// Consecutive chunks of the same document overlap.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Source is the URI of the parent document.
	Source string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// IndexedChunk binds a chunk to its global position in the index and
// to its embedding vector. It is built in a single step so the text
// and the vector at a position can never disagree.
type IndexedChunk struct {
	// Position is the chunk's place in the index, 0..N-1.
	Position int

	// Chunk is the stored chunk. Its Content is returned verbatim by retrieval.
	Chunk Chunk

	// Vector is the chunk's embedding.
	Vector []float32
}

// Text returns the chunk text stored at this position.
func (c IndexedChunk) Text() string {
	return c.Chunk.Content
}
