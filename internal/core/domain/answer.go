package domain

// RetrievedChunk is a single ranked hit returned by retrieval.
type RetrievedChunk struct {
	// Rank is the 0-based rank, nearest first.
	Rank int

	// Position is the chunk's position in the vector index.
	Position int

	// Distance is the Euclidean distance to the query vector.
	Distance float64

	// Text is the stored chunk text, verbatim.
	Text string

	// Source is the URI of the document the chunk came from.
	Source string
}

// Retrieval is the context window assembled for a query.
type Retrieval struct {
	// Query is the question that was embedded.
	Query string

	// Chunks are the hits in rank order.
	Chunks []RetrievedChunk

	// Context is the chunk texts joined by the retrieval separator.
	Context string
}

// Sources returns the distinct chunk sources in rank order.
func (r *Retrieval) Sources() []string {
	seen := make(map[string]bool, len(r.Chunks))
	sources := make([]string, 0, len(r.Chunks))
	for _, c := range r.Chunks {
		if c.Source == "" || seen[c.Source] {
			continue
		}
		seen[c.Source] = true
		sources = append(sources, c.Source)
	}
	return sources
}

// Answer is the generated response to a question.
type Answer struct {
	// Text is the trimmed model output.
	Text string

	// Sources are the documents the answer was grounded on.
	Sources []string

	// Degraded is true when no knowledge base is loaded and Text is the
	// fixed no-knowledge-base message rather than model output.
	Degraded bool
}

// NoKnowledgeBaseAnswer is returned for every question when ingestion
// produced no chunks.
const NoKnowledgeBaseAnswer = "No documents have been loaded, so there is no knowledge base to answer from. " +
	"Add documents to the documents folder and restart the service."

// DefaultSystemPrompt instructs the model to answer from the supplied
// context only.
const DefaultSystemPrompt = "You are a Cyber Crime Assistant. Answer the user's question based ONLY on the " +
	"provided context. If the answer is not in the context, state that the information is not available " +
	"in the provided documents. Be concise."

// PipelineStatus reports the query pipeline's readiness.
type PipelineStatus struct {
	// Ready is true once ingestion and model validation have completed.
	Ready bool

	// Degraded is true when the pipeline is ready but holds no chunks.
	Degraded bool

	// Documents is the number of documents ingested.
	Documents int

	// Chunks is the number of chunks in the vector index.
	Chunks int

	// EmbeddingModel names the embedding model in use.
	EmbeddingModel string

	// LLMModel names the generation model in use.
	LLMModel string
}
