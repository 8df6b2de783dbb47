package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// --- Mock implementations for service testing ---

// mockConnector implements driven.Connector, yielding fixed documents and errors.
type mockConnector struct {
	docs        []domain.RawDocument
	errs        []error
	validateErr error
	synced      bool
}

func (m *mockConnector) Type() string     { return "mock" }
func (m *mockConnector) SourceID() string { return "mock-source" }
func (m *mockConnector) Close() error     { return nil }

func (m *mockConnector) Validate(_ context.Context) error {
	return m.validateErr
}

func (m *mockConnector) FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	m.synced = true
	docs := make(chan domain.RawDocument)
	errs := make(chan error, len(m.errs))

	go func() {
		defer close(docs)
		defer close(errs)

		for _, err := range m.errs {
			errs <- err
		}
		for _, doc := range m.docs {
			select {
			case <-ctx.Done():
				return
			case docs <- doc:
			}
		}
	}()

	return docs, errs
}

// textDoc builds a plain-text raw document.
func textDoc(uri, content string) domain.RawDocument {
	return domain.RawDocument{
		SourceID: "mock-source",
		URI:      uri,
		MIMEType: "text/plain",
		Content:  []byte(content),
	}
}

// mockRegistry implements driven.NormaliserRegistry by passing content through.
type mockRegistry struct {
	fail map[string]error
}

func (m *mockRegistry) Register(driven.Normaliser)   {}
func (m *mockRegistry) SupportedMIMETypes() []string { return []string{"text/plain"} }

func (m *mockRegistry) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if err := m.fail[raw.URI]; err != nil {
		return nil, err
	}
	return &driven.NormaliseResult{Document: domain.Document{
		ID:       raw.URI,
		SourceID: raw.SourceID,
		URI:      raw.URI,
		Title:    raw.URI,
		Content:  strings.TrimSpace(string(raw.Content)),
	}}, nil
}

// mockEmbedder implements driven.EmbeddingService with a keyword vocabulary:
// each dimension counts occurrences of one vocabulary word.
type mockEmbedder struct {
	mu         sync.Mutex
	vocab      []string
	err        error
	short      bool
	batchSizes []int
	calls      int
}

func newMockEmbedder(vocab ...string) *mockEmbedder {
	return &mockEmbedder{vocab: vocab}
}

func (m *mockEmbedder) vector(text string) []float32 {
	lower := strings.ToLower(text)
	v := make([]float32, len(m.vocab))
	for i, word := range m.vocab {
		v[i] = float32(strings.Count(lower, word))
	}
	return v
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.vector(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.calls++
	m.batchSizes = append(m.batchSizes, len(texts))
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		out = append(out, m.vector(text))
	}
	if m.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int            { return len(m.vocab) }
func (m *mockEmbedder) ModelName() string          { return "mock-embed" }
func (m *mockEmbedder) Ping(context.Context) error { return nil }
func (m *mockEmbedder) Close() error               { return nil }

func (m *mockEmbedder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockLLM implements driven.LLMService.
type mockLLM struct {
	mu         sync.Mutex
	response   string
	err        error
	delay      time.Duration
	lastPrompt string
	lastOpts   driven.GenerateOptions
	calls      int
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.calls++
	m.lastPrompt = prompt
	m.lastOpts = opts
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string          { return "mock-llm" }
func (m *mockLLM) Ping(context.Context) error { return nil }
func (m *mockLLM) Close() error               { return nil }

// mockPromptStore implements driven.PromptStore.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", errors.New("prompt not found")
}

func (m *mockPromptStore) Reload() {}

// staticIndex implements driven.VectorIndex with canned results,
// for error paths the real index cannot produce.
type staticIndex struct {
	entries   []domain.IndexedChunk
	hits      []driven.VectorHit
	searchErr error
}

func (s *staticIndex) Build(_ context.Context, entries []domain.IndexedChunk) error {
	s.entries = entries
	return nil
}

func (s *staticIndex) Search(context.Context, []float32, int) ([]driven.VectorHit, error) {
	return s.hits, s.searchErr
}

func (s *staticIndex) Chunk(position int) (domain.IndexedChunk, bool) {
	if position < 0 || position >= len(s.entries) {
		return domain.IndexedChunk{}, false
	}
	return s.entries[position], true
}

func (s *staticIndex) Len() int       { return len(s.entries) }
func (s *staticIndex) Dimension() int { return 0 }
func (s *staticIndex) Close() error   { return nil }
