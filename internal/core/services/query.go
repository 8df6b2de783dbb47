package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// PipelineDeps are the adapters a QueryService is initialised from.
// LLM and Prompts are optional: without an LLM only retrieval is available.
type PipelineDeps struct {
	Connector driven.Connector
	Registry  driven.NormaliserRegistry
	Chunking  driven.PostProcessorPipeline
	Embedder  driven.EmbeddingService
	Index     driven.VectorIndex
	LLM       driven.LLMService
	Prompts   driven.PromptStore
}

// pipeline is the immutable state shared by every request once ready.
type pipeline struct {
	retriever *Retriever
	builder   *PromptBuilder
	generator *Generator
	report    domain.IngestReport
	embedding string
	llm       string
}

// QueryService answers questions once initialised. Before that every call
// fails fast with domain.ErrNotReady.
type QueryService struct {
	settings domain.Settings

	started  atomic.Bool
	ready    atomic.Bool
	pipeline atomic.Pointer[pipeline]
}

// NewQueryService creates an uninitialised query service.
func NewQueryService(settings domain.Settings) *QueryService {
	return &QueryService{settings: settings}
}

// Init ingests documents and prepares the pipeline. It may only run once.
// An empty corpus is not an error: the service becomes ready in degraded
// mode and answers every question with domain.NoKnowledgeBaseAnswer.
func (s *QueryService) Init(ctx context.Context, deps PipelineDeps) (domain.IngestReport, error) {
	if !s.started.CompareAndSwap(false, true) {
		return domain.IngestReport{}, errors.New("query service already initialised")
	}

	p := &pipeline{}

	if deps.LLM != nil {
		system := ""
		if deps.Prompts != nil {
			prompt, err := deps.Prompts.Load(driven.PromptAnswerSystem)
			if err != nil {
				logger.Warn("Using built-in system prompt: %v", err)
			}
			system = prompt
		}
		builder, err := NewPromptBuilder(s.settings.Prompt.Template, system)
		if err != nil {
			return domain.IngestReport{}, err
		}
		p.builder = builder
		p.generator = NewGenerator(deps.LLM, s.settings.LLM)
		p.llm = deps.LLM.ModelName()
	}

	ingest := NewIngestService(deps.Connector, deps.Registry, deps.Chunking,
		deps.Embedder, deps.Index, s.settings.Ingest.EmbedBatchSize)
	report, err := ingest.Ingest(ctx)
	if err != nil && !errors.Is(err, domain.ErrEmptyCorpus) {
		return report, err
	}
	if errors.Is(err, domain.ErrEmptyCorpus) {
		logger.Warn("No documents were indexed; answering in degraded mode")
	}

	p.retriever = NewRetriever(deps.Embedder, deps.Index, s.settings.Retrieval.Separator)
	p.report = report
	p.embedding = deps.Embedder.ModelName()

	s.pipeline.Store(p)
	s.ready.Store(true)
	logger.Info("Pipeline ready: %d chunks from %d documents", report.Chunks, report.Documents)
	return report, nil
}

// Ask retrieves context for the question and generates a grounded answer.
func (s *QueryService) Ask(ctx context.Context, question string, opts driving.AskOptions) (*domain.Answer, error) {
	p, err := s.current()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: no question provided", domain.ErrInvalidInput)
	}
	topK, err := s.resolveTopK(opts.TopK)
	if err != nil {
		return nil, err
	}
	if p.generator == nil {
		return nil, fmt.Errorf("%w: no generation model configured", domain.ErrLLMUnavailable)
	}

	logger.Debug("Ask: %q (top_k=%d)", question, topK)
	retrieval, err := p.retriever.Retrieve(ctx, question, topK)
	if errors.Is(err, domain.ErrNoKnowledgeBase) {
		return &domain.Answer{Text: domain.NoKnowledgeBaseAnswer, Degraded: true}, nil
	}
	if err != nil {
		return nil, err
	}

	prompt := p.builder.Build(question, retrieval.Context)
	text, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &domain.Answer{
		Text:    text,
		Sources: retrieval.Sources(),
	}, nil
}

// Retrieve returns the ranked context window for a query without generating.
func (s *QueryService) Retrieve(ctx context.Context, query string, topK int) (*domain.Retrieval, error) {
	p, err := s.current()
	if err != nil {
		return nil, err
	}
	k, err := s.resolveTopK(topK)
	if err != nil {
		return nil, err
	}
	return p.retriever.Retrieve(ctx, query, k)
}

// Status reports readiness and corpus size.
func (s *QueryService) Status() domain.PipelineStatus {
	p, err := s.current()
	if err != nil {
		return domain.PipelineStatus{}
	}
	return domain.PipelineStatus{
		Ready:          true,
		Degraded:       p.report.Chunks == 0,
		Documents:      p.report.Documents,
		Chunks:         p.report.Chunks,
		EmbeddingModel: p.embedding,
		LLMModel:       p.llm,
	}
}

func (s *QueryService) current() (*pipeline, error) {
	if !s.ready.Load() {
		return nil, domain.ErrNotReady
	}
	return s.pipeline.Load(), nil
}

// resolveTopK applies the configured default and cap.
func (s *QueryService) resolveTopK(topK int) (int, error) {
	switch {
	case topK < 0:
		return 0, fmt.Errorf("%w: top_k must not be negative, got %d", domain.ErrInvalidInput, topK)
	case topK == 0:
		topK = s.settings.Retrieval.TopK
		if topK <= 0 {
			topK = domain.DefaultTopK
		}
	}
	if limit := s.settings.Retrieval.MaxTopK; limit > 0 && topK > limit {
		topK = limit
	}
	return topK, nil
}
