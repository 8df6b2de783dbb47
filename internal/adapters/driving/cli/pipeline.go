package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/ai"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/sercha-rag/internal/connectors/filesystem"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/services"
	"github.com/custodia-labs/sercha-rag/internal/logger"
	"github.com/custodia-labs/sercha-rag/internal/normalisers"
	"github.com/custodia-labs/sercha-rag/internal/normalisers/pdf"
	"github.com/custodia-labs/sercha-rag/internal/postprocessors"
)

// docsSourceID identifies the documents folder in logs and raw documents.
const docsSourceID = "docs"

// initPipeline wires the adapters described by settings and initialises svc.
// The returned cleanup releases model clients and must be called once svc
// is no longer used, even when err is non-nil.
func initPipeline(
	ctx context.Context,
	settings domain.Settings,
	svc *services.QueryService,
	withLLM bool,
) (domain.IngestReport, func(), error) {
	noop := func() {}
	start := time.Now()

	logger.Section("Models")
	models, err := ai.Init(ctx, settings, withLLM)
	if err != nil {
		return domain.IngestReport{}, noop, err
	}
	logger.Info("Embedding model: %s", models.EmbeddingService.ModelName())
	if models.LLMService != nil {
		logger.Info("Generation model: %s", models.LLMService.ModelName())
	}

	index := flat.New()
	cleanup := func() {
		models.Close()
		index.Close() //nolint:errcheck
	}

	chunking, err := postprocessors.NewChunkingPipeline(settings.Chunking)
	if err != nil {
		return domain.IngestReport{}, cleanup, err
	}

	registry := normalisers.NewRegistry()
	normalisers.RegisterDefaults(registry)
	if err := pdf.CheckAvailable(); err != nil {
		logger.Debug("%v; using the built-in PDF parsers", err)
	}

	prompts, err := file.NewPromptStore(settings.Prompt.Dir)
	if err != nil {
		return domain.IngestReport{}, cleanup, fmt.Errorf("prompt store: %w", err)
	}

	connector := filesystem.New(docsSourceID, settings.Ingest.DocsDir,
		filesystem.WithExtensions(settings.Ingest.Extensions),
		filesystem.WithRecursive(settings.Ingest.Recursive),
	)

	logger.Section("Ingest")
	logger.Info("Loading documents from %s", settings.Ingest.DocsDir)
	report, err := svc.Init(ctx, services.PipelineDeps{
		Connector: connector,
		Registry:  registry,
		Chunking:  chunking,
		Embedder:  models.EmbeddingService,
		Index:     index,
		LLM:       models.LLMService,
		Prompts:   prompts,
	})
	if err != nil {
		return report, cleanup, err
	}

	logger.Debug("Pipeline initialised in %s", time.Since(start).Round(time.Millisecond))
	return report, cleanup, nil
}

// logReport summarises an ingestion run.
func logReport(report domain.IngestReport) {
	logger.Info("Indexed %d chunks from %d documents (%d skipped, %d failed) in %s",
		report.Chunks, report.Documents, report.Skipped, report.Failed,
		report.Duration.Round(time.Millisecond))
}
