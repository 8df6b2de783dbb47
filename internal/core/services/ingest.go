package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// DefaultEmbedBatchSize is used when IngestService is given a batch size below 1.
const DefaultEmbedBatchSize = 32

// IngestService loads documents from a connector, chunks them, embeds the
// chunks and builds the vector index in one pass.
type IngestService struct {
	connector driven.Connector
	registry  driven.NormaliserRegistry
	pipeline  driven.PostProcessorPipeline
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	batchSize int
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	connector driven.Connector,
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	batchSize int,
) *IngestService {
	if batchSize < 1 {
		batchSize = DefaultEmbedBatchSize
	}
	return &IngestService{
		connector: connector,
		registry:  registry,
		pipeline:  pipeline,
		embedder:  embedder,
		index:     index,
		batchSize: batchSize,
	}
}

// Ingest builds the index from every document the connector yields.
// Per-document failures are logged and skipped. When no chunks are produced
// the index is built empty and the report is returned with domain.ErrEmptyCorpus.
func (s *IngestService) Ingest(ctx context.Context) (domain.IngestReport, error) {
	logger.Section("Ingestion")
	start := time.Now()
	var report domain.IngestReport

	var chunks []domain.Chunk
	if err := s.connector.Validate(ctx); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return report, fmt.Errorf("validate source: %w", err)
		}
		logger.Warn("Document source unavailable: %v", err)
	} else {
		collected, err := s.collect(ctx, &report)
		if err != nil {
			return report, err
		}
		chunks = collected
	}

	entries, err := s.embed(ctx, chunks)
	if err != nil {
		return report, err
	}

	if err := s.index.Build(ctx, entries); err != nil {
		return report, fmt.Errorf("build index: %w", err)
	}

	report.Chunks = len(entries)
	report.Duration = time.Since(start)
	logger.Info("Ingested %d documents into %d chunks (%d skipped, %d failed) in %s",
		report.Documents, report.Chunks, report.Skipped, report.Failed, report.Duration.Round(time.Millisecond))

	if report.Chunks == 0 {
		return report, domain.ErrEmptyCorpus
	}
	return report, nil
}

// collect drains the connector and returns the chunks of every usable document
// in the order the connector produced them.
func (s *IngestService) collect(ctx context.Context, report *domain.IngestReport) ([]domain.Chunk, error) {
	docsCh, errsCh := s.connector.FullSync(ctx)
	var chunks []domain.Chunk

	for docsCh != nil || errsCh != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			report.Failed++
			logger.Warn("Skipping unreadable file: %v", err)

		case raw, ok := <-docsCh:
			if !ok {
				docsCh = nil
				continue
			}

			logger.Debug("Processing: %s", raw.URI)
			docChunks, err := s.processOne(ctx, &raw)
			switch {
			case err != nil:
				report.Failed++
				logger.Warn("Failed to process %s: %v", raw.URI, err)
			case len(docChunks) == 0:
				report.Skipped++
				logger.Warn("No text extracted from %s", raw.URI)
			default:
				report.Documents++
				logger.Debug("Chunked %s into %d chunks", raw.URI, len(docChunks))
				chunks = append(chunks, docChunks...)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return chunks, nil
}

// processOne normalises a raw document and splits it into chunks.
func (s *IngestService) processOne(ctx context.Context, raw *domain.RawDocument) ([]domain.Chunk, error) {
	result, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise: %w", err)
	}

	chunks, err := s.pipeline.Process(ctx, &result.Document)
	if err != nil {
		return nil, fmt.Errorf("post-process: %w", err)
	}
	return chunks, nil
}

// embed vectorises chunks in batches and pairs each chunk with its vector
// and global position in a single step.
func (s *IngestService) embed(ctx context.Context, chunks []domain.Chunk) ([]domain.IndexedChunk, error) {
	entries := make([]domain.IndexedChunk, 0, len(chunks))

	for start := 0; start < len(chunks); start += s.batchSize {
		end := min(start+s.batchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i := range batch {
			texts[i] = batch[i].Content
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("%w: embed chunks %d-%d: %w", domain.ErrEmbeddingUnavailable, start, end-1, err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("%w: embedder returned %d vectors for %d chunks",
				domain.ErrEmbeddingUnavailable, len(vectors), len(batch))
		}

		for i := range batch {
			entries = append(entries, domain.IndexedChunk{
				Position: start + i,
				Chunk:    batch[i],
				Vector:   vectors[i],
			})
		}
		logger.Debug("Embedded %d/%d chunks", end, len(chunks))
	}

	return entries, nil
}
