// Package pdf provides a normaliser that extracts text from PDF documents.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

const maxTitleLength = 200

// Normaliser handles PDF documents by trying each extractor in order
// until one produces text.
type Normaliser struct {
	extractors []Extractor
}

// New creates a PDF normaliser using pdftotext when installed, then the
// in-process ledongthuc and rsc.io parsers.
func New() *Normaliser {
	return NewWithRunner(execRunner{})
}

// NewWithRunner creates a PDF normaliser whose pdftotext calls go through runner.
func NewWithRunner(runner CommandRunner) *Normaliser {
	return NewWithExtractors(NewToolExtractor(runner), PlainTextExtractor{}, ContentStreamExtractor{})
}

// NewWithExtractors creates a PDF normaliser with an explicit extractor chain.
func NewWithExtractors(extractors ...Extractor) *Normaliser {
	return &Normaliser{extractors: extractors}
}

// CheckAvailable reports whether pdftotext is installed.
// The normaliser works without it, using the in-process parsers.
func CheckAvailable() error {
	if _, err := NewToolExtractor(execRunner{}).lookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions explains how to install pdftotext.
func InstallInstructions() string {
	return `pdftotext (poppler) improves PDF text extraction. Install it with:
  macOS:         brew install poppler
  Debian/Ubuntu: apt install poppler-utils
  Fedora:        dnf install poppler-utils`
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts the PDF's text.
// A PDF with no extractable text (e.g. scanned images) yields an empty
// document rather than an error.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	var (
		failures  []error
		extracted bool
		content   string
		usedBy    string
	)
	for _, ex := range n.extractors {
		text, err := ex.Extract(ctx, raw.Content)
		if err != nil {
			if !errors.Is(err, ErrPDFToolNotFound) {
				logger.Debug("%s: %s extractor failed: %v", raw.URI, ex.Name(), err)
			}
			failures = append(failures, fmt.Errorf("%s: %w", ex.Name(), err))
			continue
		}
		extracted = true
		if text = cleanText(text); text != "" {
			content, usedBy = text, ex.Name()
			break
		}
	}

	if !extracted {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrExtraction, raw.URI, errors.Join(failures...))
	}

	doc := domain.Document{
		ID:        uuid.New().String(),
		SourceID:  raw.SourceID,
		URI:       raw.URI,
		Title:     extractTitle(content, raw.URI),
		Content:   content,
		Metadata:  copyMetadata(raw.Metadata),
		CreatedAt: time.Now(),
	}
	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = "pdf"
	if usedBy != "" {
		doc.Metadata["extractor"] = usedBy
	}

	return &driven.NormaliseResult{Document: doc}, nil
}

// cleanText removes NUL bytes, normalises line endings and turns form
// feeds (page breaks) into paragraph breaks.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\f", "\n\n")
	s = strings.ToValidUTF8(s, "")
	return strings.TrimSpace(s)
}

// extractTitle uses the first short non-empty line, falling back to the filename.
func extractTitle(content, uri string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len(line) > maxTitleLength {
			continue
		}
		return line
	}

	filename := filepath.Base(uri)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
