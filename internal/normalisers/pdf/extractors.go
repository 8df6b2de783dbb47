package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
	rscpdf "rsc.io/pdf"
)

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// Extractor pulls plain text out of PDF bytes, pages in order.
type Extractor interface {
	// Name identifies the extractor in logs and errors.
	Name() string

	// Extract returns the document text.
	Extract(ctx context.Context, content []byte) (string, error)
}

// CommandRunner executes external commands. It exists so tests can
// substitute pdftotext.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// ToolExtractor shells out to poppler's pdftotext. It handles the widest
// range of PDFs but is only used when the tool is installed.
type ToolExtractor struct {
	runner   CommandRunner
	lookPath func(string) (string, error)
}

// NewToolExtractor creates a pdftotext extractor using runner.
func NewToolExtractor(runner CommandRunner) *ToolExtractor {
	return &ToolExtractor{runner: runner, lookPath: exec.LookPath}
}

// Name returns "pdftotext".
func (e *ToolExtractor) Name() string { return "pdftotext" }

// Extract writes content to a temporary file and converts it.
func (e *ToolExtractor) Extract(ctx context.Context, content []byte) (string, error) {
	if _, err := e.lookPath("pdftotext"); err != nil {
		return "", ErrPDFToolNotFound
	}

	tmp, err := os.CreateTemp("", "sercha-rag-*.pdf")
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("pdftotext failed: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("pdftotext failed: close temp file: %w", err)
	}

	out, err := e.runner.Run(ctx, "pdftotext", "-enc", "UTF-8", tmp.Name(), "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}
	return string(out), nil
}

// PlainTextExtractor uses github.com/ledongthuc/pdf's plain-text reader.
type PlainTextExtractor struct{}

// Name returns "ledongthuc".
func (PlainTextExtractor) Name() string { return "ledongthuc" }

// Extract reads every page's text in order.
func (PlainTextExtractor) Extract(_ context.Context, content []byte) (text string, err error) {
	defer recoverParse(&err)

	r, err := lpdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return string(b), nil
}

// ContentStreamExtractor walks page content streams with rsc.io/pdf,
// rebuilding lines and word gaps from glyph positions.
type ContentStreamExtractor struct{}

// Name returns "rsc".
func (ContentStreamExtractor) Name() string { return "rsc" }

// Extract reads every page's text in order, one blank line between pages.
func (ContentStreamExtractor) Extract(ctx context.Context, content []byte) (text string, err error) {
	defer recoverParse(&err)

	r, err := rscpdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		writeGlyphs(&sb, p.Content().Text)
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}

// writeGlyphs appends positioned text runs, starting a new line when the
// baseline moves and inserting a space when there is a horizontal gap.
func writeGlyphs(sb *strings.Builder, texts []rscpdf.Text) {
	for i, t := range texts {
		if i > 0 {
			prev := texts[i-1]
			switch {
			case math.Abs(t.Y-prev.Y) > prev.FontSize/2:
				sb.WriteString("\n")
			case t.X-(prev.X+prev.W) > prev.FontSize/5:
				sb.WriteString(" ")
			}
		}
		sb.WriteString(t.S)
	}
}

// recoverParse converts a panic inside a PDF parser into an error.
// Both parsers panic on some malformed files.
func recoverParse(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("malformed pdf: %v", r)
	}
}
