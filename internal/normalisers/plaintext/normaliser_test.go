package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

func TestSupportedMIMETypes(t *testing.T) {
	mimeTypes := New().SupportedMIMETypes()

	assert.Contains(t, mimeTypes, "text/plain")
	assert.Contains(t, mimeTypes, "text/markdown")
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 5, New().Priority())
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}

func TestNormalise_Success(t *testing.T) {
	raw := &domain.RawDocument{
		SourceID: "test-source",
		URI:      "/path/to/document.txt",
		MIMEType: "text/plain",
		Content:  []byte("Paris is the capital of France."),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	doc := result.Document
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, raw.SourceID, doc.SourceID)
	assert.Equal(t, raw.URI, doc.URI)
	assert.Equal(t, "document", doc.Title)
	assert.Equal(t, "Paris is the capital of France.", doc.Content)
	assert.Equal(t, "text/plain", doc.Metadata["mime_type"])
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_EmptyContent(t *testing.T) {
	result, err := New().Normalise(context.Background(), &domain.RawDocument{URI: "/empty.txt"})
	require.NoError(t, err)
	assert.Empty(t, result.Document.Content)
}

func TestNormalise_CleansContent(t *testing.T) {
	raw := &domain.RawDocument{
		URI:     "/notes.md",
		Content: []byte("\uFEFF# Notes\r\nline\x00 two\xff\r\n"),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "# Notes\nline two\n", result.Document.Content)
}

func TestNormalise_TitleExtraction(t *testing.T) {
	tests := []struct {
		name          string
		uri           string
		metadata      map[string]any
		expectedTitle string
	}{
		{"simple filename", "/path/to/document.txt", nil, "document"},
		{"underscores to spaces", "/path/my_document_name.txt", nil, "my document name"},
		{"dashes to spaces", "/path/my-document-name.md", nil, "my document name"},
		{"metadata title wins", "/path/x.txt", map[string]any{"title": "Incident Report"}, "Incident Report"},
		{"empty metadata title ignored", "/path/y.txt", map[string]any{"title": ""}, "y"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := &domain.RawDocument{URI: tc.uri, Content: []byte("content"), Metadata: tc.metadata}

			result, err := New().Normalise(context.Background(), raw)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedTitle, result.Document.Title)
		})
	}
}

func TestNormalise_MetadataCopied(t *testing.T) {
	meta := map[string]any{"filename": "a.txt"}
	result, err := New().Normalise(context.Background(), &domain.RawDocument{URI: "a.txt", MIMEType: "text/plain", Metadata: meta})
	require.NoError(t, err)

	assert.Equal(t, "a.txt", result.Document.Metadata["filename"])
	assert.NotContains(t, meta, "mime_type")
}
