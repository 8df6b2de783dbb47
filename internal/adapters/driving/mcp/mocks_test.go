package mcp

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	answer    *domain.Answer
	retrieval *domain.Retrieval
	status    domain.PipelineStatus
	err       error

	lastQuestion string
	lastOpts     driving.AskOptions
	lastTopK     int
}

func (m *mockQueryService) Ask(_ context.Context, question string, opts driving.AskOptions) (*domain.Answer, error) {
	m.lastQuestion = question
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

func (m *mockQueryService) Retrieve(_ context.Context, _ string, topK int) (*domain.Retrieval, error) {
	m.lastTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	return m.retrieval, nil
}

func (m *mockQueryService) Status() domain.PipelineStatus {
	return m.status
}
