package api

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// mockQueryService implements driving.QueryService for handler tests.
type mockQueryService struct {
	mu       sync.Mutex
	status   domain.PipelineStatus
	answer   *domain.Answer
	err      error
	panics   bool
	calls    int
	question string
	opts     driving.AskOptions
}

func (m *mockQueryService) Ask(_ context.Context, question string, opts driving.AskOptions) (*domain.Answer, error) {
	m.mu.Lock()
	m.calls++
	m.question = question
	m.opts = opts
	m.mu.Unlock()

	if m.panics {
		panic("boom")
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

func (m *mockQueryService) Retrieve(context.Context, string, int) (*domain.Retrieval, error) {
	return &domain.Retrieval{}, m.err
}

func (m *mockQueryService) Status() domain.PipelineStatus {
	return m.status
}

func (m *mockQueryService) askCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
