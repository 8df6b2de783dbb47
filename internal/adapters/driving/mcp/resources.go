package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for resources.
	uriScheme = "sercha-rag://"

	statusURI = uriScheme + "status"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         statusURI,
		Name:        "status",
		Description: "Readiness and size of the loaded knowledge base",
		MIMEType:    "application/json",
	}, s.handleStatusResource)
}

// statusInfo is the JSON form of the status resource.
type statusInfo struct {
	Ready          bool   `json:"ready"`
	Degraded       bool   `json:"degraded"`
	Documents      int    `json:"documents"`
	Chunks         int    `json:"chunks"`
	EmbeddingModel string `json:"embedding_model,omitempty"`
	LLMModel       string `json:"llm_model,omitempty"`
}

// handleStatusResource returns the pipeline status.
func (s *Server) handleStatusResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	status := s.ports.Query.Status()

	data, err := json.Marshal(statusInfo{
		Ready:          status.Ready,
		Degraded:       status.Degraded,
		Documents:      status.Documents,
		Chunks:         status.Chunks,
		EmbeddingModel: status.EmbeddingModel,
		LLMModel:       status.LLMModel,
	})
	if err != nil {
		return nil, fmt.Errorf("marshalling status: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
