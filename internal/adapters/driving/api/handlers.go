package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Question       string `json:"question"`
	TopK           int    `json:"top_k,omitempty"`
	IncludeSources bool   `json:"include_sources,omitempty"`
}

// AskResponse is the body of a successful POST /ask.
type AskResponse struct {
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources,omitempty"`
	Degraded bool     `json:"degraded,omitempty"`
}

// ReadyResponse is the body of GET /ready.
type ReadyResponse struct {
	Ready          bool   `json:"ready"`
	Degraded       bool   `json:"degraded,omitempty"`
	Documents      int    `json:"documents"`
	Chunks         int    `json:"chunks"`
	EmbeddingModel string `json:"embedding_model,omitempty"`
	LLMModel       string `json:"llm_model,omitempty"`
}

type handler struct {
	query driving.QueryService
}

// health reports liveness. It succeeds while the pipeline is still loading.
func (h *handler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ready reports whether questions can be answered.
func (h *handler) ready(c *fiber.Ctx) error {
	status := h.query.Status()
	resp := ReadyResponse{
		Ready:          status.Ready,
		Degraded:       status.Degraded,
		Documents:      status.Documents,
		Chunks:         status.Chunks,
		EmbeddingModel: status.EmbeddingModel,
		LLMModel:       status.LLMModel,
	}
	if !status.Ready {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}

func (h *handler) ask(c *fiber.Ctx) error {
	if !h.query.Status().Ready {
		return errorJSON(c, fiber.StatusServiceUnavailable, msgNotReady)
	}

	var req AskRequest
	if err := c.App().Config().JSONDecoder(c.Body(), &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgInvalidJSON)
	}
	if strings.TrimSpace(req.Question) == "" {
		return errorJSON(c, fiber.StatusBadRequest, msgNoQuestion)
	}
	if req.TopK < 0 {
		return errorJSON(c, fiber.StatusBadRequest, msgNegativeTopK)
	}

	answer, err := h.query.Ask(c.UserContext(), req.Question, driving.AskOptions{TopK: req.TopK})
	if err != nil {
		status, msg := errorStatus(err)
		if status >= fiber.StatusInternalServerError && !errors.Is(err, domain.ErrNotReady) {
			id, _ := c.Locals(localRequestID).(string)
			logger.Error("ask failed rid=%s: %v", id, err)
		}
		return errorJSON(c, status, msg)
	}

	resp := AskResponse{
		Answer:   answer.Text,
		Degraded: answer.Degraded,
	}
	if req.IncludeSources {
		resp.Sources = answer.Sources
	}
	return c.JSON(resp)
}
