package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// controlTokens defuses template markers that appear inside user data, so
// retrieved text or a question cannot close a turn or open a new one.
var controlTokens = strings.NewReplacer(
	"<|", "< |",
	"|>", "| >",
	"</s>", "< /s>",
)

// chatTemplate holds the turn markers of one prompt format.
type chatTemplate struct {
	system    string
	user      string
	assistant string
	endTurn   string
}

var chatTemplates = map[domain.PromptTemplate]chatTemplate{
	domain.PromptTemplateChatML: {
		system:    "<|im_start|>system\n",
		user:      "<|im_start|>user\n",
		assistant: "<|im_start|>assistant\n",
		endTurn:   "<|im_end|>",
	},
	domain.PromptTemplateZephyr: {
		system:    "<|system|>\n",
		user:      "<|user|>\n",
		assistant: "<|assistant|>\n",
		endTurn:   "</s>",
	},
}

// PromptBuilder formats a question and its retrieved context for the model.
type PromptBuilder struct {
	tmpl         chatTemplate
	systemPrompt string
}

// NewPromptBuilder creates a builder for template. An empty systemPrompt
// uses domain.DefaultSystemPrompt.
func NewPromptBuilder(template domain.PromptTemplate, systemPrompt string) (*PromptBuilder, error) {
	tmpl, ok := chatTemplates[template]
	if !ok {
		return nil, fmt.Errorf("%w: prompt template %q", domain.ErrUnsupportedType, template)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = domain.DefaultSystemPrompt
	}
	return &PromptBuilder{tmpl: tmpl, systemPrompt: systemPrompt}, nil
}

// Build returns the prompt for query grounded on context. Both are treated
// as opaque data. The text ends with the assistant cue, and the template's
// end-of-turn marker is returned as the stop sequence.
func (b *PromptBuilder) Build(query, context string) domain.Prompt {
	var sb strings.Builder
	sb.Grow(len(b.systemPrompt) + len(context) + len(query) + 128)

	sb.WriteString(b.tmpl.system)
	sb.WriteString(b.systemPrompt)
	sb.WriteString(b.tmpl.endTurn)
	sb.WriteString("\n")

	sb.WriteString(b.tmpl.user)
	sb.WriteString("**Context:**\n")
	sb.WriteString(controlTokens.Replace(context))
	sb.WriteString("\n\n**Question:**\n")
	sb.WriteString(controlTokens.Replace(query))
	sb.WriteString(b.tmpl.endTurn)
	sb.WriteString("\n")

	sb.WriteString(b.tmpl.assistant)

	return domain.Prompt{
		Text: sb.String(),
		Stop: []string{b.tmpl.endTurn},
	}
}
