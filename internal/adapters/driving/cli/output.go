package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	answerStyle  = lipgloss.NewStyle().PaddingLeft(2)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// style applies s only when styled is set.
func style(s lipgloss.Style, text string, styled bool) string {
	if !styled {
		return text
	}
	return s.Render(text)
}

// formatAnswer renders an answer for the terminal.
func formatAnswer(answer *domain.Answer, showSources, styled bool) string {
	var sb strings.Builder
	if answer.Degraded {
		sb.WriteString(style(warnStyle, answer.Text, styled))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(style(headingStyle, "Answer", styled))
	sb.WriteString("\n")
	sb.WriteString(style(answerStyle, answer.Text, styled))
	sb.WriteString("\n")

	if showSources && len(answer.Sources) > 0 {
		sb.WriteString("\n")
		sb.WriteString(style(headingStyle, "Sources", styled))
		sb.WriteString("\n")
		for _, src := range answer.Sources {
			sb.WriteString(style(mutedStyle, "  "+src, styled))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// formatRetrieval renders ranked passages for the terminal.
func formatRetrieval(r *domain.Retrieval, styled bool) string {
	if len(r.Chunks) == 0 {
		return "No passages found.\n"
	}

	var sb strings.Builder
	for _, c := range r.Chunks {
		header := c.Source
		if header == "" {
			header = "(unknown source)"
		}
		sb.WriteString(style(headingStyle, header, styled))
		sb.WriteString(style(mutedStyle, fmt.Sprintf("  distance %.4f", c.Distance), styled))
		sb.WriteString("\n")
		sb.WriteString(style(answerStyle, c.Text, styled))
		sb.WriteString("\n\n")
	}
	return sb.String()
}
