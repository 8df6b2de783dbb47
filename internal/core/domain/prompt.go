package domain

// Prompt is a fully formatted model input.
type Prompt struct {
	// Text is sent to the model verbatim.
	Text string

	// Stop holds the end-of-turn markers for the prompt's template.
	Stop []string
}
