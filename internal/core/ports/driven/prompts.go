package driven

// PromptStore provides access to user-editable prompt text.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt text for the given name.
	// Unknown names return an error.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptAnswerSystem is the system instruction for grounded answering.
	// It has no placeholders; context and question are added by the prompt builder.
	PromptAnswerSystem = "answer_system"
)
