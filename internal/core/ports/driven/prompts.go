package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible
	// default or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptLetterSystem is the system prompt for donor letter drafting.
	// This prompt has no format placeholders.
	PromptLetterSystem = "letter_system"

	// PromptThankYouLetter drafts a thank-you letter. The template expects
	// a %s placeholder for the redacted donor context block.
	PromptThankYouLetter = "thank_you_letter"

	// PromptAppealLetter drafts a re-engagement appeal. The template
	// expects a %s placeholder for the redacted donor context block.
	PromptAppealLetter = "appeal_letter"
)
