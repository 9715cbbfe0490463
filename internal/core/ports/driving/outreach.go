package driving

import (
	"context"

	"github.com/luminary-labs/donoriq/internal/core/domain"
)

// LetterPurpose selects the outreach letter template.
type LetterPurpose string

// Letter purposes.
const (
	// LetterThankYou thanks a donor for recent giving.
	LetterThankYou LetterPurpose = "thank_you"

	// LetterAppeal re-engages a lapsed or lost donor.
	LetterAppeal LetterPurpose = "appeal"
)

// IsValid returns true if the purpose is recognised.
func (p LetterPurpose) IsValid() bool {
	return p == LetterThankYou || p == LetterAppeal
}

// DraftedLetter is the outcome of a letter draft.
type DraftedLetter struct {
	// DonorID is the addressee.
	DonorID string

	// Purpose is the template that produced the letter.
	Purpose LetterPurpose

	// Body is the letter text with donor PII restored.
	Body string

	// Stage is the lifecycle stage the draft was grounded on.
	Stage domain.LifecycleStage
}

// OutreachService drafts donor correspondence. Donor PII is redacted before
// any text reaches the LLM and restored afterwards.
type OutreachService interface {
	// DraftLetter generates a letter for the donor and logs the touchpoint.
	DraftLetter(ctx context.Context, donorID string, purpose LetterPurpose) (*DraftedLetter, error)
}
