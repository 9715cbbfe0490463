package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/luminary-labs/donoriq/internal/core/domain"
	"github.com/luminary-labs/donoriq/internal/core/ports/driven"
	"github.com/luminary-labs/donoriq/internal/core/ports/driving"
	"github.com/luminary-labs/donoriq/internal/logger"
)

// Ensure OutreachService implements the interface.
var _ driving.OutreachService = (*OutreachService)(nil)

// recentGiftContext caps how much gift history goes into a letter prompt.
const recentGiftContext = 5

// OutreachService drafts donor correspondence through the LLM, stripping
// donor PII before the call and restoring it afterwards.
type OutreachService struct {
	donorStore   driven.DonorStore
	giftStore    driven.GiftStore
	interactions driven.InteractionStore
	llm          driven.LLMService
	prompts      driven.PromptStore
	lifecycle    domain.LifecycleConfig
	now          func() time.Time
}

// NewOutreachService creates a new outreach service.
// The llm parameter may be nil; drafting then fails with ErrLLMUnavailable.
func NewOutreachService(
	donorStore driven.DonorStore,
	giftStore driven.GiftStore,
	interactions driven.InteractionStore,
	llm driven.LLMService,
	prompts driven.PromptStore,
	lifecycle domain.LifecycleConfig,
) *OutreachService {
	return &OutreachService{
		donorStore:   donorStore,
		giftStore:    giftStore,
		interactions: interactions,
		llm:          llm,
		prompts:      prompts,
		lifecycle:    lifecycle,
		now:          time.Now,
	}
}

// SetClock replaces the time source. Useful for testing.
func (s *OutreachService) SetClock(now func() time.Time) {
	s.now = now
}

// DraftLetter generates a letter for the donor and logs the touchpoint.
//
// The prompt sent to the LLM carries placeholder tokens where the donor's
// name, email, and address would be; the model writes around them and the
// placeholders are swapped back afterwards, so no identity field ever
// leaves the process.
func (s *OutreachService) DraftLetter(ctx context.Context, donorID string, purpose driving.LetterPurpose) (*driving.DraftedLetter, error) {
	logger.Section("Letter Draft")
	logger.Debug("Donor: %s, purpose: %s", donorID, purpose)

	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	if !purpose.IsValid() {
		return nil, fmt.Errorf("%w: unknown letter purpose %q", domain.ErrInvalidInput, purpose)
	}

	donor, err := s.donorStore.Get(ctx, donorID)
	if err != nil {
		return nil, fmt.Errorf("get donor: %w", err)
	}

	stage := domain.ClassifyLifecycle(donor.Facts(), s.lifecycle, s.now())

	template, err := s.loadTemplate(purpose)
	if err != nil {
		return nil, fmt.Errorf("load letter template: %w", err)
	}
	system, err := s.prompts.Load(driven.PromptLetterSystem)
	if err != nil {
		return nil, fmt.Errorf("load system prompt: %w", err)
	}

	prompt := fmt.Sprintf(template, s.donorContext(ctx, donor, stage))
	redacted, restore := domain.Redact(prompt, donor.Identity())
	logger.Debug("Prompt redacted: %d identity fields mapped", len(restore))

	body, err := s.llm.Generate(ctx, redacted, driven.GenerateOptions{
		MaxTokens:   600,
		Temperature: 0.7,
		System:      system,
	})
	if err != nil {
		return nil, fmt.Errorf("generate letter: %w", err)
	}

	letter := domain.Unredact(body, restore)

	s.logDraft(ctx, donor, purpose)

	return &driving.DraftedLetter{
		DonorID: donorID,
		Purpose: purpose,
		Body:    letter,
		Stage:   stage.Stage,
	}, nil
}

func (s *OutreachService) loadTemplate(purpose driving.LetterPurpose) (string, error) {
	switch purpose {
	case driving.LetterThankYou:
		return s.prompts.Load(driven.PromptThankYouLetter)
	case driving.LetterAppeal:
		return s.prompts.Load(driven.PromptAppealLetter)
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidInput, purpose)
	}
}

// donorContext builds the plain-text context block the letter template
// wraps. It still contains raw PII at this point; Redact runs on the
// assembled prompt.
func (s *OutreachService) donorContext(ctx context.Context, donor *domain.Donor, result domain.LifecycleResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Donor: %s\n", donor.Name)
	if donor.City != "" || donor.State != "" {
		fmt.Fprintf(&b, "Location: %s\n", strings.TrimSpace(donor.City+" "+donor.State))
	}
	fmt.Fprintf(&b, "Lifecycle stage: %s\n", result.Stage)
	if result.IsMajorDonor {
		b.WriteString("Major donor: yes\n")
	}
	if donor.LifetimeValue != nil {
		fmt.Fprintf(&b, "Lifetime giving: $%.2f\n", *donor.LifetimeValue)
	}
	if donor.LastGiftDate != "" {
		fmt.Fprintf(&b, "Last gift: %s\n", donor.LastGiftDate)
	}

	gifts, err := s.giftStore.ListForDonor(ctx, donor.ID, recentGiftContext)
	if err != nil {
		logger.Warn("Gift history lookup failed: %v (drafting without it)", err)
	}
	for _, gift := range gifts {
		fmt.Fprintf(&b, "Gift: $%.2f on %s\n", gift.Amount, gift.GiftDate)
	}

	if donor.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", donor.Notes)
	}

	return b.String()
}

// logDraft appends the touchpoint. The letter already exists at this
// point, so a logging failure downgrades to a warning.
func (s *OutreachService) logDraft(ctx context.Context, donor *domain.Donor, purpose driving.LetterPurpose) {
	err := s.interactions.Append(ctx, domain.Interaction{
		ID:        uuid.New().String(),
		DonorID:   donor.ID,
		OrgID:     donor.OrgID,
		Kind:      domain.InteractionLetter,
		Summary:   fmt.Sprintf("Drafted %s letter", purpose),
		CreatedAt: s.now(),
	})
	if err != nil {
		logger.Warn("Interaction log failed: %v", err)
	}
}
