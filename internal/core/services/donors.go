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
)

// Ensure DonorService implements the interface.
var _ driving.DonorDirectory = (*DonorService)(nil)

// DonorService covers the thin donor record operations around the
// intelligence core.
type DonorService struct {
	donorStore   driven.DonorStore
	giftStore    driven.GiftStore
	interactions driven.InteractionStore
}

// NewDonorService creates a new donor directory service.
func NewDonorService(
	donorStore driven.DonorStore,
	giftStore driven.GiftStore,
	interactions driven.InteractionStore,
) *DonorService {
	return &DonorService{
		donorStore:   donorStore,
		giftStore:    giftStore,
		interactions: interactions,
	}
}

// Add creates a donor record. An id is assigned when the caller leaves it
// empty.
func (s *DonorService) Add(ctx context.Context, donor *domain.Donor) error {
	if strings.TrimSpace(donor.Name) == "" {
		return fmt.Errorf("%w: donor name is required", domain.ErrInvalidInput)
	}
	if donor.OrgID == "" {
		return fmt.Errorf("%w: org id is required", domain.ErrInvalidInput)
	}

	if donor.ID == "" {
		donor.ID = uuid.New().String()
	}
	now := time.Now()
	donor.CreatedAt = now
	donor.UpdatedAt = now

	if err := s.donorStore.Save(ctx, donor); err != nil {
		return fmt.Errorf("save donor: %w", err)
	}
	return nil
}

// Get retrieves a donor by id.
func (s *DonorService) Get(ctx context.Context, id string) (*domain.Donor, error) {
	donor, err := s.donorStore.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get donor: %w", err)
	}
	return donor, nil
}

// LogInteraction appends a touchpoint to the donor's timeline.
func (s *DonorService) LogInteraction(ctx context.Context, donorID string, kind domain.InteractionKind, summary string) error {
	donor, err := s.donorStore.Get(ctx, donorID)
	if err != nil {
		return fmt.Errorf("get donor: %w", err)
	}

	err = s.interactions.Append(ctx, domain.Interaction{
		ID:        uuid.New().String(),
		DonorID:   donor.ID,
		OrgID:     donor.OrgID,
		Kind:      kind,
		Summary:   summary,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("append interaction: %w", err)
	}
	return nil
}

// Timeline returns a donor's recent gifts and interactions.
func (s *DonorService) Timeline(ctx context.Context, donorID string, limit int) ([]domain.Gift, []domain.Interaction, error) {
	if limit <= 0 {
		limit = 20
	}

	gifts, err := s.giftStore.ListForDonor(ctx, donorID, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("list gifts: %w", err)
	}
	interactions, err := s.interactions.ListForDonor(ctx, donorID, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("list interactions: %w", err)
	}
	return gifts, interactions, nil
}
