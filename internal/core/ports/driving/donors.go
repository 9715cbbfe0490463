package driving

import (
	"context"

	"github.com/luminary-labs/donoriq/internal/core/domain"
)

// DonorDirectory covers the thin donor record operations the CLI needs
// around the intelligence core.
type DonorDirectory interface {
	// Add creates a donor record.
	Add(ctx context.Context, donor *domain.Donor) error

	// Get retrieves a donor by id.
	Get(ctx context.Context, id string) (*domain.Donor, error)

	// LogInteraction appends a touchpoint to the donor's timeline.
	LogInteraction(ctx context.Context, donorID string, kind domain.InteractionKind, summary string) error

	// Timeline returns a donor's recent gifts and interactions.
	Timeline(ctx context.Context, donorID string, limit int) ([]domain.Gift, []domain.Interaction, error)
}
