package driving

import (
	"context"

	"github.com/luminary-labs/donoriq/internal/core/domain"
)

// InsightsService computes giving aggregates over an org's donor population.
type InsightsService interface {
	// TopDonors ranks the org's donors by giving inside the range.
	// Batch-level lookup failures degrade to partial results, never errors.
	TopDonors(ctx context.Context, orgID string, rng domain.GivingRange) ([]domain.DonorRanking, error)

	// Lifecycle classifies one donor's current lifecycle stage from the
	// latest stored facts and the configured thresholds.
	Lifecycle(ctx context.Context, donorID string) (*domain.LifecycleResult, error)
}
