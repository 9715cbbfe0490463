package driving

import (
	"context"

	"github.com/luminary-labs/donoriq/internal/core/domain"
)

// DonorSearchService resolves free-text queries into ranked donor lists.
type DonorSearchService interface {
	// Search performs hybrid semantic search over the org's donors, with
	// keyword fallback when vector confidence is low.
	Search(ctx context.Context, query, orgID string) (*domain.DonorSearchResult, error)
}
