package driven

import (
	"context"

	"github.com/luminary-labs/donoriq/internal/core/domain"
)

// VectorIndex stores donor profile embeddings and serves org-scoped
// similarity matches.
type VectorIndex interface {
	// Upsert inserts or replaces the embedding for a donor.
	Upsert(ctx context.Context, donorID, orgID string, embedding []float32) error

	// Delete removes a donor's embedding from the index.
	Delete(ctx context.Context, donorID string) error

	// MatchDonors returns donors in the org whose embedding similarity to
	// the query vector is at least threshold, ordered by similarity
	// descending, capped at limit.
	MatchDonors(ctx context.Context, query []float32, threshold float64, limit int, orgID string) ([]DonorHit, error)

	// Close releases resources.
	Close() error
}

// DonorHit is a similarity match result.
type DonorHit struct {
	// Donor is the matched donor projection.
	Donor domain.DonorSummary

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
