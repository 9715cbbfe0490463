package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/luminary-labs/donoriq/internal/core/domain"
	"github.com/luminary-labs/donoriq/internal/core/ports/driven"
	"github.com/luminary-labs/donoriq/internal/core/ports/driving"
	"github.com/luminary-labs/donoriq/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.DonorSearchService = (*SearchService)(nil)

// Search tuning. The match threshold is a loose floor for the vector
// lookup; the confidence floor is the stricter bar the kept rows must
// clear before a vector result is trusted without fallback.
const (
	vectorMatchThreshold = 0.2
	confidenceFloor      = 0.25
	vectorCandidateLimit = 50
	searchTopN           = 5
)

// SearchService resolves free-text queries into ranked donor lists using
// vector similarity with a keyword fallback.
type SearchService struct {
	donorStore       driven.DonorStore
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
}

// NewSearchService creates a new donor search service.
// The vectorIndex and embeddingService parameters may be nil, in which case
// Search fails with a typed unavailable error rather than degrading: there
// is no meaningful ranking without a query vector.
func NewSearchService(
	donorStore driven.DonorStore,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
) *SearchService {
	return &SearchService{
		donorStore:       donorStore,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
	}
}

// Search performs hybrid donor search scoped to one organisation.
//
// A blank query short-circuits to an empty keyword-tagged result without
// touching any collaborator. Embedding and vector lookup failures are
// fatal; a keyword fallback failure is tolerated and treated as zero
// fallback rows. The diagnostics on the result always describe the vector
// leg that actually ran, even when fallback rows replaced it.
func (s *SearchService) Search(ctx context.Context, query, orgID string) (*domain.DonorSearchResult, error) {
	logger.Section("Donor Search")
	logger.Debug("Query: %q, org: %s", query, orgID)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return &domain.DonorSearchResult{
			Donors: []domain.DonorMatch{},
			Method: domain.SearchMethodKeyword,
		}, nil
	}

	if s.embeddingService == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.vectorIndex == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	logger.Debug("Generating query embedding...")
	vec, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return nil, fmt.Errorf("embed query: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(vec))

	hits, err := s.vectorIndex.MatchDonors(ctx, vec, vectorMatchThreshold, vectorCandidateLimit, orgID)
	if err != nil {
		logger.Warn("Vector match failed: %v", err)
		return nil, fmt.Errorf("vector match: %w", err)
	}
	logger.Debug("Vector match: %d rows at threshold %.2f", len(hits), vectorMatchThreshold)

	result := &domain.DonorSearchResult{
		Method:      domain.SearchMethodVector,
		VectorCount: len(hits),
		Threshold:   vectorMatchThreshold,
	}

	kept := hits
	if len(kept) > searchTopN {
		kept = kept[:searchTopN]
	}

	matches := make([]domain.DonorMatch, 0, len(kept))
	var best *float64
	for _, hit := range kept {
		similarity := hit.Similarity
		matches = append(matches, domain.DonorMatch{Donor: hit.Donor, Similarity: &similarity})
		if best == nil || similarity > *best {
			b := similarity
			best = &b
		}
	}
	result.Donors = matches
	result.BestSimilarity = best

	if best != nil && *best >= confidenceFloor {
		logger.Info("Vector result confident (best %.3f), no fallback", *best)
		return result, nil
	}

	// Low confidence: zero rows, or the best kept similarity is below the
	// floor. Try the keyword path before settling for the weak rows.
	if best != nil {
		logger.Info("Low confidence (best %.3f < %.2f), trying keyword fallback", *best, confidenceFloor)
	} else {
		logger.Info("No vector rows, trying keyword fallback")
	}

	fallback, err := s.donorStore.FindByNameOrEmailLike(ctx, query, orgID, searchTopN)
	if err != nil {
		// Fallback failure is not fatal; the vector result still stands.
		logger.Warn("Keyword fallback failed: %v (keeping vector rows)", err)
		fallback = nil
	}

	if len(fallback) > 0 {
		logger.Debug("Keyword fallback: %d rows, replacing vector rows", len(fallback))
		matches = make([]domain.DonorMatch, 0, len(fallback))
		for _, donor := range fallback {
			matches = append(matches, domain.DonorMatch{Donor: donor})
		}
		result.Donors = matches
		result.Method = domain.SearchMethodHybrid
	} else {
		logger.Debug("Keyword fallback empty, keeping vector rows")
	}

	return result, nil
}
