package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/luminary-labs/donoriq/internal/core/domain"
	"github.com/luminary-labs/donoriq/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// indexEntry holds one donor's embedding plus the projection returned by
// similarity matches.
type indexEntry struct {
	orgID     string
	embedding []float32
	summary   domain.DonorSummary
}

// VectorIndex is an in-memory implementation of driven.VectorIndex.
// Donor summaries are resolved from the paired DonorStore at upsert time.
type VectorIndex struct {
	mu      sync.RWMutex
	donors  *DonorStore
	entries map[string]indexEntry
}

// NewVectorIndex creates a new in-memory vector index reading donor
// projections from donors.
func NewVectorIndex(donors *DonorStore) *VectorIndex {
	return &VectorIndex{
		donors:  donors,
		entries: make(map[string]indexEntry),
	}
}

// Upsert inserts or replaces the embedding for a donor.
func (v *VectorIndex) Upsert(ctx context.Context, donorID, orgID string, embedding []float32) error {
	var summary domain.DonorSummary
	if v.donors != nil {
		if donor, err := v.donors.Get(ctx, donorID); err == nil {
			summary = donor.Summary()
		}
	}
	if summary.ID == "" {
		summary.ID = donorID
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries[donorID] = indexEntry{
		orgID:     orgID,
		embedding: embedding,
		summary:   summary,
	}
	return nil
}

// Delete removes a donor's embedding from the index.
func (v *VectorIndex) Delete(_ context.Context, donorID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.entries, donorID)
	return nil
}

// MatchDonors returns donors in the org whose embedding similarity to the
// query vector is at least threshold, ordered by similarity descending.
func (v *VectorIndex) MatchDonors(_ context.Context, query []float32, threshold float64, limit int, orgID string) ([]driven.DonorHit, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var hits []driven.DonorHit
	for _, entry := range v.entries {
		if entry.orgID != orgID {
			continue
		}
		similarity := cosine(query, entry.embedding)
		if similarity < threshold {
			continue
		}
		hits = append(hits, driven.DonorHit{Donor: entry.summary, Similarity: similarity})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Donor.ID < hits[j].Donor.ID
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Close releases resources.
func (v *VectorIndex) Close() error {
	return nil
}

// cosine computes the cosine similarity between two vectors. Mismatched or
// zero-norm vectors score 0.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
