package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/luminary-labs/donoriq/internal/core/domain"
	"github.com/luminary-labs/donoriq/internal/core/ports/driven"
)

// Ensure GiftStore implements the interface.
var _ driven.GiftStore = (*GiftStore)(nil)

// GiftStore is an in-memory implementation of driven.GiftStore.
// Gifts are keyed by external reference, matching the SQLite adapter's
// idempotent upsert semantics.
type GiftStore struct {
	mu    sync.RWMutex
	gifts map[string]domain.Gift
}

// NewGiftStore creates a new in-memory gift store.
func NewGiftStore() *GiftStore {
	return &GiftStore{
		gifts: make(map[string]domain.Gift),
	}
}

// UpsertBatch stores gifts idempotently, keyed by external reference.
func (s *GiftStore) UpsertBatch(_ context.Context, gifts []domain.Gift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, gift := range gifts {
		ref := gift.ExternalRef
		if ref == "" {
			ref = gift.ID
		}
		s.gifts[ref] = gift
	}
	return nil
}

// GiftsForDonors returns all gifts for the given donor id batch dated on or
// after cutoff.
func (s *GiftStore) GiftsForDonors(_ context.Context, donorIDs []string, cutoff string) ([]driven.GiftRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(donorIDs))
	for _, id := range donorIDs {
		wanted[id] = true
	}

	var rows []driven.GiftRow
	for _, gift := range s.gifts {
		if !wanted[gift.DonorID] {
			continue
		}
		if cutoff != "" && gift.GiftDate < cutoff {
			continue
		}
		rows = append(rows, driven.GiftRow{
			DonorID:  gift.DonorID,
			Amount:   gift.Amount,
			GiftDate: gift.GiftDate,
		})
	}
	return rows, nil
}

// ListForDonor returns a donor's gifts, most recent first.
func (s *GiftStore) ListForDonor(_ context.Context, donorID string, limit int) ([]domain.Gift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var gifts []domain.Gift
	for _, gift := range s.gifts {
		if gift.DonorID == donorID {
			gifts = append(gifts, gift)
		}
	}

	sort.Slice(gifts, func(i, j int) bool {
		if gifts[i].GiftDate != gifts[j].GiftDate {
			return gifts[i].GiftDate > gifts[j].GiftDate
		}
		return gifts[i].CreatedAt.After(gifts[j].CreatedAt)
	})
	if limit > 0 && len(gifts) > limit {
		gifts = gifts[:limit]
	}
	return gifts, nil
}
