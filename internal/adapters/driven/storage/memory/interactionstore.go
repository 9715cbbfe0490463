package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/luminary-labs/donoriq/internal/core/domain"
	"github.com/luminary-labs/donoriq/internal/core/ports/driven"
)

// Ensure InteractionStore implements the interface.
var _ driven.InteractionStore = (*InteractionStore)(nil)

// InteractionStore is an in-memory implementation of driven.InteractionStore.
type InteractionStore struct {
	mu           sync.RWMutex
	interactions []domain.Interaction
}

// NewInteractionStore creates a new in-memory interaction store.
func NewInteractionStore() *InteractionStore {
	return &InteractionStore{}
}

// Append records an interaction.
func (s *InteractionStore) Append(_ context.Context, interaction domain.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactions = append(s.interactions, interaction)
	return nil
}

// ListForDonor returns a donor's interactions, most recent first.
func (s *InteractionStore) ListForDonor(_ context.Context, donorID string, limit int) ([]domain.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Interaction
	for _, interaction := range s.interactions {
		if interaction.DonorID == donorID {
			result = append(result, interaction)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
