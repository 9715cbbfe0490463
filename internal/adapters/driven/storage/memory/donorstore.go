package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/luminary-labs/donoriq/internal/core/domain"
	"github.com/luminary-labs/donoriq/internal/core/ports/driven"
)

// Ensure DonorStore implements the interface.
var _ driven.DonorStore = (*DonorStore)(nil)

// DonorStore is an in-memory implementation of driven.DonorStore.
type DonorStore struct {
	mu     sync.RWMutex
	donors map[string]domain.Donor
}

// NewDonorStore creates a new in-memory donor store.
func NewDonorStore() *DonorStore {
	return &DonorStore{
		donors: make(map[string]domain.Donor),
	}
}

// Save stores or updates a donor.
func (s *DonorStore) Save(_ context.Context, donor *domain.Donor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.donors[donor.ID] = *donor
	return nil
}

// Get retrieves a donor by id.
func (s *DonorStore) Get(_ context.Context, id string) (*domain.Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	donor, ok := s.donors[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &donor, nil
}

// ListIDs returns all donor ids for an organisation.
func (s *DonorStore) ListIDs(_ context.Context, orgID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for id, donor := range s.donors {
		if donor.OrgID == orgID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Summaries resolves display projections for exactly the given ids.
func (s *DonorStore) Summaries(_ context.Context, ids []string) ([]domain.DonorSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var summaries []domain.DonorSummary
	for _, id := range ids {
		if donor, ok := s.donors[id]; ok {
			summaries = append(summaries, donor.Summary())
		}
	}
	return summaries, nil
}

// FindByNameOrEmailLike performs a case-insensitive literal substring match
// on display name or email.
func (s *DonorStore) FindByNameOrEmailLike(_ context.Context, pattern, orgID string, limit int) ([]domain.DonorSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(pattern)
	var matched []domain.DonorSummary
	for _, donor := range s.donors {
		if donor.OrgID != orgID {
			continue
		}
		if strings.Contains(strings.ToLower(donor.Name), needle) ||
			strings.Contains(strings.ToLower(donor.Email), needle) {
			matched = append(matched, donor.Summary())
		}
	}

	sortByLifetimeValue(matched)
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// TopByLifetimeValue returns the org's donors ordered by lifetime value
// descending, unknown values last.
func (s *DonorStore) TopByLifetimeValue(_ context.Context, orgID string, limit int) ([]domain.DonorSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var summaries []domain.DonorSummary
	for _, donor := range s.donors {
		if donor.OrgID == orgID {
			summaries = append(summaries, donor.Summary())
		}
	}

	sortByLifetimeValue(summaries)
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// UpdateDerived overwrites the denormalised lifetime value and last-gift date.
func (s *DonorStore) UpdateDerived(_ context.Context, donorID string, lifetimeValue float64, lastGiftDate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	donor, ok := s.donors[donorID]
	if !ok {
		return domain.ErrNotFound
	}
	donor.LifetimeValue = &lifetimeValue
	donor.LastGiftDate = lastGiftDate
	s.donors[donorID] = donor
	return nil
}

// sortByLifetimeValue orders summaries by lifetime value descending with
// unknown values last, ties broken by id.
func sortByLifetimeValue(summaries []domain.DonorSummary) {
	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i].LifetimeValue, summaries[j].LifetimeValue
		switch {
		case a == nil && b == nil:
			return summaries[i].ID < summaries[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case *a != *b:
			return *a > *b
		default:
			return summaries[i].ID < summaries[j].ID
		}
	})
}
