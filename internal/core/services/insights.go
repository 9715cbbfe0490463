package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/luminary-labs/donoriq/internal/core/domain"
	"github.com/luminary-labs/donoriq/internal/core/ports/driven"
	"github.com/luminary-labs/donoriq/internal/core/ports/driving"
	"github.com/luminary-labs/donoriq/internal/logger"
)

// Ensure InsightsService implements the interface.
var _ driving.InsightsService = (*InsightsService)(nil)

// Aggregation limits. The batch size stays under what a single gift lookup
// call can comfortably accept; the top-N cap bounds the metadata lookup
// that follows ranking.
const (
	topDonorsLimit = 5
	giftBatchSize  = 150
)

// InsightsService computes time-windowed giving aggregates and lifecycle
// classifications over an org's donor population.
type InsightsService struct {
	donorStore driven.DonorStore
	giftStore  driven.GiftStore
	lifecycle  domain.LifecycleConfig
	now        func() time.Time
}

// NewInsightsService creates a new insights service using the given
// lifecycle thresholds (zero fields default).
func NewInsightsService(
	donorStore driven.DonorStore,
	giftStore driven.GiftStore,
	lifecycle domain.LifecycleConfig,
) *InsightsService {
	return &InsightsService{
		donorStore: donorStore,
		giftStore:  giftStore,
		lifecycle:  lifecycle,
		now:        time.Now,
	}
}

// SetClock replaces the time source. Useful for testing window cutoffs.
func (s *InsightsService) SetClock(now func() time.Time) {
	s.now = now
}

// donorAccum is the per-donor running state built while merging batches.
type donorAccum struct {
	total    float64
	lastDate string
}

// TopDonors ranks the org's donors by giving inside the range, capped at
// the top five.
//
// RangeAllTime ranks by the denormalised lifetime value and needs no gift
// lookup. Windowed ranges page donor ids into fixed-size batches, issue
// the batch lookups concurrently, and merge per-donor totals before
// ranking; a failed batch is skipped so the aggregate degrades to partial
// rather than failing outright.
func (s *InsightsService) TopDonors(ctx context.Context, orgID string, rng domain.GivingRange) ([]domain.DonorRanking, error) {
	logger.Section("Top Donors")
	logger.Debug("Org: %s, range: %s", orgID, rng)

	if !rng.IsValid() {
		return nil, fmt.Errorf("%w: unknown range %q", domain.ErrInvalidInput, rng)
	}

	if rng == domain.RangeAllTime {
		return s.topByLifetimeValue(ctx, orgID)
	}

	cutoff, _ := rng.Cutoff(s.now())
	logger.Debug("Window cutoff: %s", cutoff)

	ids, err := s.donorStore.ListIDs(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list donor ids: %w", err)
	}
	if len(ids) == 0 {
		logger.Debug("No donors in org")
		return []domain.DonorRanking{}, nil
	}

	totals := make(map[string]*donorAccum)
	var mu sync.Mutex
	var wg sync.WaitGroup

	batches := 0
	for start := 0; start < len(ids); start += giftBatchSize {
		end := min(start+giftBatchSize, len(ids))
		batch := ids[start:end]
		batches++

		wg.Add(1)
		go func(batch []string) {
			defer wg.Done()

			rows, err := s.giftStore.GiftsForDonors(ctx, batch, cutoff)
			if err != nil {
				// Partial-result tolerance: drop this batch, keep going.
				logger.Warn("Gift batch failed (%d donors): %v (skipping)", len(batch), err)
				return
			}

			mu.Lock()
			defer mu.Unlock()
			for _, row := range rows {
				acc := totals[row.DonorID]
				if acc == nil {
					acc = &donorAccum{}
					totals[row.DonorID] = acc
				}
				acc.total += domain.CoerceAmount(row.Amount)
				// DateOnly strings order lexicographically.
				if row.GiftDate > acc.lastDate {
					acc.lastDate = row.GiftDate
				}
			}
		}(batch)
	}
	wg.Wait()
	logger.Debug("Merged %d batches: %d donors with qualifying gifts", batches, len(totals))

	ranked := make([]domain.DonorRanking, 0, len(totals))
	for id, acc := range totals {
		ranked = append(ranked, domain.DonorRanking{
			Donor:            domain.DonorSummary{ID: id},
			Total:            acc.total,
			LastGiftInWindow: acc.lastDate,
		})
	}

	// Total descending; equal totals break on donor id ascending so the
	// ranking is deterministic run to run.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Total != ranked[j].Total {
			return ranked[i].Total > ranked[j].Total
		}
		return ranked[i].Donor.ID < ranked[j].Donor.ID
	})

	if len(ranked) > topDonorsLimit {
		ranked = ranked[:topDonorsLimit]
	}

	s.resolveSummaries(ctx, ranked)
	logger.Info("Top donors: %d", len(ranked))
	return ranked, nil
}

// topByLifetimeValue serves RangeAllTime straight off the denormalised
// donor fields.
func (s *InsightsService) topByLifetimeValue(ctx context.Context, orgID string) ([]domain.DonorRanking, error) {
	summaries, err := s.donorStore.TopByLifetimeValue(ctx, orgID, topDonorsLimit)
	if err != nil {
		return nil, fmt.Errorf("top by lifetime value: %w", err)
	}

	ranked := make([]domain.DonorRanking, 0, len(summaries))
	for _, summary := range summaries {
		ranked = append(ranked, domain.DonorRanking{
			Donor: summary,
			Total: domain.CoerceAmount(summary.LifetimeValue),
		})
	}
	logger.Info("Top donors (all-time): %d", len(ranked))
	return ranked, nil
}

// resolveSummaries fills in display metadata for exactly the ranked set.
// A lookup failure leaves bare ids rather than failing the aggregation.
func (s *InsightsService) resolveSummaries(ctx context.Context, ranked []domain.DonorRanking) {
	if len(ranked) == 0 {
		return
	}

	ids := make([]string, len(ranked))
	for i := range ranked {
		ids[i] = ranked[i].Donor.ID
	}

	summaries, err := s.donorStore.Summaries(ctx, ids)
	if err != nil {
		logger.Warn("Summary lookup failed: %v (returning bare ids)", err)
		return
	}

	byID := make(map[string]domain.DonorSummary, len(summaries))
	for _, summary := range summaries {
		byID[summary.ID] = summary
	}
	for i := range ranked {
		if summary, ok := byID[ranked[i].Donor.ID]; ok {
			ranked[i].Donor = summary
		}
	}
}

// Lifecycle classifies one donor from the latest stored facts.
func (s *InsightsService) Lifecycle(ctx context.Context, donorID string) (*domain.LifecycleResult, error) {
	donor, err := s.donorStore.Get(ctx, donorID)
	if err != nil {
		return nil, fmt.Errorf("get donor: %w", err)
	}

	result := domain.ClassifyLifecycle(donor.Facts(), s.lifecycle, s.now())
	logger.Debug("Donor %s: stage=%s major=%t", donorID, result.Stage, result.IsMajorDonor)
	return &result, nil
}
