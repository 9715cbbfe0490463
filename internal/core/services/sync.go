package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/luminary-labs/donoriq/internal/core/domain"
	"github.com/luminary-labs/donoriq/internal/core/ports/driven"
	"github.com/luminary-labs/donoriq/internal/core/ports/driving"
	"github.com/luminary-labs/donoriq/internal/logger"
)

// Ensure SyncService implements the interface.
var _ driving.GiftSyncService = (*SyncService)(nil)

// embedBatchSize bounds one EmbedBatch call during re-indexing.
const embedBatchSize = 32

// SyncService pulls gift transactions from the accounting gateway,
// maintains the denormalised donor giving fields, and keeps the vector
// index in step with donor profiles.
type SyncService struct {
	donorStore       driven.DonorStore
	giftStore        driven.GiftStore
	syncStore        driven.SyncStateStore
	accounting       driven.AccountingGateway
	embeddingService driven.EmbeddingService
	vectorIndex      driven.VectorIndex

	mu     sync.Mutex
	active map[string]bool
}

// NewSyncService creates a new gift sync service.
// The accounting, embeddingService, and vectorIndex parameters may be nil;
// the affected operations fail with typed unavailable errors or skip the
// indexing step.
func NewSyncService(
	donorStore driven.DonorStore,
	giftStore driven.GiftStore,
	syncStore driven.SyncStateStore,
	accounting driven.AccountingGateway,
	embeddingService driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
) *SyncService {
	return &SyncService{
		donorStore:       donorStore,
		giftStore:        giftStore,
		syncStore:        syncStore,
		accounting:       accounting,
		embeddingService: embeddingService,
		vectorIndex:      vectorIndex,
		active:           make(map[string]bool),
	}
}

// Sync runs a gift sync for the organisation.
func (s *SyncService) Sync(ctx context.Context, orgID string) (*driving.SyncReport, error) {
	logger.Section("Gift Sync")
	logger.Debug("Org: %s", orgID)

	if s.accounting == nil {
		return nil, domain.ErrAccountingUnavailable
	}

	if !s.acquire(orgID) {
		return nil, domain.ErrSyncInProgress
	}
	defer s.release(orgID)

	cursor := s.loadCursor(ctx, orgID)
	report := &driving.SyncReport{OrgID: orgID}
	touched := make(map[string]bool)

	for {
		page, err := s.accounting.FetchGifts(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("fetch gifts: %w", err)
		}

		gifts := s.importPage(ctx, orgID, page.Gifts, touched)
		if len(gifts) > 0 {
			if err := s.giftStore.UpsertBatch(ctx, gifts); err != nil {
				return nil, fmt.Errorf("upsert gifts: %w", err)
			}
			report.GiftsUpserted += len(gifts)
		}

		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	if err := s.refreshDerived(ctx, touched); err != nil {
		return nil, err
	}
	report.DonorsTouched = len(touched)

	report.DonorsIndexed = s.reembed(ctx, keys(touched))

	state := domain.SyncState{
		OrgID:       orgID,
		Cursor:      cursor,
		LastSyncAt:  time.Now(),
		GiftsSynced: report.GiftsUpserted,
	}
	if prev, err := s.syncStore.Get(ctx, orgID); err == nil {
		state.GiftsSynced += prev.GiftsSynced
	}
	if err := s.syncStore.Save(ctx, state); err != nil {
		logger.Warn("Sync state save failed: %v", err)
	}

	logger.Info("Sync done: %d gifts, %d donors touched, %d indexed",
		report.GiftsUpserted, report.DonorsTouched, report.DonorsIndexed)
	return report, nil
}

// importPage converts upstream rows into gifts, creating donors that don't
// exist locally yet. Rows with unusable dates are skipped; amounts coerce.
func (s *SyncService) importPage(ctx context.Context, orgID string, rows []driven.ExternalGift, touched map[string]bool) []domain.Gift {
	gifts := make([]domain.Gift, 0, len(rows))

	for _, row := range rows {
		if _, ok := domain.ParseDateOnly(row.TxnDate); !ok {
			logger.Warn("Skipping txn %s: bad date %q", row.TxnID, row.TxnDate)
			continue
		}
		if row.DonorRef == "" {
			logger.Warn("Skipping txn %s: no donor reference", row.TxnID)
			continue
		}

		if err := s.ensureDonor(ctx, orgID, row); err != nil {
			logger.Warn("Skipping txn %s: %v", row.TxnID, err)
			continue
		}

		gifts = append(gifts, domain.Gift{
			ID:          uuid.New().String(),
			DonorID:     row.DonorRef,
			OrgID:       orgID,
			Amount:      domain.CoerceAmount(row.Amount),
			GiftDate:    row.TxnDate,
			Source:      domain.GiftSourceAccounting,
			ExternalRef: row.TxnID,
			CreatedAt:   time.Now(),
		})
		touched[row.DonorRef] = true
	}

	return gifts
}

// ensureDonor creates the donor record on first sight. Synced donors keep
// the upstream reference as their local id so repeat syncs stay idempotent.
func (s *SyncService) ensureDonor(ctx context.Context, orgID string, row driven.ExternalGift) error {
	_, err := s.donorStore.Get(ctx, row.DonorRef)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get donor: %w", err)
	}

	now := time.Now()
	donor := &domain.Donor{
		ID:        row.DonorRef,
		OrgID:     orgID,
		Name:      row.DonorName,
		Email:     row.DonorEmail,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.donorStore.Save(ctx, donor); err != nil {
		return fmt.Errorf("create donor: %w", err)
	}
	logger.Debug("Created donor %s (%s)", row.DonorRef, row.DonorName)
	return nil
}

// refreshDerived recomputes lifetime value and last-gift date for every
// touched donor from the full ledger.
func (s *SyncService) refreshDerived(ctx context.Context, touched map[string]bool) error {
	ids := keys(touched)

	for start := 0; start < len(ids); start += giftBatchSize {
		end := min(start+giftBatchSize, len(ids))
		batch := ids[start:end]

		rows, err := s.giftStore.GiftsForDonors(ctx, batch, "")
		if err != nil {
			return fmt.Errorf("read ledger for derived fields: %w", err)
		}

		totals := make(map[string]*donorAccum, len(batch))
		for _, row := range rows {
			acc := totals[row.DonorID]
			if acc == nil {
				acc = &donorAccum{}
				totals[row.DonorID] = acc
			}
			acc.total += domain.CoerceAmount(row.Amount)
			if row.GiftDate > acc.lastDate {
				acc.lastDate = row.GiftDate
			}
		}

		for _, id := range batch {
			acc := totals[id]
			if acc == nil {
				continue
			}
			if err := s.donorStore.UpdateDerived(ctx, id, acc.total, acc.lastDate); err != nil {
				return fmt.Errorf("update derived fields for %s: %w", id, err)
			}
		}
	}

	return nil
}

// reembed refreshes the vector index entries for the given donors.
// Indexing is best-effort: sync results stand even when embedding fails.
func (s *SyncService) reembed(ctx context.Context, ids []string) int {
	if s.embeddingService == nil || s.vectorIndex == nil || len(ids) == 0 {
		return 0
	}

	indexed := 0
	for start := 0; start < len(ids); start += embedBatchSize {
		end := min(start+embedBatchSize, len(ids))
		batch := ids[start:end]

		donors := make([]*domain.Donor, 0, len(batch))
		texts := make([]string, 0, len(batch))
		for _, id := range batch {
			donor, err := s.donorStore.Get(ctx, id)
			if err != nil {
				logger.Warn("Skipping index of %s: %v", id, err)
				continue
			}
			donors = append(donors, donor)
			texts = append(texts, donor.ProfileText())
		}
		if len(texts) == 0 {
			continue
		}

		embeddings, err := s.embeddingService.EmbedBatch(ctx, texts)
		if err != nil {
			logger.Warn("Embed batch failed: %v (skipping %d donors)", err, len(texts))
			continue
		}

		for i, donor := range donors {
			if i >= len(embeddings) {
				break
			}
			if err := s.vectorIndex.Upsert(ctx, donor.ID, donor.OrgID, embeddings[i]); err != nil {
				logger.Warn("Vector upsert failed for %s: %v", donor.ID, err)
				continue
			}
			indexed++
		}
	}

	return indexed
}

// Reindex re-embeds every donor profile in the org.
func (s *SyncService) Reindex(ctx context.Context, orgID string) (int, error) {
	logger.Section("Reindex")

	if s.embeddingService == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}
	if s.vectorIndex == nil {
		return 0, domain.ErrVectorIndexUnavailable
	}

	ids, err := s.donorStore.ListIDs(ctx, orgID)
	if err != nil {
		return 0, fmt.Errorf("list donor ids: %w", err)
	}

	indexed := s.reembed(ctx, ids)
	logger.Info("Reindexed %d of %d donors", indexed, len(ids))
	return indexed, nil
}

func (s *SyncService) loadCursor(ctx context.Context, orgID string) string {
	state, err := s.syncStore.Get(ctx, orgID)
	if err != nil {
		return ""
	}
	return state.Cursor
}

func (s *SyncService) acquire(orgID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active[orgID] {
		return false
	}
	s.active[orgID] = true
	return true
}

func (s *SyncService) release(orgID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, orgID)
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
