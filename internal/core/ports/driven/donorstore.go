package driven

import (
	"context"

	"github.com/luminary-labs/donoriq/internal/core/domain"
)

// DonorStore persists donor records. Backed by SQLite.
//
// Every read is scoped by organisation id before it reaches the core
// services; the store enforces the scoping, the core trusts it.
type DonorStore interface {
	// Save stores or updates a donor.
	Save(ctx context.Context, donor *domain.Donor) error

	// Get retrieves a donor by id.
	Get(ctx context.Context, id string) (*domain.Donor, error)

	// ListIDs returns all donor ids for an organisation.
	ListIDs(ctx context.Context, orgID string) ([]string, error)

	// Summaries resolves display projections for exactly the given ids.
	// Callers keep the id set small (top-N, not whole populations).
	Summaries(ctx context.Context, ids []string) ([]domain.DonorSummary, error)

	// FindByNameOrEmailLike performs a case-insensitive literal substring
	// match on display name or email, ordered by lifetime value descending
	// with unknown values last, capped at limit.
	FindByNameOrEmailLike(ctx context.Context, pattern, orgID string, limit int) ([]domain.DonorSummary, error)

	// TopByLifetimeValue returns the org's donors ordered by the
	// denormalised lifetime value descending, unknown values last.
	TopByLifetimeValue(ctx context.Context, orgID string, limit int) ([]domain.DonorSummary, error)

	// UpdateDerived overwrites the denormalised lifetime value and
	// last-gift date. Only the sync service calls this.
	UpdateDerived(ctx context.Context, donorID string, lifetimeValue float64, lastGiftDate string) error
}

// GiftRow is one gift record returned by a windowed lookup. Amount is left
// dynamically shaped on purpose: upstream ledgers deliver amounts as
// numbers, strings, or null, and the aggregator coerces uniformly via
// domain.CoerceAmount.
type GiftRow struct {
	// DonorID is the donor the gift belongs to.
	DonorID string

	// Amount is the raw amount value (string, number, or nil).
	Amount any

	// GiftDate is the transaction date in domain.DateOnly format.
	GiftDate string
}

// GiftStore persists the gift ledger. Backed by SQLite.
type GiftStore interface {
	// UpsertBatch stores gifts idempotently, keyed by external reference.
	UpsertBatch(ctx context.Context, gifts []domain.Gift) error

	// GiftsForDonors returns all gifts for the given donor id batch dated
	// on or after cutoff. Callers cap the batch size; an empty cutoff
	// means no date filter.
	GiftsForDonors(ctx context.Context, donorIDs []string, cutoff string) ([]GiftRow, error)

	// ListForDonor returns a donor's gifts, most recent first.
	ListForDonor(ctx context.Context, donorID string, limit int) ([]domain.Gift, error)
}

// InteractionStore is the append-only donor touchpoint log.
type InteractionStore interface {
	// Append records an interaction. Appending is non-idempotent.
	Append(ctx context.Context, interaction domain.Interaction) error

	// ListForDonor returns a donor's interactions, most recent first.
	ListForDonor(ctx context.Context, donorID string, limit int) ([]domain.Interaction, error)
}

// SyncStateStore persists accounting sync progress per organisation.
type SyncStateStore interface {
	// Save stores or updates sync state.
	Save(ctx context.Context, state domain.SyncState) error

	// Get retrieves sync state for an organisation.
	// Returns domain.ErrNotFound before the first sync.
	Get(ctx context.Context, orgID string) (*domain.SyncState, error)
}
