package driving

import "context"

// GiftSyncService pulls gift transactions from the connected accounting
// system and maintains the denormalised donor giving fields.
type GiftSyncService interface {
	// Sync runs a sync for the organisation. Returns
	// domain.ErrSyncInProgress if one is already running for the org.
	Sync(ctx context.Context, orgID string) (*SyncReport, error)

	// Reindex re-embeds every donor profile in the org into the vector
	// index. Used after changing embedding providers.
	Reindex(ctx context.Context, orgID string) (int, error)
}

// SyncReport summarises one sync run.
type SyncReport struct {
	// OrgID identifies the synced organisation.
	OrgID string

	// GiftsUpserted is the count of gift rows written.
	GiftsUpserted int

	// DonorsTouched is the count of donors whose derived fields changed.
	DonorsTouched int

	// DonorsIndexed is the count of donor profiles re-embedded.
	DonorsIndexed int
}
