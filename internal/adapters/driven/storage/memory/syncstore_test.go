package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminary-labs/donoriq/internal/core/domain"
)

func TestSyncStateStore_SaveAndGet(t *testing.T) {
	store := NewSyncStateStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "org-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	state := domain.SyncState{
		OrgID:       "org-1",
		Cursor:      "page-2",
		LastSyncAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		GiftsSynced: 42,
	}
	require.NoError(t, store.Save(ctx, state))

	saved, err := store.Get(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, "page-2", saved.Cursor)
	assert.Equal(t, 42, saved.GiftsSynced)

	state.GiftsSynced = 50
	require.NoError(t, store.Save(ctx, state))

	saved, err = store.Get(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, 50, saved.GiftsSynced)
}

func TestInteractionStore_AppendAndList(t *testing.T) {
	store := NewInteractionStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, domain.Interaction{
		ID: "i1", DonorID: "d1", Kind: domain.InteractionLetter,
		CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, store.Append(ctx, domain.Interaction{
		ID: "i2", DonorID: "d1", Kind: domain.InteractionCall,
		CreatedAt: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, store.Append(ctx, domain.Interaction{
		ID: "i3", DonorID: "d2", Kind: domain.InteractionEmail,
		CreatedAt: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
	}))

	rows, err := store.ListForDonor(ctx, "d1", 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "i2", rows[0].ID)
	assert.Equal(t, "i1", rows[1].ID)
}
