package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorIndex_MatchDonors(t *testing.T) {
	donors := NewDonorStore()
	ctx := context.Background()
	require.NoError(t, donors.Save(ctx, memDonor("d1", "org-1", "ada", ltv(500))))
	require.NoError(t, donors.Save(ctx, memDonor("d2", "org-1", "ben", nil)))
	require.NoError(t, donors.Save(ctx, memDonor("x1", "org-2", "cam", nil)))

	index := NewVectorIndex(donors)
	require.NoError(t, index.Upsert(ctx, "d1", "org-1", []float32{1, 0}))
	require.NoError(t, index.Upsert(ctx, "d2", "org-1", []float32{0.7, 0.7}))
	require.NoError(t, index.Upsert(ctx, "x1", "org-2", []float32{1, 0}))

	hits, err := index.MatchDonors(ctx, []float32{1, 0}, 0.2, 10, "org-1")
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "d1", hits[0].Donor.ID)
	assert.Equal(t, "ada", hits[0].Donor.Name)
	assert.InDelta(t, 1.0, hits[0].Similarity, 0.001)
	assert.Equal(t, "d2", hits[1].Donor.ID)
}

func TestVectorIndex_ThresholdFiltersOrthogonal(t *testing.T) {
	donors := NewDonorStore()
	ctx := context.Background()
	require.NoError(t, donors.Save(ctx, memDonor("d1", "org-1", "ada", nil)))
	require.NoError(t, donors.Save(ctx, memDonor("d2", "org-1", "ben", nil)))

	index := NewVectorIndex(donors)
	require.NoError(t, index.Upsert(ctx, "d1", "org-1", []float32{1, 0}))
	require.NoError(t, index.Upsert(ctx, "d2", "org-1", []float32{0, 1}))

	hits, err := index.MatchDonors(ctx, []float32{1, 0}, 0.2, 10, "org-1")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "d1", hits[0].Donor.ID)
}

func TestVectorIndex_Delete(t *testing.T) {
	donors := NewDonorStore()
	ctx := context.Background()
	require.NoError(t, donors.Save(ctx, memDonor("d1", "org-1", "ada", nil)))

	index := NewVectorIndex(donors)
	require.NoError(t, index.Upsert(ctx, "d1", "org-1", []float32{1, 0}))
	require.NoError(t, index.Delete(ctx, "d1"))

	hits, err := index.MatchDonors(ctx, []float32{1, 0}, 0, 10, "org-1")
	require.NoError(t, err)
	assert.Empty(t, hits)
}
