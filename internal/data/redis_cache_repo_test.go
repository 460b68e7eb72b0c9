package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivelot/inventory-api/internal/domain/model"
	"github.com/drivelot/inventory-api/internal/testutil"
)

func newCacheRepo(t *testing.T) *RedisCacheRepo {
	t.Helper()
	client := testutil.SetupTestRedis(t)
	return NewRedisCacheRepo(client)
}

func sampleListings() []*model.Listing {
	return []*model.Listing{
		{
			VehicleID:    "veh-1",
			OwnerID:      "dealer-1",
			Manufacturer: "Toyota",
			Model:        "Corolla",
			Year:         testutil.IntPtr(2020),
			SyncedAt:     testutil.TestTime(),
		},
		{
			VehicleID:    "veh-2",
			OwnerID:      "dealer-1",
			Manufacturer: "Mazda",
			Model:        "3",
			SyncedAt:     testutil.TestTime(),
		},
	}
}

func TestRedisCacheRepo_StoreAndGet(t *testing.T) {
	repo := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.StoreOwnerListings(ctx, "dealer-1", sampleListings(), time.Hour))

	got, err := repo.GetOwnerListings(ctx, "dealer-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "veh-1", got[0].VehicleID)
	assert.Equal(t, "Toyota", got[0].Manufacturer)
	require.NotNil(t, got[0].Year)
	assert.Equal(t, 2020, *got[0].Year)
}

func TestRedisCacheRepo_MissReturnsNil(t *testing.T) {
	repo := newCacheRepo(t)

	got, err := repo.GetOwnerListings(context.Background(), "dealer-nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCacheRepo_Invalidate(t *testing.T) {
	repo := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.StoreOwnerListings(ctx, "dealer-1", sampleListings(), time.Hour))

	deleted, err := repo.InvalidateOwnerListings(ctx, "dealer-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.InvalidateOwnerListings(ctx, "dealer-1")
	require.NoError(t, err)
	assert.False(t, deleted)

	got, err := repo.GetOwnerListings(ctx, "dealer-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCacheRepo_EmptyOwnerRejected(t *testing.T) {
	repo := newCacheRepo(t)
	ctx := context.Background()

	assert.Error(t, repo.StoreOwnerListings(ctx, "", nil, time.Hour))

	_, err := repo.GetOwnerListings(ctx, "")
	assert.Error(t, err)

	_, err = repo.InvalidateOwnerListings(ctx, "")
	assert.Error(t, err)
}

func TestRedisCacheRepo_Health(t *testing.T) {
	repo := newCacheRepo(t)
	assert.NoError(t, repo.Health(context.Background()))
}
