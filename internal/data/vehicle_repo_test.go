package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivelot/inventory-api/internal/domain/model"
	"github.com/drivelot/inventory-api/internal/testutil"
)

func newVehicleRepo(t *testing.T) *VehicleRepo {
	t.Helper()
	testutil.SkipIfNoTestDB(t)
	db := testutil.SetupTestDB(t)
	return NewVehicleRepo(db, RepoConfig{
		TimeProvider: testutil.NewTestTimeProvider(testutil.TestTime()),
	})
}

func TestVehicleRepo_UpsertCreatesThenUpdates(t *testing.T) {
	repo := newVehicleRepo(t)
	ctx := context.Background()

	vehicle, outcome, err := repo.UpsertByDedupeKey(ctx, &model.UpsertVehicleRequest{
		OwnerID:   "dealer-1",
		DedupeKey: "9876543",
		Record:    testutil.NewVehicleRecord().WithMileage(45000).Build(),
	})
	require.NoError(t, err)
	assert.Equal(t, model.UpsertCreated, outcome)
	assert.NotEmpty(t, vehicle.ID)
	require.NotNil(t, vehicle.MileageKM)
	assert.Equal(t, 45000, *vehicle.MileageKM)

	updated, outcome, err := repo.UpsertByDedupeKey(ctx, &model.UpsertVehicleRequest{
		OwnerID:   "dealer-1",
		DedupeKey: "9876543",
		Record:    testutil.NewVehicleRecord().WithMileage(46500).WithAskingPrice(82000).Build(),
	})
	require.NoError(t, err)
	assert.Equal(t, model.UpsertUpdated, outcome)
	assert.Equal(t, vehicle.ID, updated.ID, "same authoritative record")
	assert.Equal(t, 46500, *updated.MileageKM)
	require.NotNil(t, updated.AskingPrice)
	assert.InDelta(t, 82000, *updated.AskingPrice, 0.01)
}

func TestVehicleRepo_UpsertMergeKeepsAbsentFields(t *testing.T) {
	repo := newVehicleRepo(t)
	ctx := context.Background()

	_, _, err := repo.UpsertByDedupeKey(ctx, &model.UpsertVehicleRequest{
		OwnerID:   "dealer-1",
		DedupeKey: "9876543",
		Record:    testutil.NewVehicleRecord().WithColor("silver").WithMileage(45000).Build(),
	})
	require.NoError(t, err)

	// A re-import without a color column must not erase the stored color.
	merged, _, err := repo.UpsertByDedupeKey(ctx, &model.UpsertVehicleRequest{
		OwnerID:   "dealer-1",
		DedupeKey: "9876543",
		Record:    testutil.NewVehicleRecord().WithMileage(47000).Build(),
	})
	require.NoError(t, err)
	require.NotNil(t, merged.Color)
	assert.Equal(t, "silver", *merged.Color)
	assert.Equal(t, 47000, *merged.MileageKM)
}

func TestVehicleRepo_DedupeKeyScopedPerOwner(t *testing.T) {
	repo := newVehicleRepo(t)
	ctx := context.Background()

	first, outcome, err := repo.UpsertByDedupeKey(ctx, &model.UpsertVehicleRequest{
		OwnerID:   "dealer-1",
		DedupeKey: "1234567",
		Record:    testutil.NewVehicleRecord().Build(),
	})
	require.NoError(t, err)
	assert.Equal(t, model.UpsertCreated, outcome)

	second, outcome, err := repo.UpsertByDedupeKey(ctx, &model.UpsertVehicleRequest{
		OwnerID:   "dealer-2",
		DedupeKey: "1234567",
		Record:    testutil.NewVehicleRecord().Build(),
	})
	require.NoError(t, err)
	assert.Equal(t, model.UpsertCreated, outcome, "same plate, different dealer")
	assert.NotEqual(t, first.ID, second.ID)
}

func TestVehicleRepo_Lookups(t *testing.T) {
	repo := newVehicleRepo(t)
	ctx := context.Background()

	created, _, err := repo.UpsertByDedupeKey(ctx, &model.UpsertVehicleRequest{
		OwnerID:   "dealer-1",
		DedupeKey: "1234567",
		Record:    testutil.NewVehicleRecord().Build(),
	})
	require.NoError(t, err)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byID.ID)

	byKey, err := repo.GetByDedupeKey(ctx, "dealer-1", "1234567")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byKey.ID)

	existing, err := repo.ExistingDedupeKeys(ctx, "dealer-1", []string{"1234567", "0000000"})
	require.NoError(t, err)
	assert.True(t, existing["1234567"])
	assert.False(t, existing["0000000"])

	existing, err = repo.ExistingDedupeKeys(ctx, "dealer-1", nil)
	require.NoError(t, err)
	assert.Empty(t, existing)
}

func TestVehicleRepo_ListByOwnerPublishedFilter(t *testing.T) {
	repo := newVehicleRepo(t)
	ctx := context.Background()

	vehicle, _, err := repo.UpsertByDedupeKey(ctx, &model.UpsertVehicleRequest{
		OwnerID:   "dealer-1",
		DedupeKey: "1234567",
		Record:    testutil.NewVehicleRecord().Build(),
	})
	require.NoError(t, err)

	all, err := repo.ListByOwner(ctx, model.VehicleListOptions{OwnerID: "dealer-1"})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// Imports never publish; the new vehicle is invisible to the public filter.
	published, err := repo.ListByOwner(ctx, model.VehicleListOptions{OwnerID: "dealer-1", PublishedOnly: true})
	require.NoError(t, err)
	assert.Empty(t, published)

	_, err = repo.DB.ExecContext(ctx,
		`UPDATE vehicles SET published = TRUE WHERE id = $1`, vehicle.ID)
	require.NoError(t, err)

	published, err = repo.ListByOwner(ctx, model.VehicleListOptions{OwnerID: "dealer-1", PublishedOnly: true})
	require.NoError(t, err)
	assert.Len(t, published, 1)
}

func TestVehicleRepo_UpsertValidation(t *testing.T) {
	repo := newVehicleRepo(t)
	ctx := context.Background()

	_, _, err := repo.UpsertByDedupeKey(ctx, nil)
	assert.Error(t, err)

	_, _, err = repo.UpsertByDedupeKey(ctx, &model.UpsertVehicleRequest{
		OwnerID: "dealer-1",
		Record:  testutil.NewVehicleRecord().Build(),
	})
	assert.Error(t, err, "dedupe key is required")
}
