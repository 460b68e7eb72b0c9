package data

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivelot/inventory-api/internal/domain/model"
	"github.com/drivelot/inventory-api/internal/testutil"
)

func TestPreviewRowRepo_ReplaceAndList(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	db := testutil.SetupTestDB(t)
	cfg := RepoConfig{TimeProvider: testutil.NewTestTimeProvider(testutil.TestTime())}
	jobRepo := NewImportJobRepo(db, cfg)
	repo := NewPreviewRowRepo(db, cfg)
	ctx := context.Background()

	job := createJob(t, jobRepo, "dealer-1")

	first := []*model.PreviewRow{
		testutil.NewPreviewRow().WithJobID(job.ID).WithRowIndex(1).WithDedupeKey("1111111").Build(),
		testutil.NewPreviewRow().WithJobID(job.ID).WithRowIndex(2).WithDedupeKey("").
			WithError(model.IssueCodeMissingLicense, "license plate is required").Build(),
	}
	require.NoError(t, repo.ReplaceForJob(ctx, job.ID, first))

	rows, err := repo.ListByJob(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].RowIndex)
	assert.Equal(t, "1111111", rows[0].DedupeKey)
	assert.Empty(t, rows[1].DedupeKey)
	require.Len(t, rows[1].Issues, 1)
	assert.Equal(t, model.IssueCodeMissingLicense, rows[1].Issues[0].Code)
	assert.True(t, rows[1].HasErrors())

	// JSON round trip of the normalized record.
	require.NotNil(t, rows[0].Normalized.Manufacturer)
	assert.Equal(t, "Toyota", *rows[0].Normalized.Manufacturer)
	assert.NotEmpty(t, rows[0].Raw)

	// A re-parse replaces the whole preview, never appends.
	second := []*model.PreviewRow{
		testutil.NewPreviewRow().WithJobID(job.ID).WithRowIndex(1).WithDedupeKey("2222222").Build(),
	}
	require.NoError(t, repo.ReplaceForJob(ctx, job.ID, second))

	count, err := repo.CountByJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	rows, err = repo.ListByJob(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2222222", rows[0].DedupeKey)
}

func TestPreviewRowRepo_EmptyJob(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	db := testutil.SetupTestDB(t)
	repo := NewPreviewRowRepo(db, RepoConfig{})
	ctx := context.Background()

	rows, err := repo.ListByJob(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, rows)

	count, err := repo.CountByJob(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListingRepo_UpsertListDelete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	db := testutil.SetupTestDB(t)
	cfg := RepoConfig{TimeProvider: testutil.NewTestTimeProvider(testutil.TestTime())}
	vehicleRepo := NewVehicleRepo(db, cfg)
	repo := NewListingRepo(db, cfg)
	ctx := context.Background()

	vehicle, _, err := vehicleRepo.UpsertByDedupeKey(ctx, &model.UpsertVehicleRequest{
		OwnerID:   "dealer-1",
		DedupeKey: "9876543",
		Record:    testutil.NewVehicleRecord().Build(),
	})
	require.NoError(t, err)

	syncedAt := testutil.TestTime()
	listing := &model.Listing{
		VehicleID:    vehicle.ID,
		OwnerID:      "dealer-1",
		Manufacturer: "Mazda",
		Model:        "3",
		Year:         testutil.IntPtr(2019),
		PhotoKeys:    []string{"photos/9876543/front.jpg"},
		SyncedAt:     syncedAt,
	}
	require.NoError(t, repo.Upsert(ctx, listing))

	listings, err := repo.ListByOwner(ctx, "dealer-1", 0)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Mazda", listings[0].Manufacturer)
	assert.Equal(t, []string{"photos/9876543/front.jpg"}, listings[0].PhotoKeys)

	// Upsert is keyed by vehicle; a later sync overwrites in place.
	listing.Model = "3 GT"
	listing.SyncedAt = syncedAt.Add(time.Minute)
	require.NoError(t, repo.Upsert(ctx, listing))

	listings, err = repo.ListByOwner(ctx, "dealer-1", 0)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "3 GT", listings[0].Model)

	require.NoError(t, repo.DeleteByVehicle(ctx, vehicle.ID))
	// Deleting an absent projection stays quiet.
	require.NoError(t, repo.DeleteByVehicle(ctx, vehicle.ID))

	listings, err = repo.ListByOwner(ctx, "dealer-1", 0)
	require.NoError(t, err)
	assert.Empty(t, listings)
}
