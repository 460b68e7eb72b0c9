package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/drivelot/inventory-api/internal/domain/model"
	"github.com/drivelot/inventory-api/internal/mocks"
	"github.com/drivelot/inventory-api/internal/testutil"
)

type syncServiceFixture struct {
	svc      *SyncService
	jobRepo  *mocks.MockImportJobRepository
	vehicles *mocks.MockVehicleRepository
	listings *mocks.MockListingRepository
	cache    *mocks.MockCacheRepository
}

func newSyncServiceFixture(t *testing.T, withCache bool) *syncServiceFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &syncServiceFixture{
		jobRepo:  mocks.NewMockImportJobRepository(ctrl),
		vehicles: mocks.NewMockVehicleRepository(ctrl),
		listings: mocks.NewMockListingRepository(ctrl),
	}
	opts := SyncServiceOptions{
		JobRepo:      f.jobRepo,
		VehicleRepo:  f.vehicles,
		ListingRepo:  f.listings,
		TimeProvider: testutil.NewTestTimeProvider(testutil.TestTime()),
		SnapshotTTL:  time.Hour,
	}
	if withCache {
		f.cache = mocks.NewMockCacheRepository(ctrl)
		opts.Cache = f.cache
	}

	svc, err := NewSyncService(opts)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func syncJob() *model.ImportJob {
	return &model.ImportJob{
		ID:         uuid.NewString(),
		OwnerID:    "dealer-1",
		Status:     model.ImportStatusCommitted,
		SyncStatus: model.SyncStatusPending,
	}
}

func publishedVehicle(id, maker, mdl string) *model.Vehicle {
	return &model.Vehicle{
		ID:           id,
		OwnerID:      "dealer-1",
		Manufacturer: testutil.StringPtr(maker),
		Model:        testutil.StringPtr(mdl),
		Published:    true,
	}
}

func TestProcessSync_ProjectsPublishedAndDropsRest(t *testing.T) {
	f := newSyncServiceFixture(t, true)
	job := syncJob()

	unpublished := publishedVehicle("veh-2", "Mazda", "3")
	unpublished.Published = false

	gomock.InOrder(
		f.jobRepo.EXPECT().
			SetSyncStatus(gomock.Any(), job.ID, model.SyncStatusInProgress).
			Return(true, nil),
		f.vehicles.EXPECT().
			ListByOwner(gomock.Any(), model.VehicleListOptions{
				OwnerID: "dealer-1", Limit: syncPageSize,
			}).
			Return([]*model.Vehicle{
				publishedVehicle("veh-1", "Toyota", "Corolla"),
				unpublished,
			}, nil),
		f.jobRepo.EXPECT().
			SetSyncStatus(gomock.Any(), job.ID, model.SyncStatusDone).
			Return(true, nil),
	)
	f.listings.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, listing *model.Listing) error {
			assert.Equal(t, "veh-1", listing.VehicleID)
			assert.Equal(t, "Toyota", listing.Manufacturer)
			assert.Equal(t, testutil.TestTime(), listing.SyncedAt)
			return nil
		})
	f.listings.EXPECT().DeleteByVehicle(gomock.Any(), "veh-2").Return(nil)
	f.cache.EXPECT().
		StoreOwnerListings(gomock.Any(), "dealer-1", gomock.Any(), time.Hour).
		DoAndReturn(func(_ context.Context, _ string, listings []*model.Listing, _ time.Duration) error {
			require.Len(t, listings, 1)
			return nil
		})

	require.NoError(t, f.svc.ProcessSync(context.Background(), job))
}

func TestProcessSync_FailureMarksSyncFailedAdvisory(t *testing.T) {
	f := newSyncServiceFixture(t, false)
	job := syncJob()

	gomock.InOrder(
		f.jobRepo.EXPECT().
			SetSyncStatus(gomock.Any(), job.ID, model.SyncStatusInProgress).
			Return(true, nil),
		f.vehicles.EXPECT().
			ListByOwner(gomock.Any(), gomock.Any()).
			Return(nil, assert.AnError),
		f.jobRepo.EXPECT().
			SetSyncStatus(gomock.Any(), job.ID, model.SyncStatusFailed).
			Return(true, nil),
	)

	// Sync failures never surface as worker errors; the job stays committed.
	require.NoError(t, f.svc.ProcessSync(context.Background(), job))
}

func TestProcessSync_ProjectionUpsertFailureMarksFailed(t *testing.T) {
	f := newSyncServiceFixture(t, false)
	job := syncJob()

	gomock.InOrder(
		f.jobRepo.EXPECT().
			SetSyncStatus(gomock.Any(), job.ID, model.SyncStatusInProgress).
			Return(true, nil),
		f.vehicles.EXPECT().
			ListByOwner(gomock.Any(), gomock.Any()).
			Return([]*model.Vehicle{publishedVehicle("veh-1", "Kia", "Picanto")}, nil),
		f.listings.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(assert.AnError),
		f.jobRepo.EXPECT().
			SetSyncStatus(gomock.Any(), job.ID, model.SyncStatusFailed).
			Return(true, nil),
	)

	require.NoError(t, f.svc.ProcessSync(context.Background(), job))
}

func TestProcessSync_CacheFailureIsBestEffort(t *testing.T) {
	f := newSyncServiceFixture(t, true)
	job := syncJob()

	gomock.InOrder(
		f.jobRepo.EXPECT().
			SetSyncStatus(gomock.Any(), job.ID, model.SyncStatusInProgress).
			Return(true, nil),
		f.vehicles.EXPECT().
			ListByOwner(gomock.Any(), gomock.Any()).
			Return([]*model.Vehicle{publishedVehicle("veh-1", "Kia", "Picanto")}, nil),
		f.jobRepo.EXPECT().
			SetSyncStatus(gomock.Any(), job.ID, model.SyncStatusDone).
			Return(true, nil),
	)
	f.listings.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
	f.cache.EXPECT().
		StoreOwnerListings(gomock.Any(), "dealer-1", gomock.Any(), time.Hour).
		Return(assert.AnError)

	require.NoError(t, f.svc.ProcessSync(context.Background(), job))
}

func TestProcessSync_NoCacheConfigured(t *testing.T) {
	f := newSyncServiceFixture(t, false)
	job := syncJob()

	gomock.InOrder(
		f.jobRepo.EXPECT().
			SetSyncStatus(gomock.Any(), job.ID, model.SyncStatusInProgress).
			Return(true, nil),
		f.vehicles.EXPECT().ListByOwner(gomock.Any(), gomock.Any()).Return(nil, nil),
		f.jobRepo.EXPECT().
			SetSyncStatus(gomock.Any(), job.ID, model.SyncStatusDone).
			Return(true, nil),
	)

	require.NoError(t, f.svc.ProcessSync(context.Background(), job))
}

func TestProcessSync_PagesThroughLargeCatalogs(t *testing.T) {
	f := newSyncServiceFixture(t, true)
	job := syncJob()

	fullPage := make([]*model.Vehicle, syncPageSize)
	for i := range fullPage {
		fullPage[i] = publishedVehicle(fmt.Sprintf("veh-%d", i), "Toyota", "Corolla")
	}
	tail := []*model.Vehicle{publishedVehicle("veh-tail", "Mazda", "3")}

	gomock.InOrder(
		f.jobRepo.EXPECT().
			SetSyncStatus(gomock.Any(), job.ID, model.SyncStatusInProgress).
			Return(true, nil),
		f.vehicles.EXPECT().
			ListByOwner(gomock.Any(), model.VehicleListOptions{
				OwnerID: "dealer-1", Limit: syncPageSize,
			}).
			Return(fullPage, nil),
		f.vehicles.EXPECT().
			ListByOwner(gomock.Any(), model.VehicleListOptions{
				OwnerID: "dealer-1", Limit: syncPageSize, Offset: syncPageSize,
			}).
			Return(tail, nil),
		f.jobRepo.EXPECT().
			SetSyncStatus(gomock.Any(), job.ID, model.SyncStatusDone).
			Return(true, nil),
	)
	f.listings.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		Return(nil).
		Times(syncPageSize + 1)
	// The snapshot holds the whole catalog, not just the first page.
	f.cache.EXPECT().
		StoreOwnerListings(gomock.Any(), "dealer-1", gomock.Any(), time.Hour).
		DoAndReturn(func(_ context.Context, _ string, listings []*model.Listing, _ time.Duration) error {
			assert.Len(t, listings, syncPageSize+1)
			return nil
		})

	require.NoError(t, f.svc.ProcessSync(context.Background(), job))
}

func TestProcessSync_VehicleWithoutMakerIsDeprojected(t *testing.T) {
	f := newSyncServiceFixture(t, false)
	job := syncJob()

	nameless := publishedVehicle("veh-9", "", "")
	nameless.Manufacturer = nil

	gomock.InOrder(
		f.jobRepo.EXPECT().
			SetSyncStatus(gomock.Any(), job.ID, model.SyncStatusInProgress).
			Return(true, nil),
		f.vehicles.EXPECT().
			ListByOwner(gomock.Any(), gomock.Any()).
			Return([]*model.Vehicle{nameless}, nil),
		f.listings.EXPECT().DeleteByVehicle(gomock.Any(), "veh-9").Return(nil),
		f.jobRepo.EXPECT().
			SetSyncStatus(gomock.Any(), job.ID, model.SyncStatusDone).
			Return(true, nil),
	)

	require.NoError(t, f.svc.ProcessSync(context.Background(), job))
}
