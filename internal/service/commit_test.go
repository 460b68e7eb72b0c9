package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/drivelot/inventory-api/internal/data"
	"github.com/drivelot/inventory-api/internal/domain/model"
	"github.com/drivelot/inventory-api/internal/mocks"
	"github.com/drivelot/inventory-api/internal/testutil"
)

type commitServiceFixture struct {
	svc      *CommitService
	jobRepo  *mocks.MockImportJobRepository
	preview  *mocks.MockPreviewRowRepository
	vehicles *mocks.MockVehicleRepository
}

func newCommitServiceFixture(t *testing.T, progressEvery int) *commitServiceFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &commitServiceFixture{
		jobRepo:  mocks.NewMockImportJobRepository(ctrl),
		preview:  mocks.NewMockPreviewRowRepository(ctrl),
		vehicles: mocks.NewMockVehicleRepository(ctrl),
	}

	svc, err := NewCommitService(CommitServiceOptions{
		JobRepo:       f.jobRepo,
		PreviewRepo:   f.preview,
		VehicleRepo:   f.vehicles,
		ProgressEvery: progressEvery,
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func committingJob() *model.ImportJob {
	return &model.ImportJob{
		ID:      uuid.NewString(),
		OwnerID: "dealer-1",
		Status:  model.ImportStatusCommitting,
	}
}

func previewRows(job *model.ImportJob, keys ...string) []*model.PreviewRow {
	rows := make([]*model.PreviewRow, 0, len(keys))
	for i, key := range keys {
		rows = append(rows, testutil.NewPreviewRow().
			WithJobID(job.ID).
			WithRowIndex(i+1).
			WithDedupeKey(key).
			Build())
	}
	return rows
}

func TestProcessCommit_CountsOutcomes(t *testing.T) {
	f := newCommitServiceFixture(t, 0)
	job := committingJob()

	f.preview.EXPECT().
		ListByJob(gomock.Any(), job.ID).
		Return(previewRows(job, "1111111", "2222222", "3333333"), nil)
	f.vehicles.EXPECT().
		UpsertByDedupeKey(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *model.UpsertVehicleRequest) (*model.Vehicle, model.UpsertOutcome, error) {
			assert.Equal(t, "dealer-1", req.OwnerID)
			switch req.DedupeKey {
			case "1111111":
				return &model.Vehicle{}, model.UpsertCreated, nil
			case "2222222":
				return &model.Vehicle{}, model.UpsertUpdated, nil
			default:
				return nil, model.UpsertSkipped, nil
			}
		}).
		Times(3)
	f.jobRepo.EXPECT().
		CompleteCommit(gomock.Any(), data.CommitOutcome{
			ID:            job.ID,
			CarsCreated:   1,
			CarsUpdated:   1,
			CarsSkipped:   1,
			CarsProcessed: 3,
		}).
		Return(true, nil)

	require.NoError(t, f.svc.ProcessCommit(context.Background(), job))
}

func TestProcessCommit_ErrorRowsNeverReachStore(t *testing.T) {
	f := newCommitServiceFixture(t, 0)
	job := committingJob()

	rows := []*model.PreviewRow{
		testutil.NewPreviewRow().WithJobID(job.ID).WithRowIndex(1).
			WithDedupeKey("1111111").Build(),
		testutil.NewPreviewRow().WithJobID(job.ID).WithRowIndex(2).
			WithDedupeKey("2222222").
			WithError(model.IssueCodeMissingModel, "model is required").Build(),
	}
	f.preview.EXPECT().ListByJob(gomock.Any(), job.ID).Return(rows, nil)
	f.vehicles.EXPECT().
		UpsertByDedupeKey(gomock.Any(), gomock.Any()).
		Return(&model.Vehicle{}, model.UpsertCreated, nil)
	// The error row is invisible to the totals: skipped counts only valid
	// rows dropped at commit time.
	f.jobRepo.EXPECT().
		CompleteCommit(gomock.Any(), data.CommitOutcome{
			ID:            job.ID,
			CarsCreated:   1,
			CarsSkipped:   0,
			CarsProcessed: 1,
		}).
		Return(true, nil)

	require.NoError(t, f.svc.ProcessCommit(context.Background(), job))
}

func TestProcessCommit_TotalsCoverOnlyErrorFreeRows(t *testing.T) {
	f := newCommitServiceFixture(t, 0)
	job := committingJob()

	rows := []*model.PreviewRow{
		testutil.NewPreviewRow().WithJobID(job.ID).WithRowIndex(1).
			WithDedupeKey("1111111").Build(),
		testutil.NewPreviewRow().WithJobID(job.ID).WithRowIndex(2).
			WithError(model.IssueCodeMissingMaker, "manufacturer is required").Build(),
		testutil.NewPreviewRow().WithJobID(job.ID).WithRowIndex(3).
			WithDedupeKey("3333333").Build(),
	}
	f.preview.EXPECT().ListByJob(gomock.Any(), job.ID).Return(rows, nil)
	f.vehicles.EXPECT().
		UpsertByDedupeKey(gomock.Any(), gomock.Any()).
		Return(&model.Vehicle{}, model.UpsertCreated, nil).
		Times(2)

	f.jobRepo.EXPECT().
		CompleteCommit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, outcome data.CommitOutcome) (bool, error) {
			// created+updated+skipped accounts for exactly the error-free
			// rows, and processed never exceeds that count.
			assert.Equal(t, 2, outcome.CarsCreated+outcome.CarsUpdated+outcome.CarsSkipped)
			assert.Equal(t, 2, outcome.CarsProcessed)
			return true, nil
		})

	require.NoError(t, f.svc.ProcessCommit(context.Background(), job))
}

func TestProcessCommit_FirstRowWinsPerDedupeKey(t *testing.T) {
	f := newCommitServiceFixture(t, 0)
	job := committingJob()

	f.preview.EXPECT().
		ListByJob(gomock.Any(), job.ID).
		Return(previewRows(job, "1111111", "1111111", ""), nil)
	// One upsert for the duplicated key, none for the empty key.
	f.vehicles.EXPECT().
		UpsertByDedupeKey(gomock.Any(), gomock.Any()).
		Return(&model.Vehicle{}, model.UpsertCreated, nil)
	f.jobRepo.EXPECT().
		CompleteCommit(gomock.Any(), data.CommitOutcome{
			ID:            job.ID,
			CarsCreated:   1,
			CarsSkipped:   2,
			CarsProcessed: 3,
		}).
		Return(true, nil)

	require.NoError(t, f.svc.ProcessCommit(context.Background(), job))
}

func TestProcessCommit_ProgressWrites(t *testing.T) {
	f := newCommitServiceFixture(t, 2)
	job := committingJob()

	f.preview.EXPECT().
		ListByJob(gomock.Any(), job.ID).
		Return(previewRows(job, "1111111", "2222222", "3333333", "4444444", "5555555"), nil)
	f.vehicles.EXPECT().
		UpsertByDedupeKey(gomock.Any(), gomock.Any()).
		Return(&model.Vehicle{}, model.UpsertCreated, nil).
		Times(5)
	gomock.InOrder(
		f.jobRepo.EXPECT().UpdateCommitProgress(gomock.Any(), job.ID, 2).Return(true, nil),
		f.jobRepo.EXPECT().UpdateCommitProgress(gomock.Any(), job.ID, 4).Return(true, nil),
	)
	f.jobRepo.EXPECT().
		CompleteCommit(gomock.Any(), gomock.Any()).
		Return(true, nil)

	require.NoError(t, f.svc.ProcessCommit(context.Background(), job))
}

func TestProcessCommit_UpsertFailureFailsJobWithProgress(t *testing.T) {
	f := newCommitServiceFixture(t, 0)
	job := committingJob()

	f.preview.EXPECT().
		ListByJob(gomock.Any(), job.ID).
		Return(previewRows(job, "1111111", "2222222"), nil)
	gomock.InOrder(
		f.vehicles.EXPECT().
			UpsertByDedupeKey(gomock.Any(), gomock.Any()).
			Return(&model.Vehicle{}, model.UpsertCreated, nil),
		f.vehicles.EXPECT().
			UpsertByDedupeKey(gomock.Any(), gomock.Any()).
			Return(nil, model.UpsertSkipped, assert.AnError),
	)
	f.jobRepo.EXPECT().
		Fail(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params data.FailParams) (bool, error) {
			assert.Equal(t, job.ID, params.ID)
			assert.Contains(t, params.Message, "row 2")
			require.NotNil(t, params.CarsProcessed)
			assert.Equal(t, 1, *params.CarsProcessed)
			return true, nil
		})

	// Already-applied rows stay applied; the failure is recorded, not returned.
	require.NoError(t, f.svc.ProcessCommit(context.Background(), job))
}

func TestProcessCommit_CanceledContextLeavesJobCommitting(t *testing.T) {
	f := newCommitServiceFixture(t, 0)
	job := committingJob()
	ctx, cancel := context.WithCancel(context.Background())

	f.preview.EXPECT().
		ListByJob(gomock.Any(), job.ID).
		Return(previewRows(job, "1111111", "2222222"), nil)
	f.vehicles.EXPECT().
		UpsertByDedupeKey(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *model.UpsertVehicleRequest) (*model.Vehicle, model.UpsertOutcome, error) {
			// Shutdown lands mid-loop.
			cancel()
			return &model.Vehicle{}, model.UpsertCreated, nil
		})

	// No Fail, no CompleteCommit: the lease expires and another worker
	// re-claims the job.
	err := f.svc.ProcessCommit(ctx, job)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessCommit_EmptyPreviewStillCompletes(t *testing.T) {
	f := newCommitServiceFixture(t, 0)
	job := committingJob()

	f.preview.EXPECT().ListByJob(gomock.Any(), job.ID).Return(nil, nil)
	f.jobRepo.EXPECT().
		CompleteCommit(gomock.Any(), data.CommitOutcome{ID: job.ID}).
		Return(true, nil)

	require.NoError(t, f.svc.ProcessCommit(context.Background(), job))
}

func TestNewCommitService_Defaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, err := NewCommitService(CommitServiceOptions{
		JobRepo:     mocks.NewMockImportJobRepository(ctrl),
		PreviewRepo: mocks.NewMockPreviewRowRepository(ctrl),
		VehicleRepo: mocks.NewMockVehicleRepository(ctrl),
	})
	require.NoError(t, err)
	assert.Equal(t, 25, svc.progressEvery)

	for _, opts := range []CommitServiceOptions{
		{PreviewRepo: mocks.NewMockPreviewRowRepository(ctrl), VehicleRepo: mocks.NewMockVehicleRepository(ctrl)},
		{JobRepo: mocks.NewMockImportJobRepository(ctrl), VehicleRepo: mocks.NewMockVehicleRepository(ctrl)},
		{JobRepo: mocks.NewMockImportJobRepository(ctrl), PreviewRepo: mocks.NewMockPreviewRowRepository(ctrl)},
	} {
		_, err := NewCommitService(opts)
		assert.Error(t, err, fmt.Sprintf("%+v", opts))
	}
}
