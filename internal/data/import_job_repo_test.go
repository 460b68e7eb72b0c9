package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivelot/inventory-api/internal/domain/model"
	apperrors "github.com/drivelot/inventory-api/internal/errors"
	"github.com/drivelot/inventory-api/internal/testutil"
)

func newJobRepo(t *testing.T) (*ImportJobRepo, *sql.DB, *testutil.TestTimeProvider) {
	t.Helper()
	testutil.SkipIfNoTestDB(t)
	db := testutil.SetupTestDB(t)
	clock := testutil.NewTestTimeProvider(testutil.TestTime())
	return NewImportJobRepo(db, RepoConfig{TimeProvider: clock}), db, clock
}

func createJob(t *testing.T, repo *ImportJobRepo, ownerID string) *model.ImportJob {
	t.Helper()
	id := uuid.NewString()
	job, err := repo.Create(context.Background(), CreateImportJobParams{
		ID: id,
		Req: &model.CreateImportJobRequest{
			OwnerID:   ownerID,
			CreatedBy: "tester",
			FileName:  "inventory.xlsx",
		},
		Source: model.ImportSource{
			StoragePath: "imports/" + id + "/inventory.xlsx",
			FileName:    "inventory.xlsx",
		},
	})
	require.NoError(t, err)
	return job
}

func confirmAndClaim(t *testing.T, repo *ImportJobRepo, jobID string) *model.ImportJob {
	t.Helper()
	ctx := context.Background()
	ok, err := repo.ConfirmUpload(ctx, jobID)
	require.NoError(t, err)
	require.True(t, ok)
	claimed, err := repo.ClaimNextUploaded(ctx, 60)
	require.NoError(t, err)
	require.Equal(t, jobID, claimed.ID)
	return claimed
}

func markReady(t *testing.T, repo *ImportJobRepo, jobID, contentHash string) {
	t.Helper()
	ok, err := repo.MarkPreviewReady(context.Background(), PreviewReadyParams{
		ID:              jobID,
		Summary:         model.ImportSummary{RowsTotal: 3, RowsValid: 3, CarsToCreate: 3},
		ImporterID:      "dealer-sheet",
		ImporterVersion: "1.0.0",
		ContentHash:     contentHash,
	})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestImportJobRepo_CreateAndGet(t *testing.T) {
	repo, _, _ := newJobRepo(t)
	ctx := context.Background()

	job := createJob(t, repo, "dealer-1")
	assert.Equal(t, model.ImportStatusUploaded, job.Status)
	assert.Equal(t, model.SyncStatusNone, job.SyncStatus)
	assert.Equal(t, "inventory.xlsx", job.Source.FileName)

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, "dealer-1", got.OwnerID)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrImportJobNotFound)
}

func TestImportJobRepo_DuplicateIDSurfacesAsConflict(t *testing.T) {
	repo, _, _ := newJobRepo(t)
	ctx := context.Background()

	job := createJob(t, repo, "dealer-1")

	_, err := repo.Create(ctx, CreateImportJobParams{
		ID: job.ID,
		Req: &model.CreateImportJobRequest{
			OwnerID:   "dealer-1",
			CreatedBy: "tester",
			FileName:  "inventory.xlsx",
		},
		Source: model.ImportSource{
			StoragePath: "imports/" + job.ID + "/inventory.xlsx",
			FileName:    "inventory.xlsx",
		},
	})
	require.Error(t, err)
	// The unique violation maps to a conflict rather than a bare driver error.
	assert.True(t, apperrors.IsConflict(err))
}

func TestImportJobRepo_ClaimRequiresConfirmedUpload(t *testing.T) {
	repo, _, _ := newJobRepo(t)
	ctx := context.Background()

	job := createJob(t, repo, "dealer-1")

	// Not confirmed yet: nothing to claim.
	_, err := repo.ClaimNextUploaded(ctx, 60)
	assert.ErrorIs(t, err, model.ErrNoImportJobsAvailable)

	ok, err := repo.ConfirmUpload(ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Confirming again is a no-op, not an error.
	ok, err = repo.ConfirmUpload(ctx, job.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	claimed, err := repo.ClaimNextUploaded(ctx, 60)
	require.NoError(t, err)
	assert.Equal(t, job.ID, claimed.ID)
}

func TestImportJobRepo_ClaimLeaseBlocksSecondWorker(t *testing.T) {
	repo, _, clock := newJobRepo(t)
	ctx := context.Background()

	job := createJob(t, repo, "dealer-1")
	confirmAndClaim(t, repo, job.ID)

	// Lease held: a second worker sees an empty queue.
	_, err := repo.ClaimNextUploaded(ctx, 60)
	assert.ErrorIs(t, err, model.ErrNoImportJobsAvailable)

	// Lease expired: the job is re-delivered.
	clock.AddTime(2 * time.Minute)
	reclaimed, err := repo.ClaimNextUploaded(ctx, 60)
	require.NoError(t, err)
	assert.Equal(t, job.ID, reclaimed.ID)
}

func TestImportJobRepo_HeartbeatExtendsLease(t *testing.T) {
	repo, _, clock := newJobRepo(t)
	ctx := context.Background()

	job := createJob(t, repo, "dealer-1")
	confirmAndClaim(t, repo, job.ID)

	clock.AddTime(50 * time.Second)
	ok, err := repo.Heartbeat(ctx, job.ID, 60)
	require.NoError(t, err)
	assert.True(t, ok)

	// The original lease would have lapsed by now; the heartbeat kept it.
	clock.AddTime(30 * time.Second)
	_, err = repo.ClaimNextUploaded(ctx, 60)
	assert.ErrorIs(t, err, model.ErrNoImportJobsAvailable)

	_, err = repo.Heartbeat(ctx, job.ID, 0)
	assert.Error(t, err)
}

func TestImportJobRepo_MarkPreviewReadyIsCompareAndSet(t *testing.T) {
	repo, _, _ := newJobRepo(t)
	ctx := context.Background()

	job := createJob(t, repo, "dealer-1")
	confirmAndClaim(t, repo, job.ID)
	markReady(t, repo, job.ID, "hash-a")

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ImportStatusPreviewReady, got.Status)
	assert.Equal(t, 3, got.Summary.RowsTotal)
	require.NotNil(t, got.Source.ContentHash)
	assert.Equal(t, "hash-a", *got.Source.ContentHash)

	// A straggler worker finishing the same parse loses quietly.
	ok, err := repo.MarkPreviewReady(ctx, PreviewReadyParams{ID: job.ID, ContentHash: "hash-a"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestImportJobRepo_CommitLifecycle(t *testing.T) {
	repo, _, _ := newJobRepo(t)
	ctx := context.Background()

	job := createJob(t, repo, "dealer-1")
	confirmAndClaim(t, repo, job.ID)
	markReady(t, repo, job.ID, "hash-b")

	ok, err := repo.BeginCommit(ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Exactly one commit wins.
	ok, err = repo.BeginCommit(ctx, job.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.UpdateCommitProgress(ctx, job.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	// Progress never moves backward.
	_, err = repo.UpdateCommitProgress(ctx, job.ID, 1)
	require.NoError(t, err)
	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Summary.CarsProcessed)

	ok, err = repo.CompleteCommit(ctx, CommitOutcome{
		ID: job.ID, CarsCreated: 2, CarsUpdated: 1, CarsProcessed: 3,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ImportStatusCommitted, got.Status)
	assert.Equal(t, model.SyncStatusPending, got.SyncStatus)
	assert.Equal(t, 2, got.Summary.CarsCreated)
	assert.Equal(t, 3, got.Summary.CarsProcessed)
}

func TestImportJobRepo_SyncQueue(t *testing.T) {
	repo, _, _ := newJobRepo(t)
	ctx := context.Background()

	job := createJob(t, repo, "dealer-1")
	confirmAndClaim(t, repo, job.ID)
	markReady(t, repo, job.ID, "hash-c")
	ok, err := repo.BeginCommit(ctx, job.ID)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = repo.CompleteCommit(ctx, CommitOutcome{ID: job.ID, CarsProcessed: 3})
	require.NoError(t, err)
	require.True(t, ok)

	claimed, err := repo.ClaimNextSyncPending(ctx, 60)
	require.NoError(t, err)
	assert.Equal(t, job.ID, claimed.ID)

	ok, err = repo.SetSyncStatus(ctx, job.ID, model.SyncStatusInProgress)
	require.NoError(t, err)
	assert.True(t, ok)

	// In-progress jobs are not re-claimable even after their lease lapses;
	// only pending ones are.
	_, err = repo.ClaimNextSyncPending(ctx, 60)
	assert.ErrorIs(t, err, model.ErrNoImportJobsAvailable)

	ok, err = repo.SetSyncStatus(ctx, job.ID, model.SyncStatusDone)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SyncStatusDone, got.SyncStatus)

	_, err = repo.SetSyncStatus(ctx, job.ID, "bogus")
	assert.Error(t, err)
}

func TestImportJobRepo_FailGuardsTerminalStates(t *testing.T) {
	repo, _, _ := newJobRepo(t)
	ctx := context.Background()

	job := createJob(t, repo, "dealer-1")
	processed := 7
	ok, err := repo.Fail(ctx, FailParams{
		ID:            job.ID,
		Message:       "cannot read spreadsheet",
		CarsProcessed: &processed,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ImportStatusFailed, got.Status)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "cannot read spreadsheet", *got.ErrorMessage)
	assert.Equal(t, 7, got.Summary.CarsProcessed)

	// failed is terminal.
	ok, err = repo.Fail(ctx, FailParams{ID: job.ID, Message: "again"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestImportJobRepo_FindCommittedByContentHash(t *testing.T) {
	repo, _, _ := newJobRepo(t)
	ctx := context.Background()

	prior := createJob(t, repo, "dealer-1")
	confirmAndClaim(t, repo, prior.ID)
	markReady(t, repo, prior.ID, "same-bytes")
	ok, err := repo.BeginCommit(ctx, prior.ID)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = repo.CompleteCommit(ctx, CommitOutcome{ID: prior.ID, CarsProcessed: 3})
	require.NoError(t, err)
	require.True(t, ok)

	current := createJob(t, repo, "dealer-1")

	found, err := repo.FindCommittedByContentHash(ctx, DuplicateLookupParams{
		OwnerID:      "dealer-1",
		ContentHash:  "same-bytes",
		ExcludeJobID: current.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, prior.ID, found.ID)

	// Another owner's identical bytes are not a duplicate.
	found, err = repo.FindCommittedByContentHash(ctx, DuplicateLookupParams{
		OwnerID:      "dealer-2",
		ContentHash:  "same-bytes",
		ExcludeJobID: current.ID,
	})
	require.NoError(t, err)
	assert.Nil(t, found)

	// The job itself is excluded from its own lookup.
	found, err = repo.FindCommittedByContentHash(ctx, DuplicateLookupParams{
		OwnerID:      "dealer-1",
		ContentHash:  "same-bytes",
		ExcludeJobID: prior.ID,
	})
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestImportJobRepo_FailStaleUploaded(t *testing.T) {
	repo, db, _ := newJobRepo(t)
	ctx := context.Background()

	stale := createJob(t, repo, "dealer-1")
	fresh := createJob(t, repo, "dealer-1")

	// created_at comes from the database default; backdate the stale job
	// past the reaper threshold.
	_, err := db.ExecContext(ctx,
		`UPDATE import_jobs SET created_at = $2 WHERE id = $1`,
		stale.ID, testutil.TestTime().Add(-25*time.Hour))
	require.NoError(t, err)
	_, err = db.ExecContext(ctx,
		`UPDATE import_jobs SET created_at = $2 WHERE id = $1`,
		fresh.ID, testutil.TestTime().Add(-time.Hour))
	require.NoError(t, err)

	n, err := repo.FailStaleUploaded(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := repo.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ImportStatusFailed, got.Status)

	got, err = repo.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ImportStatusUploaded, got.Status)
}

func TestImportJobRepo_ExhaustedParseAttemptsStopDeliveryAndReap(t *testing.T) {
	repo, db, _ := newJobRepo(t)
	ctx := context.Background()

	job := createJob(t, repo, "dealer-1")
	ok, err := repo.ConfirmUpload(ctx, job.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = db.ExecContext(ctx,
		`UPDATE import_jobs SET parse_attempts = $2 WHERE id = $1`,
		job.ID, maxParseAttempts)
	require.NoError(t, err)

	// No more deliveries once the attempt budget is spent.
	_, err = repo.ClaimNextUploaded(ctx, 60)
	assert.ErrorIs(t, err, model.ErrNoImportJobsAvailable)

	// The reaper fails the job even though it is not yet stale by age.
	n, err := repo.FailStaleUploaded(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ImportStatusFailed, got.Status)
	require.NotNil(t, got.ErrorMessage)
	assert.Contains(t, *got.ErrorMessage, "repeatedly")
}

func TestImportJobRepo_ListByOwner(t *testing.T) {
	repo, db, _ := newJobRepo(t)
	ctx := context.Background()

	first := createJob(t, repo, "dealer-1")
	second := createJob(t, repo, "dealer-1")
	createJob(t, repo, "dealer-2")

	// Pin distinct creation times so the ordering is deterministic.
	_, err := db.ExecContext(ctx,
		`UPDATE import_jobs SET created_at = $2 WHERE id = $1`,
		first.ID, testutil.TestTime().Add(-time.Hour))
	require.NoError(t, err)

	jobs, err := repo.ListByOwner(ctx, model.ImportJobListOptions{OwnerID: "dealer-1"})
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, second.ID, jobs[0].ID, "newest first")
	assert.Equal(t, first.ID, jobs[1].ID)

	jobs, err = repo.ListByOwner(ctx, model.ImportJobListOptions{OwnerID: "dealer-1", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, first.ID, jobs[0].ID)
}

func TestImportJobRepo_QueueNotifications(t *testing.T) {
	repo, _, _ := newJobRepo(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	job := createJob(t, repo, "dealer-1")

	errCh := make(chan error, 1)
	go func() {
		errCh <- repo.WaitForQueueNotification(ctx, QueueUploaded)
	}()

	// Give the listener a moment to attach before the notify fires.
	time.Sleep(300 * time.Millisecond)
	ok, err := repo.ConfirmUpload(ctx, job.ID)
	require.NoError(t, err)
	require.True(t, ok)

	select {
	case werr := <-errCh:
		assert.NoError(t, werr)
	case <-ctx.Done():
		t.Fatal("queue notification never arrived")
	}
}
