package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/drivelot/inventory-api/internal/data/pgxutil"
	"github.com/drivelot/inventory-api/internal/domain/model"
	apperrors "github.com/drivelot/inventory-api/internal/errors"
)

var (
	// ErrImportJobNotFound is returned when an import job is not found.
	ErrImportJobNotFound = errors.New("import job not found")
)

// Notification queues used to wake worker loops.
const (
	QueueUploaded   = "uploaded"
	QueueCommitting = "committing"
	QueueSync       = "sync"
)

// RepoConfig holds configuration options shared by the data repositories.
type RepoConfig struct {
	Logger       *slog.Logger
	TimeProvider TimeProvider
}

func (c RepoConfig) timeProvider() TimeProvider {
	if c.TimeProvider != nil {
		return c.TimeProvider
	}
	return &RealTimeProvider{}
}

// ImportJobRepo provides database operations for the import job store.
//
// All status changes are guarded UPDATEs against the expected current status:
// a zero rows-affected result means another actor moved the job first. Jobs
// are never deleted here; re-import is always a new job.
type ImportJobRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

// NewImportJobRepo creates a new ImportJobRepo with the given database connection.
func NewImportJobRepo(db *sql.DB, cfg RepoConfig) *ImportJobRepo {
	return &ImportJobRepo{
		DB:           db,
		timeProvider: cfg.timeProvider(),
		logger:       cfg.Logger,
	}
}

const importJobColumns = `
  id,
  owner_id,
  created_by,
  status,
  storage_path,
  file_name,
  importer_id,
  importer_version,
  content_hash,
  rows_total,
  rows_valid,
  rows_with_warnings,
  rows_with_errors,
  cars_to_create,
  cars_to_update,
  cars_created,
  cars_updated,
  cars_skipped,
  cars_processed,
  sync_status,
  duplicate_of_job_id,
  error_message,
  created_at,
  updated_at
`

// CreateImportJobParams groups parameters for Create. The ID is generated by
// the caller so the storage path can be derived from it before the insert.
type CreateImportJobParams struct {
	ID     string
	Req    *model.CreateImportJobRequest
	Source model.ImportSource
}

// Create inserts exactly one job row in status uploaded. On error no job
// exists; there is no half-created state to clean up.
func (r *ImportJobRepo) Create(ctx context.Context, p CreateImportJobParams) (*model.ImportJob, error) {
	if p.Req == nil {
		return nil, errors.New("create import job request is required")
	}
	if err := p.Req.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.ID) == "" {
		return nil, errors.New("job id is required")
	}

	row := r.DB.QueryRowContext(ctx, `
      INSERT INTO import_jobs (id, owner_id, created_by, status, storage_path, file_name, importer_id, importer_version)
      VALUES ($1, $2, $3, 'uploaded', $4, $5, $6, $7)
      RETURNING `+importJobColumns,
		p.ID,
		p.Req.OwnerID,
		p.Req.CreatedBy,
		p.Source.StoragePath,
		p.Source.FileName,
		p.Source.ImporterID,
		p.Source.ImporterVersion,
	)

	job, err := scanImportJob(row)
	if err != nil {
		return nil, fmt.Errorf("insert import job: %w", apperrors.MapDBError(err))
	}
	return job, nil
}

// GetByID retrieves an import job by its ID.
func (r *ImportJobRepo) GetByID(ctx context.Context, id string) (*model.ImportJob, error) {
	row := r.DB.QueryRowContext(ctx, `
      SELECT `+importJobColumns+`
      FROM import_jobs
      WHERE id = $1
    `, id)

	job, err := scanImportJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrImportJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get import job: %w", err)
	}
	return job, nil
}

// ListByOwner returns an owner's import jobs, newest first.
func (r *ImportJobRepo) ListByOwner(ctx context.Context, opts model.ImportJobListOptions) ([]*model.ImportJob, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.DB.QueryContext(ctx, `
      SELECT `+importJobColumns+`
      FROM import_jobs
      WHERE owner_id = $1
      ORDER BY created_at DESC
      LIMIT $2 OFFSET $3
    `, opts.OwnerID, limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("list import jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*model.ImportJob
	for rows.Next() {
		job, scanErr := scanImportJob(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan import job: %w", scanErr)
		}
		jobs = append(jobs, job)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, rowsErr
	}
	return jobs, nil
}

// ConfirmUpload records that the file transfer finished and wakes the parser
// workers. Safe to call repeatedly; a no-op once the job has left uploaded.
func (r *ImportJobRepo) ConfirmUpload(ctx context.Context, id string) (bool, error) {
	now := r.timeProvider.Now().UTC()
	res, err := r.DB.ExecContext(ctx, `
      UPDATE import_jobs
      SET upload_confirmed_at = COALESCE(upload_confirmed_at, $2),
          updated_at = $2
      WHERE id = $1 AND status = 'uploaded'
    `, id, now)
	if err != nil {
		return false, fmt.Errorf("confirm upload: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("confirm upload rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}
	r.notify(ctx, QueueUploaded, id)
	return true, nil
}

// maxParseAttempts caps how often an uploaded job is re-delivered to a parse
// worker. Once exhausted the job is no longer claimable and the staleness
// reaper fails it.
const maxParseAttempts = 5

// claimNextSQL atomically claims the next workable job of a given status.
// Claiming takes a short lease instead of a status change; the state machine
// has no intermediate "being parsed" state, so lease expiry makes re-delivery
// possible and every consumer is idempotent.
var claimNextSQL = fmt.Sprintf(`
  WITH cte AS (
    SELECT id FROM import_jobs
    WHERE status = $1
      AND (lease_expires_at IS NULL OR lease_expires_at < $2)
      AND (status <> 'uploaded' OR (upload_confirmed_at IS NOT NULL AND parse_attempts < %d))
      AND ($4::text IS NULL OR sync_status = $4)
    ORDER BY updated_at ASC
    LIMIT 1
    FOR UPDATE SKIP LOCKED
  )
  UPDATE import_jobs j
  SET lease_expires_at = $3,
      parse_attempts = parse_attempts + CASE WHEN j.status = 'uploaded' THEN 1 ELSE 0 END
  FROM cte
  WHERE j.id = cte.id
  RETURNING `, maxParseAttempts) + prefixColumns("j.", importJobColumns)

type claimParams struct {
	status       model.ImportStatus
	syncStatus   *model.SyncStatus
	leaseSeconds int
}

func (r *ImportJobRepo) claimNext(ctx context.Context, p claimParams) (*model.ImportJob, error) {
	now := r.timeProvider.Now().UTC()
	lease := now.Add(time.Duration(p.leaseSeconds) * time.Second)

	var syncStatus *string
	if p.syncStatus != nil {
		s := string(*p.syncStatus)
		syncStatus = &s
	}

	var job *model.ImportJob
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			rows, qerr := tx.Query(ctx, claimNextSQL, p.status, now, lease, syncStatus)
			if qerr != nil {
				return fmt.Errorf("claim import job: %w", qerr)
			}
			defer rows.Close()

			if !rows.Next() {
				if rowsErr := rows.Err(); rowsErr != nil {
					return rowsErr
				}
				return model.ErrNoImportJobsAvailable
			}
			j, serr := scanImportJob(pgxRowAdapter{rows})
			if serr != nil {
				return fmt.Errorf("scan claimed job: %w", serr)
			}
			job = j
			return rows.Err()
		},
	})
	if err != nil {
		if errors.Is(err, model.ErrNoImportJobsAvailable) {
			return nil, model.ErrNoImportJobsAvailable
		}
		return nil, err
	}
	return job, nil
}

// ClaimNextUploaded claims the next confirmed upload awaiting parsing.
func (r *ImportJobRepo) ClaimNextUploaded(ctx context.Context, leaseSeconds int) (*model.ImportJob, error) {
	return r.claimNext(ctx, claimParams{status: model.ImportStatusUploaded, leaseSeconds: leaseSeconds})
}

// ClaimNextCommitting claims the next job accepted for commit.
func (r *ImportJobRepo) ClaimNextCommitting(ctx context.Context, leaseSeconds int) (*model.ImportJob, error) {
	return r.claimNext(ctx, claimParams{status: model.ImportStatusCommitting, leaseSeconds: leaseSeconds})
}

// ClaimNextSyncPending claims the next committed job awaiting post-commit sync.
func (r *ImportJobRepo) ClaimNextSyncPending(ctx context.Context, leaseSeconds int) (*model.ImportJob, error) {
	pending := model.SyncStatusPending
	return r.claimNext(ctx, claimParams{
		status:       model.ImportStatusCommitted,
		syncStatus:   &pending,
		leaseSeconds: leaseSeconds,
	})
}

// Heartbeat extends the claim lease on a job being processed.
func (r *ImportJobRepo) Heartbeat(ctx context.Context, id string, leaseSeconds int) (bool, error) {
	if leaseSeconds <= 0 {
		return false, errors.New("leaseSeconds must be positive")
	}
	now := r.timeProvider.Now().UTC()
	res, err := r.DB.ExecContext(ctx, `
      UPDATE import_jobs
      SET lease_expires_at = $2
      WHERE id = $1 AND lease_expires_at IS NOT NULL
    `, id, now.Add(time.Duration(leaseSeconds)*time.Second))
	if err != nil {
		return false, fmt.Errorf("heartbeat import job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("heartbeat rows affected: %w", err)
	}
	return affected > 0, nil
}

// PreviewReadyParams carries everything the parser writes alongside the
// uploaded → preview_ready transition.
type PreviewReadyParams struct {
	ID               string
	Summary          model.ImportSummary
	ImporterID       string
	ImporterVersion  string
	ContentHash      string
	DuplicateOfJobID *string
}

// MarkPreviewReady advances uploaded → preview_ready with the preview summary.
// Returns false when the job was not in uploaded (a concurrent parse already
// finished, or the job failed); the caller treats that as a benign no-op.
func (r *ImportJobRepo) MarkPreviewReady(ctx context.Context, p PreviewReadyParams) (bool, error) {
	now := r.timeProvider.Now().UTC()
	res, err := r.DB.ExecContext(ctx, `
      UPDATE import_jobs
      SET status = 'preview_ready',
          rows_total = $2,
          rows_valid = $3,
          rows_with_warnings = $4,
          rows_with_errors = $5,
          cars_to_create = $6,
          cars_to_update = $7,
          importer_id = $8,
          importer_version = $9,
          content_hash = $10,
          duplicate_of_job_id = $11,
          lease_expires_at = NULL,
          error_message = NULL,
          updated_at = $12
      WHERE id = $1 AND status = 'uploaded'
    `,
		p.ID,
		p.Summary.RowsTotal,
		p.Summary.RowsValid,
		p.Summary.RowsWithWarnings,
		p.Summary.RowsWithErrors,
		p.Summary.CarsToCreate,
		p.Summary.CarsToUpdate,
		p.ImporterID,
		p.ImporterVersion,
		nullableString(p.ContentHash),
		p.DuplicateOfJobID,
		now,
	)
	if err != nil {
		return false, fmt.Errorf("mark preview ready: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark preview ready rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}
	r.notifyJob(ctx, p.ID)
	return true, nil
}

// BeginCommit attempts the preview_ready → committing compare-and-set. A
// false result means another actor already moved the job; the commit must be
// rejected with no state change.
func (r *ImportJobRepo) BeginCommit(ctx context.Context, id string) (bool, error) {
	now := r.timeProvider.Now().UTC()
	res, err := r.DB.ExecContext(ctx, `
      UPDATE import_jobs
      SET status = 'committing',
          cars_processed = 0,
          lease_expires_at = NULL,
          updated_at = $2
      WHERE id = $1 AND status = 'preview_ready'
    `, id, now)
	if err != nil {
		return false, fmt.Errorf("begin commit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("begin commit rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}
	r.notify(ctx, QueueCommitting, id)
	return true, nil
}

// UpdateCommitProgress persists the processed-so-far count while the commit
// loop runs so observers can derive live progress before a terminal state.
func (r *ImportJobRepo) UpdateCommitProgress(ctx context.Context, id string, carsProcessed int) (bool, error) {
	now := r.timeProvider.Now().UTC()
	res, err := r.DB.ExecContext(ctx, `
      UPDATE import_jobs
      SET cars_processed = GREATEST(cars_processed, $2),
          updated_at = $3
      WHERE id = $1 AND status = 'committing'
    `, id, carsProcessed, now)
	if err != nil {
		return false, fmt.Errorf("update commit progress: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update commit progress rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}
	r.notifyJob(ctx, id)
	return true, nil
}

// CommitOutcome carries the final per-outcome counts of a finished commit loop.
type CommitOutcome struct {
	ID            string
	CarsCreated   int
	CarsUpdated   int
	CarsSkipped   int
	CarsProcessed int
}

// CompleteCommit advances committing → committed with the final counts and
// enqueues the post-commit sync.
func (r *ImportJobRepo) CompleteCommit(ctx context.Context, outcome CommitOutcome) (bool, error) {
	now := r.timeProvider.Now().UTC()
	res, err := r.DB.ExecContext(ctx, `
      UPDATE import_jobs
      SET status = 'committed',
          cars_created = $2,
          cars_updated = $3,
          cars_skipped = $4,
          cars_processed = $5,
          sync_status = 'pending',
          lease_expires_at = NULL,
          updated_at = $6
      WHERE id = $1 AND status = 'committing'
    `, outcome.ID, outcome.CarsCreated, outcome.CarsUpdated, outcome.CarsSkipped, outcome.CarsProcessed, now)
	if err != nil {
		return false, fmt.Errorf("complete commit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("complete commit rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}
	r.notify(ctx, QueueSync, outcome.ID)
	return true, nil
}

// FailParams groups parameters for Fail. CarsProcessed, when set, records the
// actual partial progress of an aborted commit; already-applied upserts stand.
type FailParams struct {
	ID            string
	Message       string
	CarsProcessed *int
}

// Fail moves any non-terminal job to failed with the authoritative error
// message the client must display. Returns false if the job already reached a
// terminal state.
func (r *ImportJobRepo) Fail(ctx context.Context, p FailParams) (bool, error) {
	now := r.timeProvider.Now().UTC()
	res, err := r.DB.ExecContext(ctx, `
      UPDATE import_jobs
      SET status = 'failed',
          error_message = $2,
          cars_processed = COALESCE($3, cars_processed),
          lease_expires_at = NULL,
          updated_at = $4
      WHERE id = $1 AND status NOT IN ('committed', 'failed')
    `, p.ID, p.Message, p.CarsProcessed, now)
	if err != nil {
		return false, fmt.Errorf("fail import job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("fail rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}
	r.notifyJob(ctx, p.ID)
	return true, nil
}

// SetSyncStatus updates the advisory post-commit sync flag. It never touches
// the job status: sync failure is surfaced separately, not as a job error.
func (r *ImportJobRepo) SetSyncStatus(ctx context.Context, id string, status model.SyncStatus) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("invalid sync status: %s", status)
	}
	now := r.timeProvider.Now().UTC()
	res, err := r.DB.ExecContext(ctx, `
      UPDATE import_jobs
      SET sync_status = $2,
          lease_expires_at = CASE WHEN $2 IN ('done', 'failed') THEN NULL ELSE lease_expires_at END,
          updated_at = $3
      WHERE id = $1 AND status = 'committed'
    `, id, status, now)
	if err != nil {
		return false, fmt.Errorf("set sync status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set sync status rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}
	r.notifyJob(ctx, id)
	return true, nil
}

// DuplicateLookupParams groups parameters for FindCommittedByContentHash.
type DuplicateLookupParams struct {
	OwnerID      string
	ContentHash  string
	ExcludeJobID string
}

// FindCommittedByContentHash finds a prior committed job of the same owner
// with byte-identical uploaded content, or nil when none exists.
func (r *ImportJobRepo) FindCommittedByContentHash(ctx context.Context, p DuplicateLookupParams) (*model.ImportJob, error) {
	row := r.DB.QueryRowContext(ctx, `
      SELECT `+importJobColumns+`
      FROM import_jobs
      WHERE owner_id = $1 AND content_hash = $2 AND status = 'committed' AND id <> $3
      ORDER BY created_at DESC
      LIMIT 1
    `, p.OwnerID, p.ContentHash, p.ExcludeJobID)

	job, err := scanImportJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find job by content hash: %w", err)
	}
	return job, nil
}

// FailStaleUploaded fails jobs stuck in uploaded longer than maxAge (upload
// trigger never fired or failed silently) and jobs whose parse attempts are
// exhausted. Returns the number of jobs failed.
func (r *ImportJobRepo) FailStaleUploaded(ctx context.Context, maxAge time.Duration) (int64, error) {
	now := r.timeProvider.Now().UTC()
	res, err := r.DB.ExecContext(ctx, `
      UPDATE import_jobs
      SET status = 'failed',
          error_message = CASE
            WHEN parse_attempts >= $3 THEN 'parsing failed repeatedly; import abandoned'
            ELSE 'import expired before the uploaded file was processed'
          END,
          lease_expires_at = NULL,
          updated_at = $1
      WHERE status = 'uploaded' AND (created_at < $2 OR parse_attempts >= $3)
    `, now, now.Add(-maxAge), maxParseAttempts)
	if err != nil {
		return 0, fmt.Errorf("fail stale uploaded jobs: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("fail stale rows affected: %w", err)
	}
	return affected, nil
}

// WaitForQueueNotification blocks until a job is announced on the given work
// queue (QueueUploaded, QueueCommitting, QueueSync) or the context ends.
func (r *ImportJobRepo) WaitForQueueNotification(ctx context.Context, queue string) error {
	return r.waitForNotification(ctx, "import_queue_"+queue)
}

// WaitForJobNotification blocks until the given job changes or the context ends.
func (r *ImportJobRepo) WaitForJobNotification(ctx context.Context, jobID string) error {
	return r.waitForNotification(ctx, "import_job_"+jobID)
}

func (r *ImportJobRepo) waitForNotification(ctx context.Context, channel string) error {
	conn, err := r.DB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get conn from pool: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			_ = cerr
		}
	}()

	quoted := pgx.Identifier{channel}.Sanitize()
	if _, execErr := conn.ExecContext(ctx, "LISTEN "+quoted); execErr != nil {
		return fmt.Errorf("listen %s: %w", channel, execErr)
	}
	defer func() {
		if _, execErr := conn.ExecContext(context.Background(), "UNLISTEN "+quoted); execErr != nil {
			_ = execErr
		}
	}()

	return conn.Raw(func(dc any) error {
		sc, ok := dc.(*stdlib.Conn)
		if !ok {
			return errors.New("unexpected driver connection type; expected *stdlib.Conn")
		}
		_, notifyErr := sc.Conn().WaitForNotification(ctx)
		return notifyErr
	})
}

// notify announces a job on a work queue channel and on its own channel.
// Best-effort: a lost notification is recovered by worker poll fallback.
func (r *ImportJobRepo) notify(ctx context.Context, queue, jobID string) {
	if _, err := r.DB.ExecContext(ctx,
		`SELECT pg_notify($1::text, $2::text)`, "import_queue_"+queue, jobID,
	); err != nil && r.logger != nil {
		r.logger.WarnContext(ctx, "queue notify failed", "queue", queue, "job_id", jobID, "error", err)
	}
	r.notifyJob(ctx, jobID)
}

func (r *ImportJobRepo) notifyJob(ctx context.Context, jobID string) {
	if _, err := r.DB.ExecContext(ctx,
		`SELECT pg_notify($1::text, $2::text)`, "import_job_"+jobID, jobID,
	); err != nil && r.logger != nil {
		r.logger.WarnContext(ctx, "job notify failed", "job_id", jobID, "error", err)
	}
}

// prefixColumns qualifies each column in a comma-separated list for use in a
// RETURNING clause of an aliased UPDATE.
func prefixColumns(prefix, columns string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = prefix + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}

func nullableString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
