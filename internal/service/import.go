package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/drivelot/inventory-api/internal/core"
	"github.com/drivelot/inventory-api/internal/data"
	"github.com/drivelot/inventory-api/internal/domain/importjob"
	"github.com/drivelot/inventory-api/internal/domain/model"
	apperrors "github.com/drivelot/inventory-api/internal/errors"
)

// ImportServiceOptions groups dependencies for ImportService.
type ImportServiceOptions struct {
	JobRepo         core.ImportJobRepository   // Required: import job store
	PreviewRepo     core.PreviewRowRepository  // Required: preview row store
	BlobStore       core.BlobStore             // Required: uploaded spreadsheet storage
	Logger          *slog.Logger               // Optional: structured logger
	TimeProvider    data.TimeProvider          // Optional: clock override for tests
	Notifier        importjob.Notifier         // Optional: custom job change notifier
	NotifierOptions importjob.NotifierOptions  // Optional: configure default notifier behaviour
	UploadURLTTL    time.Duration              // Optional: presigned PUT lifetime (default 15m)
}

// ImportService drives the client-facing half of the import pipeline: job
// creation, upload confirmation, the commit decision, and job observation.
// The asynchronous stages live in ParseService, CommitService and SyncService.
type ImportService struct {
	jobRepo      core.ImportJobRepository
	previewRepo  core.PreviewRowRepository
	blobStore    core.BlobStore
	notifier     importjob.Notifier
	timeProvider data.TimeProvider
	uploadURLTTL time.Duration
	logger       *slog.Logger
}

// NewImportService constructs a new ImportService.
func NewImportService(opts ImportServiceOptions) (*ImportService, error) {
	if opts.JobRepo == nil {
		return nil, errors.New("ImportJobRepository is required")
	}
	if opts.PreviewRepo == nil {
		return nil, errors.New("PreviewRowRepository is required")
	}
	if opts.BlobStore == nil {
		return nil, errors.New("BlobStore is required")
	}

	notifier := opts.Notifier
	if notifier == nil {
		options := opts.NotifierOptions
		if options.Waiter == nil {
			options.Waiter = opts.JobRepo
		}
		var err error
		notifier, err = importjob.NewNotifier(options)
		if err != nil {
			return nil, fmt.Errorf("create job notifier: %w", err)
		}
	}

	timeProvider := opts.TimeProvider
	if timeProvider == nil {
		timeProvider = &data.RealTimeProvider{}
	}

	uploadURLTTL := opts.UploadURLTTL
	if uploadURLTTL <= 0 {
		uploadURLTTL = 15 * time.Minute
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "import_service")
	}

	return &ImportService{
		jobRepo:      opts.JobRepo,
		previewRepo:  opts.PreviewRepo,
		blobStore:    opts.BlobStore,
		notifier:     notifier,
		timeProvider: timeProvider,
		uploadURLTTL: uploadURLTTL,
		logger:       logger,
	}, nil
}

// MustNewImportService constructs a new ImportService and panics on error.
// Use this when you're certain the options are valid (e.g., in main.go).
func MustNewImportService(opts ImportServiceOptions) *ImportService {
	svc, err := NewImportService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create ImportService: %v", err))
	}
	return svc
}

// UploadTarget tells the client where to PUT the spreadsheet bytes.
type UploadTarget struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateImportJob opens a new import attempt. It presigns the upload
// destination first; if the destination cannot be prepared no job row is
// created, and if the insert fails the presigned URL simply expires unused.
func (s *ImportService) CreateImportJob(
	ctx context.Context,
	req *model.CreateImportJobRequest,
) (*model.ImportJob, *UploadTarget, error) {
	if req == nil {
		return nil, nil, apperrors.Validation("request body is required")
	}
	if err := req.Validate(); err != nil {
		return nil, nil, apperrors.Validation(err.Error())
	}

	jobID := uuid.NewString()
	key := fmt.Sprintf("imports/%s/%s", jobID, req.FileName)

	putURL, err := s.blobStore.PresignedPut(ctx, core.PresignUploadParams{
		Key:    key,
		Expiry: s.uploadURLTTL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("presign upload: %w", err)
	}

	job, err := s.jobRepo.Create(ctx, data.CreateImportJobParams{
		ID:  jobID,
		Req: req,
		Source: model.ImportSource{
			StoragePath: key,
			FileName:    req.FileName,
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create import job: %w", err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "import job created",
			"job_id", job.ID,
			"owner_id", job.OwnerID,
			"file_name", req.FileName,
		)
	}

	return job, &UploadTarget{
		Key:       key,
		URL:       putURL.String(),
		ExpiresAt: s.timeProvider.Now().UTC().Add(s.uploadURLTTL),
	}, nil
}

// ConfirmUpload records that the client finished the byte transfer. The
// uploaded object must actually exist; confirming an empty key is rejected so
// the parser never claims a job with nothing behind it. Safe to repeat.
func (s *ImportService) ConfirmUpload(ctx context.Context, jobID string) (*model.ImportJob, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != model.ImportStatusUploaded {
		// Already past upload; the confirm is a stale retry.
		return job, nil
	}

	if _, err := s.blobStore.Stat(ctx, job.Source.StoragePath); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Validation("uploaded file not found; complete the upload first")
		}
		return nil, err
	}

	if _, err := s.jobRepo.ConfirmUpload(ctx, jobID); err != nil {
		return nil, fmt.Errorf("confirm upload: %w", err)
	}
	return s.getJob(ctx, jobID)
}

// GetJob returns one job snapshot.
func (s *ImportService) GetJob(ctx context.Context, jobID string) (*model.ImportJob, error) {
	return s.getJob(ctx, jobID)
}

// ListJobs returns an owner's import history, newest first.
func (s *ImportService) ListJobs(ctx context.Context, opts model.ImportJobListOptions) ([]*model.ImportJob, error) {
	jobs, err := s.jobRepo.ListByOwner(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list import jobs: %w", err)
	}
	return jobs, nil
}

// LoadPreviewRows returns the parsed preview for a job. Only meaningful once
// the job reached preview_ready; earlier states return an empty set.
func (s *ImportService) LoadPreviewRows(ctx context.Context, jobID string) ([]*model.PreviewRow, error) {
	if _, err := s.getJob(ctx, jobID); err != nil {
		return nil, err
	}
	rows, err := s.previewRepo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("load preview rows: %w", err)
	}
	return rows, nil
}

// CommitImport accepts the preview and moves the job into committing. The
// transition is a synchronous compare-and-set: exactly one caller wins, every
// other concurrent commit of the same job is rejected with a conflict and no
// state change. The row-by-row work happens asynchronously in CommitService.
func (s *ImportService) CommitImport(ctx context.Context, jobID string) (*model.ImportJob, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	ok, err := s.jobRepo.BeginCommit(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("begin commit: %w", err)
	}
	if !ok {
		// Re-read for an accurate conflict message; the CAS already decided.
		if current, gerr := s.getJob(ctx, jobID); gerr == nil {
			job = current
		}
		return nil, apperrors.Conflictf("cannot commit job in status %s", job.Status)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "import commit accepted",
			"job_id", jobID,
			"owner_id", job.OwnerID,
			"cars_to_create", job.Summary.CarsToCreate,
			"cars_to_update", job.Summary.CarsToUpdate,
		)
	}
	return s.getJob(ctx, jobID)
}

// Close stops all job observation listen loops.
func (s *ImportService) Close() {
	s.notifier.StopAll()
}

func (s *ImportService) getJob(ctx context.Context, jobID string) (*model.ImportJob, error) {
	if _, err := uuid.Parse(jobID); err != nil {
		return nil, apperrors.Validation("job id must be a valid UUID")
	}
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if errors.Is(err, data.ErrImportJobNotFound) {
		return nil, apperrors.NotFound("import job")
	}
	if err != nil {
		return nil, fmt.Errorf("get import job: %w", err)
	}
	return job, nil
}

// JobWatch streams monotonic job snapshots to one observer. Updates never
// move backward through the lifecycle even when reads race: stale snapshots
// are filtered by status rank and update time.
type JobWatch struct {
	Updates <-chan *model.ImportJob
	stop    func()
}

// Stop ends the watch and releases its notifier subscription.
func (w *JobWatch) Stop() {
	w.stop()
}

// ObserveJob starts streaming snapshots of a job until it reaches a terminal
// state, the context ends, or Stop is called. The current snapshot is always
// delivered first.
func (s *ImportService) ObserveJob(ctx context.Context, jobID string) (*JobWatch, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	unsub, wakeups := s.notifier.Subscribe(jobID)
	updates := make(chan *model.ImportJob, 1)
	watchCtx, cancel := context.WithCancel(ctx)

	go func() {
		defer close(updates)
		defer unsub()
		defer cancel()

		last := job
		updates <- job
		if job.Status.Terminal() {
			return
		}

		for {
			select {
			case <-watchCtx.Done():
				return
			case _, open := <-wakeups:
				if !open {
					return
				}
			}

			current, gerr := s.jobRepo.GetByID(watchCtx, jobID)
			if gerr != nil {
				if watchCtx.Err() != nil {
					return
				}
				if s.logger != nil {
					s.logger.WarnContext(watchCtx, "job watch refresh failed",
						"job_id", jobID, "error", gerr)
				}
				continue
			}
			if !supersedes(current, last) {
				continue
			}
			last = current

			select {
			case updates <- current:
			case <-watchCtx.Done():
				return
			}
			if current.Status.Terminal() {
				return
			}
		}
	}()

	return &JobWatch{Updates: updates, stop: cancel}, nil
}

// supersedes reports whether next is a strictly newer observation than prev.
// Equal-rank snapshots pass only when something observable changed, which
// lets in-flight progress updates through while dropping stale re-reads.
func supersedes(next, prev *model.ImportJob) bool {
	nr, pr := importjob.Rank(next.Status), importjob.Rank(prev.Status)
	if nr != pr {
		return nr > pr
	}
	return next.UpdatedAt.After(prev.UpdatedAt)
}
