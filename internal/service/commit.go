package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/drivelot/inventory-api/internal/core"
	"github.com/drivelot/inventory-api/internal/data"
	"github.com/drivelot/inventory-api/internal/domain/model"
)

// CommitServiceOptions groups dependencies for CommitService.
type CommitServiceOptions struct {
	JobRepo       core.ImportJobRepository // Required: import job store
	PreviewRepo   core.PreviewRowRepository
	VehicleRepo   core.VehicleRepository
	Logger        *slog.Logger
	ProgressEvery int // Optional: rows between progress writes (default 25)
}

// CommitService applies an accepted preview to the authoritative vehicle
// store. It is the only writer of the committing → committed transition.
type CommitService struct {
	jobRepo       core.ImportJobRepository
	previewRepo   core.PreviewRowRepository
	vehicleRepo   core.VehicleRepository
	progressEvery int
	logger        *slog.Logger
}

// NewCommitService constructs a new CommitService.
func NewCommitService(opts CommitServiceOptions) (*CommitService, error) {
	if opts.JobRepo == nil {
		return nil, errors.New("ImportJobRepository is required")
	}
	if opts.PreviewRepo == nil {
		return nil, errors.New("PreviewRowRepository is required")
	}
	if opts.VehicleRepo == nil {
		return nil, errors.New("VehicleRepository is required")
	}

	progressEvery := opts.ProgressEvery
	if progressEvery <= 0 {
		progressEvery = 25
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "commit_service")
	}

	return &CommitService{
		jobRepo:       opts.JobRepo,
		previewRepo:   opts.PreviewRepo,
		vehicleRepo:   opts.VehicleRepo,
		progressEvery: progressEvery,
		logger:        logger,
	}, nil
}

// ProcessCommit runs the row loop for one claimed committing job.
//
// The loop is row-atomic, not job-atomic: every upsert that succeeded stays
// applied even if a later row aborts the job. Error rows never reach the
// vehicle store and count toward no commit total; among valid rows sharing a
// dedupe key the first wins and the rest are counted skipped, so
// created+updated+skipped always equals the error-free row count.
func (s *CommitService) ProcessCommit(ctx context.Context, job *model.ImportJob) error {
	rows, err := s.previewRepo.ListByJob(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("load preview rows: %w", err)
	}

	var created, updated, skipped, processed int
	applied := make(map[string]bool)

	for _, row := range rows {
		// On shutdown the job is left in committing for another worker to
		// re-claim after the lease expires; the loop recomputes everything
		// and the upserts merge, so a rerun converges.
		if ctx.Err() != nil {
			return ctx.Err()
		}

		// Error rows were never commit-eligible; they contribute to no
		// commit counter.
		if row.HasErrors() {
			continue
		}
		if row.DedupeKey == "" || applied[row.DedupeKey] {
			skipped++
			processed++
			continue
		}

		_, outcome, uerr := s.vehicleRepo.UpsertByDedupeKey(ctx, &model.UpsertVehicleRequest{
			OwnerID:   job.OwnerID,
			DedupeKey: row.DedupeKey,
			Record:    row.Normalized,
		})
		if uerr != nil {
			// Mid-loop failure: fail the job with real progress, no rollback.
			if s.logger != nil {
				s.logger.ErrorContext(ctx, "vehicle upsert failed mid-commit",
					"job_id", job.ID, "row_index", row.RowIndex, "error", uerr)
			}
			return s.abort(ctx, job.ID, processed,
				fmt.Sprintf("commit stopped at row %d: %v", row.RowIndex, uerr))
		}

		applied[row.DedupeKey] = true
		processed++
		switch outcome {
		case model.UpsertCreated:
			created++
		case model.UpsertUpdated:
			updated++
		case model.UpsertSkipped:
			skipped++
		}

		if processed%s.progressEvery == 0 {
			if _, perr := s.jobRepo.UpdateCommitProgress(ctx, job.ID, processed); perr != nil && s.logger != nil {
				s.logger.WarnContext(ctx, "progress write failed",
					"job_id", job.ID, "cars_processed", processed, "error", perr)
			}
		}
	}

	ok, err := s.jobRepo.CompleteCommit(ctx, data.CommitOutcome{
		ID:            job.ID,
		CarsCreated:   created,
		CarsUpdated:   updated,
		CarsSkipped:   skipped,
		CarsProcessed: processed,
	})
	if err != nil {
		return fmt.Errorf("complete commit: %w", err)
	}
	if !ok && s.logger != nil {
		s.logger.WarnContext(ctx, "commit completion lost; job already moved", "job_id", job.ID)
	}
	if ok && s.logger != nil {
		s.logger.InfoContext(ctx, "import committed",
			"job_id", job.ID,
			"owner_id", job.OwnerID,
			"cars_created", created,
			"cars_updated", updated,
			"cars_skipped", skipped,
			"cars_processed", processed,
		)
	}
	return nil
}

func (s *CommitService) abort(ctx context.Context, jobID string, processed int, message string) error {
	if _, err := s.jobRepo.Fail(ctx, data.FailParams{
		ID:            jobID,
		Message:       message,
		CarsProcessed: &processed,
	}); err != nil {
		return fmt.Errorf("fail import job: %w", err)
	}
	return nil
}
