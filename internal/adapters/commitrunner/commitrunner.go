// Package commitrunner hosts the worker pool that applies accepted previews
// to the authoritative vehicle store.
package commitrunner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/drivelot/inventory-api/internal/core"
	"github.com/drivelot/inventory-api/internal/data"
	"github.com/drivelot/inventory-api/internal/domain/model"
	"github.com/drivelot/inventory-api/internal/observability/metrics"
	"github.com/drivelot/inventory-api/internal/observability/statsd"
	"github.com/drivelot/inventory-api/internal/service"
)

// RunnerOptions configures the commit runner.
type RunnerOptions struct {
	DB     *sql.DB
	Logger *slog.Logger

	Lease         time.Duration // per-job lease; defaults to 5m (commits can be long)
	Concurrency   int           // worker goroutines; defaults to 1
	PollInterval  time.Duration // notification wait window; defaults to 30s
	ProgressEvery int           // rows between progress writes; defaults to service default

	// Optional dependency injections (useful for tests/decoupling)
	JobRepo     core.ImportJobRepository
	PreviewRepo core.PreviewRowRepository
	VehicleRepo core.VehicleRepository
	Metrics     statsd.Sink
}

// Runner claims committing jobs and runs their row loops.
type Runner struct {
	jobRepo      core.ImportJobRepository
	committer    *service.CommitService
	logger       *slog.Logger
	lease        time.Duration
	workers      int
	pollInterval time.Duration
	metrics      statsd.Sink
}

// NewRunner creates a new commit runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	jobRepo := opts.JobRepo
	previewRepo := opts.PreviewRepo
	vehicleRepo := opts.VehicleRepo
	if jobRepo == nil || previewRepo == nil || vehicleRepo == nil {
		if opts.DB == nil {
			return nil, errors.New("commit runner requires a DB handle or explicit repository implementations")
		}
		cfg := data.RepoConfig{Logger: logger}
		if jobRepo == nil {
			jobRepo = data.NewImportJobRepo(opts.DB, cfg)
		}
		if previewRepo == nil {
			previewRepo = data.NewPreviewRowRepo(opts.DB, cfg)
		}
		if vehicleRepo == nil {
			vehicleRepo = data.NewVehicleRepo(opts.DB, cfg)
		}
	}

	committer, err := service.NewCommitService(service.CommitServiceOptions{
		JobRepo:       jobRepo,
		PreviewRepo:   previewRepo,
		VehicleRepo:   vehicleRepo,
		Logger:        logger,
		ProgressEvery: opts.ProgressEvery,
	})
	if err != nil {
		return nil, fmt.Errorf("create commit service: %w", err)
	}

	lease := opts.Lease
	if lease <= 0 {
		lease = 5 * time.Minute
	}
	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	workers := opts.Concurrency
	if workers <= 0 {
		workers = 1
	}

	return &Runner{
		jobRepo:      jobRepo,
		committer:    committer,
		logger:       logger.With("component", "commit_runner"),
		lease:        lease,
		workers:      workers,
		pollInterval: pollInterval,
		metrics:      opts.Metrics,
	}, nil
}

// Run starts the commit workers and processes jobs until the context is
// cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting commit runner", "workers", r.workers, "lease", r.lease)

	group, gctx := errgroup.WithContext(ctx)
	for range r.workers {
		group.Go(func() error { return r.runWorkerLoop(gctx) })
	}
	return group.Wait()
}

func (r *Runner) runWorkerLoop(ctx context.Context) error {
	for ctx.Err() == nil {
		job, err := r.jobRepo.ClaimNextCommitting(ctx, int(r.lease.Seconds()))
		switch {
		case err == nil:
			r.processJob(ctx, job)
		case errors.Is(err, model.ErrNoImportJobsAvailable):
			if !r.waitForWork(ctx) {
				return nil
			}
		default:
			r.logger.ErrorContext(ctx, "failed to claim committing job", "error", err)
			return err
		}
	}
	return ctx.Err()
}

func (r *Runner) processJob(ctx context.Context, job *model.ImportJob) {
	r.logger.InfoContext(ctx, "committing import",
		"job_id", job.ID, "owner_id", job.OwnerID)

	stopHB := r.startHeartbeat(ctx, job.ID)
	defer stopHB()

	start := time.Now()
	if err := r.committer.ProcessCommit(ctx, job); err != nil {
		r.logger.ErrorContext(ctx, "commit processing failed", "job_id", job.ID, "error", err)
		metrics.EmitStage(r.metrics, metrics.StageMetric{
			Stage:    "commit",
			Result:   metrics.ResultError,
			Duration: time.Since(start),
		})
		return
	}
	metrics.EmitStage(r.metrics, metrics.StageMetric{
		Stage:    "commit",
		Result:   metrics.ResultSuccess,
		Duration: time.Since(start),
		Rows:     job.Summary.RowsTotal,
	})
}

func (r *Runner) startHeartbeat(ctx context.Context, jobID string) func() {
	interval := r.lease / 2
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if ok, err := r.jobRepo.Heartbeat(ctx, jobID, int(r.lease.Seconds())); err != nil {
					r.logger.ErrorContext(ctx, "heartbeat failed", "job_id", jobID, "error", err)
				} else if !ok {
					r.logger.WarnContext(ctx, "heartbeat not applied (claim may be lost)", "job_id", jobID)
				}
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return func() { close(done) }
}

func (r *Runner) waitForWork(ctx context.Context) bool {
	waitCtx, cancel := context.WithTimeout(ctx, r.pollInterval)
	defer cancel()

	err := r.jobRepo.WaitForQueueNotification(waitCtx, data.QueueCommitting)
	if err != nil && ctx.Err() != nil {
		return false
	}
	return true
}
