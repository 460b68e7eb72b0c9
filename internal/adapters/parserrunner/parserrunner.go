// Package parserrunner hosts the worker pool that parses uploaded
// spreadsheets into previews.
package parserrunner

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

// RunnerOptions configures the parser runner.
type RunnerOptions struct {
	DB        *sql.DB
	BlobStore core.BlobStore
	Logger    *slog.Logger

	Lease        time.Duration // per-job lease; defaults to 60s
	Concurrency  int           // worker goroutines; defaults to 1
	PollInterval time.Duration // notification wait window; defaults to 30s

	// Staleness reaper: jobs stuck in uploaded longer than MaxUploadAge are
	// failed so abandoned uploads don't linger forever.
	MaxUploadAge time.Duration // defaults to 24h
	ReapInterval time.Duration // defaults to 1h

	// Optional dependency injections (useful for tests/decoupling)
	JobRepo     core.ImportJobRepository
	PreviewRepo core.PreviewRowRepository
	VehicleRepo core.VehicleRepository
	Metrics     statsd.Sink
}

// Runner claims confirmed uploads and turns them into previews.
type Runner struct {
	jobRepo      core.ImportJobRepository
	parser       *service.ParseService
	logger       *slog.Logger
	lease        time.Duration
	workers      int
	pollInterval time.Duration
	maxUploadAge time.Duration
	reapInterval time.Duration
	metrics      statsd.Sink
}

// NewRunner creates a new parser runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BlobStore == nil {
		return nil, errors.New("parser runner requires a BlobStore")
	}

	jobRepo := opts.JobRepo
	previewRepo := opts.PreviewRepo
	vehicleRepo := opts.VehicleRepo
	if jobRepo == nil || previewRepo == nil || vehicleRepo == nil {
		if opts.DB == nil {
			return nil, errors.New("parser runner requires a DB handle or explicit repository implementations")
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

	parser, err := service.NewParseService(service.ParseServiceOptions{
		JobRepo:     jobRepo,
		PreviewRepo: previewRepo,
		VehicleRepo: vehicleRepo,
		BlobStore:   opts.BlobStore,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create parse service: %w", err)
	}

	return &Runner{
		jobRepo:      jobRepo,
		parser:       parser,
		logger:       logger.With("component", "parser_runner"),
		lease:        resolveDuration(opts.Lease, time.Minute),
		workers:      resolveWorkers(opts.Concurrency),
		pollInterval: resolveDuration(opts.PollInterval, 30*time.Second),
		maxUploadAge: resolveDuration(opts.MaxUploadAge, 24*time.Hour),
		reapInterval: resolveDuration(opts.ReapInterval, time.Hour),
		metrics:      opts.Metrics,
	}, nil
}

// Run starts the parser workers and the staleness reaper until the context
// is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting parser runner",
		"workers", r.workers, "lease", r.lease, "max_upload_age", r.maxUploadAge)

	group, gctx := errgroup.WithContext(ctx)
	for range r.workers {
		group.Go(func() error { return r.runWorkerLoop(gctx) })
	}
	group.Go(func() error { return r.runReaperLoop(gctx) })
	return group.Wait()
}

func (r *Runner) runWorkerLoop(ctx context.Context) error {
	for ctx.Err() == nil {
		job, err := r.jobRepo.ClaimNextUploaded(ctx, int(r.lease.Seconds()))
		switch {
		case err == nil:
			r.processJob(ctx, job)
		case errors.Is(err, model.ErrNoImportJobsAvailable):
			if !waitForWork(ctx, r.jobRepo, data.QueueUploaded, r.pollInterval) {
				return nil
			}
		default:
			r.logger.ErrorContext(ctx, "failed to claim uploaded job", "error", err)
			return err
		}
	}
	return ctx.Err()
}

func (r *Runner) processJob(ctx context.Context, job *model.ImportJob) {
	r.logger.InfoContext(ctx, "parsing upload",
		"job_id", job.ID, "file_name", job.Source.FileName)

	stopHB := startHeartbeat(ctx, r.jobRepo, r.logger, job.ID, r.lease)
	defer stopHB()

	start := time.Now()
	if err := r.parser.ProcessUpload(ctx, job); err != nil {
		r.logger.ErrorContext(ctx, "upload processing failed", "job_id", job.ID, "error", err)
		metrics.EmitStage(r.metrics, metrics.StageMetric{
			Stage:    "parse",
			Result:   metrics.ResultError,
			Duration: time.Since(start),
		})
		return
	}
	metrics.EmitStage(r.metrics, metrics.StageMetric{
		Stage:    "parse",
		Result:   metrics.ResultSuccess,
		Duration: time.Since(start),
	})
}

func (r *Runner) runReaperLoop(ctx context.Context) error {
	ticker := time.NewTicker(r.reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			reaped, err := r.jobRepo.FailStaleUploaded(ctx, r.maxUploadAge)
			if err != nil {
				r.logger.ErrorContext(ctx, "stale upload reap failed", "error", err)
				continue
			}
			if reaped > 0 {
				r.logger.InfoContext(ctx, "reaped stale uploads", "count", reaped)
				metrics.EmitStaleReaped(r.metrics, reaped)
			}
		}
	}
}

// waitForWork blocks until the queue announces a job, the poll window lapses
// (lost notifications are recovered by the next claim attempt), or the
// context ends. Returns false only on context cancellation.
func waitForWork(ctx context.Context, repo core.ImportJobRepository, queue string, window time.Duration) bool {
	waitCtx, cancel := context.WithTimeout(ctx, window)
	defer cancel()

	err := repo.WaitForQueueNotification(waitCtx, queue)
	if err != nil && ctx.Err() != nil {
		return false
	}
	return true
}

// startHeartbeat extends the claim lease on a ticker until the returned stop
// function runs.
func startHeartbeat(
	ctx context.Context,
	repo core.ImportJobRepository,
	logger *slog.Logger,
	jobID string,
	lease time.Duration,
) func() {
	interval := lease / 2
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
				if ok, err := repo.Heartbeat(ctx, jobID, int(lease.Seconds())); err != nil {
					logger.ErrorContext(ctx, "heartbeat failed", "job_id", jobID, "error", err)
				} else if !ok {
					logger.WarnContext(ctx, "heartbeat not applied (claim may be lost)", "job_id", jobID)
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

func resolveDuration(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}

func resolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}
	return 1
}
