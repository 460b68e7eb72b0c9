// Package syncrunner hosts the worker that refreshes derived read surfaces
// after a commit: public listing projections and the Redis offline snapshot.
package syncrunner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/drivelot/inventory-api/internal/core"
	"github.com/drivelot/inventory-api/internal/data"
	"github.com/drivelot/inventory-api/internal/domain/model"
	"github.com/drivelot/inventory-api/internal/observability/metrics"
	"github.com/drivelot/inventory-api/internal/observability/statsd"
	"github.com/drivelot/inventory-api/internal/service"
)

// RunnerOptions configures the sync runner.
type RunnerOptions struct {
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger

	Lease        time.Duration // per-job lease; defaults to 2m
	Concurrency  int           // worker goroutines; defaults to 1
	PollInterval time.Duration // notification wait window; defaults to 30s
	SnapshotTTL  time.Duration // cached snapshot lifetime; defaults to service default

	// Optional dependency injections (useful for tests/decoupling)
	JobRepo     core.ImportJobRepository
	VehicleRepo core.VehicleRepository
	ListingRepo core.ListingRepository
	CacheRepo   core.CacheRepository
	Metrics     statsd.Sink
}

// Runner claims committed jobs with pending sync and rebuilds their owner's
// derived surfaces.
type Runner struct {
	jobRepo      core.ImportJobRepository
	syncer       *service.SyncService
	logger       *slog.Logger
	lease        time.Duration
	workers      int
	pollInterval time.Duration
	metrics      statsd.Sink
}

// NewRunner creates a new sync runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	jobRepo := opts.JobRepo
	vehicleRepo := opts.VehicleRepo
	listingRepo := opts.ListingRepo
	if jobRepo == nil || vehicleRepo == nil || listingRepo == nil {
		if opts.DB == nil {
			return nil, errors.New("sync runner requires a DB handle or explicit repository implementations")
		}
		cfg := data.RepoConfig{Logger: logger}
		if jobRepo == nil {
			jobRepo = data.NewImportJobRepo(opts.DB, cfg)
		}
		if vehicleRepo == nil {
			vehicleRepo = data.NewVehicleRepo(opts.DB, cfg)
		}
		if listingRepo == nil {
			listingRepo = data.NewListingRepo(opts.DB, cfg)
		}
	}

	cacheRepo := opts.CacheRepo
	if cacheRepo == nil && opts.RedisClient != nil {
		cacheRepo = data.NewRedisCacheRepo(opts.RedisClient)
	}

	syncer, err := service.NewSyncService(service.SyncServiceOptions{
		JobRepo:     jobRepo,
		VehicleRepo: vehicleRepo,
		ListingRepo: listingRepo,
		Cache:       cacheRepo,
		Logger:      logger,
		SnapshotTTL: opts.SnapshotTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("create sync service: %w", err)
	}

	lease := opts.Lease
	if lease <= 0 {
		lease = 2 * time.Minute
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
		syncer:       syncer,
		logger:       logger.With("component", "sync_runner"),
		lease:        lease,
		workers:      workers,
		pollInterval: pollInterval,
		metrics:      opts.Metrics,
	}, nil
}

// Run starts the sync workers and processes jobs until the context is
// cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting sync runner", "workers", r.workers, "lease", r.lease)

	group, gctx := errgroup.WithContext(ctx)
	for range r.workers {
		group.Go(func() error { return r.runWorkerLoop(gctx) })
	}
	return group.Wait()
}

func (r *Runner) runWorkerLoop(ctx context.Context) error {
	for ctx.Err() == nil {
		job, err := r.jobRepo.ClaimNextSyncPending(ctx, int(r.lease.Seconds()))
		switch {
		case err == nil:
			r.processJob(ctx, job)
		case errors.Is(err, model.ErrNoImportJobsAvailable):
			if !r.waitForWork(ctx) {
				return nil
			}
		default:
			r.logger.ErrorContext(ctx, "failed to claim sync-pending job", "error", err)
			return err
		}
	}
	return ctx.Err()
}

func (r *Runner) processJob(ctx context.Context, job *model.ImportJob) {
	r.logger.InfoContext(ctx, "syncing derived surfaces",
		"job_id", job.ID, "owner_id", job.OwnerID)

	start := time.Now()
	if err := r.syncer.ProcessSync(ctx, job); err != nil {
		r.logger.ErrorContext(ctx, "sync processing failed", "job_id", job.ID, "error", err)
		metrics.EmitStage(r.metrics, metrics.StageMetric{
			Stage:    "sync",
			Result:   metrics.ResultError,
			Duration: time.Since(start),
		})
		return
	}
	metrics.EmitStage(r.metrics, metrics.StageMetric{
		Stage:    "sync",
		Result:   metrics.ResultSuccess,
		Duration: time.Since(start),
	})
}

func (r *Runner) waitForWork(ctx context.Context) bool {
	waitCtx, cancel := context.WithTimeout(ctx, r.pollInterval)
	defer cancel()

	err := r.jobRepo.WaitForQueueNotification(waitCtx, data.QueueSync)
	if err != nil && ctx.Err() != nil {
		return false
	}
	return true
}
