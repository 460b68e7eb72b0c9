package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/drivelot/inventory-api/internal/core"
	"github.com/drivelot/inventory-api/internal/data"
	"github.com/drivelot/inventory-api/internal/domain/model"
)

// SyncServiceOptions groups dependencies for SyncService.
type SyncServiceOptions struct {
	JobRepo      core.ImportJobRepository // Required: import job store
	VehicleRepo  core.VehicleRepository
	ListingRepo  core.ListingRepository
	Cache        core.CacheRepository // Optional: offline snapshot cache
	Logger       *slog.Logger
	TimeProvider data.TimeProvider
	SnapshotTTL  time.Duration // Optional: cached snapshot lifetime (default 24h)
}

// SyncService refreshes derived read surfaces after a commit: the public
// listing projections and the owner's cached offline snapshot. Everything
// here is best-effort; a sync failure marks sync_status but never disturbs
// the committed job itself.
type SyncService struct {
	jobRepo      core.ImportJobRepository
	vehicleRepo  core.VehicleRepository
	listingRepo  core.ListingRepository
	cache        core.CacheRepository
	timeProvider data.TimeProvider
	snapshotTTL  time.Duration
	logger       *slog.Logger
}

// NewSyncService constructs a new SyncService.
func NewSyncService(opts SyncServiceOptions) (*SyncService, error) {
	if opts.JobRepo == nil {
		return nil, errors.New("ImportJobRepository is required")
	}
	if opts.VehicleRepo == nil {
		return nil, errors.New("VehicleRepository is required")
	}
	if opts.ListingRepo == nil {
		return nil, errors.New("ListingRepository is required")
	}

	timeProvider := opts.TimeProvider
	if timeProvider == nil {
		timeProvider = &data.RealTimeProvider{}
	}

	snapshotTTL := opts.SnapshotTTL
	if snapshotTTL <= 0 {
		snapshotTTL = 24 * time.Hour
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "sync_service")
	}

	return &SyncService{
		jobRepo:      opts.JobRepo,
		vehicleRepo:  opts.VehicleRepo,
		listingRepo:  opts.ListingRepo,
		cache:        opts.Cache,
		timeProvider: timeProvider,
		snapshotTTL:  snapshotTTL,
		logger:       logger,
	}, nil
}

// ProcessSync rebuilds the owner's derived surfaces for one claimed job.
func (s *SyncService) ProcessSync(ctx context.Context, job *model.ImportJob) error {
	if _, err := s.jobRepo.SetSyncStatus(ctx, job.ID, model.SyncStatusInProgress); err != nil {
		return fmt.Errorf("mark sync in progress: %w", err)
	}

	if err := s.syncOwner(ctx, job.OwnerID); err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "post-commit sync failed",
				"job_id", job.ID, "owner_id", job.OwnerID, "error", err)
		}
		if _, serr := s.jobRepo.SetSyncStatus(ctx, job.ID, model.SyncStatusFailed); serr != nil {
			return fmt.Errorf("mark sync failed: %w", serr)
		}
		return nil
	}

	if _, err := s.jobRepo.SetSyncStatus(ctx, job.ID, model.SyncStatusDone); err != nil {
		return fmt.Errorf("mark sync done: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "post-commit sync done",
			"job_id", job.ID, "owner_id", job.OwnerID)
	}
	return nil
}

// syncPageSize is the vehicle page walked per query while rebuilding an
// owner's surfaces. Dealer catalogs run into the thousands, so the walk
// pages until a short page rather than trusting any single-list cap.
const syncPageSize = 500

// syncOwner projects every published vehicle of the owner into the public
// listings, drops projections of unpublishable ones, and refreshes the
// cached offline snapshot.
func (s *SyncService) syncOwner(ctx context.Context, ownerID string) error {
	syncedAt := s.timeProvider.Now().UTC()
	var published []*model.Listing

	for offset := 0; ; offset += syncPageSize {
		vehicles, err := s.vehicleRepo.ListByOwner(ctx, model.VehicleListOptions{
			OwnerID: ownerID,
			Limit:   syncPageSize,
			Offset:  offset,
		})
		if err != nil {
			return fmt.Errorf("list owner vehicles: %w", err)
		}

		for _, vehicle := range vehicles {
			listing, ok := model.ListingFromVehicle(vehicle, syncedAt)
			if !ok {
				if derr := s.listingRepo.DeleteByVehicle(ctx, vehicle.ID); derr != nil {
					return fmt.Errorf("delete projection for %s: %w", vehicle.ID, derr)
				}
				continue
			}
			if uerr := s.listingRepo.Upsert(ctx, listing); uerr != nil {
				return fmt.Errorf("upsert projection for %s: %w", vehicle.ID, uerr)
			}
			published = append(published, listing)
		}

		if len(vehicles) < syncPageSize {
			break
		}
	}

	if s.cache != nil {
		if cerr := s.cache.StoreOwnerListings(ctx, ownerID, published, s.snapshotTTL); cerr != nil {
			// The cache is a nicety on top of a nicety. Log and move on.
			if s.logger != nil {
				s.logger.WarnContext(ctx, "offline snapshot refresh failed",
					"owner_id", ownerID, "error", cerr)
			}
		}
	}
	return nil
}
