package core

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/drivelot/inventory-api/internal/data"
	"github.com/drivelot/inventory-api/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// ImportJobRepository defines the interface for import job store operations.
type ImportJobRepository interface {
	Create(ctx context.Context, p data.CreateImportJobParams) (*model.ImportJob, error)
	GetByID(ctx context.Context, id string) (*model.ImportJob, error)
	ListByOwner(ctx context.Context, opts model.ImportJobListOptions) ([]*model.ImportJob, error)
	ConfirmUpload(ctx context.Context, id string) (bool, error)
	ClaimNextUploaded(ctx context.Context, leaseSeconds int) (*model.ImportJob, error)
	ClaimNextCommitting(ctx context.Context, leaseSeconds int) (*model.ImportJob, error)
	ClaimNextSyncPending(ctx context.Context, leaseSeconds int) (*model.ImportJob, error)
	Heartbeat(ctx context.Context, id string, leaseSeconds int) (bool, error)
	MarkPreviewReady(ctx context.Context, p data.PreviewReadyParams) (bool, error)
	BeginCommit(ctx context.Context, id string) (bool, error)
	UpdateCommitProgress(ctx context.Context, id string, carsProcessed int) (bool, error)
	CompleteCommit(ctx context.Context, outcome data.CommitOutcome) (bool, error)
	Fail(ctx context.Context, p data.FailParams) (bool, error)
	SetSyncStatus(ctx context.Context, id string, status model.SyncStatus) (bool, error)
	FindCommittedByContentHash(ctx context.Context, p data.DuplicateLookupParams) (*model.ImportJob, error)
	FailStaleUploaded(ctx context.Context, maxAge time.Duration) (int64, error)
	WaitForQueueNotification(ctx context.Context, queue string) error
	WaitForJobNotification(ctx context.Context, jobID string) error
}

// PreviewRowRepository defines the interface for parsed preview row storage.
type PreviewRowRepository interface {
	ReplaceForJob(ctx context.Context, jobID string, rows []*model.PreviewRow) error
	ListByJob(ctx context.Context, jobID string) ([]*model.PreviewRow, error)
	CountByJob(ctx context.Context, jobID string) (int, error)
}

// VehicleRepository defines the interface for authoritative vehicle records.
type VehicleRepository interface {
	UpsertByDedupeKey(ctx context.Context, req *model.UpsertVehicleRequest) (*model.Vehicle, model.UpsertOutcome, error)
	GetByID(ctx context.Context, id string) (*model.Vehicle, error)
	GetByDedupeKey(ctx context.Context, ownerID, dedupeKey string) (*model.Vehicle, error)
	ExistingDedupeKeys(ctx context.Context, ownerID string, keys []string) (map[string]bool, error)
	ListByOwner(ctx context.Context, opts model.VehicleListOptions) ([]*model.Vehicle, error)
}

// ListingRepository defines the interface for public listing projections.
type ListingRepository interface {
	Upsert(ctx context.Context, listing *model.Listing) error
	DeleteByVehicle(ctx context.Context, vehicleID string) error
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]*model.Listing, error)
}

// CacheRepository defines the interface for the offline listing snapshot cache.
type CacheRepository interface {
	StoreOwnerListings(ctx context.Context, ownerID string, listings []*model.Listing, ttl time.Duration) error
	GetOwnerListings(ctx context.Context, ownerID string) ([]*model.Listing, error)
	InvalidateOwnerListings(ctx context.Context, ownerID string) (bool, error)
	Health(ctx context.Context) error
}

// PresignUploadParams groups parameters for BlobStore.PresignedPut.
type PresignUploadParams struct {
	Key         string
	ContentType string
	Expiry      time.Duration
}

// BlobStore defines the interface for uploaded spreadsheet storage.
type BlobStore interface {
	PresignedPut(ctx context.Context, p PresignUploadParams) (*url.URL, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Stat(ctx context.Context, key string) (*BlobInfo, error)
}

// BlobInfo describes a stored object.
type BlobInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}
