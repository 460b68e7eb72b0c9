package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/drivelot/inventory-api/internal/core"
	"github.com/drivelot/inventory-api/internal/data"
	"github.com/drivelot/inventory-api/internal/domain/model"
	"github.com/drivelot/inventory-api/internal/importer"
)

// ParseServiceOptions groups dependencies for ParseService.
type ParseServiceOptions struct {
	JobRepo      core.ImportJobRepository // Required: import job store
	PreviewRepo  core.PreviewRowRepository
	VehicleRepo  core.VehicleRepository
	BlobStore    core.BlobStore
	Logger       *slog.Logger
	TimeProvider data.TimeProvider
}

// ParseService turns an uploaded spreadsheet into a validated preview. It is
// the only writer of the uploaded → preview_ready transition.
type ParseService struct {
	jobRepo      core.ImportJobRepository
	previewRepo  core.PreviewRowRepository
	vehicleRepo  core.VehicleRepository
	blobStore    core.BlobStore
	timeProvider data.TimeProvider
	logger       *slog.Logger
}

// NewParseService constructs a new ParseService.
func NewParseService(opts ParseServiceOptions) (*ParseService, error) {
	if opts.JobRepo == nil {
		return nil, errors.New("ImportJobRepository is required")
	}
	if opts.PreviewRepo == nil {
		return nil, errors.New("PreviewRowRepository is required")
	}
	if opts.VehicleRepo == nil {
		return nil, errors.New("VehicleRepository is required")
	}
	if opts.BlobStore == nil {
		return nil, errors.New("BlobStore is required")
	}

	timeProvider := opts.TimeProvider
	if timeProvider == nil {
		timeProvider = &data.RealTimeProvider{}
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "parse_service")
	}

	return &ParseService{
		jobRepo:      opts.JobRepo,
		previewRepo:  opts.PreviewRepo,
		vehicleRepo:  opts.VehicleRepo,
		blobStore:    opts.BlobStore,
		timeProvider: timeProvider,
		logger:       logger,
	}, nil
}

// ProcessUpload parses one claimed job end to end. Re-processing the same job
// is safe: preview rows are replaced wholesale and the final transition is a
// compare-and-set that no-ops if another worker already finished.
//
// A bad spreadsheet fails the job and returns nil; only infrastructure
// errors propagate so the runner can decide whether to retry.
func (s *ParseService) ProcessUpload(ctx context.Context, job *model.ImportJob) error {
	reader, err := s.blobStore.Get(ctx, job.Source.StoragePath)
	if err != nil {
		return fmt.Errorf("open uploaded file %s: %w", job.Source.StoragePath, err)
	}
	defer reader.Close()

	currentYear := s.timeProvider.Now().UTC().Year()
	result, err := importer.Parse(job.Source.FileName, reader, currentYear)
	if err != nil {
		return s.failJob(ctx, job.ID, fmt.Sprintf("cannot read spreadsheet: %v", err))
	}

	for _, row := range result.Rows {
		row.JobID = job.ID
	}

	if len(result.IgnoredColumns) > 0 && s.logger != nil {
		s.logger.WarnContext(ctx, "ignored unrecognized columns",
			"job_id", job.ID, "columns", strings.Join(result.IgnoredColumns, ", "))
	}

	summary, err := s.buildSummary(ctx, job.OwnerID, result.Rows)
	if err != nil {
		return fmt.Errorf("build preview summary: %w", err)
	}

	// A byte-identical file already committed by this owner is advisory, not
	// fatal: the preview still renders, the client warns the operator.
	var duplicateOf *string
	if prior, derr := s.jobRepo.FindCommittedByContentHash(ctx, data.DuplicateLookupParams{
		OwnerID:      job.OwnerID,
		ContentHash:  result.ContentHash,
		ExcludeJobID: job.ID,
	}); derr != nil {
		return fmt.Errorf("duplicate upload lookup: %w", derr)
	} else if prior != nil {
		duplicateOf = &prior.ID
	}

	if err := s.previewRepo.ReplaceForJob(ctx, job.ID, result.Rows); err != nil {
		return fmt.Errorf("store preview rows: %w", err)
	}

	ok, err := s.jobRepo.MarkPreviewReady(ctx, data.PreviewReadyParams{
		ID:               job.ID,
		Summary:          summary,
		ImporterID:       importer.ID,
		ImporterVersion:  importer.Version,
		ContentHash:      result.ContentHash,
		DuplicateOfJobID: duplicateOf,
	})
	if err != nil {
		return fmt.Errorf("mark preview ready: %w", err)
	}
	if !ok && s.logger != nil {
		s.logger.WarnContext(ctx, "preview ready transition lost; job already moved",
			"job_id", job.ID)
	}
	if ok && s.logger != nil {
		s.logger.InfoContext(ctx, "preview ready",
			"job_id", job.ID,
			"rows_total", summary.RowsTotal,
			"rows_valid", summary.RowsValid,
			"rows_with_errors", summary.RowsWithErrors,
			"cars_to_create", summary.CarsToCreate,
			"cars_to_update", summary.CarsToUpdate,
			"duplicate_upload", duplicateOf != nil,
		)
	}
	return nil
}

// buildSummary counts rows and probes the vehicle store to split candidate
// records into creates and updates. Only the first valid occurrence of each
// dedupe key counts; later in-file duplicates will be skipped at commit.
func (s *ParseService) buildSummary(
	ctx context.Context,
	ownerID string,
	rows []*model.PreviewRow,
) (model.ImportSummary, error) {
	var summary model.ImportSummary
	summary.RowsTotal = len(rows)

	seen := make(map[string]bool)
	var keys []string
	for _, row := range rows {
		if row.HasErrors() {
			summary.RowsWithErrors++
		} else {
			summary.RowsValid++
		}
		if row.HasWarnings() {
			summary.RowsWithWarnings++
		}
		if row.HasErrors() || row.DedupeKey == "" || seen[row.DedupeKey] {
			continue
		}
		seen[row.DedupeKey] = true
		keys = append(keys, row.DedupeKey)
	}

	existing, err := s.vehicleRepo.ExistingDedupeKeys(ctx, ownerID, keys)
	if err != nil {
		return summary, fmt.Errorf("probe existing vehicles: %w", err)
	}
	for _, key := range keys {
		if existing[key] {
			summary.CarsToUpdate++
		} else {
			summary.CarsToCreate++
		}
	}
	return summary, nil
}

func (s *ParseService) failJob(ctx context.Context, jobID, message string) error {
	if _, err := s.jobRepo.Fail(ctx, data.FailParams{ID: jobID, Message: message}); err != nil {
		return fmt.Errorf("fail import job: %w", err)
	}
	if s.logger != nil {
		s.logger.WarnContext(ctx, "import job failed during parse",
			"job_id", jobID, "reason", message)
	}
	return nil
}
