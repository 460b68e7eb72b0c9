// Package model defines the core data types used throughout the drivelot import pipeline.
package model

import (
	"errors"
	"strings"
	"time"
)

// ImportStatus represents the current status of an import job.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type ImportStatus string

const (
	// ImportStatusUploaded indicates the job record exists and the file transfer is in flight.
	ImportStatusUploaded ImportStatus = "uploaded"
	// ImportStatusPreviewReady indicates preview rows and summary have been written.
	ImportStatusPreviewReady ImportStatus = "preview_ready"
	// ImportStatusCommitting indicates an operator accepted the preview and rows are being applied.
	ImportStatusCommitting ImportStatus = "committing"
	// ImportStatusCommitted indicates all valid rows were applied. Terminal.
	ImportStatusCommitted ImportStatus = "committed"
	// ImportStatusFailed indicates an unrecoverable parse or commit failure. Terminal.
	ImportStatusFailed ImportStatus = "failed"
)

// Valid returns true if the ImportStatus is one of the known states.
func (s ImportStatus) Valid() bool {
	switch s {
	case ImportStatusUploaded, ImportStatusPreviewReady, ImportStatusCommitting,
		ImportStatusCommitted, ImportStatusFailed:
		return true
	}
	return false
}

// Terminal returns true once no further transition can occur.
func (s ImportStatus) Terminal() bool {
	return s == ImportStatusCommitted || s == ImportStatusFailed
}

// UnmarshalText implements encoding.TextUnmarshaler so statuses parse from env/JSON text.
func (s *ImportStatus) UnmarshalText(text []byte) error {
	v := ImportStatus(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return errors.New("invalid import status: " + string(text))
	}
	*s = v
	return nil
}

// SyncStatus describes the advisory post-commit propagation state. It is
// deliberately separate from ImportStatus: sync failures never fail the job.
type SyncStatus string

const (
	// SyncStatusNone means no sync has been requested for the job yet.
	SyncStatusNone SyncStatus = "none"
	// SyncStatusPending means the job committed and sync has been enqueued.
	SyncStatusPending SyncStatus = "pending"
	// SyncStatusInProgress means the synchronizer picked the job up.
	SyncStatusInProgress SyncStatus = "in_progress"
	// SyncStatusDone means projection and offline cache were refreshed.
	SyncStatusDone SyncStatus = "done"
	// SyncStatusFailed means propagation failed; the commit itself stands.
	SyncStatusFailed SyncStatus = "failed"
)

// Valid returns true if the SyncStatus is one of the known states.
func (s SyncStatus) Valid() bool {
	switch s {
	case SyncStatusNone, SyncStatusPending, SyncStatusInProgress, SyncStatusDone, SyncStatusFailed:
		return true
	}
	return false
}

// ImportSource identifies the uploaded blob and the parser that produced the preview.
type ImportSource struct {
	StoragePath     string  `json:"storage_path"           db:"storage_path"`
	FileName        string  `json:"file_name"              db:"file_name"`
	ImporterID      string  `json:"importer_id"            db:"importer_id"`
	ImporterVersion string  `json:"importer_version"       db:"importer_version"`
	ContentHash     *string `json:"content_hash,omitempty" db:"content_hash"`
}

// ImportSummary aggregates row and vehicle counts for a job.
//
// RowsValid counts rows with zero error-level issues; warnings do not exclude a
// row. CarsToCreate/CarsToUpdate are provisional preview counts; CarsCreated,
// CarsUpdated and CarsSkipped are final commit outcomes. CarsProcessed is
// persisted incrementally during commit so observers can derive live progress.
type ImportSummary struct {
	RowsTotal        int `json:"rows_total"         db:"rows_total"`
	RowsValid        int `json:"rows_valid"         db:"rows_valid"`
	RowsWithWarnings int `json:"rows_with_warnings" db:"rows_with_warnings"`
	RowsWithErrors   int `json:"rows_with_errors"   db:"rows_with_errors"`
	CarsToCreate     int `json:"cars_to_create"     db:"cars_to_create"`
	CarsToUpdate     int `json:"cars_to_update"     db:"cars_to_update"`
	CarsCreated      int `json:"cars_created"       db:"cars_created"`
	CarsUpdated      int `json:"cars_updated"       db:"cars_updated"`
	CarsSkipped      int `json:"cars_skipped"       db:"cars_skipped"`
	CarsProcessed    int `json:"cars_processed"     db:"cars_processed"`
}

// ImportJob is one import attempt. Jobs are append-only: they are never
// deleted, and each stage mutates only the transitions it owns.
type ImportJob struct {
	ID               string        `json:"id"                             db:"id"`
	OwnerID          string        `json:"owner_id"                       db:"owner_id"`
	CreatedBy        string        `json:"created_by"                     db:"created_by"`
	Status           ImportStatus  `json:"status"                         db:"status"`
	Source           ImportSource  `json:"source"`
	Summary          ImportSummary `json:"summary"`
	SyncStatus       SyncStatus    `json:"sync_status"                    db:"sync_status"`
	DuplicateOfJobID *string       `json:"duplicate_of_job_id,omitempty"  db:"duplicate_of_job_id"`
	ErrorMessage     *string       `json:"error_message,omitempty"        db:"error_message"`
	CreatedAt        time.Time     `json:"created_at"                     db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"                     db:"updated_at"`
}

// CreateImportJobRequest represents a request to start a new import attempt.
type CreateImportJobRequest struct {
	OwnerID   string `json:"owner_id"`
	CreatedBy string `json:"created_by"`
	FileName  string `json:"file_name"`
}

// Validate validates the CreateImportJobRequest fields.
func (r *CreateImportJobRequest) Validate() error {
	if strings.TrimSpace(r.OwnerID) == "" {
		return errors.New("owner id is required")
	}
	if strings.TrimSpace(r.FileName) == "" {
		return errors.New("file name is required")
	}
	if strings.ContainsAny(r.FileName, "/\\") {
		return errors.New("file name must not contain path separators")
	}
	return nil
}

// ImportJobListOptions filters a job listing for one owner's console.
type ImportJobListOptions struct {
	OwnerID string
	Limit   int
	Offset  int
}

// ErrNoImportJobsAvailable is returned when a worker finds no claimable jobs.
var ErrNoImportJobsAvailable = errors.New("no import jobs available")
