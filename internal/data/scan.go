package data

import (
	"database/sql"

	"github.com/jackc/pgx/v5"

	"github.com/drivelot/inventory-api/internal/domain/model"
)

// rowScanner is the subset of *sql.Row / *sql.Rows / pgx.Rows used by the
// scan helpers so one helper serves single-row and multi-row queries over
// either driver surface.
type rowScanner interface {
	Scan(dest ...any) error
}

// pgxRowAdapter lets pgx.Rows satisfy rowScanner with sql.ErrNoRows mapping
// handled by the caller (pgx.Rows.Next already happened).
type pgxRowAdapter struct {
	rows pgx.Rows
}

func (a pgxRowAdapter) Scan(dest ...any) error {
	return a.rows.Scan(dest...)
}

func scanImportJob(row rowScanner) (*model.ImportJob, error) {
	var (
		job              model.ImportJob
		importerID       sql.NullString
		importerVersion  sql.NullString
		contentHash      sql.NullString
		duplicateOfJobID sql.NullString
		errorMessage     sql.NullString
	)

	err := row.Scan(
		&job.ID,
		&job.OwnerID,
		&job.CreatedBy,
		&job.Status,
		&job.Source.StoragePath,
		&job.Source.FileName,
		&importerID,
		&importerVersion,
		&contentHash,
		&job.Summary.RowsTotal,
		&job.Summary.RowsValid,
		&job.Summary.RowsWithWarnings,
		&job.Summary.RowsWithErrors,
		&job.Summary.CarsToCreate,
		&job.Summary.CarsToUpdate,
		&job.Summary.CarsCreated,
		&job.Summary.CarsUpdated,
		&job.Summary.CarsSkipped,
		&job.Summary.CarsProcessed,
		&job.SyncStatus,
		&duplicateOfJobID,
		&errorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	job.Source.ImporterID = importerID.String
	job.Source.ImporterVersion = importerVersion.String
	job.Source.ContentHash = nullStringPtr(contentHash)
	job.DuplicateOfJobID = nullStringPtr(duplicateOfJobID)
	job.ErrorMessage = nullStringPtr(errorMessage)
	return &job, nil
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
