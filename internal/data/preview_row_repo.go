package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/drivelot/inventory-api/internal/data/pgxutil"
	"github.com/drivelot/inventory-api/internal/domain/model"
	apperrors "github.com/drivelot/inventory-api/internal/errors"
)

// PreviewRowRepo stores the parsed preview row set of an import job.
//
// Writes replace the job's whole row set in one transaction, which makes a
// re-parse of the same upload idempotent: observers see either the previous
// complete set or the new complete set, never a mix.
type PreviewRowRepo struct {
	DB     *sql.DB
	logger *slog.Logger
}

// NewPreviewRowRepo creates a new PreviewRowRepo with the given database connection.
func NewPreviewRowRepo(db *sql.DB, cfg RepoConfig) *PreviewRowRepo {
	return &PreviewRowRepo{DB: db, logger: cfg.Logger}
}

// ReplaceForJob deletes any existing preview rows for the job and inserts the
// given set in a single transaction.
func (r *PreviewRowRepo) ReplaceForJob(ctx context.Context, jobID string, rows []*model.PreviewRow) error {
	return pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{
		Fn: func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM import_preview_rows WHERE job_id = $1`, jobID,
			); err != nil {
				return fmt.Errorf("delete preview rows: %w", err)
			}

			stmt, err := tx.PrepareContext(ctx, `
              INSERT INTO import_preview_rows (job_id, row_index, raw, normalized, issues, dedupe_key)
              VALUES ($1, $2, $3, $4, $5, $6)
            `)
			if err != nil {
				return fmt.Errorf("prepare preview row insert: %w", err)
			}
			defer stmt.Close()

			for _, row := range rows {
				rawJSON, merr := json.Marshal(row.Raw)
				if merr != nil {
					return fmt.Errorf("marshal raw row %d: %w", row.RowIndex, merr)
				}
				normalizedJSON, merr := json.Marshal(row.Normalized)
				if merr != nil {
					return fmt.Errorf("marshal normalized row %d: %w", row.RowIndex, merr)
				}
				issuesJSON, merr := json.Marshal(row.Issues)
				if merr != nil {
					return fmt.Errorf("marshal issues row %d: %w", row.RowIndex, merr)
				}
				// dedupe_key is NOT NULL; a row without a usable license
				// plate carries the empty string.
				if _, execErr := stmt.ExecContext(ctx,
					jobID, row.RowIndex, rawJSON, normalizedJSON, issuesJSON, row.DedupeKey,
				); execErr != nil {
					return fmt.Errorf("insert preview row %d: %w", row.RowIndex, apperrors.MapDBError(execErr))
				}
			}
			return nil
		},
	})
}

// ListByJob returns the job's preview rows ordered by their source row index.
func (r *PreviewRowRepo) ListByJob(ctx context.Context, jobID string) ([]*model.PreviewRow, error) {
	rows, err := r.DB.QueryContext(ctx, `
      SELECT job_id, row_index, raw, normalized, issues, dedupe_key
      FROM import_preview_rows
      WHERE job_id = $1
      ORDER BY row_index ASC
    `, jobID)
	if err != nil {
		return nil, fmt.Errorf("list preview rows: %w", err)
	}
	defer rows.Close()

	var out []*model.PreviewRow
	for rows.Next() {
		row, scanErr := scanPreviewRow(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan preview row: %w", scanErr)
		}
		out = append(out, row)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, rowsErr
	}
	return out, nil
}

// CountByJob returns the number of stored preview rows for a job.
func (r *PreviewRowRepo) CountByJob(ctx context.Context, jobID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM import_preview_rows WHERE job_id = $1`, jobID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count preview rows: %w", err)
	}
	return count, nil
}

func scanPreviewRow(scanner rowScanner) (*model.PreviewRow, error) {
	var (
		row            model.PreviewRow
		rawJSON        []byte
		normalizedJSON []byte
		issuesJSON     []byte
		dedupeKey      sql.NullString
	)
	if err := scanner.Scan(
		&row.JobID,
		&row.RowIndex,
		&rawJSON,
		&normalizedJSON,
		&issuesJSON,
		&dedupeKey,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(rawJSON, &row.Raw); err != nil {
		return nil, fmt.Errorf("unmarshal raw: %w", err)
	}
	if err := json.Unmarshal(normalizedJSON, &row.Normalized); err != nil {
		return nil, fmt.Errorf("unmarshal normalized: %w", err)
	}
	if err := json.Unmarshal(issuesJSON, &row.Issues); err != nil {
		return nil, fmt.Errorf("unmarshal issues: %w", err)
	}
	row.DedupeKey = dedupeKey.String
	return &row, nil
}
