package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/drivelot/inventory-api/internal/domain/model"
)

// ListingRepo maintains the read-optimized public listing projections that
// buyer-facing search consumes. Rows here are derived data: the authoritative
// vehicle record can always rebuild them.
type ListingRepo struct {
	DB     *sql.DB
	logger *slog.Logger
}

// NewListingRepo creates a new ListingRepo with the given database connection.
func NewListingRepo(db *sql.DB, cfg RepoConfig) *ListingRepo {
	return &ListingRepo{DB: db, logger: cfg.Logger}
}

// Upsert writes the projection for one vehicle. Re-running a sync for the same
// vehicle overwrites the prior projection, so partial sync retries converge.
func (r *ListingRepo) Upsert(ctx context.Context, listing *model.Listing) error {
	photoKeysJSON, err := json.Marshal(listing.PhotoKeys)
	if err != nil {
		return fmt.Errorf("marshal photo keys: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
      INSERT INTO listing_projections (
        vehicle_id, owner_id, manufacturer, model, year, mileage_km,
        gearbox, color, hand, trim, asking_price, photo_keys, synced_at
      )
      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
      ON CONFLICT (vehicle_id) DO UPDATE SET
        owner_id     = EXCLUDED.owner_id,
        manufacturer = EXCLUDED.manufacturer,
        model        = EXCLUDED.model,
        year         = EXCLUDED.year,
        mileage_km   = EXCLUDED.mileage_km,
        gearbox      = EXCLUDED.gearbox,
        color        = EXCLUDED.color,
        hand         = EXCLUDED.hand,
        trim         = EXCLUDED.trim,
        asking_price = EXCLUDED.asking_price,
        photo_keys   = EXCLUDED.photo_keys,
        synced_at    = EXCLUDED.synced_at
    `,
		listing.VehicleID,
		listing.OwnerID,
		listing.Manufacturer,
		listing.Model,
		listing.Year,
		listing.MileageKM,
		listing.Gearbox,
		listing.Color,
		listing.Hand,
		listing.Trim,
		listing.AskingPrice,
		photoKeysJSON,
		listing.SyncedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert listing projection: %w", err)
	}
	return nil
}

// DeleteByVehicle removes the projection for a vehicle that is no longer
// publishable. A missing projection is not an error.
func (r *ListingRepo) DeleteByVehicle(ctx context.Context, vehicleID string) error {
	if _, err := r.DB.ExecContext(ctx,
		`DELETE FROM listing_projections WHERE vehicle_id = $1`, vehicleID,
	); err != nil {
		return fmt.Errorf("delete listing projection: %w", err)
	}
	return nil
}

// ListByOwner returns an owner's live projections, most recently synced first.
func (r *ListingRepo) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*model.Listing, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := r.DB.QueryContext(ctx, `
      SELECT vehicle_id, owner_id, manufacturer, model, year, mileage_km,
             gearbox, color, hand, trim, asking_price, photo_keys, synced_at
      FROM listing_projections
      WHERE owner_id = $1
      ORDER BY synced_at DESC
      LIMIT $2
    `, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list listing projections: %w", err)
	}
	defer rows.Close()

	var listings []*model.Listing
	for rows.Next() {
		listing, scanErr := scanListing(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan listing projection: %w", scanErr)
		}
		listings = append(listings, listing)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, rowsErr
	}
	return listings, nil
}

func scanListing(scanner rowScanner) (*model.Listing, error) {
	var (
		l             model.Listing
		photoKeysJSON []byte
	)
	if err := scanner.Scan(
		&l.VehicleID,
		&l.OwnerID,
		&l.Manufacturer,
		&l.Model,
		&l.Year,
		&l.MileageKM,
		&l.Gearbox,
		&l.Color,
		&l.Hand,
		&l.Trim,
		&l.AskingPrice,
		&photoKeysJSON,
		&l.SyncedAt,
	); err != nil {
		return nil, err
	}
	if len(photoKeysJSON) > 0 {
		if err := json.Unmarshal(photoKeysJSON, &l.PhotoKeys); err != nil {
			return nil, fmt.Errorf("unmarshal photo keys: %w", err)
		}
	}
	return &l, nil
}
