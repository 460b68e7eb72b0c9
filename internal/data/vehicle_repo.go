package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/drivelot/inventory-api/internal/domain/model"
	apperrors "github.com/drivelot/inventory-api/internal/errors"
)

// ErrVehicleNotFound is returned when a vehicle is not found.
var ErrVehicleNotFound = errors.New("vehicle not found")

// VehicleRepo provides database operations for the authoritative vehicle records.
type VehicleRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

// NewVehicleRepo creates a new VehicleRepo with the given database connection.
func NewVehicleRepo(db *sql.DB, cfg RepoConfig) *VehicleRepo {
	return &VehicleRepo{
		DB:           db,
		timeProvider: cfg.timeProvider(),
		logger:       cfg.Logger,
	}
}

const vehicleColumns = `
  id,
  owner_id,
  dedupe_key,
  license_plate,
  manufacturer,
  model,
  year,
  mileage_km,
  gearbox,
  color,
  engine_cc,
  ownership_type,
  test_due_date,
  hand,
  trim,
  asking_price,
  list_price,
  photo_keys,
  published,
  created_at,
  updated_at
`

// UpsertByDedupeKey inserts or merges a vehicle record keyed by
// (owner_id, dedupe_key). Fields absent from the incoming record keep their
// stored values, so a spreadsheet that omits a column never erases data the
// owner entered elsewhere. Photos and published state are never touched by
// imports at all.
func (r *VehicleRepo) UpsertByDedupeKey(ctx context.Context, req *model.UpsertVehicleRequest) (*model.Vehicle, model.UpsertOutcome, error) {
	if req == nil {
		return nil, "", errors.New("upsert vehicle request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, "", err
	}

	now := r.timeProvider.Now().UTC()
	rec := req.Record

	row := r.DB.QueryRowContext(ctx, `
      INSERT INTO vehicles (
        owner_id, dedupe_key, license_plate, manufacturer, model, year, mileage_km,
        gearbox, color, engine_cc, ownership_type, test_due_date, hand, trim,
        asking_price, list_price, created_at, updated_at
      )
      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $17)
      ON CONFLICT (owner_id, dedupe_key) DO UPDATE SET
        license_plate  = COALESCE(EXCLUDED.license_plate, vehicles.license_plate),
        manufacturer   = COALESCE(EXCLUDED.manufacturer, vehicles.manufacturer),
        model          = COALESCE(EXCLUDED.model, vehicles.model),
        year           = COALESCE(EXCLUDED.year, vehicles.year),
        mileage_km     = COALESCE(EXCLUDED.mileage_km, vehicles.mileage_km),
        gearbox        = COALESCE(EXCLUDED.gearbox, vehicles.gearbox),
        color          = COALESCE(EXCLUDED.color, vehicles.color),
        engine_cc      = COALESCE(EXCLUDED.engine_cc, vehicles.engine_cc),
        ownership_type = COALESCE(EXCLUDED.ownership_type, vehicles.ownership_type),
        test_due_date  = COALESCE(EXCLUDED.test_due_date, vehicles.test_due_date),
        hand           = COALESCE(EXCLUDED.hand, vehicles.hand),
        trim           = COALESCE(EXCLUDED.trim, vehicles.trim),
        asking_price   = COALESCE(EXCLUDED.asking_price, vehicles.asking_price),
        list_price     = COALESCE(EXCLUDED.list_price, vehicles.list_price),
        updated_at     = EXCLUDED.updated_at
      RETURNING `+vehicleColumns+`, (xmax = 0) AS inserted
    `,
		req.OwnerID,
		req.DedupeKey,
		rec.LicensePlate,
		rec.Manufacturer,
		rec.Model,
		rec.Year,
		rec.MileageKM,
		rec.Gearbox,
		rec.Color,
		rec.EngineCC,
		rec.OwnershipType,
		rec.TestDueDate,
		rec.Hand,
		rec.Trim,
		rec.AskingPrice,
		rec.ListPrice,
		now,
	)

	vehicle, inserted, err := scanVehicleWithInserted(row)
	if err != nil {
		return nil, "", fmt.Errorf("upsert vehicle: %w", apperrors.MapDBError(err))
	}
	outcome := model.UpsertUpdated
	if inserted {
		outcome = model.UpsertCreated
	}
	return vehicle, outcome, nil
}

// GetByID retrieves a vehicle by its ID.
func (r *VehicleRepo) GetByID(ctx context.Context, id string) (*model.Vehicle, error) {
	row := r.DB.QueryRowContext(ctx, `
      SELECT `+vehicleColumns+`
      FROM vehicles
      WHERE id = $1
    `, id)

	vehicle, err := scanVehicle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	return vehicle, nil
}

// GetByDedupeKey retrieves an owner's vehicle by its dedupe key.
func (r *VehicleRepo) GetByDedupeKey(ctx context.Context, ownerID, dedupeKey string) (*model.Vehicle, error) {
	row := r.DB.QueryRowContext(ctx, `
      SELECT `+vehicleColumns+`
      FROM vehicles
      WHERE owner_id = $1 AND dedupe_key = $2
    `, ownerID, dedupeKey)

	vehicle, err := scanVehicle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get vehicle by dedupe key: %w", err)
	}
	return vehicle, nil
}

// ExistingDedupeKeys returns which of the given keys already exist for the
// owner. The parser uses this to split preview rows into creates and updates.
func (r *VehicleRepo) ExistingDedupeKeys(ctx context.Context, ownerID string, keys []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(keys))
	if len(keys) == 0 {
		return existing, nil
	}

	keysJSON, err := json.Marshal(keys)
	if err != nil {
		return nil, fmt.Errorf("marshal dedupe keys: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
      SELECT dedupe_key
      FROM vehicles
      WHERE owner_id = $1
        AND dedupe_key IN (SELECT jsonb_array_elements_text($2::jsonb))
    `, ownerID, keysJSON)
	if err != nil {
		return nil, fmt.Errorf("query existing dedupe keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if scanErr := rows.Scan(&key); scanErr != nil {
			return nil, fmt.Errorf("scan dedupe key: %w", scanErr)
		}
		existing[key] = true
	}
	return existing, rows.Err()
}

// ListByOwner returns an owner's vehicles ordered by last update, newest first.
func (r *VehicleRepo) ListByOwner(ctx context.Context, opts model.VehicleListOptions) ([]*model.Vehicle, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := r.DB.QueryContext(ctx, `
      SELECT `+vehicleColumns+`
      FROM vehicles
      WHERE owner_id = $1 AND ($4 = FALSE OR published)
      ORDER BY updated_at DESC
      LIMIT $2 OFFSET $3
    `, opts.OwnerID, limit, opts.Offset, opts.PublishedOnly)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []*model.Vehicle
	for rows.Next() {
		vehicle, scanErr := scanVehicle(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan vehicle: %w", scanErr)
		}
		vehicles = append(vehicles, vehicle)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, rowsErr
	}
	return vehicles, nil
}

func scanVehicle(scanner rowScanner) (*model.Vehicle, error) {
	return scanVehicleInto(scanner, nil)
}

func scanVehicleWithInserted(scanner rowScanner) (*model.Vehicle, bool, error) {
	var inserted bool
	vehicle, err := scanVehicleInto(scanner, &inserted)
	return vehicle, inserted, err
}

func scanVehicleInto(scanner rowScanner, inserted *bool) (*model.Vehicle, error) {
	var (
		v             model.Vehicle
		photoKeysJSON []byte
	)

	dest := []any{
		&v.ID,
		&v.OwnerID,
		&v.DedupeKey,
		&v.LicensePlate,
		&v.Manufacturer,
		&v.Model,
		&v.Year,
		&v.MileageKM,
		&v.Gearbox,
		&v.Color,
		&v.EngineCC,
		&v.OwnershipType,
		&v.TestDueDate,
		&v.Hand,
		&v.Trim,
		&v.AskingPrice,
		&v.ListPrice,
		&photoKeysJSON,
		&v.Published,
		&v.CreatedAt,
		&v.UpdatedAt,
	}
	if inserted != nil {
		dest = append(dest, inserted)
	}
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}

	if len(photoKeysJSON) > 0 {
		if err := json.Unmarshal(photoKeysJSON, &v.PhotoKeys); err != nil {
			return nil, fmt.Errorf("unmarshal photo keys: %w", err)
		}
	}
	return &v, nil
}
