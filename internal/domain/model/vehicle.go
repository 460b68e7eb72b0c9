package model

import (
	"errors"
	"strings"
	"time"
)

// Vehicle is an authoritative vehicle record, the source of truth behind the
// public listing projection. DedupeKey is unique within an owner's scope.
type Vehicle struct {
	ID            string     `json:"id"                        db:"id"`
	OwnerID       string     `json:"owner_id"                  db:"owner_id"`
	DedupeKey     string     `json:"dedupe_key"                db:"dedupe_key"`
	LicensePlate  *string    `json:"license_plate,omitempty"   db:"license_plate"`
	Manufacturer  *string    `json:"manufacturer,omitempty"    db:"manufacturer"`
	Model         *string    `json:"model,omitempty"           db:"model"`
	Year          *int       `json:"year,omitempty"            db:"year"`
	MileageKM     *int       `json:"mileage_km,omitempty"      db:"mileage_km"`
	Gearbox       *string    `json:"gearbox,omitempty"         db:"gearbox"`
	Color         *string    `json:"color,omitempty"           db:"color"`
	EngineCC      *int       `json:"engine_cc,omitempty"       db:"engine_cc"`
	OwnershipType *string    `json:"ownership_type,omitempty"  db:"ownership_type"`
	TestDueDate   *time.Time `json:"test_due_date,omitempty"   db:"test_due_date"`
	Hand          *int       `json:"hand,omitempty"            db:"hand"`
	Trim          *string    `json:"trim,omitempty"            db:"trim"`
	AskingPrice   *float64   `json:"asking_price,omitempty"    db:"asking_price"`
	ListPrice     *float64   `json:"list_price,omitempty"      db:"list_price"`
	PhotoKeys     []string   `json:"photo_keys,omitempty"      db:"photo_keys"`
	Published     bool       `json:"published"                 db:"published"`
	CreatedAt     time.Time  `json:"created_at"                db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"                db:"updated_at"`
}

// UpsertOutcome reports what an upsert-by-dedupe-key actually did.
type UpsertOutcome string

const (
	// UpsertCreated means a new authoritative record was inserted.
	UpsertCreated UpsertOutcome = "created"
	// UpsertUpdated means imported fields were merged into an existing record.
	UpsertUpdated UpsertOutcome = "updated"
	// UpsertSkipped means the target record became unwritable (e.g. deleted
	// concurrently) and the row was dropped without effect.
	UpsertSkipped UpsertOutcome = "skipped"
)

// UpsertVehicleRequest merges one imported row into the authoritative store.
// Nil fields are left untouched on an existing record; the import never
// clobbers fields it does not supply (photos, publication state).
type UpsertVehicleRequest struct {
	OwnerID   string
	DedupeKey string
	Record    VehicleRecord
}

// Validate validates the UpsertVehicleRequest fields.
func (r *UpsertVehicleRequest) Validate() error {
	if strings.TrimSpace(r.OwnerID) == "" {
		return errors.New("owner id is required")
	}
	if strings.TrimSpace(r.DedupeKey) == "" {
		return errors.New("dedupe key is required")
	}
	return nil
}

// VehicleListOptions filters a vehicle listing for one owner.
type VehicleListOptions struct {
	OwnerID       string
	PublishedOnly bool
	Limit         int
	Offset        int
}
