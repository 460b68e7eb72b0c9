package model

import "time"

// Listing is the read-optimized public projection of a published vehicle,
// consumed by buyer-facing search. It carries publishable fields only: no
// license plate, no list price, no owner bookkeeping.
type Listing struct {
	VehicleID    string    `json:"vehicle_id"             db:"vehicle_id"`
	OwnerID      string    `json:"owner_id"               db:"owner_id"`
	Manufacturer string    `json:"manufacturer"           db:"manufacturer"`
	Model        string    `json:"model"                  db:"model"`
	Year         *int      `json:"year,omitempty"         db:"year"`
	MileageKM    *int      `json:"mileage_km,omitempty"   db:"mileage_km"`
	Gearbox      *string   `json:"gearbox,omitempty"      db:"gearbox"`
	Color        *string   `json:"color,omitempty"        db:"color"`
	Hand         *int      `json:"hand,omitempty"         db:"hand"`
	Trim         *string   `json:"trim,omitempty"         db:"trim"`
	AskingPrice  *float64  `json:"asking_price,omitempty" db:"asking_price"`
	PhotoKeys    []string  `json:"photo_keys,omitempty"   db:"photo_keys"`
	SyncedAt     time.Time `json:"synced_at"              db:"synced_at"`
}

// ListingFromVehicle projects the publishable subset of an authoritative
// record. Returns false when the vehicle is not publishable (unpublished, or
// missing the fields search requires).
func ListingFromVehicle(v *Vehicle, syncedAt time.Time) (*Listing, bool) {
	if v == nil || !v.Published {
		return nil, false
	}
	if v.Manufacturer == nil || v.Model == nil {
		return nil, false
	}
	return &Listing{
		VehicleID:    v.ID,
		OwnerID:      v.OwnerID,
		Manufacturer: *v.Manufacturer,
		Model:        *v.Model,
		Year:         v.Year,
		MileageKM:    v.MileageKM,
		Gearbox:      v.Gearbox,
		Color:        v.Color,
		Hand:         v.Hand,
		Trim:         v.Trim,
		AskingPrice:  v.AskingPrice,
		PhotoKeys:    v.PhotoKeys,
		SyncedAt:     syncedAt,
	}, true
}
