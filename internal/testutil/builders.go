package testutil

import (
	"time"

	"github.com/drivelot/inventory-api/internal/domain/model"
)

// ImportJobRequestBuilder provides a fluent interface for building
// CreateImportJobRequest objects for testing.
type ImportJobRequestBuilder struct {
	req *model.CreateImportJobRequest
}

// NewImportJobRequest creates a new ImportJobRequestBuilder with sensible defaults.
func NewImportJobRequest() *ImportJobRequestBuilder {
	return &ImportJobRequestBuilder{
		req: &model.CreateImportJobRequest{
			OwnerID:   "dealer-1",
			CreatedBy: "tester",
			FileName:  "inventory.xlsx",
		},
	}
}

// WithOwner sets the owner ID.
func (b *ImportJobRequestBuilder) WithOwner(ownerID string) *ImportJobRequestBuilder {
	b.req.OwnerID = ownerID
	return b
}

// WithCreatedBy sets the creating user.
func (b *ImportJobRequestBuilder) WithCreatedBy(createdBy string) *ImportJobRequestBuilder {
	b.req.CreatedBy = createdBy
	return b
}

// WithFileName sets the uploaded file name.
func (b *ImportJobRequestBuilder) WithFileName(fileName string) *ImportJobRequestBuilder {
	b.req.FileName = fileName
	return b
}

// Build returns the constructed CreateImportJobRequest.
func (b *ImportJobRequestBuilder) Build() *model.CreateImportJobRequest {
	return b.req
}

// PreviewRowBuilder provides a fluent interface for building PreviewRow
// objects for testing. Defaults describe a clean, committable row.
type PreviewRowBuilder struct {
	row *model.PreviewRow
}

// NewPreviewRow creates a new PreviewRowBuilder with sensible defaults.
func NewPreviewRow() *PreviewRowBuilder {
	plate := "12-345-67"
	maker := "Toyota"
	mdl := "Corolla"
	year := 2020
	return &PreviewRowBuilder{
		row: &model.PreviewRow{
			RowIndex: 1,
			Raw: map[string]string{
				"license plate": plate,
				"manufacturer":  maker,
				"model":         mdl,
				"year":          "2020",
			},
			Normalized: model.VehicleRecord{
				LicensePlate: &plate,
				Manufacturer: &maker,
				Model:        &mdl,
				Year:         &year,
			},
			DedupeKey: "1234567",
		},
	}
}

// WithJobID sets the owning job ID.
func (b *PreviewRowBuilder) WithJobID(jobID string) *PreviewRowBuilder {
	b.row.JobID = jobID
	return b
}

// WithRowIndex sets the 1-based row index.
func (b *PreviewRowBuilder) WithRowIndex(idx int) *PreviewRowBuilder {
	b.row.RowIndex = idx
	return b
}

// WithDedupeKey sets the dedupe key.
func (b *PreviewRowBuilder) WithDedupeKey(key string) *PreviewRowBuilder {
	b.row.DedupeKey = key
	return b
}

// WithRecord replaces the normalized record.
func (b *PreviewRowBuilder) WithRecord(rec model.VehicleRecord) *PreviewRowBuilder {
	b.row.Normalized = rec
	return b
}

// WithManufacturer sets the normalized manufacturer.
func (b *PreviewRowBuilder) WithManufacturer(maker string) *PreviewRowBuilder {
	b.row.Normalized.Manufacturer = &maker
	return b
}

// WithModel sets the normalized model.
func (b *PreviewRowBuilder) WithModel(mdl string) *PreviewRowBuilder {
	b.row.Normalized.Model = &mdl
	return b
}

// WithIssue appends a validation issue.
func (b *PreviewRowBuilder) WithIssue(level model.IssueLevel, code, message string) *PreviewRowBuilder {
	b.row.Issues = append(b.row.Issues, model.RowIssue{Level: level, Code: code, Message: message})
	return b
}

// WithError appends an error-level issue, making the row uncommittable.
func (b *PreviewRowBuilder) WithError(code, message string) *PreviewRowBuilder {
	return b.WithIssue(model.IssueError, code, message)
}

// Build returns the constructed PreviewRow.
func (b *PreviewRowBuilder) Build() *model.PreviewRow {
	return b.row
}

// VehicleRecordBuilder builds normalized VehicleRecord values for testing.
type VehicleRecordBuilder struct {
	rec model.VehicleRecord
}

// NewVehicleRecord creates a new VehicleRecordBuilder with sensible defaults.
func NewVehicleRecord() *VehicleRecordBuilder {
	plate := "98-765-43"
	maker := "Mazda"
	mdl := "3"
	year := 2019
	return &VehicleRecordBuilder{
		rec: model.VehicleRecord{
			LicensePlate: &plate,
			Manufacturer: &maker,
			Model:        &mdl,
			Year:         &year,
		},
	}
}

// WithLicensePlate sets the license plate.
func (b *VehicleRecordBuilder) WithLicensePlate(plate string) *VehicleRecordBuilder {
	b.rec.LicensePlate = &plate
	return b
}

// WithMileage sets the mileage.
func (b *VehicleRecordBuilder) WithMileage(km int) *VehicleRecordBuilder {
	b.rec.MileageKM = &km
	return b
}

// WithAskingPrice sets the asking price.
func (b *VehicleRecordBuilder) WithAskingPrice(price float64) *VehicleRecordBuilder {
	b.rec.AskingPrice = &price
	return b
}

// WithColor sets the color.
func (b *VehicleRecordBuilder) WithColor(color string) *VehicleRecordBuilder {
	b.rec.Color = &color
	return b
}

// WithTestDueDate sets the test due date.
func (b *VehicleRecordBuilder) WithTestDueDate(t time.Time) *VehicleRecordBuilder {
	b.rec.TestDueDate = &t
	return b
}

// Build returns the constructed VehicleRecord.
func (b *VehicleRecordBuilder) Build() model.VehicleRecord {
	return b.rec
}
