package importer

import (
	"fmt"

	"github.com/drivelot/inventory-api/internal/domain/model"
)

// Validation bounds. Deliberately loose: the preview surfaces problems for the
// operator to judge, it does not gatekeep plausible-but-unusual vehicles.
const (
	minModelYear = 1950
	maxMileageKM = 2_000_000
	minEngineCC  = 50
	maxEngineCC  = 10_000
	maxHand      = 15
	maxPrice     = 10_000_000
)

// validateRecord inspects a normalized record and appends issues. Error-level
// issues exclude the row from commit; warnings only annotate it.
func validateRecord(rec model.VehicleRecord, currentYear int, issues *[]model.RowIssue) {
	if rec.LicensePlate == nil {
		*issues = append(*issues, model.RowIssue{
			Level:   model.IssueError,
			Code:    model.IssueCodeMissingLicense,
			Message: "license plate is required",
		})
	} else if NormalizeLicensePlate(*rec.LicensePlate) == "" {
		*issues = append(*issues, model.RowIssue{
			Level:   model.IssueError,
			Code:    model.IssueCodeEmptyLicenseAfter,
			Message: fmt.Sprintf("license plate %q contains no digits", *rec.LicensePlate),
		})
	}

	if rec.Manufacturer == nil {
		*issues = append(*issues, model.RowIssue{
			Level:   model.IssueError,
			Code:    model.IssueCodeMissingMaker,
			Message: "manufacturer is required",
		})
	}
	if rec.Model == nil {
		*issues = append(*issues, model.RowIssue{
			Level:   model.IssueError,
			Code:    model.IssueCodeMissingModel,
			Message: "model is required",
		})
	}

	if rec.Year != nil && (*rec.Year < minModelYear || *rec.Year > currentYear+1) {
		*issues = append(*issues, model.RowIssue{
			Level:   model.IssueError,
			Code:    model.IssueCodeBadYear,
			Message: fmt.Sprintf("model year %d outside %d..%d", *rec.Year, minModelYear, currentYear+1),
		})
	}
	if rec.MileageKM != nil && (*rec.MileageKM < 0 || *rec.MileageKM > maxMileageKM) {
		*issues = append(*issues, model.RowIssue{
			Level:   model.IssueError,
			Code:    model.IssueCodeBadMileage,
			Message: fmt.Sprintf("mileage %d km out of range", *rec.MileageKM),
		})
	}
	if rec.EngineCC != nil && (*rec.EngineCC < minEngineCC || *rec.EngineCC > maxEngineCC) {
		*issues = append(*issues, model.RowIssue{
			Level:   model.IssueWarning,
			Code:    model.IssueCodeBadEngine,
			Message: fmt.Sprintf("engine volume %d cc looks wrong", *rec.EngineCC),
		})
	}
	if rec.Hand != nil && (*rec.Hand < 0 || *rec.Hand > maxHand) {
		*issues = append(*issues, model.RowIssue{
			Level:   model.IssueWarning,
			Code:    model.IssueCodeBadHand,
			Message: fmt.Sprintf("hand %d out of range", *rec.Hand),
		})
	}
	if rec.AskingPrice != nil && (*rec.AskingPrice <= 0 || *rec.AskingPrice > maxPrice) {
		*issues = append(*issues, model.RowIssue{
			Level:   model.IssueError,
			Code:    model.IssueCodeBadPrice,
			Message: fmt.Sprintf("asking price %.0f out of range", *rec.AskingPrice),
		})
	}
	if rec.ListPrice != nil && rec.AskingPrice != nil && *rec.ListPrice < *rec.AskingPrice {
		*issues = append(*issues, model.RowIssue{
			Level:   model.IssueWarning,
			Code:    model.IssueCodeListBelowAsking,
			Message: "list price is below asking price",
		})
	}
}
