package model

import "time"

// IssueLevel grades a per-row validation finding.
type IssueLevel string

const (
	// IssueWarning flags a suspicious value. Warning rows still count as valid.
	IssueWarning IssueLevel = "warning"
	// IssueError excludes the row from commit and from the valid-row count.
	IssueError IssueLevel = "error"
)

// Issue codes produced by the validator.
const (
	IssueCodeMissingLicense    = "missing_license"
	IssueCodeMissingMaker      = "missing_manufacturer"
	IssueCodeMissingModel      = "missing_model"
	IssueCodeBadYear           = "year_out_of_range"
	IssueCodeBadMileage        = "mileage_out_of_range"
	IssueCodeBadEngine         = "engine_out_of_range"
	IssueCodeBadHand           = "hand_out_of_range"
	IssueCodeBadPrice          = "price_out_of_range"
	IssueCodeBadDate           = "invalid_date"
	IssueCodeBadNumber         = "invalid_number"
	IssueCodeDuplicateInFile   = "duplicate_in_file"
	IssueCodeUnknownGearbox    = "unknown_gearbox"
	IssueCodeUnknownOwnership  = "unknown_ownership"
	IssueCodeListBelowAsking   = "list_price_below_asking"
	IssueCodeTestDateInPast    = "test_date_in_past"
	IssueCodeEmptyLicenseAfter = "license_not_normalizable"
)

// RowIssue is one validation finding attached to a preview row.
type RowIssue struct {
	Level   IssueLevel `json:"level"`
	Code    string     `json:"code"`
	Message string     `json:"message"`
}

// VehicleRecord is the typed normalization of one spreadsheet row. Every field
// is optional because source rows may be partial; business logic reads this,
// never the raw cell map.
type VehicleRecord struct {
	LicensePlate  *string    `json:"license_plate,omitempty"`
	Manufacturer  *string    `json:"manufacturer,omitempty"`
	Model         *string    `json:"model,omitempty"`
	Year          *int       `json:"year,omitempty"`
	MileageKM     *int       `json:"mileage_km,omitempty"`
	Gearbox       *string    `json:"gearbox,omitempty"`
	Color         *string    `json:"color,omitempty"`
	EngineCC      *int       `json:"engine_cc,omitempty"`
	OwnershipType *string    `json:"ownership_type,omitempty"`
	TestDueDate   *time.Time `json:"test_due_date,omitempty"`
	Hand          *int       `json:"hand,omitempty"`
	Trim          *string    `json:"trim,omitempty"`
	AskingPrice   *float64   `json:"asking_price,omitempty"`
	ListPrice     *float64   `json:"list_price,omitempty"`
}

// PreviewRow is one parsed-and-validated candidate record awaiting the
// operator's commit decision. Raw keeps the untouched source cells for audit;
// all decisions are made on Normalized.
type PreviewRow struct {
	JobID      string            `json:"job_id"     db:"job_id"`
	RowIndex   int               `json:"row_index"  db:"row_index"`
	Raw        map[string]string `json:"raw"        db:"raw"`
	Normalized VehicleRecord     `json:"normalized" db:"normalized"`
	Issues     []RowIssue        `json:"issues"     db:"issues"`
	DedupeKey  string            `json:"dedupe_key" db:"dedupe_key"`
}

// HasErrors reports whether any issue is error-level.
func (p *PreviewRow) HasErrors() bool {
	for _, issue := range p.Issues {
		if issue.Level == IssueError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any issue is warning-level.
func (p *PreviewRow) HasWarnings() bool {
	for _, issue := range p.Issues {
		if issue.Level == IssueWarning {
			return true
		}
	}
	return false
}
