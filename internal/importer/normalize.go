package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/drivelot/inventory-api/internal/domain/model"
)

// gearbox and ownership values are normalized to a closed vocabulary; values
// outside it pass through with a warning so an unusual sheet still imports.
var gearboxAliases = map[string]string{
	"automatic": "automatic",
	"auto":      "automatic",
	"אוטומט":    "automatic",
	"אוטומטי":   "automatic",
	"manual":    "manual",
	"stick":     "manual",
	"ידני":      "manual",
	"ידנית":     "manual",
	"robotic":   "robotic",
	"רובוטי":    "robotic",
	"רובוטית":   "robotic",
	"cvt":       "cvt",
	"טיפטרוניק": "tiptronic",
	"tiptronic": "tiptronic",
}

var ownershipAliases = map[string]string{
	"private":   "private",
	"פרטי":      "private",
	"פרטית":     "private",
	"company":   "company",
	"חברה":      "company",
	"ליסינג":    "leasing",
	"leasing":   "leasing",
	"lease":     "leasing",
	"rental":    "rental",
	"השכרה":     "rental",
	"taxi":      "taxi",
	"מונית":     "taxi",
	"teaching":  "driving_school",
	"לימוד":     "driving_school",
	"לימוד נהיגה": "driving_school",
}

// dateLayouts covers the formats dealership sheets actually contain.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02.01.2006",
	"01/2006",
	"1/2006",
}

// NormalizeLicensePlate reduces a plate to digits only. Israeli plates are
// 7 or 8 digits; separators and whitespace vary per sheet, so the digits are
// the stable identity.
func NormalizeLicensePlate(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeRow converts one raw row (canonical column → cell text) into a
// typed record, appending an issue for every cell it cannot interpret.
func normalizeRow(cells map[column]string, issues *[]model.RowIssue) model.VehicleRecord {
	var rec model.VehicleRecord

	if v, ok := textCell(cells, colLicensePlate); ok {
		rec.LicensePlate = &v
	}
	if v, ok := textCell(cells, colManufacturer); ok {
		rec.Manufacturer = &v
	}
	if v, ok := textCell(cells, colModel); ok {
		rec.Model = &v
	}
	if v, ok := textCell(cells, colTrim); ok {
		rec.Trim = &v
	}
	if v, ok := textCell(cells, colColor); ok {
		rec.Color = &v
	}

	rec.Year = intCell(cells, colYear, issues)
	rec.MileageKM = intCell(cells, colMileageKM, issues)
	rec.EngineCC = intCell(cells, colEngineCC, issues)
	rec.Hand = intCell(cells, colHand, issues)
	rec.AskingPrice = floatCell(cells, colAskingPrice, issues)
	rec.ListPrice = floatCell(cells, colListPrice, issues)

	if v, ok := textCell(cells, colGearbox); ok {
		normalized, known := gearboxAliases[strings.ToLower(v)]
		if !known {
			normalized = v
			*issues = append(*issues, model.RowIssue{
				Level:   model.IssueWarning,
				Code:    model.IssueCodeUnknownGearbox,
				Message: fmt.Sprintf("unrecognized gearbox %q kept as-is", v),
			})
		}
		rec.Gearbox = &normalized
	}

	if v, ok := textCell(cells, colOwnershipType); ok {
		normalized, known := ownershipAliases[strings.ToLower(v)]
		if !known {
			normalized = v
			*issues = append(*issues, model.RowIssue{
				Level:   model.IssueWarning,
				Code:    model.IssueCodeUnknownOwnership,
				Message: fmt.Sprintf("unrecognized ownership type %q kept as-is", v),
			})
		}
		rec.OwnershipType = &normalized
	}

	if v, ok := textCell(cells, colTestDueDate); ok {
		if t, err := parseDate(v); err == nil {
			rec.TestDueDate = &t
		} else {
			*issues = append(*issues, model.RowIssue{
				Level:   model.IssueWarning,
				Code:    model.IssueCodeBadDate,
				Message: fmt.Sprintf("cannot parse test due date %q", v),
			})
		}
	}

	return rec
}

func textCell(cells map[column]string, col column) (string, bool) {
	v := strings.TrimSpace(cells[col])
	return v, v != ""
}

func intCell(cells map[column]string, col column, issues *[]model.RowIssue) *int {
	v, ok := textCell(cells, col)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(cleanNumber(v))
	if err != nil {
		*issues = append(*issues, model.RowIssue{
			Level:   model.IssueWarning,
			Code:    model.IssueCodeBadNumber,
			Message: fmt.Sprintf("cannot parse %s value %q as a number", col, v),
		})
		return nil
	}
	return &n
}

func floatCell(cells map[column]string, col column, issues *[]model.RowIssue) *float64 {
	v, ok := textCell(cells, col)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(cleanNumber(v), 64)
	if err != nil {
		*issues = append(*issues, model.RowIssue{
			Level:   model.IssueWarning,
			Code:    model.IssueCodeBadNumber,
			Message: fmt.Sprintf("cannot parse %s value %q as a number", col, v),
		})
		return nil
	}
	return &f
}

// cleanNumber strips thousands separators and currency decorations that
// spreadsheets add to numeric cells.
func cleanNumber(v string) string {
	v = strings.TrimSpace(v)
	v = strings.ReplaceAll(v, ",", "")
	v = strings.TrimPrefix(v, "₪")
	v = strings.TrimSuffix(v, "₪")
	v = strings.TrimSuffix(v, "$")
	v = strings.TrimPrefix(v, "$")
	return strings.TrimSpace(v)
}

func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", v)
}
