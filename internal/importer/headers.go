package importer

import "strings"

// Canonical column identifiers. Header cells are matched against the alias
// table; unrecognized headers are reported once and their cells kept raw-only.
type column string

const (
	colLicensePlate  column = "license_plate"
	colManufacturer  column = "manufacturer"
	colModel         column = "model"
	colYear          column = "year"
	colMileageKM     column = "mileage_km"
	colGearbox       column = "gearbox"
	colColor         column = "color"
	colEngineCC      column = "engine_cc"
	colOwnershipType column = "ownership_type"
	colTestDueDate   column = "test_due_date"
	colHand          column = "hand"
	colTrim          column = "trim"
	colAskingPrice   column = "asking_price"
	colListPrice     column = "list_price"
)

// headerAliases maps lowercased, trimmed header text to a canonical column.
// Hebrew aliases match the dealership spreadsheets the mobile app exports;
// English aliases cover hand-built sheets. Matching is exact, not fuzzy:
// column-mapping heuristics are deliberately out of scope.
var headerAliases = map[string]column{
	"license plate":   colLicensePlate,
	"license":         colLicensePlate,
	"plate":           colLicensePlate,
	"plate number":    colLicensePlate,
	"מספר רישוי":      colLicensePlate,
	"מס. רישוי":       colLicensePlate,
	"לוחית רישוי":     colLicensePlate,
	"manufacturer":    colManufacturer,
	"maker":           colManufacturer,
	"make":            colManufacturer,
	"brand":           colManufacturer,
	"יצרן":            colManufacturer,
	"model":           colModel,
	"דגם":             colModel,
	"year":            colYear,
	"model year":      colYear,
	"שנה":             colYear,
	"שנת ייצור":       colYear,
	"mileage":         colMileageKM,
	"mileage km":      colMileageKM,
	"km":              colMileageKM,
	"odometer":        colMileageKM,
	"קילומטראז":       colMileageKM,
	"קילומטראז'":      colMileageKM,
	"ק\"מ":            colMileageKM,
	"gearbox":         colGearbox,
	"gear":            colGearbox,
	"transmission":    colGearbox,
	"גיר":             colGearbox,
	"תיבת הילוכים":    colGearbox,
	"color":           colColor,
	"colour":          colColor,
	"צבע":             colColor,
	"engine":          colEngineCC,
	"engine cc":       colEngineCC,
	"engine volume":   colEngineCC,
	"נפח מנוע":        colEngineCC,
	"ownership":       colOwnershipType,
	"ownership type":  colOwnershipType,
	"בעלות":           colOwnershipType,
	"בעלות קודמת":     colOwnershipType,
	"test due":        colTestDueDate,
	"test due date":   colTestDueDate,
	"test":            colTestDueDate,
	"טסט":             colTestDueDate,
	"תוקף טסט":        colTestDueDate,
	"hand":            colHand,
	"owners":          colHand,
	"יד":              colHand,
	"trim":            colTrim,
	"trim level":      colTrim,
	"רמת גימור":       colTrim,
	"גימור":           colTrim,
	"asking price":    colAskingPrice,
	"price":           colAskingPrice,
	"מחיר":            colAskingPrice,
	"מחיר מבוקש":      colAskingPrice,
	"list price":      colListPrice,
	"listed price":    colListPrice,
	"מחיר מחירון":     colListPrice,
	"מחירון":          colListPrice,
}

// resolveColumn maps one header cell to its canonical column. The second
// return is false for headers the alias table does not know.
func resolveColumn(header string) (column, bool) {
	key := strings.ToLower(strings.TrimSpace(header))
	key = strings.Trim(key, ":*")
	key = strings.Join(strings.Fields(key), " ")
	col, ok := headerAliases[key]
	return col, ok
}
