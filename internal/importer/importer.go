package importer

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/drivelot/inventory-api/internal/domain/model"
)

// ID and Version identify this parser build. Both are recorded on every job
// so a summary can always be traced back to the code that produced it.
const (
	ID      = "spreadsheet-importer"
	Version = "1.4.0"
)

// ErrEmptyFile is returned for uploads with no data rows.
var ErrEmptyFile = errors.New("spreadsheet contains no data rows")

// ErrUnsupportedFormat is returned for file extensions the parser cannot read.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// Result is the outcome of parsing one uploaded spreadsheet. Rows carry no
// JobID; the caller stamps it before persisting. IgnoredColumns lists header
// cells that matched no known field; it belongs to the file as a whole, not
// to any row.
type Result struct {
	Rows           []*model.PreviewRow
	ContentHash    string
	IgnoredColumns []string
}

// Parse reads an uploaded spreadsheet and produces validated preview rows.
// The format is chosen by extension: .xlsx via excelize, .csv via stdlib csv.
// currentYear anchors the model-year range check.
func Parse(fileName string, r io.Reader, currentYear int) (*Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read uploaded file: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyFile
	}

	sum := sha256.Sum256(raw)
	contentHash := hex.EncodeToString(sum[:])

	var records [][]string
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xlsm":
		records, err = readXLSX(raw)
	case ".csv", ".txt":
		records, err = readCSV(raw)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(fileName))
	}
	if err != nil {
		return nil, err
	}

	rows, ignored, err := buildRows(records, currentYear)
	if err != nil {
		return nil, err
	}

	markInFileDuplicates(rows)
	return &Result{Rows: rows, ContentHash: contentHash, IgnoredColumns: ignored}, nil
}

func readXLSX(raw []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	// Only the first sheet is imported. Additional sheets in dealership
	// exports hold pivot tables and notes, never inventory.
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx rows: %w", err)
	}
	return records, nil
}

func readCSV(raw []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return records, nil
}

// buildRows resolves the header row, then normalizes and validates every data
// row. RowIndex is the 1-based position among data rows, matching what the
// operator sees in their spreadsheet minus the header. The second return
// value lists unrecognized header cells.
func buildRows(records [][]string, currentYear int) ([]*model.PreviewRow, []string, error) {
	headerIdx := -1
	for i, record := range records {
		if !rowEmpty(record) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 || headerIdx == len(records)-1 {
		return nil, nil, ErrEmptyFile
	}

	headers := records[headerIdx]
	columns := make([]column, len(headers))
	mapped := make([]bool, len(headers))
	var unmapped []string
	for i, h := range headers {
		col, ok := resolveColumn(h)
		columns[i] = col
		mapped[i] = ok
		if !ok && strings.TrimSpace(h) != "" {
			unmapped = append(unmapped, strings.TrimSpace(h))
		}
	}
	if !anyMapped(mapped) {
		return nil, nil, errors.New("no recognizable columns in header row")
	}

	var rows []*model.PreviewRow
	rowIndex := 0
	for _, record := range records[headerIdx+1:] {
		if rowEmpty(record) {
			continue
		}
		rowIndex++

		rawCells := make(map[string]string)
		cells := make(map[column]string)
		for i, value := range record {
			if i >= len(headers) {
				break
			}
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			header := strings.TrimSpace(headers[i])
			if header == "" {
				header = fmt.Sprintf("column_%d", i+1)
			}
			rawCells[header] = value
			if mapped[i] {
				cells[columns[i]] = value
			}
		}

		var issues []model.RowIssue
		rec := normalizeRow(cells, &issues)
		validateRecord(rec, currentYear, &issues)

		row := &model.PreviewRow{
			RowIndex:   rowIndex,
			Raw:        rawCells,
			Normalized: rec,
			Issues:     issues,
		}
		if rec.LicensePlate != nil {
			row.DedupeKey = NormalizeLicensePlate(*rec.LicensePlate)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, nil, ErrEmptyFile
	}
	return rows, unmapped, nil
}

// markInFileDuplicates warns on every row whose dedupe key already appeared
// earlier in the file. The first occurrence is the one the commit applies.
func markInFileDuplicates(rows []*model.PreviewRow) {
	seen := make(map[string]int)
	for _, row := range rows {
		if row.DedupeKey == "" {
			continue
		}
		if firstIdx, dup := seen[row.DedupeKey]; dup {
			row.Issues = append(row.Issues, model.RowIssue{
				Level:   model.IssueWarning,
				Code:    model.IssueCodeDuplicateInFile,
				Message: fmt.Sprintf("same license plate as row %d; that row wins", firstIdx),
			})
		} else {
			seen[row.DedupeKey] = row.RowIndex
		}
	}
}

func rowEmpty(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func anyMapped(mapped []bool) bool {
	for _, m := range mapped {
		if m {
			return true
		}
	}
	return false
}
