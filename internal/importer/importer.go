// Package importer provides CSV, Excel and JSON import for cargo lists.
// It supports automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/CargoFit/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Specs    []model.CargoSpec
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
// -1 means the column is absent.
type ColumnMapping struct {
	ID           int
	Name         int
	Length       int
	Width        int
	Height       int
	Weight       int
	Quantity     int
	NonStackable int
	NonRotatable int
}

// column roles in positional order, used when no header is present
const (
	roleID           = "id"
	roleName         = "name"
	roleLength       = "length"
	roleWidth        = "width"
	roleHeight       = "height"
	roleWeight       = "weight"
	roleQuantity     = "quantity"
	roleNonStackable = "non_stackable"
	roleNonRotatable = "non_rotatable"
)

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	roleID:           {"id", "sku", "code", "item id", "article"},
	roleName:         {"name", "label", "description", "desc", "item", "cargo", "product"},
	roleLength:       {"length", "l", "len", "length (cm)"},
	roleWidth:        {"width", "w", "width (cm)"},
	roleHeight:       {"height", "h", "height (cm)"},
	roleWeight:       {"weight", "kg", "wt", "mass", "weight (kg)"},
	roleQuantity:     {"quantity", "qty", "count", "pcs", "pieces", "units", "amount"},
	roleNonStackable: {"non_stackable", "non stackable", "nonstackable", "no stack", "do not stack", "fragile"},
	roleNonRotatable: {"non_rotatable", "non rotatable", "nonrotatable", "no rotate", "this side up", "upright"},
}

func (m *ColumnMapping) slot(role string) *int {
	switch role {
	case roleID:
		return &m.ID
	case roleName:
		return &m.Name
	case roleLength:
		return &m.Length
	case roleWidth:
		return &m.Width
	case roleHeight:
		return &m.Height
	case roleWeight:
		return &m.Weight
	case roleQuantity:
		return &m.Quantity
	case roleNonStackable:
		return &m.NonStackable
	case roleNonRotatable:
		return &m.NonRotatable
	}
	return nil
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range []rune{',', ';', '\t', '|'} {
		records, err := readCSV(bytes.NewReader(data), delim)
		if err != nil || len(records) < 1 || len(records[0]) < 2 {
			continue
		}

		cols := len(records[0])
		consistent := 0
		for _, row := range records {
			if len(row) == cols {
				consistent++
			}
		}

		if weighted := consistent*10 + cols; weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}
	return bestDelimiter
}

func readCSV(r io.Reader, delim rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Matching is case-insensitive against known aliases; the first column wins
// when a role appears twice. Returns the mapping and true if a header was
// detected, or the positional mapping and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{-1, -1, -1, -1, -1, -1, -1, -1, -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if p := mapping.slot(role); *p == -1 {
					*p = i
				}
			}
		}
	}

	if !isHeader {
		// Positional: Name, Length, Width, Height, Weight, Quantity, NonStackable, NonRotatable
		return ColumnMapping{
			ID:           -1,
			Name:         0,
			Length:       1,
			Width:        2,
			Height:       3,
			Weight:       4,
			Quantity:     5,
			NonStackable: 6,
			NonRotatable: 7,
		}, false
	}
	return mapping, true
}

// parseFlag converts a yes/no style cell to a bool. It returns the value and
// whether the string was recognized; empty cells are false.
func parseFlag(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "t", "1", "x":
		return true, true
	case "", "no", "n", "false", "f", "0", "-":
		return false, true
	default:
		return false, false
	}
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parsePositive(row []string, idx int, rowLabel, field string) (float64, string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, field)
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, field, s)
	}
	if !(v > 0) {
		return 0, fmt.Sprintf("%s: %s must be positive", rowLabel, field)
	}
	return v, ""
}

// parseRow extracts a CargoSpec from a row using the given column mapping.
// Returns the spec, any error message, and any warnings.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, specCount int) (model.CargoSpec, string, []string) {
	name := getCell(row, mapping.Name)
	if name == "" {
		name = fmt.Sprintf("Item %d", specCount+1)
	}

	var dims [4]float64
	fields := []struct {
		idx  int
		name string
	}{
		{mapping.Length, "length"},
		{mapping.Width, "width"},
		{mapping.Height, "height"},
		{mapping.Weight, "weight"},
	}
	for i, f := range fields {
		v, errMsg := parsePositive(row, f.idx, rowLabel, f.name)
		if errMsg != "" {
			return model.CargoSpec{}, errMsg, nil
		}
		dims[i] = v
	}

	qty := 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		q, err := strconv.Atoi(qtyStr)
		if err != nil {
			return model.CargoSpec{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), nil
		}
		if q <= 0 {
			return model.CargoSpec{}, fmt.Sprintf("%s: quantity must be positive", rowLabel), nil
		}
		qty = q
	}

	spec := model.NewCargoSpec(name, dims[0], dims[1], dims[2], dims[3], qty)
	if id := getCell(row, mapping.ID); id != "" {
		spec.ID = id
	}

	var warnings []string
	flag := func(idx int, field string) bool {
		s := getCell(row, idx)
		v, ok := parseFlag(s)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown %s value '%s', defaulting to no", rowLabel, field, s))
		}
		return v
	}
	spec.NonStackable = flag(mapping.NonStackable, "non-stackable")
	spec.NonRotatable = flag(mapping.NonRotatable, "non-rotatable")

	return spec, "", warnings
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportFile imports a cargo list, choosing the format from the file
// extension: .csv/.txt/.tsv, .xlsx/.xlsm, or .json/.jsonc.
func ImportFile(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		return ImportExcel(path)
	case ".json", ".jsonc":
		return ImportJSON(path)
	default:
		return ImportCSV(path)
	}
}

// ImportCSV imports cargo specs from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports cargo specs from a CSV reader with a specific
// delimiter. This is useful for testing or when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	records, err := readCSV(reader, delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports cargo specs from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into specs.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		for _, req := range []struct {
			idx  int
			name string
		}{
			{mapping.Length, "Length"},
			{mapping.Width, "Width"},
			{mapping.Height, "Height"},
			{mapping.Weight, "Weight"},
		} {
			if req.idx == -1 {
				missing = append(missing, req.name)
			}
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 5 {
		// A first row whose length column is not numeric is an unrecognized
		// header; skip it but keep the positional mapping.
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	seen := make(map[string]string)
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		spec, errMsg, warnings := parseRow(row, mapping, rowLabel, len(result.Specs))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if first, dup := seen[spec.ID]; dup {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Duplicate id '%s' (first used on %s)", rowLabel, spec.ID, first))
			continue
		}
		seen[spec.ID] = rowLabel
		result.Warnings = append(result.Warnings, warnings...)
		result.Specs = append(result.Specs, spec)
	}

	return result
}
