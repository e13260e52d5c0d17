// Package dataset loads the three tabular inputs of a reporting run: the
// sales workbook, the store directory CSV and the manager email workbook.
// Headers are matched case-insensitively and by position, so column order in
// the source files does not matter. A missing required column or an
// unparseable value is a DataError; nothing is written before loading
// succeeds.
package dataset

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"onepage/internal/config"
	apperrors "onepage/internal/errors"
	"onepage/pkg/contracts/domain"
)

// Required columns per input, matched after normalization
var (
	salesColumns   = []string{"sale code", "date", "store id", "product", "quantity", "unit value", "total value"}
	storeColumns   = []string{"store id", "store"}
	contactColumns = []string{"store", "manager", "e-mail"}
)

// Loader reads the three inputs configured in PathsConfig
type Loader struct {
	paths    config.PathsConfig
	validate *validator.Validate
}

// NewLoader creates a loader for the configured input locations
func NewLoader(paths config.PathsConfig) *Loader {
	return &Loader{
		paths:    paths,
		validate: validator.New(),
	}
}

// Load reads and validates all three inputs and returns them as one dataset
func (l *Loader) Load() (*domain.Dataset, error) {
	sales, err := l.loadSales()
	if err != nil {
		return nil, fmt.Errorf("loading sales: %w", err)
	}

	stores, err := l.loadStores()
	if err != nil {
		return nil, fmt.Errorf("loading stores: %w", err)
	}

	contacts, err := l.loadContacts()
	if err != nil {
		return nil, fmt.Errorf("loading contacts: %w", err)
	}

	slog.Info("dataset loaded",
		slog.Int("sales", len(sales)),
		slog.Int("stores", len(stores)),
		slog.Int("contacts", len(contacts)))

	return &domain.Dataset{Sales: sales, Stores: stores, Contacts: contacts}, nil
}

// loadSales reads the sales workbook
func (l *Loader) loadSales() ([]domain.SalesRecord, error) {
	path := l.paths.SalesPath()
	rows, err := readWorkbookRows(path)
	if err != nil {
		return nil, err
	}

	headerRow, columns, err := findHeader(rows, salesColumns, path)
	if err != nil {
		return nil, err
	}

	records := make([]domain.SalesRecord, 0, len(rows))
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		rowNum := i + 1

		date, err := parseDate(cellAt(row, columns["date"]))
		if err != nil {
			return nil, apperrors.NewDataError(apperrors.CodeBadValue, path, "invalid date").
				WithRow(rowNum).WithCause(err)
		}

		quantity, err := parseQuantity(cellAt(row, columns["quantity"]))
		if err != nil {
			return nil, apperrors.NewDataError(apperrors.CodeBadValue, path, "invalid quantity").
				WithRow(rowNum).WithCause(err)
		}

		unitValue, err := parseAmount(cellAt(row, columns["unit value"]))
		if err != nil {
			return nil, apperrors.NewDataError(apperrors.CodeBadValue, path, "invalid unit value").
				WithRow(rowNum).WithCause(err)
		}

		amount, err := parseAmount(cellAt(row, columns["total value"]))
		if err != nil {
			return nil, apperrors.NewDataError(apperrors.CodeBadValue, path, "invalid total value").
				WithRow(rowNum).WithCause(err)
		}

		record := domain.SalesRecord{
			SaleCode:  cellAt(row, columns["sale code"]),
			Date:      date,
			StoreID:   cellAt(row, columns["store id"]),
			Product:   cellAt(row, columns["product"]),
			Quantity:  quantity,
			UnitValue: unitValue,
			Amount:    amount,
		}

		if err := l.validate.Struct(record); err != nil {
			return nil, apperrors.NewDataError(apperrors.CodeBadValue, path, "invalid sales record").
				WithRow(rowNum).WithCause(err)
		}

		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, apperrors.NewDataError(apperrors.CodeEmptyInput, path, "no sales records found")
	}

	return records, nil
}

// loadStores reads the store directory CSV. The file is Latin-1 encoded and
// semicolon separated, the format the upstream export produces.
func (l *Loader) loadStores() ([]domain.Store, error) {
	path := l.paths.StoresPath()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(file))
	reader.Comma = ';'
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	headerRow, columns, err := findHeader(rows, storeColumns, path)
	if err != nil {
		return nil, err
	}

	stores := make([]domain.Store, 0, len(rows))
	seen := make(map[string]int, len(rows))
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		store := domain.Store{
			ID:   cellAt(row, columns["store id"]),
			Name: cellAt(row, columns["store"]),
		}

		if err := l.validate.Struct(store); err != nil {
			return nil, apperrors.NewDataError(apperrors.CodeBadValue, path, "invalid store record").
				WithRow(i + 1).WithCause(err)
		}

		if firstRow, dup := seen[store.ID]; dup {
			return nil, apperrors.NewDataError(apperrors.CodeDuplicateStore, path,
				fmt.Sprintf("store id %q already defined on row %d", store.ID, firstRow)).
				WithRow(i + 1)
		}
		seen[store.ID] = i + 1

		stores = append(stores, store)
	}

	if len(stores) == 0 {
		return nil, apperrors.NewDataError(apperrors.CodeEmptyInput, path, "no stores found")
	}

	return stores, nil
}

// loadContacts reads the manager email workbook
func (l *Loader) loadContacts() ([]domain.ManagerContact, error) {
	path := l.paths.EmailsPath()
	rows, err := readWorkbookRows(path)
	if err != nil {
		return nil, err
	}

	headerRow, columns, err := findHeader(rows, contactColumns, path)
	if err != nil {
		return nil, err
	}

	contacts := make([]domain.ManagerContact, 0, len(rows))
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		contact := domain.ManagerContact{
			StoreName: cellAt(row, columns["store"]),
			Manager:   cellAt(row, columns["manager"]),
			Email:     cellAt(row, columns["e-mail"]),
		}

		if err := l.validate.Struct(contact); err != nil {
			return nil, apperrors.NewDataError(apperrors.CodeBadValue, path, "invalid contact record").
				WithRow(i + 1).WithCause(err)
		}

		contacts = append(contacts, contact)
	}

	if len(contacts) == 0 {
		return nil, apperrors.NewDataError(apperrors.CodeEmptyInput, path, "no contacts found")
	}

	return contacts, nil
}

// readWorkbookRows opens an Excel workbook and returns the rows of its first
// sheet as formatted strings
func readWorkbookRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewDataError(apperrors.CodeEmptyInput, path, "workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// findHeader scans the first rows for one containing every required column
// and returns its index plus a normalized column name to position map
func findHeader(rows [][]string, required []string, source string) (int, map[string]int, error) {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}

	var bestMissing []string
	bestRow := -1
	for i := 0; i < limit; i++ {
		columns := make(map[string]int, len(rows[i]))
		for pos, cell := range rows[i] {
			name := normalizeHeader(cell)
			if name == "" {
				continue
			}
			if _, seen := columns[name]; !seen {
				columns[name] = pos
			}
		}

		missing := missingColumns(columns, required)
		if len(missing) == 0 {
			return i, columns, nil
		}

		// Remember the closest partial match; a preamble row that happens
		// to share one column name must not shadow a later complete header
		if len(missing) < len(required) && (bestRow < 0 || len(missing) < len(bestMissing)) {
			bestMissing = missing
			bestRow = i
		}
	}

	if bestRow >= 0 {
		return 0, nil, apperrors.NewDataError(apperrors.CodeMissingColumn, source,
			fmt.Sprintf("missing required columns: %s", strings.Join(bestMissing, ", "))).
			WithRow(bestRow + 1)
	}

	return 0, nil, apperrors.NewDataError(apperrors.CodeMissingColumn, source,
		fmt.Sprintf("no header row with required columns: %s", strings.Join(required, ", ")))
}

func missingColumns(columns map[string]int, required []string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// normalizeHeader lowercases and trims a header cell
func normalizeHeader(cell string) string {
	return strings.ToLower(strings.TrimSpace(cell))
}

// cellAt returns the trimmed cell at pos, empty when the row is short
func cellAt(row []string, pos int) string {
	if pos < 0 || pos >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[pos])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// dateLayouts covers the formats excelize produces for date cells plus the
// plain string forms seen in the source exports
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/06 15:04",
	"01/02/2006",
	"02/01/2006",
	time.RFC3339,
}

// parseDate parses a date cell, falling back to the Excel serial number form
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	// Excel serial date: days since 1899-12-30
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
		return epoch.Add(time.Duration(serial * 24 * float64(time.Hour))), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// parseAmount parses a money cell, tolerating thousands separators. Commas
// are accepted only as grouping in the "1,234.56" form; a comma in any other
// position means the cell uses a decimal-comma locale and stripping it would
// silently shift the value, so it is rejected instead.
func parseAmount(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	cleaned := strings.ReplaceAll(value, " ", "")
	if strings.Contains(cleaned, ",") {
		parts := strings.Split(cleaned, ",")
		for i, part := range parts[1:] {
			digits := part
			if i == len(parts)-2 {
				if dot := strings.IndexByte(part, '.'); dot >= 0 {
					digits = part[:dot]
				}
			}
			if len(digits) != 3 || !allDigits(digits) {
				return decimal.Zero, fmt.Errorf("ambiguous amount %q: comma is not a thousands separator", value)
			}
		}
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}
	return decimal.NewFromString(cleaned)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// parseQuantity parses a quantity cell, which excelize may format as a float
func parseQuantity(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}
