package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"onepage/internal/config"
	apperrors "onepage/internal/errors"
)

// writeWorkbook creates an xlsx fixture with the given rows on Sheet1
func writeWorkbook(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, value))
		}
	}
	require.NoError(t, f.SaveAs(path))
}

// writeLatin1CSV creates a Latin-1 encoded semicolon CSV fixture
func writeLatin1CSV(t *testing.T, path string, content string) {
	t.Helper()

	encoded, err := charmap.ISO8859_1.NewEncoder().String(content)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(encoded), 0644))
}

func setupInputs(t *testing.T) config.PathsConfig {
	t.Helper()
	dir := t.TempDir()

	writeWorkbook(t, filepath.Join(dir, "Sales.xlsx"), [][]interface{}{
		{"Sale Code", "Date", "Store ID", "Product", "Quantity", "Unit Value", "Total Value"},
		{"S1", "2024-03-15", "1", "Shirt", 2, 50.0, 100.0},
		{"S1", "2024-03-15", "1", "Belt", 1, 30.0, 30.0},
		{"S2", "2024-03-14", "2", "Shoes", 1, 1250.5, 1250.5},
	})

	writeLatin1CSV(t, filepath.Join(dir, "Stores.csv"),
		"Store ID;Store\n1;São Paulo\n2;Airport\n")

	writeWorkbook(t, filepath.Join(dir, "Emails.xlsx"), [][]interface{}{
		{"Store", "Manager", "E-mail"},
		{"São Paulo", "Ana", "ana@example.com"},
		{"Airport", "Bruno", "bruno@example.com"},
		{"CEO", "Helena", "helena@example.com"},
	})

	return config.PathsConfig{
		DataDir:    dir,
		SalesFile:  "Sales.xlsx",
		StoresFile: "Stores.csv",
		EmailsFile: "Emails.xlsx",
	}
}

func TestLoaderLoad(t *testing.T) {
	loader := NewLoader(setupInputs(t))

	ds, err := loader.Load()
	require.NoError(t, err)

	require.Len(t, ds.Sales, 3)
	require.Len(t, ds.Stores, 2)
	require.Len(t, ds.Contacts, 3)

	assert.Equal(t, "S1", ds.Sales[0].SaleCode)
	assert.Equal(t, "1", ds.Sales[0].StoreID)
	assert.Equal(t, int64(2), ds.Sales[0].Quantity)
	assert.Equal(t, "100", ds.Sales[0].Amount.String())
	assert.Equal(t, 2024, ds.Sales[0].Date.Year())

	// The Latin-1 store name survives decoding
	assert.Equal(t, "São Paulo", ds.Stores[0].Name)

	contact, ok := ds.ManagementContact()
	require.True(t, ok)
	assert.Equal(t, "helena@example.com", contact.Email)

	latest, ok := ds.LatestSaleDate()
	require.True(t, ok)
	assert.Equal(t, 15, latest.Day())
}

func TestLoaderMissingColumnIsFatal(t *testing.T) {
	paths := setupInputs(t)
	// Rewrite the sales workbook without the Total Value column
	writeWorkbook(t, filepath.Join(paths.DataDir, "Sales.xlsx"), [][]interface{}{
		{"Sale Code", "Date", "Store ID", "Product", "Quantity", "Unit Value"},
		{"S1", "2024-03-15", "1", "Shirt", 2, 50.0},
	})

	_, err := NewLoader(paths).Load()
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeMissingColumn))
	assert.Contains(t, err.Error(), "total value")
}

func TestLoaderBadAmountIsFatal(t *testing.T) {
	paths := setupInputs(t)
	writeWorkbook(t, filepath.Join(paths.DataDir, "Sales.xlsx"), [][]interface{}{
		{"Sale Code", "Date", "Store ID", "Product", "Quantity", "Unit Value", "Total Value"},
		{"S1", "2024-03-15", "1", "Shirt", 1, 50.0, "not-a-number"},
	})

	_, err := NewLoader(paths).Load()
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeBadValue))
}

func TestLoaderBadDateIsFatal(t *testing.T) {
	paths := setupInputs(t)
	writeWorkbook(t, filepath.Join(paths.DataDir, "Sales.xlsx"), [][]interface{}{
		{"Sale Code", "Date", "Store ID", "Product", "Quantity", "Unit Value", "Total Value"},
		{"S1", "someday", "1", "Shirt", 1, 50.0, 50.0},
	})

	_, err := NewLoader(paths).Load()
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeBadValue))
}

func TestLoaderEmptySalesIsFatal(t *testing.T) {
	paths := setupInputs(t)
	writeWorkbook(t, filepath.Join(paths.DataDir, "Sales.xlsx"), [][]interface{}{
		{"Sale Code", "Date", "Store ID", "Product", "Quantity", "Unit Value", "Total Value"},
	})

	_, err := NewLoader(paths).Load()
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeEmptyInput))
}

func TestLoaderMissingFileIsFatal(t *testing.T) {
	paths := setupInputs(t)
	require.NoError(t, os.Remove(filepath.Join(paths.DataDir, "Stores.csv")))

	_, err := NewLoader(paths).Load()
	require.Error(t, err)
}

func TestLoaderInvalidEmailIsFatal(t *testing.T) {
	paths := setupInputs(t)
	writeWorkbook(t, filepath.Join(paths.DataDir, "Emails.xlsx"), [][]interface{}{
		{"Store", "Manager", "E-mail"},
		{"São Paulo", "Ana", "not-an-email"},
	})

	_, err := NewLoader(paths).Load()
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeBadValue))
}

func TestLoaderDuplicateStoreIsFatal(t *testing.T) {
	paths := setupInputs(t)
	writeLatin1CSV(t, filepath.Join(paths.DataDir, "Stores.csv"),
		"Store ID;Store\n1;São Paulo\n1;São Paulo Centro\n2;Airport\n")

	_, err := NewLoader(paths).Load()
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeDuplicateStore))
	assert.Contains(t, err.Error(), `store id "1"`)
}

func TestLoaderSkipsPreambleRows(t *testing.T) {
	paths := setupInputs(t)
	// A title block above the real header shares the "Date" column name;
	// the loader must keep scanning instead of failing on the first hit
	writeWorkbook(t, filepath.Join(paths.DataDir, "Sales.xlsx"), [][]interface{}{
		{"Sales Export"},
		{"Date", "2024-03-15"},
		{"Sale Code", "Date", "Store ID", "Product", "Quantity", "Unit Value", "Total Value"},
		{"S1", "2024-03-15", "1", "Shirt", 2, 50.0, 100.0},
	})

	ds, err := NewLoader(paths).Load()
	require.NoError(t, err)
	require.Len(t, ds.Sales, 1)
	assert.Equal(t, "S1", ds.Sales[0].SaleCode)
}

func TestParseDateFormats(t *testing.T) {
	tests := []struct {
		name  string
		value string
		day   int
	}{
		{"iso", "2024-03-15", 15},
		{"excel short", "03-15-24", 15},
		{"serial", "45366", 15}, // 2024-03-15 as an Excel serial
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := parseDate(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.day, parsed.Day())
			assert.Equal(t, 2024, parsed.Year())
		})
	}

	_, err := parseDate("")
	assert.Error(t, err)
}

func TestParseAmountToleratesSeparators(t *testing.T) {
	amount, err := parseAmount("1,234.56")
	require.NoError(t, err)
	assert.Equal(t, "1234.56", amount.String())

	amount, err = parseAmount("1,234,567.89")
	require.NoError(t, err)
	assert.Equal(t, "1234567.89", amount.String())

	zero, err := parseAmount("")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())
}

func TestParseAmountRejectsDecimalComma(t *testing.T) {
	// Decimal-comma locales would lose their fractional part if the comma
	// were stripped as grouping, so these cells must fail loudly
	for _, value := range []string{"1.234,56", "12,34", "1,23,456.78"} {
		_, err := parseAmount(value)
		assert.Error(t, err, "value %q", value)
	}
}
