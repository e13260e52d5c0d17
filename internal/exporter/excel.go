// Package exporter writes the run's output workbooks: one per-store backup
// workbook with that store's transactions and totals, and the two ranking
// workbooks at the backup root. Files for the same analysis date are
// overwritten in place; writes go through a temp file and rename so an
// interrupted save never leaves a torn workbook behind.
package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"onepage/internal/files"
	"onepage/pkg/contracts/domain"
)

const (
	salesSheet   = "Sales"
	summarySheet = "Summary"
	rankingSheet = "Ranking"
)

var salesHeaders = []string{"Sale Code", "Date", "Store ID", "Product", "Quantity", "Unit Value", "Total Value"}

// ExcelWriter writes the backup and ranking workbooks
type ExcelWriter struct {
	files *files.Manager
}

// NewExcelWriter creates a writer rooted at the file manager's backup tree
func NewExcelWriter(fm *files.Manager) *ExcelWriter {
	return &ExcelWriter{files: fm}
}

// StoreReportPath returns the path of a store's backup workbook for a date
func (w *ExcelWriter) StoreReportPath(store domain.Store, date time.Time) string {
	name := fmt.Sprintf("%d_%d_%s.xlsx", int(date.Month()), date.Day(), files.SafeName(store.Name))
	return filepath.Join(w.files.StoreDir(store), name)
}

// RankingPath returns the path of a ranking workbook at the backup root
func (w *ExcelWriter) RankingPath(r domain.Ranking) string {
	suffix := "Ranking_Anual"
	if r.Period == domain.RankingPeriodDaily {
		suffix = "Ranking_Dia"
	}
	name := fmt.Sprintf("%d_%d_%s.xlsx", int(r.Date.Month()), r.Date.Day(), suffix)
	return filepath.Join(w.files.BackupDir(), name)
}

// WriteStoreReport writes one store's backup workbook: a Sales sheet with
// the store's transaction lines for the analysis year and a Summary sheet
// with the computed indicators. A store with no transactions still gets a
// workbook with headers and zero totals.
func (w *ExcelWriter) WriteStoreReport(store domain.Store, sales []domain.SalesRecord, ind domain.StoreIndicators, date time.Time) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", salesSheet); err != nil {
		return "", fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := writeRow(f, salesSheet, 1, headerCells(salesHeaders)); err != nil {
		return "", err
	}

	for i, sale := range sales {
		cells := []interface{}{
			sale.SaleCode,
			sale.Date.Format("2006-01-02"),
			sale.StoreID,
			sale.Product,
			sale.Quantity,
			sale.UnitValue.InexactFloat64(),
			sale.Amount.InexactFloat64(),
		}
		if err := writeRow(f, salesSheet, i+2, cells); err != nil {
			return "", err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return "", fmt.Errorf("failed to create summary sheet: %w", err)
	}

	summary := [][]interface{}{
		{"Indicator", "Day", "Year"},
		{"Revenue", ind.Day.Revenue.InexactFloat64(), ind.Year.Revenue.InexactFloat64()},
		{"Product Diversity", ind.Day.ProductCount, ind.Year.ProductCount},
		{"Average Ticket", ind.Day.AverageTicket.InexactFloat64(), ind.Year.AverageTicket.InexactFloat64()},
	}
	for i, cells := range summary {
		if err := writeRow(f, summarySheet, i+1, cells); err != nil {
			return "", err
		}
	}

	path := w.StoreReportPath(store, date)
	if err := saveWorkbook(f, path); err != nil {
		return "", err
	}

	slog.Info("store report written",
		slog.String("store", store.Name),
		slog.String("path", path),
		slog.Int("transactions", len(sales)))

	return path, nil
}

// WriteRanking writes one ranking workbook at the backup root, one row per
// entry in ranking order
func (w *ExcelWriter) WriteRanking(r domain.Ranking) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", rankingSheet); err != nil {
		return "", fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := writeRow(f, rankingSheet, 1, headerCells([]string{"Position", "Store ID", "Store", "Total Value"})); err != nil {
		return "", err
	}

	for i, entry := range r.Entries {
		cells := []interface{}{
			entry.Position,
			entry.StoreID,
			entry.StoreName,
			entry.Total.InexactFloat64(),
		}
		if err := writeRow(f, rankingSheet, i+2, cells); err != nil {
			return "", err
		}
	}

	path := w.RankingPath(r)
	if err := saveWorkbook(f, path); err != nil {
		return "", err
	}

	slog.Info("ranking written",
		slog.String("period", string(r.Period)),
		slog.String("path", path),
		slog.Int("entries", len(r.Entries)))

	return path, nil
}

// writeRow writes one row of cells starting at column A
func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	for col, value := range cells {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to resolve cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}
	return nil
}

func headerCells(headers []string) []interface{} {
	cells := make([]interface{}, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	return cells
}

// saveWorkbook saves through a temp file in the target directory and renames
// into place
func saveWorkbook(f *excelize.File, path string) error {
	tmp := path + ".tmp"
	if err := f.SaveAs(tmp); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move workbook into place: %w", err)
	}
	return nil
}
