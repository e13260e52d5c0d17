package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"onepage/internal/config"
)

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

func setupRun(t *testing.T) *config.Config {
	t.Helper()

	dataDir := t.TempDir()
	backupDir := filepath.Join(t.TempDir(), "backup")

	writeWorkbook(t, filepath.Join(dataDir, "Sales.xlsx"), [][]interface{}{
		{"Sale Code", "Date", "Store ID", "Product", "Quantity", "Unit Value", "Total Value"},
		{"S1", "2024-03-15", "1", "Shirt", 1, 500.0, 500.0},
		{"S2", "2024-03-15", "2", "Shoes", 1, 300.0, 300.0},
		{"S3", "2024-03-15", "3", "Coat", 1, 500.0, 500.0},
		{"S4", "2024-03-10", "2", "Boots", 1, 900.0, 900.0},
	})

	stores, err := charmap.ISO8859_1.NewEncoder().String("Store ID;Store\n1;Downtown\n2;Airport\n3;Harbor\n")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "Stores.csv"), []byte(stores), 0644))

	writeWorkbook(t, filepath.Join(dataDir, "Emails.xlsx"), [][]interface{}{
		{"Store", "Manager", "E-mail"},
		{"Downtown", "Ana", "ana@example.com"},
		{"Airport", "Bruno", "bruno@example.com"},
		{"Harbor", "Carla", "carla@example.com"},
		{"CEO", "Helena", "ceo@example.com"},
	})

	return &config.Config{
		Paths: config.PathsConfig{
			DataDir:    dataDir,
			SalesFile:  "Sales.xlsx",
			StoresFile: "Stores.csv",
			EmailsFile: "Emails.xlsx",
			BackupDir:  backupDir,
		},
	}
}

func TestRunWritesAllOutputs(t *testing.T) {
	cfg := setupRun(t)

	result, err := New(cfg).Run(context.Background(), Options{SkipMail: true})
	require.NoError(t, err)

	// Analysis date defaults to the latest sale date
	assert.Equal(t, "2024-03-15", result.AnalysisDate.Format("2006-01-02"))

	// Daily: Downtown and Harbor tie at 500, lower store id first
	require.Len(t, result.Daily.Entries, 3)
	assert.Equal(t, "Downtown", result.Daily.Entries[0].StoreName)
	assert.Equal(t, "Harbor", result.Daily.Entries[1].StoreName)
	assert.Equal(t, "Airport", result.Daily.Entries[2].StoreName)

	// Annual: Airport leads with 300 + 900
	assert.Equal(t, "Airport", result.Annual.Entries[0].StoreName)

	for _, name := range []string{"Downtown", "Airport", "Harbor"} {
		path := filepath.Join(cfg.Paths.BackupDir, name, "3_15_"+name+".xlsx")
		assert.FileExists(t, path)
	}
	assert.FileExists(t, filepath.Join(cfg.Paths.BackupDir, "3_15_Ranking_Dia.xlsx"))
	assert.FileExists(t, filepath.Join(cfg.Paths.BackupDir, "3_15_Ranking_Anual.xlsx"))
}

func TestRunIdempotent(t *testing.T) {
	cfg := setupRun(t)
	a := New(cfg)

	first, err := a.Run(context.Background(), Options{SkipMail: true})
	require.NoError(t, err)
	second, err := a.Run(context.Background(), Options{SkipMail: true})
	require.NoError(t, err)

	assert.Equal(t, first.Daily.Entries, second.Daily.Entries)
	assert.Equal(t, first.Annual.Entries, second.Annual.Entries)
}

func TestRunWithDateOverride(t *testing.T) {
	cfg := setupRun(t)
	date := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

	result, err := New(cfg).Run(context.Background(), Options{SkipMail: true, AnalysisDate: &date})
	require.NoError(t, err)

	// Only Airport sold on March 10
	assert.Equal(t, "Airport", result.Daily.Entries[0].StoreName)
	assert.True(t, result.Daily.Entries[1].Total.IsZero())
	assert.FileExists(t, filepath.Join(cfg.Paths.BackupDir, "3_10_Ranking_Dia.xlsx"))
}

func TestRunUnknownStoreFails(t *testing.T) {
	cfg := setupRun(t)
	writeWorkbook(t, filepath.Join(cfg.Paths.DataDir, "Sales.xlsx"), [][]interface{}{
		{"Sale Code", "Date", "Store ID", "Product", "Quantity", "Unit Value", "Total Value"},
		{"S1", "2024-03-15", "99", "Shirt", 1, 500.0, 500.0},
	})

	_, err := New(cfg).Run(context.Background(), Options{SkipMail: true})
	require.Error(t, err)

	// Nothing is written when the ranking build fails
	_, statErr := os.Stat(cfg.Paths.BackupDir)
	assert.True(t, os.IsNotExist(statErr))
}
