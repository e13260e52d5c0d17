package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "onepage/internal/errors"
	"onepage/pkg/contracts/domain"
)

var analysisDate = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

func sale(t *testing.T, store, code, amount string, date time.Time) domain.SalesRecord {
	t.Helper()
	amt, err := decimal.NewFromString(amount)
	require.NoError(t, err)
	return domain.SalesRecord{
		SaleCode: code,
		Date:     date,
		StoreID:  store,
		Product:  "product-" + code,
		Quantity: 1,
		Amount:   amt,
	}
}

func testDataset(t *testing.T) *domain.Dataset {
	t.Helper()
	return &domain.Dataset{
		Stores: []domain.Store{
			{ID: "1", Name: "Downtown"},
			{ID: "2", Name: "Airport"},
			{ID: "3", Name: "Harbor"},
		},
		Sales: []domain.SalesRecord{
			sale(t, "1", "S1", "500", analysisDate),
			sale(t, "2", "S2", "300", analysisDate),
			sale(t, "3", "S3", "500", analysisDate),
			sale(t, "2", "S4", "950", analysisDate.AddDate(0, -1, 0)),
		},
	}
}

func TestBuildRankingsTieBreakByStoreID(t *testing.T) {
	daily, _, err := BuildRankings(testDataset(t), analysisDate)
	require.NoError(t, err)

	// Stores 1 and 3 tie at 500; the lower store id wins the tie
	require.Len(t, daily.Entries, 3)
	assert.Equal(t, "1", daily.Entries[0].StoreID)
	assert.Equal(t, "3", daily.Entries[1].StoreID)
	assert.Equal(t, "2", daily.Entries[2].StoreID)

	assert.Equal(t, 1, daily.Entries[0].Position)
	assert.Equal(t, 2, daily.Entries[1].Position)
	assert.Equal(t, 3, daily.Entries[2].Position)
}

func TestBuildRankingsAnnualWindow(t *testing.T) {
	ds := testDataset(t)
	// A sale from the previous year must not count toward the annual total
	ds.Sales = append(ds.Sales, sale(t, "1", "S5", "10000", analysisDate.AddDate(-1, 0, 0)))

	_, annual, err := BuildRankings(ds, analysisDate)
	require.NoError(t, err)

	// Airport: 300 on the day plus 950 the month before
	best, ok := annual.Best()
	require.True(t, ok)
	assert.Equal(t, "Airport", best.StoreName)
	assert.True(t, best.Total.Equal(decimal.RequireFromString("1250")), "got %s", best.Total)
}

func TestBuildRankingsZeroSalesStoreIncluded(t *testing.T) {
	ds := testDataset(t)
	ds.Stores = append(ds.Stores, domain.Store{ID: "4", Name: "Suburb"})

	daily, annual, err := BuildRankings(ds, analysisDate)
	require.NoError(t, err)

	require.Len(t, daily.Entries, 4)
	require.Len(t, annual.Entries, 4)

	last := daily.Entries[len(daily.Entries)-1]
	assert.Equal(t, "4", last.StoreID)
	assert.True(t, last.Total.IsZero())
}

func TestBuildRankingsNumericTieBreak(t *testing.T) {
	ds := &domain.Dataset{
		Stores: []domain.Store{
			{ID: "10", Name: "Mall"},
			{ID: "9", Name: "Harbor"},
		},
		Sales: []domain.SalesRecord{
			sale(t, "9", "S1", "500", analysisDate),
			sale(t, "10", "S2", "500", analysisDate),
		},
	}

	daily, _, err := BuildRankings(ds, analysisDate)
	require.NoError(t, err)

	// Numeric ids compare as numbers, so 9 outranks 10 on the tie
	require.Len(t, daily.Entries, 2)
	assert.Equal(t, "9", daily.Entries[0].StoreID)
	assert.Equal(t, "10", daily.Entries[1].StoreID)
}

func TestBuildRankingsDuplicateStoreFails(t *testing.T) {
	ds := testDataset(t)
	ds.Stores = append(ds.Stores, domain.Store{ID: "1", Name: "Downtown Annex"})

	_, _, err := BuildRankings(ds, analysisDate)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeDuplicateStore))
}

func TestBuildRankingsUnknownStoreFails(t *testing.T) {
	ds := testDataset(t)
	ds.Sales = append(ds.Sales, sale(t, "99", "S9", "100", analysisDate))

	_, _, err := BuildRankings(ds, analysisDate)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnknownStore))
}

func TestBuildRankingsDeterministic(t *testing.T) {
	first, _, err := BuildRankings(testDataset(t), analysisDate)
	require.NoError(t, err)
	second, _, err := BuildRankings(testDataset(t), analysisDate)
	require.NoError(t, err)

	assert.Equal(t, first.Entries, second.Entries)
}

func TestSalesByStoreFiltersYear(t *testing.T) {
	ds := testDataset(t)
	ds.Sales = append(ds.Sales, sale(t, "1", "S5", "10000", analysisDate.AddDate(-1, 0, 0)))

	byStore := SalesByStore(ds, analysisDate)

	require.Contains(t, byStore, "1")
	assert.Len(t, byStore["1"], 1)
	assert.Len(t, byStore["2"], 2)
	// Every directory store has an entry even without sales
	ds.Stores = append(ds.Stores, domain.Store{ID: "4", Name: "Suburb"})
	byStore = SalesByStore(ds, analysisDate)
	assert.Contains(t, byStore, "4")
	assert.Empty(t, byStore["4"])
}
