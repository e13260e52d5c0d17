// Package report computes the per-store aggregates of a reporting run: the
// daily and annual sales rankings and the indicator set each manager mail is
// built from. All functions are pure over the loaded dataset and the
// analysis date.
package report

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	apperrors "onepage/internal/errors"
	"onepage/pkg/contracts/domain"
)

// BuildRankings produces the daily and annual rankings for the analysis
// date. Every store of the directory appears in both rankings, zero totals
// included; order is total descending with ties broken by ascending store
// id. A sale referencing a store id absent from the directory fails the
// build with a DataError, as does a directory listing the same id twice.
func BuildRankings(ds *domain.Dataset, analysisDate time.Time) (daily, annual domain.Ranking, err error) {
	storesByID := ds.StoresByID()
	if len(storesByID) != len(ds.Stores) {
		seen := make(map[string]bool, len(ds.Stores))
		for _, s := range ds.Stores {
			if seen[s.ID] {
				return domain.Ranking{}, domain.Ranking{}, apperrors.NewDataError(
					apperrors.CodeDuplicateStore, "stores",
					"store id "+s.ID+" appears more than once in the store directory")
			}
			seen[s.ID] = true
		}
	}

	dailyTotals := make(map[string]decimal.Decimal, len(ds.Stores))
	annualTotals := make(map[string]decimal.Decimal, len(ds.Stores))
	for _, s := range ds.Stores {
		dailyTotals[s.ID] = decimal.Zero
		annualTotals[s.ID] = decimal.Zero
	}

	for _, sale := range ds.Sales {
		if _, ok := storesByID[sale.StoreID]; !ok {
			return domain.Ranking{}, domain.Ranking{}, apperrors.NewDataError(
				apperrors.CodeUnknownStore, "sales",
				"sale "+sale.SaleCode+" references unknown store id "+sale.StoreID)
		}
		if sale.Date.Year() == analysisDate.Year() {
			annualTotals[sale.StoreID] = annualTotals[sale.StoreID].Add(sale.Amount)
		}
		if domain.SameDay(sale.Date, analysisDate) {
			dailyTotals[sale.StoreID] = dailyTotals[sale.StoreID].Add(sale.Amount)
		}
	}

	daily = buildRanking(domain.RankingPeriodDaily, analysisDate, ds.Stores, dailyTotals)
	annual = buildRanking(domain.RankingPeriodAnnual, analysisDate, ds.Stores, annualTotals)
	return daily, annual, nil
}

// buildRanking orders the totals into a ranking with 1-based positions
func buildRanking(period domain.RankingPeriod, date time.Time, stores []domain.Store, totals map[string]decimal.Decimal) domain.Ranking {
	entries := make([]domain.RankingEntry, 0, len(stores))
	for _, s := range stores {
		entries = append(entries, domain.RankingEntry{
			StoreID:   s.ID,
			StoreName: s.Name,
			Total:     totals[s.ID],
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		cmp := entries[i].Total.Cmp(entries[j].Total)
		if cmp != 0 {
			return cmp > 0
		}
		return storeIDLess(entries[i].StoreID, entries[j].StoreID)
	})

	for i := range entries {
		entries[i].Position = i + 1
	}

	return domain.Ranking{Period: period, Date: date, Entries: entries}
}

// storeIDLess orders store ids numerically when both are integers, so "9"
// ranks ahead of "10"; otherwise it falls back to the lexicographic order
func storeIDLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}

// SalesByStore splits the sales of the analysis year by store id. Stores
// with no matching sales map to an empty slice so every directory store has
// an entry.
func SalesByStore(ds *domain.Dataset, analysisDate time.Time) map[string][]domain.SalesRecord {
	byStore := make(map[string][]domain.SalesRecord, len(ds.Stores))
	for _, s := range ds.Stores {
		byStore[s.ID] = nil
	}
	for _, sale := range ds.Sales {
		if sale.Date.Year() != analysisDate.Year() {
			continue
		}
		if _, ok := byStore[sale.StoreID]; ok {
			byStore[sale.StoreID] = append(byStore[sale.StoreID], sale)
		}
	}
	return byStore
}
