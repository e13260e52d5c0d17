package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RankingPeriod identifies which aggregation window a ranking covers
type RankingPeriod string

const (
	RankingPeriodDaily  RankingPeriod = "daily"
	RankingPeriodAnnual RankingPeriod = "annual"
)

// RankingEntry is one store's position in a ranking
type RankingEntry struct {
	StoreID   string          `json:"store_id"`
	StoreName string          `json:"store_name"`
	Total     decimal.Decimal `json:"total"`
	Position  int             `json:"position"`
}

// Ranking is an ordered list of stores by aggregated sales total.
// Entries are sorted by total descending, ties broken by ascending store id,
// and every store of the directory appears exactly once.
type Ranking struct {
	Period  RankingPeriod  `json:"period"`
	Date    time.Time      `json:"date"`
	Entries []RankingEntry `json:"entries"`
}

// Best returns the top-ranked entry. The boolean is false for an empty ranking.
func (r Ranking) Best() (RankingEntry, bool) {
	if len(r.Entries) == 0 {
		return RankingEntry{}, false
	}
	return r.Entries[0], true
}

// Worst returns the bottom-ranked entry. The boolean is false for an empty ranking.
func (r Ranking) Worst() (RankingEntry, bool) {
	if len(r.Entries) == 0 {
		return RankingEntry{}, false
	}
	return r.Entries[len(r.Entries)-1], true
}

// PositionOf returns the 1-based position of a store in the ranking,
// or 0 when the store is absent.
func (r Ranking) PositionOf(storeID string) int {
	for _, e := range r.Entries {
		if e.StoreID == storeID {
			return e.Position
		}
	}
	return 0
}

// PeriodIndicators holds the computed indicators for one store over one window
type PeriodIndicators struct {
	Revenue       decimal.Decimal `json:"revenue"`
	ProductCount  int             `json:"product_count"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
}

// StoreIndicators holds the daily and annual indicators for one store
type StoreIndicators struct {
	StoreID   string           `json:"store_id"`
	StoreName string           `json:"store_name"`
	Day       PeriodIndicators `json:"day"`
	Year      PeriodIndicators `json:"year"`
}

// Scenario is the outcome of comparing an indicator against its goal
type Scenario string

const (
	ScenarioGreen Scenario = "green"
	ScenarioRed   Scenario = "red"
)

// CompareGoal returns green when the value meets or exceeds the goal
func CompareGoal(value, goal decimal.Decimal) Scenario {
	if value.GreaterThanOrEqual(goal) {
		return ScenarioGreen
	}
	return ScenarioRed
}
