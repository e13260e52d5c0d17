package report

import (
	"time"

	"github.com/shopspring/decimal"

	"onepage/pkg/contracts/domain"
)

// BuildIndicators computes the daily and annual indicator set for every
// store in the directory: revenue, product diversity and average ticket.
// Average ticket is the mean of per-sale-code totals, not per line, so a
// multi-line sale counts once.
func BuildIndicators(ds *domain.Dataset, analysisDate time.Time) map[string]domain.StoreIndicators {
	salesByStore := SalesByStore(ds, analysisDate)

	indicators := make(map[string]domain.StoreIndicators, len(ds.Stores))
	for _, store := range ds.Stores {
		storeSales := salesByStore[store.ID]

		var daySales []domain.SalesRecord
		for _, sale := range storeSales {
			if domain.SameDay(sale.Date, analysisDate) {
				daySales = append(daySales, sale)
			}
		}

		indicators[store.ID] = domain.StoreIndicators{
			StoreID:   store.ID,
			StoreName: store.Name,
			Day:       periodIndicators(daySales),
			Year:      periodIndicators(storeSales),
		}
	}

	return indicators
}

// periodIndicators aggregates one window of a store's sales
func periodIndicators(sales []domain.SalesRecord) domain.PeriodIndicators {
	revenue := decimal.Zero
	products := make(map[string]struct{})
	saleCodes := make(map[string]struct{})

	for _, sale := range sales {
		revenue = revenue.Add(sale.Amount)
		products[sale.Product] = struct{}{}
		saleCodes[sale.SaleCode] = struct{}{}
	}

	averageTicket := decimal.Zero
	if len(saleCodes) > 0 {
		averageTicket = revenue.Div(decimal.NewFromInt(int64(len(saleCodes))))
	}

	return domain.PeriodIndicators{
		Revenue:       revenue,
		ProductCount:  len(products),
		AverageTicket: averageTicket,
	}
}
