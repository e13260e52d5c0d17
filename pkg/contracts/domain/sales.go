package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesRecord represents one transaction line from the sales workbook
type SalesRecord struct {
	SaleCode  string          `json:"sale_code" validate:"required"`
	Date      time.Time       `json:"date" validate:"required"`
	StoreID   string          `json:"store_id" validate:"required"`
	Product   string          `json:"product" validate:"required"`
	Quantity  int64           `json:"quantity" validate:"min=0"`
	UnitValue decimal.Decimal `json:"unit_value"`
	Amount    decimal.Decimal `json:"amount"`
}

// Store represents one entry of the store directory
type Store struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// ManagerContact represents one entry of the manager email directory.
// The directory may carry a pseudo-store row (store name "CEO") used as the
// management recipient for the summary mail.
type ManagerContact struct {
	StoreName string `json:"store_name" validate:"required"`
	Manager   string `json:"manager" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
}

// ManagementStoreName is the store-directory key reserved for the management
// recipient of the summary mail.
const ManagementStoreName = "CEO"

// Dataset bundles the three loaded inputs for a single run
type Dataset struct {
	Sales    []SalesRecord    `json:"sales"`
	Stores   []Store          `json:"stores"`
	Contacts []ManagerContact `json:"contacts"`
}

// StoresByID returns the store directory keyed by store id
func (d *Dataset) StoresByID() map[string]Store {
	byID := make(map[string]Store, len(d.Stores))
	for _, s := range d.Stores {
		byID[s.ID] = s
	}
	return byID
}

// ContactsByStoreName returns the contact directory keyed by store name
func (d *Dataset) ContactsByStoreName() map[string]ManagerContact {
	byName := make(map[string]ManagerContact, len(d.Contacts))
	for _, c := range d.Contacts {
		byName[c.StoreName] = c
	}
	return byName
}

// ManagementContact returns the summary-mail recipient, if present
func (d *Dataset) ManagementContact() (ManagerContact, bool) {
	for _, c := range d.Contacts {
		if c.StoreName == ManagementStoreName {
			return c, true
		}
	}
	return ManagerContact{}, false
}

// LatestSaleDate returns the maximum transaction date present in the sales
// data, the default analysis date for a run. The boolean is false when there
// are no sales.
func (d *Dataset) LatestSaleDate() (time.Time, bool) {
	var latest time.Time
	for _, s := range d.Sales {
		if s.Date.After(latest) {
			latest = s.Date
		}
	}
	return latest, !latest.IsZero()
}

// SameDay reports whether two timestamps fall on the same calendar date
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
