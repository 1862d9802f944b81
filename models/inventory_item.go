package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is a stock line. Quantity may go negative; it is reported,
// not prevented.
type InventoryItem struct {
	ID            int64           `json:"Id"`
	Name          string          `json:"Name"`
	Quantity      float64         `json:"quantity"`
	Unit          string          `json:"unit"`
	ReorderLevel  float64         `json:"reorder_level"`
	Category      string          `json:"category"`
	Supplier      string          `json:"supplier"`
	LastRestocked *time.Time      `json:"last_restocked,omitempty"`
	CostPerUnit   decimal.Decimal `json:"cost_per_unit"`
}

func (i InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.ReorderLevel
}

func (i InventoryItem) Validate() error {
	errs := ValidationErrors{}
	if strings.TrimSpace(i.Name) == "" {
		errs.add("Name", "Name is required")
	}
	if i.ReorderLevel < 0 {
		errs.add("reorder_level", "Reorder level must not be negative")
	}
	if i.CostPerUnit.IsNegative() {
		errs.add("cost_per_unit", "Cost per unit must not be negative")
	}
	return errs.orNil()
}
