package models

import "github.com/shopspring/decimal"

// OrderItem is one line of an order. Price is the unit price captured when
// the line was added, independent of later menu changes.
type OrderItem struct {
	ID             int64           `json:"Id"`
	Name           string          `json:"Name"`
	MenuItemID     int64           `json:"menu_item"`
	OrderID        int64           `json:"order"`
	Quantity       int             `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	Customizations string          `json:"customizations"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i OrderItem) Validate() error {
	errs := ValidationErrors{}
	if i.Quantity <= 0 {
		errs.add("quantity", "Quantity must be at least 1")
	}
	if i.Price.IsNegative() {
		errs.add("price", "Price must not be negative")
	}
	if i.OrderID == 0 {
		errs.add("order", "Order is required")
	}
	if i.MenuItemID == 0 {
		errs.add("menu_item", "Menu item is required")
	}
	return errs.orNil()
}
