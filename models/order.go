package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusPreparing OrderStatus = "Preparing"
	OrderStatusReady     OrderStatus = "Ready"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// OrderStatuses is the lifecycle order used by filters and the dashboard.
// Any status may be set directly; no transition graph is enforced.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) Known() bool {
	for _, known := range OrderStatuses {
		if known == s {
			return true
		}
	}
	return false
}

type Order struct {
	ID                  int64           `json:"Id"`
	Name                string          `json:"Name"`
	CustomerName        string          `json:"customer_name"`
	TableNumber         string          `json:"table_number"`
	OrderDate           time.Time       `json:"order_date"`
	Status              OrderStatus     `json:"status"`
	PaymentStatus       string          `json:"payment_status"`
	PaymentMethod       string          `json:"payment_method"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	SpecialInstructions string          `json:"special_instructions"`
}

func (o Order) Validate() error {
	errs := ValidationErrors{}
	if o.Status != "" && !o.Status.Known() {
		errs.add("status", "Unknown order status")
	}
	if o.TotalAmount.IsNegative() {
		errs.add("total_amount", "Total amount must not be negative")
	}
	return errs.orNil()
}
