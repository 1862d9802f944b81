// Package dashboard derives the back-office summary from fetched pages.
package dashboard

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yeremiapane/restaurant-backoffice/models"
)

type StatusCount struct {
	Status models.OrderStatus `json:"status"`
	Count  int                `json:"count"`
}

// StatusHistogram counts orders for exactly the listed statuses, in that
// order. Orders with any other status are ignored.
func StatusHistogram(orders []models.Order, statusOrder []models.OrderStatus) []StatusCount {
	counts := make(map[models.OrderStatus]int, len(statusOrder))
	for _, o := range orders {
		counts[o.Status]++
	}

	out := make([]StatusCount, len(statusOrder))
	for i, status := range statusOrder {
		out[i] = StatusCount{Status: status, Count: counts[status]}
	}
	return out
}

// LowStock keeps items at or below their reorder level, in input order, up to
// limit items. A limit of zero or less means no limit.
func LowStock(items []models.InventoryItem, limit int) []models.InventoryItem {
	out := []models.InventoryItem{}
	for _, item := range items {
		if limit > 0 && len(out) == limit {
			break
		}
		if item.IsLowStock() {
			out = append(out, item)
		}
	}
	return out
}

// MostRecent truncates an already sorted slice to limit items. It never
// re-sorts. Like LowStock, a limit of zero or less means no limit.
func MostRecent[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return append(make([]T, 0, len(items)), items...)
}

type DailySales struct {
	Date   string          `json:"date"`
	Label  string          `json:"label"`
	Total  decimal.Decimal `json:"total"`
	Orders int             `json:"orders"`
}

// SalesAggregator turns orders into per-day sales for the chart.
type SalesAggregator func(orders []models.Order, days int, now time.Time) []DailySales

// SalesByDay sums total_amount per calendar day in now's location for the
// last days days ending today, oldest first. Cancelled orders are not sales.
func SalesByDay(orders []models.Order, days int, now time.Time) []DailySales {
	if days <= 0 {
		return []DailySales{}
	}

	loc := now.Location()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)
	first := today.AddDate(0, 0, -(days - 1))

	out := make([]DailySales, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := first.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		out[i] = DailySales{Date: key, Label: day.Format("Jan 02"), Total: decimal.Zero}
		index[key] = i
	}

	for _, o := range orders {
		if o.Status == models.OrderStatusCancelled || o.OrderDate.IsZero() {
			continue
		}
		i, ok := index[o.OrderDate.In(loc).Format("2006-01-02")]
		if !ok {
			continue
		}
		out[i].Total = out[i].Total.Add(o.TotalAmount)
		out[i].Orders++
	}
	return out
}
