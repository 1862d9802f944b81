package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yeremiapane/restaurant-backoffice/gateway"
	"github.com/yeremiapane/restaurant-backoffice/models"
)

// recordReader reads typed values out of a gateway record. The first bad
// value is kept in err; absent or null fields read as zero values.
type recordReader struct {
	rec gateway.Record
	err error
}

func (r *recordReader) fail(key string, v any) {
	if r.err == nil {
		r.err = fmt.Errorf("field %q: unexpected value %v (%T)", key, v, v)
	}
}

func (r *recordReader) str(key string) string {
	switch v := r.rec[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64, int, int64, json.Number, bool:
		return fmt.Sprint(v)
	default:
		r.fail(key, v)
		return ""
	}
}

func (r *recordReader) num(key string) float64 {
	switch v := r.rec[key].(type) {
	case nil:
		return 0
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			r.fail(key, v)
		}
		return f
	case string:
		if strings.TrimSpace(v) == "" {
			return 0
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			r.fail(key, v)
		}
		return f
	default:
		r.fail(key, v)
		return 0
	}
}

func (r *recordReader) i64(key string) int64 {
	f := r.num(key)
	if f != math.Trunc(f) {
		r.fail(key, r.rec[key])
		return 0
	}
	return int64(f)
}

func (r *recordReader) integer(key string) int {
	return int(r.i64(key))
}

func (r *recordReader) optionalInt(key string) *int {
	if v, ok := r.rec[key]; !ok || v == nil || v == "" {
		return nil
	}
	n := r.integer(key)
	return &n
}

func (r *recordReader) dec(key string) decimal.Decimal {
	switch v := r.rec[key].(type) {
	case nil:
		return decimal.Zero
	case string:
		if strings.TrimSpace(v) == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			r.fail(key, v)
		}
		return d
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			r.fail(key, v)
		}
		return d
	default:
		return decimal.NewFromFloat(r.num(key))
	}
}

func (r *recordReader) flag(key string) bool {
	switch v := r.rec[key].(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			r.fail(key, v)
		}
		return b
	default:
		r.fail(key, v)
		return false
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (r *recordReader) timestamp(key string) time.Time {
	switch v := r.rec[key].(type) {
	case nil:
		return time.Time{}
	case time.Time:
		return v
	case string:
		if v == "" {
			return time.Time{}
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
		r.fail(key, v)
		return time.Time{}
	default:
		r.fail(key, v)
		return time.Time{}
	}
}

func (r *recordReader) optionalTime(key string) *time.Time {
	t := r.timestamp(key)
	if t.IsZero() {
		return nil
	}
	return &t
}

// ref reads a lookup field, which the gateway returns either as a bare id or
// as an object carrying Id.
func (r *recordReader) ref(key string) int64 {
	if obj, ok := r.rec[key].(map[string]any); ok {
		inner := recordReader{rec: gateway.Record(obj)}
		id := inner.i64("Id")
		if inner.err != nil {
			r.fail(key, obj)
		}
		return id
	}
	return r.i64(key)
}

func timeValue(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func optionalTimeValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return timeValue(*t)
}

func optionalIntValue(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

// Field lists requested from the gateway, per table.
var (
	menuItemFields = []string{
		"Id", "Name", "description", "price", "category", "dietary_restrictions",
		"available", "image_url", "preparation_time",
	}
	orderFields = []string{
		"Id", "Name", "customer_name", "table_number", "order_date", "status",
		"payment_status", "payment_method", "total_amount", "special_instructions",
	}
	orderItemFields = []string{
		"Id", "Name", "menu_item", "order", "quantity", "price", "customizations",
	}
	inventoryItemFields = []string{
		"Id", "Name", "quantity", "unit", "reorder_level", "category", "supplier",
		"last_restocked", "cost_per_unit",
	}
)

func decodeMenuItem(rec gateway.Record) (models.MenuItem, error) {
	r := recordReader{rec: rec}
	item := models.MenuItem{
		ID:                  r.i64("Id"),
		Name:                r.str("Name"),
		Description:         r.str("description"),
		Price:               r.dec("price"),
		Category:            models.Category(r.str("category")),
		DietaryRestrictions: models.ParseDietarySet(r.str("dietary_restrictions")),
		Available:           r.flag("available"),
		ImageURL:            r.str("image_url"),
		PreparationTime:     r.optionalInt("preparation_time"),
	}
	return item, r.err
}

func encodeMenuItem(m models.MenuItem) gateway.Record {
	return gateway.Record{
		"Id":                   m.ID,
		"Name":                 m.Name,
		"description":          m.Description,
		"price":                m.Price.InexactFloat64(),
		"category":             string(m.Category),
		"dietary_restrictions": m.DietaryRestrictions.Join(),
		"available":            m.Available,
		"image_url":            m.ImageURL,
		"preparation_time":     optionalIntValue(m.PreparationTime),
	}
}

func decodeOrder(rec gateway.Record) (models.Order, error) {
	r := recordReader{rec: rec}
	order := models.Order{
		ID:                  r.i64("Id"),
		Name:                r.str("Name"),
		CustomerName:        r.str("customer_name"),
		TableNumber:         r.str("table_number"),
		OrderDate:           r.timestamp("order_date"),
		Status:              models.OrderStatus(r.str("status")),
		PaymentStatus:       r.str("payment_status"),
		PaymentMethod:       r.str("payment_method"),
		TotalAmount:         r.dec("total_amount"),
		SpecialInstructions: r.str("special_instructions"),
	}
	return order, r.err
}

func encodeOrder(o models.Order) gateway.Record {
	return gateway.Record{
		"Id":                   o.ID,
		"Name":                 o.Name,
		"customer_name":        o.CustomerName,
		"table_number":         o.TableNumber,
		"order_date":           timeValue(o.OrderDate),
		"status":               string(o.Status),
		"payment_status":       o.PaymentStatus,
		"payment_method":       o.PaymentMethod,
		"total_amount":         o.TotalAmount.InexactFloat64(),
		"special_instructions": o.SpecialInstructions,
	}
}

func decodeOrderItem(rec gateway.Record) (models.OrderItem, error) {
	r := recordReader{rec: rec}
	item := models.OrderItem{
		ID:             r.i64("Id"),
		Name:           r.str("Name"),
		MenuItemID:     r.ref("menu_item"),
		OrderID:        r.ref("order"),
		Quantity:       r.integer("quantity"),
		Price:          r.dec("price"),
		Customizations: r.str("customizations"),
	}
	return item, r.err
}

func encodeOrderItem(i models.OrderItem) gateway.Record {
	return gateway.Record{
		"Id":             i.ID,
		"Name":           i.Name,
		"menu_item":      i.MenuItemID,
		"order":          i.OrderID,
		"quantity":       i.Quantity,
		"price":          i.Price.InexactFloat64(),
		"customizations": i.Customizations,
	}
}

func decodeInventoryItem(rec gateway.Record) (models.InventoryItem, error) {
	r := recordReader{rec: rec}
	item := models.InventoryItem{
		ID:            r.i64("Id"),
		Name:          r.str("Name"),
		Quantity:      r.num("quantity"),
		Unit:          r.str("unit"),
		ReorderLevel:  r.num("reorder_level"),
		Category:      r.str("category"),
		Supplier:      r.str("supplier"),
		LastRestocked: r.optionalTime("last_restocked"),
		CostPerUnit:   r.dec("cost_per_unit"),
	}
	return item, r.err
}

func encodeInventoryItem(i models.InventoryItem) gateway.Record {
	return gateway.Record{
		"Id":             i.ID,
		"Name":           i.Name,
		"quantity":       i.Quantity,
		"unit":           i.Unit,
		"reorder_level":  i.ReorderLevel,
		"category":       i.Category,
		"supplier":       i.Supplier,
		"last_restocked": optionalTimeValue(i.LastRestocked),
		"cost_per_unit":  i.CostPerUnit.InexactFloat64(),
	}
}
