package gateway

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Row models for the local record store. Column names match the gateway
// field names exactly so records map onto rows without translation.

type menuItemRow struct {
	ID                  int64   `gorm:"column:Id;primaryKey;autoIncrement" json:"Id"`
	Name                string  `gorm:"column:Name;type:varchar(255);not null" json:"Name"`
	Description         string  `gorm:"column:description;type:text" json:"description"`
	Price               float64 `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
	Category            string  `gorm:"column:category;type:varchar(50);index" json:"category"`
	DietaryRestrictions string  `gorm:"column:dietary_restrictions;type:varchar(255)" json:"dietary_restrictions"`
	Available           bool    `gorm:"column:available" json:"available"`
	ImageURL            string  `gorm:"column:image_url;type:varchar(512)" json:"image_url"`
	PreparationTime     *int    `gorm:"column:preparation_time" json:"preparation_time"`
}

func (menuItemRow) TableName() string { return TableMenuItem }

func (r *menuItemRow) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("Name is required")
	}
	if r.Price < 0 {
		return errors.New("price must not be negative")
	}
	return nil
}

type orderRow struct {
	ID                  int64     `gorm:"column:Id;primaryKey;autoIncrement" json:"Id"`
	Name                string    `gorm:"column:Name;type:varchar(255)" json:"Name"`
	CustomerName        string    `gorm:"column:customer_name;type:varchar(255)" json:"customer_name"`
	TableNumber         string    `gorm:"column:table_number;type:varchar(20)" json:"table_number"`
	OrderDate           time.Time `gorm:"column:order_date;not null;index" json:"order_date"`
	Status              string    `gorm:"column:status;type:varchar(20);index" json:"status"`
	PaymentStatus       string    `gorm:"column:payment_status;type:varchar(20)" json:"payment_status"`
	PaymentMethod       string    `gorm:"column:payment_method;type:varchar(50)" json:"payment_method"`
	TotalAmount         float64   `gorm:"column:total_amount;type:decimal(10,2)" json:"total_amount"`
	SpecialInstructions string    `gorm:"column:special_instructions;type:text" json:"special_instructions"`
}

func (orderRow) TableName() string { return TableOrder }

func (r *orderRow) BeforeCreate(tx *gorm.DB) error {
	if r.OrderDate.IsZero() {
		r.OrderDate = time.Now().UTC()
	}
	if r.Status == "" {
		r.Status = "Pending"
	}
	return nil
}

func (r *orderRow) validate() error {
	if r.TotalAmount < 0 {
		return errors.New("total_amount must not be negative")
	}
	return nil
}

type orderItemRow struct {
	ID             int64   `gorm:"column:Id;primaryKey;autoIncrement" json:"Id"`
	Name           string  `gorm:"column:Name;type:varchar(255)" json:"Name"`
	MenuItem       int64   `gorm:"column:menu_item;index" json:"menu_item"`
	Order          int64   `gorm:"column:order;index" json:"order"`
	Quantity       int     `gorm:"column:quantity;not null" json:"quantity"`
	Price          float64 `gorm:"column:price;type:decimal(10,2)" json:"price"`
	Customizations string  `gorm:"column:customizations;type:text" json:"customizations"`
}

func (orderItemRow) TableName() string { return TableOrderItem }

func (r *orderItemRow) validate() error {
	if r.Quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	return nil
}

type inventoryItemRow struct {
	ID            int64      `gorm:"column:Id;primaryKey;autoIncrement" json:"Id"`
	Name          string     `gorm:"column:Name;type:varchar(255);not null" json:"Name"`
	Quantity      float64    `gorm:"column:quantity" json:"quantity"`
	Unit          string     `gorm:"column:unit;type:varchar(20)" json:"unit"`
	ReorderLevel  float64    `gorm:"column:reorder_level" json:"reorder_level"`
	Category      string     `gorm:"column:category;type:varchar(50);index" json:"category"`
	Supplier      string     `gorm:"column:supplier;type:varchar(255)" json:"supplier"`
	LastRestocked *time.Time `gorm:"column:last_restocked" json:"last_restocked"`
	CostPerUnit   float64    `gorm:"column:cost_per_unit;type:decimal(10,2)" json:"cost_per_unit"`
}

func (inventoryItemRow) TableName() string { return TableInventoryItem }

func (r *inventoryItemRow) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("Name is required")
	}
	return nil
}

type rowValidator interface {
	validate() error
}

type tableModel struct {
	name     string
	fields   map[string]struct{}
	newOne   func() any
	newSlice func() any
}

func newTableModel[T any](name string, fields ...string) tableModel {
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return tableModel{
		name:     name,
		fields:   set,
		newOne:   func() any { return new(T) },
		newSlice: func() any { return new([]T) },
	}
}

func (m tableModel) hasField(name string) bool {
	_, ok := m.fields[name]
	return ok
}

func defaultTables() []tableModel {
	return []tableModel{
		newTableModel[menuItemRow](TableMenuItem,
			"Id", "Name", "description", "price", "category", "dietary_restrictions",
			"available", "image_url", "preparation_time"),
		newTableModel[orderRow](TableOrder,
			"Id", "Name", "customer_name", "table_number", "order_date", "status",
			"payment_status", "payment_method", "total_amount", "special_instructions"),
		newTableModel[orderItemRow](TableOrderItem,
			"Id", "Name", "menu_item", "order", "quantity", "price", "customizations"),
		newTableModel[inventoryItemRow](TableInventoryItem,
			"Id", "Name", "quantity", "unit", "reorder_level", "category", "supplier",
			"last_restocked", "cost_per_unit"),
	}
}
