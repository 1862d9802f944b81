package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryBreakfast Category = "Breakfast"
	CategoryLunch     Category = "Lunch"
	CategoryDinner    Category = "Dinner"
	CategorySides     Category = "Sides"
	CategoryBeverages Category = "Beverages"
	CategoryDesserts  Category = "Desserts"
)

var Categories = []Category{
	CategoryBreakfast,
	CategoryLunch,
	CategoryDinner,
	CategorySides,
	CategoryBeverages,
	CategoryDesserts,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

type MenuItem struct {
	ID                  int64           `json:"Id"`
	Name                string          `json:"Name"`
	Description         string          `json:"description"`
	Price               decimal.Decimal `json:"price"`
	Category            Category        `json:"category"`
	DietaryRestrictions DietarySet      `json:"dietary_restrictions"`
	Available           bool            `json:"available"`
	ImageURL            string          `json:"image_url,omitempty"`
	PreparationTime     *int            `json:"preparation_time,omitempty"`
}

// Validate checks the invariants every stored menu item must satisfy.
func (m MenuItem) Validate() error {
	errs := ValidationErrors{}
	if strings.TrimSpace(m.Name) == "" {
		errs.add("Name", "Name is required")
	}
	if m.Price.IsNegative() {
		errs.add("price", "Price must be a positive number")
	}
	if m.Category != "" && !m.Category.Valid() {
		errs.add("category", "Unknown category")
	}
	if m.PreparationTime != nil && *m.PreparationTime < 0 {
		errs.add("preparation_time", "Preparation time must be a positive number")
	}
	return errs.orNil()
}
