package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuItemForm_Parse(t *testing.T) {
	form := MenuItemForm{
		Name:                "  Pancakes ",
		Price:               "8.50",
		Category:            "Breakfast",
		DietaryRestrictions: []DietaryTag{DietaryVegetarian, DietaryVegetarian},
		PreparationTime:     "15",
	}

	item, err := form.Parse()
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", item.Name)
	assert.True(t, decimal.RequireFromString("8.5").Equal(item.Price))
	assert.Equal(t, CategoryBreakfast, item.Category)
	assert.Equal(t, "Vegetarian", item.DietaryRestrictions.Join())
	assert.True(t, item.Available)
	require.NotNil(t, item.PreparationTime)
	assert.Equal(t, 15, *item.PreparationTime)
}

func TestMenuItemForm_ParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		form  MenuItemForm
		field string
	}{
		{"missing name", MenuItemForm{Price: "1", Category: "Lunch"}, "Name"},
		{"missing price", MenuItemForm{Name: "Soup", Category: "Lunch"}, "price"},
		{"three decimals", MenuItemForm{Name: "Soup", Price: "1.999", Category: "Lunch"}, "price"},
		{"negative price", MenuItemForm{Name: "Soup", Price: "-1", Category: "Lunch"}, "price"},
		{"letters in price", MenuItemForm{Name: "Soup", Price: "abc", Category: "Lunch"}, "price"},
		{"missing category", MenuItemForm{Name: "Soup", Price: "1"}, "category"},
		{"unknown category", MenuItemForm{Name: "Soup", Price: "1", Category: "Brunch"}, "category"},
		{"fractional minutes", MenuItemForm{Name: "Soup", Price: "1", Category: "Lunch", PreparationTime: "2.5"}, "preparation_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.form.Parse()
			require.Error(t, err)

			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs, tt.field)
		})
	}
}

func TestMenuItemForm_PrefillRoundTrip(t *testing.T) {
	minutes := 20
	original := MenuItem{
		Name:                "Salad",
		Price:               decimal.RequireFromString("12"),
		Category:            CategoryLunch,
		DietaryRestrictions: NewDietarySet(DietaryVegan, DietaryGlutenFree),
		Available:           false,
		PreparationTime:     &minutes,
	}

	parsed, err := FormFromMenuItem(original).Parse()
	require.NoError(t, err)
	assert.Equal(t, original.Name, parsed.Name)
	assert.True(t, original.Price.Equal(parsed.Price))
	assert.True(t, original.DietaryRestrictions.Equal(parsed.DietaryRestrictions))
	assert.False(t, parsed.Available)
	assert.Equal(t, minutes, *parsed.PreparationTime)
}

func TestMenuItem_Validate(t *testing.T) {
	assert.NoError(t, MenuItem{Name: "Tea", Category: CategoryBeverages}.Validate())
	assert.Error(t, MenuItem{Name: " "}.Validate())
	assert.Error(t, MenuItem{Name: "Tea", Price: decimal.NewFromInt(-1)}.Validate())
}

func TestOrderStatusAndStock(t *testing.T) {
	assert.True(t, OrderStatusReady.Known())
	assert.False(t, OrderStatus("Lost").Known())
	assert.Error(t, Order{Status: "Lost"}.Validate())

	assert.True(t, InventoryItem{Quantity: 3, ReorderLevel: 3}.IsLowStock())
	assert.True(t, InventoryItem{Quantity: -1, ReorderLevel: 0}.IsLowStock())
	assert.False(t, InventoryItem{Quantity: 4, ReorderLevel: 3}.IsLowStock())
}
