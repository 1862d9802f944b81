package models

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	pricePattern   = regexp.MustCompile(`^(\d+)?(\.\d{0,2})?$`)
	minutesPattern = regexp.MustCompile(`^\d*$`)
)

// MenuItemForm is the raw create/edit payload. Price and preparation time
// arrive as text and are parsed only after the form passes validation.
type MenuItemForm struct {
	Name                string       `json:"Name"`
	Description         string       `json:"description"`
	Price               string       `json:"price"`
	Category            string       `json:"category"`
	DietaryRestrictions []DietaryTag `json:"dietary_restrictions"`
	Available           *bool        `json:"available"`
	ImageURL            string       `json:"image_url"`
	PreparationTime     string       `json:"preparation_time"`
}

// FormFromMenuItem prefills a form for editing.
func FormFromMenuItem(m MenuItem) MenuItemForm {
	available := m.Available
	form := MenuItemForm{
		Name:                m.Name,
		Description:         m.Description,
		Price:               m.Price.StringFixed(2),
		Category:            string(m.Category),
		DietaryRestrictions: m.DietaryRestrictions.Tags(),
		Available:           &available,
		ImageURL:            m.ImageURL,
	}
	if m.PreparationTime != nil {
		form.PreparationTime = strconv.Itoa(*m.PreparationTime)
	}
	return form
}

// Parse validates the form and converts it into a MenuItem. Available
// defaults to true when omitted.
func (f MenuItemForm) Parse() (MenuItem, error) {
	errs := ValidationErrors{}

	name := strings.TrimSpace(f.Name)
	if name == "" {
		errs.add("Name", "Name is required")
	}

	price := strings.TrimSpace(f.Price)
	var parsedPrice decimal.Decimal
	switch {
	case price == "":
		errs.add("price", "Price is required")
	case !pricePattern.MatchString(price):
		errs.add("price", "Price must be a valid number with at most two decimals")
	default:
		p, err := decimal.NewFromString(price)
		if err != nil {
			errs.add("price", "Price must be a valid number")
		} else {
			parsedPrice = p
		}
	}

	category := Category(strings.TrimSpace(f.Category))
	switch {
	case category == "":
		errs.add("category", "Category is required")
	case !category.Valid():
		errs.add("category", "Unknown category")
	}

	var prepTime *int
	minutes := strings.TrimSpace(f.PreparationTime)
	if !minutesPattern.MatchString(minutes) {
		errs.add("preparation_time", "Preparation time must be a whole number of minutes")
	} else if minutes != "" {
		n, err := strconv.Atoi(minutes)
		if err != nil {
			errs.add("preparation_time", "Preparation time is too large")
		} else {
			prepTime = &n
		}
	}

	if err := errs.orNil(); err != nil {
		return MenuItem{}, err
	}

	available := true
	if f.Available != nil {
		available = *f.Available
	}

	return MenuItem{
		Name:                name,
		Description:         strings.TrimSpace(f.Description),
		Price:               parsedPrice,
		Category:            category,
		DietaryRestrictions: NewDietarySet(f.DietaryRestrictions...),
		Available:           available,
		ImageURL:            strings.TrimSpace(f.ImageURL),
		PreparationTime:     prepTime,
	}, nil
}
