// Package catalog holds the read-only product catalog and the filter/sort engine over it.
package catalog

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownSort     = errors.New("unknown sort key")
)

// Category is one of a closed set of product groupings.
type Category string

const (
	CategoryAll                 Category = "All"
	CategoryWellness            Category = "Wellness"
	CategoryElectronics         Category = "Electronics"
	CategoryFoodAndBeverage     Category = "Food & Beverage"
	CategoryStationery          Category = "Stationery"
	CategoryApparel             Category = "Apparel"
	CategoryEmployeeWelcomeKits Category = "Employee Welcome Kits"
	CategoryClientGifts         Category = "Client Gifts"
	CategoryEcoFriendlyGifts    Category = "Eco-Friendly Gifts"
	CategoryEmployeeGifts       Category = "Employee Gifts"
	CategoryDrinkware           Category = "Drinkware"
	CategoryPromotionalProducts Category = "Promotional Products"
	CategoryCustom              Category = "Custom"
)

var productCategories = []Category{
	CategoryWellness,
	CategoryElectronics,
	CategoryFoodAndBeverage,
	CategoryStationery,
	CategoryApparel,
	CategoryEmployeeWelcomeKits,
	CategoryClientGifts,
	CategoryEcoFriendlyGifts,
	CategoryEmployeeGifts,
	CategoryDrinkware,
	CategoryPromotionalProducts,
	CategoryCustom,
}

// NavigationCategories returns the categories offered for browsing, "All" first.
// Custom is assignable to products but not offered as a browse target.
func NavigationCategories() []Category {
	return []Category{
		CategoryAll,
		CategoryEmployeeWelcomeKits,
		CategoryClientGifts,
		CategoryEcoFriendlyGifts,
		CategoryEmployeeGifts,
		CategoryDrinkware,
		CategoryPromotionalProducts,
		CategoryElectronics,
		CategoryStationery,
		CategoryFoodAndBeverage,
		CategoryWellness,
		CategoryApparel,
	}
}

// Valid reports whether c is a product category. The "All" sentinel is not one.
func (c Category) Valid() bool {
	return slices.Contains(productCategories, c)
}

// ParseCategory accepts a product category or the "All" sentinel. An empty string means "All".
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if s == "" || c == CategoryAll {
		return CategoryAll, nil
	}
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Product is an immutable catalog record. Prices are whole currency units.
type Product struct {
	ID           string   `json:"id"           validate:"required,max=64"`
	Name         string   `json:"name"         validate:"required,max=200"`
	Price        int64    `json:"price"        validate:"min=0"`
	Category     Category `json:"category"     validate:"required,category"`
	Description  string   `json:"description"`
	Image        string   `json:"image"        validate:"omitempty,url"`
	Rating       float64  `json:"rating"       validate:"min=0,max=5"`
	Customizable bool     `json:"isCustomizable"`
	Colors       []string `json:"colors,omitempty" validate:"omitempty,unique,dive,required"`
	InStock      bool     `json:"inStock"`
}

// HasColor reports whether color is one of the product's declared variants.
func (p Product) HasColor(color string) bool {
	return slices.Contains(p.Colors, color)
}

// DefaultColor is the first declared variant, or "" when the product has none.
func (p Product) DefaultColor() string {
	if len(p.Colors) == 0 {
		return ""
	}
	return p.Colors[0]
}
