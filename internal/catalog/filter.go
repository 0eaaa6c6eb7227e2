package catalog

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the order of a filtered view.
type SortKey string

const (
	SortPopular    SortKey = "popular"
	SortPriceAsc   SortKey = "price_asc"
	SortPriceDesc  SortKey = "price_desc"
	SortNameAsc    SortKey = "name_asc"
	SortRatingDesc SortKey = "rating_desc"
)

var sortLabels = map[string]SortKey{
	"Popular":            SortPopular,
	"Price: Low to High": SortPriceAsc,
	"Price: High to Low": SortPriceDesc,
	"Name: A-Z":          SortNameAsc,
	"Rating":             SortRatingDesc,
}

// ParseSortKey accepts a wire name or a storefront label. An empty string means SortPopular.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case "":
		return SortPopular, nil
	case SortPopular, SortPriceAsc, SortPriceDesc, SortNameAsc, SortRatingDesc:
		return k, nil
	}
	if k, ok := sortLabels[s]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
}

const (
	DefaultMinPrice int64 = 0
	DefaultMaxPrice int64 = 1000
)

// Criteria is the combined category, search, price, stock and sort selection driving a catalog view.
type Criteria struct {
	Category    Category `json:"category"`
	Query       string   `json:"query"`
	MinPrice    int64    `json:"minPrice"`
	MaxPrice    int64    `json:"maxPrice"`
	InStockOnly bool     `json:"inStockOnly"`
	Sort        SortKey  `json:"sort"`
}

// DefaultCriteria is the selection a fresh storefront session starts with.
func DefaultCriteria() Criteria {
	return Criteria{
		Category: CategoryAll,
		MinPrice: DefaultMinPrice,
		MaxPrice: DefaultMaxPrice,
		Sort:     SortPopular,
	}
}

// IdentityCriteria matches every product and keeps catalog order.
func IdentityCriteria() Criteria {
	return Criteria{
		Category: CategoryAll,
		MinPrice: math.MinInt64,
		MaxPrice: math.MaxInt64,
		Sort:     SortPopular,
	}
}

// ResetFilters restores the default filters and keeps the selected sort.
func (c Criteria) ResetFilters() Criteria {
	reset := DefaultCriteria()
	reset.Sort = c.Sort
	return reset
}

// Heading is the title shown above a view built from c.
func (c Criteria) Heading() string {
	if c.Query != "" {
		return fmt.Sprintf("Search Results for %q", c.Query)
	}
	if c.Category == "" {
		return string(CategoryAll)
	}
	return string(c.Category)
}

// Matches reports whether p satisfies every predicate of c.
func (c Criteria) Matches(p Product) bool {
	if c.Category != "" && c.Category != CategoryAll && p.Category != c.Category {
		return false
	}
	if c.Query != "" {
		q := strings.ToLower(c.Query)
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	if p.Price < c.MinPrice || p.Price > c.MaxPrice {
		return false
	}
	if c.InStockOnly && !p.InStock {
		return false
	}
	return true
}

// FilterSort returns the products matching c, ordered by c.Sort. Ties keep their input order.
// The input is never modified and the result is never nil.
func FilterSort(products []Product, c Criteria) []Product {
	result := make([]Product, 0, len(products))
	for _, p := range products {
		if c.Matches(p) {
			result = append(result, p)
		}
	}

	switch c.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(result, func(a, b Product) int { return cmp.Compare(a.Price, b.Price) })
	case SortPriceDesc:
		slices.SortStableFunc(result, func(a, b Product) int { return cmp.Compare(b.Price, a.Price) })
	case SortRatingDesc:
		slices.SortStableFunc(result, func(a, b Product) int { return cmp.Compare(b.Rating, a.Rating) })
	case SortNameAsc:
		// collate.Collator keeps internal buffers and must not be shared between goroutines.
		col := collate.New(language.English)
		slices.SortStableFunc(result, func(a, b Product) int { return col.CompareString(a.Name, b.Name) })
	}
	return result
}
