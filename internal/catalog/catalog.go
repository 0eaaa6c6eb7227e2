package catalog

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
)

// Catalog is a read-only, id-indexed product set. It is safe for concurrent use.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// New validates the products and builds a catalog keeping their declared order.
func New(products []Product) (*Catalog, error) {
	validate := validator.New()
	if err := validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return Category(fl.Field().String()).Valid()
	}); err != nil {
		return nil, fmt.Errorf("failed to register category validation: %w", err)
	}

	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("invalid product %q: %w", p.ID, err)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		p.Colors = slices.Clone(p.Colors)
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// Default returns the built-in storefront catalog.
func Default() *Catalog {
	c, err := New(defaultProducts())
	if err != nil {
		panic(err)
	}
	return c
}

// FindByID returns the product with the given id or ErrProductNotFound.
func (c *Catalog) FindByID(id string) (Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return c.products[i], nil
}

// All returns the products in catalog order.
func (c *Catalog) All() []Product {
	return slices.Clone(c.products)
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Query runs the filter/sort engine over the whole catalog.
func (c *Catalog) Query(criteria Criteria) []Product {
	return FilterSort(c.products, criteria)
}
