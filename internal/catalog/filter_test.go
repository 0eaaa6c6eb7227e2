package catalog

import (
	"cmp"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

var allSorts = []SortKey{SortPopular, SortPriceAsc, SortPriceDesc, SortNameAsc, SortRatingDesc}

func TestFilterSort_PriceRange(t *testing.T) {
	// given
	products := []Product{
		{ID: "tote", Name: "Tote", Price: 28, Category: CategoryEcoFriendlyGifts, InStock: true},
		{ID: "phones", Name: "Headphones", Price: 249, Category: CategoryElectronics, InStock: true},
	}
	for _, sort := range allSorts {
		t.Run(string(sort), func(t *testing.T) {
			criteria := DefaultCriteria()
			criteria.MaxPrice = 100
			criteria.Sort = sort

			// when
			got := FilterSort(products, criteria)

			// then
			assert.Equal(t, []string{"tote"}, ids(got))
		})
	}
}

func TestFilterSort_Search(t *testing.T) {
	c := Default()

	testCases := []struct {
		name     string
		query    string
		expected []string
	}{
		{name: "lower case", query: "headphones", expected: []string{"e2"}},
		{name: "mixed case", query: "HeadPhones", expected: []string{"e2"}},
		{name: "description match", query: "ocean-bound", expected: []string{"eco1"}},
		{name: "no match", query: "xyz", expected: []string{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			criteria := IdentityCriteria()
			criteria.Query = tc.query

			got := c.Query(criteria)

			assert.Equal(t, tc.expected, ids(got))
		})
	}
}

func TestFilterSort_Predicates(t *testing.T) {
	c := Default()

	testCases := []struct {
		name     string
		criteria func(c *Criteria)
		expected []string
	}{
		{
			name:     "category",
			criteria: func(c *Criteria) { c.Category = CategoryDrinkware },
			expected: []string{"dw1", "dw2"},
		},
		{
			name:     "in stock only within client gifts",
			criteria: func(c *Criteria) { c.Category = CategoryClientGifts; c.InStockOnly = true },
			expected: []string{"cg1"},
		},
		{
			name:     "inclusive bounds",
			criteria: func(c *Criteria) { c.MinPrice = 38; c.MaxPrice = 42 },
			expected: []string{"eco2", "dw1"},
		},
		{
			name:     "inverted bounds",
			criteria: func(c *Criteria) { c.MinPrice = 100; c.MaxPrice = 10 },
			expected: []string{},
		},
		{
			name:     "default price ceiling keeps everything",
			criteria: func(c *Criteria) { *c = DefaultCriteria() },
			expected: ids(Default().All()),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			criteria := IdentityCriteria()
			tc.criteria(&criteria)

			// when
			got := c.Query(criteria)

			// then
			assert.Equal(t, tc.expected, ids(got))
			for _, p := range got {
				assert.True(t, criteria.Matches(p), p.ID)
			}
		})
	}
}

func TestFilterSort_SortOrders(t *testing.T) {
	c := Default()

	testCases := []struct {
		sort  SortKey
		check func(t *testing.T, got []Product)
	}{
		{
			sort: SortPopular,
			check: func(t *testing.T, got []Product) {
				assert.Equal(t, ids(c.All()), ids(got))
			},
		},
		{
			sort: SortPriceAsc,
			check: func(t *testing.T, got []Product) {
				assert.Equal(t, "pp1", got[0].ID)
				assert.Equal(t, "e2", got[len(got)-1].ID)
				// wk2 and f2 are both 95 and keep catalog order.
				assert.Less(t, slices.Index(ids(got), "wk2"), slices.Index(ids(got), "f2"))
			},
		},
		{
			sort: SortPriceDesc,
			check: func(t *testing.T, got []Product) {
				assert.Equal(t, "e2", got[0].ID)
				assert.Less(t, slices.Index(ids(got), "wk2"), slices.Index(ids(got), "f2"))
			},
		},
		{
			sort: SortNameAsc,
			check: func(t *testing.T, got []Product) {
				assert.Equal(t, "e2", got[0].ID, "Acoustics sorts first")
				assert.Equal(t, "cg1", got[len(got)-1].ID, "Vantage Point sorts last")
			},
		},
		{
			sort: SortRatingDesc,
			check: func(t *testing.T, got []Product) {
				assert.Equal(t, "wk1", got[0].ID)
				assert.True(t, slices.IsSortedFunc(got, func(a, b Product) int { return cmp.Compare(b.Rating, a.Rating) }))
				fours := []string{}
				for _, p := range got {
					if p.Rating == 4.9 {
						fours = append(fours, p.ID)
					}
				}
				assert.Equal(t, []string{"cg1", "eco2", "dw1", "e2", "f2"}, fours)
			},
		},
	}
	for _, tc := range testCases {
		t.Run(string(tc.sort), func(t *testing.T) {
			criteria := IdentityCriteria()
			criteria.Sort = tc.sort

			got := c.Query(criteria)

			require.Len(t, got, c.Len())
			tc.check(t, got)
		})
	}
}

func TestFilterSort_Deterministic(t *testing.T) {
	c := Default()
	for _, sort := range allSorts {
		t.Run(string(sort), func(t *testing.T) {
			criteria := DefaultCriteria()
			criteria.Sort = sort
			criteria.Query = "e"

			first := c.Query(criteria)
			second := c.Query(criteria)
			chained := FilterSort(FilterSort(c.All(), IdentityCriteria()), criteria)

			assert.Equal(t, first, second)
			assert.Equal(t, first, chained)
		})
	}
}

func TestFilterSort_DoesNotModifyInput(t *testing.T) {
	products := Default().All()
	before := ids(products)
	criteria := IdentityCriteria()
	criteria.Sort = SortPriceDesc

	_ = FilterSort(products, criteria)

	assert.Equal(t, before, ids(products))
}

func TestFilterSort_Empty(t *testing.T) {
	got := FilterSort(nil, DefaultCriteria())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseSortKey(t *testing.T) {
	testCases := map[string]SortKey{
		"":                   SortPopular,
		"popular":            SortPopular,
		"price_asc":          SortPriceAsc,
		"Price: High to Low": SortPriceDesc,
		"Name: A-Z":          SortNameAsc,
		"Rating":             SortRatingDesc,
	}
	for input, expected := range testCases {
		got, err := ParseSortKey(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, got, input)
	}
	_, err := ParseSortKey("newest")
	assert.ErrorIs(t, err, ErrUnknownSort)
}

func TestCriteria_Heading(t *testing.T) {
	c := DefaultCriteria()
	assert.Equal(t, "All", c.Heading())

	c.Category = CategoryDrinkware
	assert.Equal(t, "Drinkware", c.Heading())

	c.Query = "mug"
	assert.Equal(t, `Search Results for "mug"`, c.Heading())
}

func TestCriteria_ResetFilters(t *testing.T) {
	c := Criteria{Category: CategoryDrinkware, Query: "mug", MinPrice: 5, MaxPrice: 10, InStockOnly: true, Sort: SortNameAsc}

	reset := c.ResetFilters()

	expected := DefaultCriteria()
	expected.Sort = SortNameAsc
	assert.Equal(t, expected, reset)
}
