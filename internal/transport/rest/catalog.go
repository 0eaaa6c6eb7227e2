package rest

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/abgdnv/giftshop/internal/catalog"
	"github.com/abgdnv/giftshop/pkg/web"
	"github.com/go-chi/chi/v5"
)

// ProductsResponse is a filtered catalog view.
type ProductsResponse struct {
	Heading  string            `json:"heading"`
	Count    int               `json:"count"`
	Criteria catalog.Criteria  `json:"criteria"`
	Products []catalog.Product `json:"products"`
}

func (h *Handler) Categories(w http.ResponseWriter, _ *http.Request) {
	web.RespondJSON(w, h.logger, http.StatusOK, catalog.NavigationCategories())
}

// Products serves the filtered view. Without query parameters the session's criteria apply,
// otherwise the parameters are layered over the defaults.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := catalog.DefaultCriteria()
	if len(q) == 0 {
		if s := h.optionalSession(r); s != nil {
			criteria = s.Criteria()
		}
	} else {
		var err error
		criteria, err = criteriaFromQuery(q)
		if err != nil {
			h.respondErr(w, r, err, "")
			return
		}
	}
	products := h.catalog.Query(criteria)
	h.logger.DebugContext(r.Context(), "Catalog view", "criteria", criteria, "count", len(products))
	web.RespondJSON(w, h.logger, http.StatusOK, ProductsResponse{
		Heading:  criteria.Heading(),
		Count:    len(products),
		Criteria: criteria,
		Products: products,
	})
}

func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := h.catalog.FindByID(id)
	if err != nil {
		h.respondErr(w, r, err, fmt.Sprintf("Product with ID %s not found", id))
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, p)
}

func criteriaFromQuery(q url.Values) (catalog.Criteria, error) {
	c := catalog.DefaultCriteria()
	var err error
	if c.Category, err = catalog.ParseCategory(q.Get("category")); err != nil {
		return c, err
	}
	if c.Sort, err = catalog.ParseSortKey(q.Get("sort")); err != nil {
		return c, err
	}
	c.Query = q.Get("q")
	if c.MinPrice, err = web.QueryInt64(q, "min", c.MinPrice); err != nil {
		return c, badRequest(err)
	}
	if c.MaxPrice, err = web.QueryInt64(q, "max", c.MaxPrice); err != nil {
		return c, badRequest(err)
	}
	if c.InStockOnly, err = web.QueryBool(q, "in_stock", c.InStockOnly); err != nil {
		return c, badRequest(err)
	}
	return c, nil
}
