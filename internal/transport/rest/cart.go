package rest

import (
	"net/http"

	"github.com/abgdnv/giftshop/internal/cart"
	"github.com/abgdnv/giftshop/internal/session"
	"github.com/abgdnv/giftshop/pkg/web"
	"github.com/go-chi/chi/v5"
)

type addLineRequest struct {
	ProductID   string `json:"productId" validate:"required,max=64"`
	Quantity    int    `json:"quantity" validate:"gte=0,lte=10000"`
	Color       string `json:"selectedColor" validate:"max=64"`
	GiftMessage string `json:"giftMessage" validate:"max=500"`
	CustomLogo  string `json:"customLogo" validate:"omitempty,max=2048"`
}

// AddLineResponse carries the merged line and the updated cart.
type AddLineResponse struct {
	Line cart.Line    `json:"line"`
	Cart cart.Summary `json:"cart"`
}

func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.logger, http.StatusOK, sessionFrom(r.Context()).Cart())
}

func (h *Handler) AddCartLine(w http.ResponseWriter, r *http.Request) {
	var req addLineRequest
	if !web.DecodeAndValidate(w, r, h.logger, h.validate, &req) {
		return
	}
	s := sessionFrom(r.Context())
	line, err := s.AddToCart(session.CartRequest{
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		Color:       req.Color,
		GiftMessage: req.GiftMessage,
		CustomLogo:  req.CustomLogo,
	})
	if err != nil {
		h.respondErr(w, r, err, "")
		return
	}
	h.logger.DebugContext(r.Context(), "Added to cart", "product_id", line.Product.ID, "quantity", line.Quantity)
	web.RespondJSON(w, h.logger, http.StatusCreated, AddLineResponse{Line: line, Cart: s.Cart()})
}

// RemoveCartLine drops every line of the product, or only the ?color= variant.
func (h *Handler) RemoveCartLine(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	productID := chi.URLParam(r, "productID")
	if color, ok := r.URL.Query()["color"]; ok {
		if err := s.RemoveCartVariant(productID, color[0]); err != nil {
			h.respondErr(w, r, err, "")
			return
		}
	} else {
		removed := s.RemoveFromCart(productID)
		h.logger.DebugContext(r.Context(), "Removed from cart", "product_id", productID, "lines", removed)
	}
	web.RespondJSON(w, h.logger, http.StatusOK, s.Cart())
}

// RequestQuote publishes the cart as a quote request and empties it.
func (h *Handler) RequestQuote(w http.ResponseWriter, r *http.Request) {
	event, err := h.quotes.Request(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		h.respondErr(w, r, err, "")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusAccepted, event)
}

// WishlistResponse lists the wishlisted product ids.
type WishlistResponse struct {
	Items []string `json:"items"`
}

func (h *Handler) Wishlist(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.logger, http.StatusOK, WishlistResponse{Items: sessionFrom(r.Context()).Wishlist()})
}

// ToggleResponse is the optimistic membership after a toggle.
type ToggleResponse struct {
	ProductID  string `json:"productId"`
	Wishlisted bool   `json:"wishlisted"`
}

func (h *Handler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	member, err := sessionFrom(r.Context()).ToggleWishlist(r.Context(), productID)
	if err != nil {
		h.respondErr(w, r, err, "")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, ToggleResponse{ProductID: productID, Wishlisted: member})
}
