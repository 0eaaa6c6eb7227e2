// Package rest exposes the storefront over HTTP.
package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/abgdnv/giftshop/internal/catalog"
	"github.com/abgdnv/giftshop/internal/dashboard"
	"github.com/abgdnv/giftshop/internal/quote"
	"github.com/abgdnv/giftshop/internal/recommend"
	"github.com/abgdnv/giftshop/internal/session"
	"github.com/abgdnv/giftshop/pkg/messaging/events"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// SessionHeader selects the storefront session of a request.
const SessionHeader = "X-Session-Id"

// Sessions is the session lifecycle the handlers drive.
type Sessions interface {
	Create(ctx context.Context, accessToken string) *session.Session
	Get(id uuid.UUID) (*session.Session, error)
	Delete(id uuid.UUID) error
	SignIn(ctx context.Context, id uuid.UUID, form session.Form) (*session.User, error)
	SignUp(ctx context.Context, id uuid.UUID, form session.Form) (*session.User, error)
	SignOut(ctx context.Context, id uuid.UUID) error
	Refresh(ctx context.Context, id uuid.UUID) error
}

type QuoteRequester interface {
	Request(ctx context.Context, c quote.Cart) (*events.QuoteRequestedEvent, error)
}

type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) recommend.Result
}

type Handler struct {
	sessions  Sessions
	catalog   *catalog.Catalog
	quotes    QuoteRequester
	concierge Recommender
	dashboard dashboard.Source
	validate  *validator.Validate
	logger    *slog.Logger
}

func NewHandler(sessions Sessions, c *catalog.Catalog, quotes QuoteRequester, concierge Recommender, dash dashboard.Source, logger *slog.Logger) *Handler {
	return &Handler{
		sessions:  sessions,
		catalog:   c,
		quotes:    quotes,
		concierge: concierge,
		dashboard: dash,
		validate:  validator.New(),
		logger:    logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the storefront routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.HealthCheck)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions", h.CreateSession)
		r.Delete("/sessions/{id}", h.DeleteSession)

		r.Get("/categories", h.Categories)
		r.Get("/products", h.Products)
		r.Get("/products/{id}", h.Product)
		r.Post("/recommendations", h.Recommend)
		r.Get("/dashboard", h.Dashboard)

		r.Group(func(r chi.Router) {
			r.Use(h.sessionMiddleware)

			r.Route("/session", func(r chi.Router) {
				r.Get("/", h.CurrentSession)
				r.Get("/criteria", h.GetCriteria)
				r.Put("/criteria", h.PutCriteria)
				r.Post("/criteria/reset", h.ResetCriteria)
				r.Post("/signin", h.SignIn)
				r.Post("/signup", h.SignUp)
				r.Post("/signout", h.SignOut)
				r.Post("/refresh", h.Refresh)
			})
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.Cart)
				r.Post("/lines", h.AddCartLine)
				r.Delete("/lines/{productID}", h.RemoveCartLine)
				r.Post("/quote", h.RequestQuote)
			})
			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", h.Wishlist)
				r.Post("/{productID}/toggle", h.ToggleWishlist)
			})
		})
	})
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
