// Package app contains the application setup for the storefront.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Nerzal/gocloak/v13"
	"github.com/abgdnv/giftshop/internal/catalog"
	"github.com/abgdnv/giftshop/internal/config"
	"github.com/abgdnv/giftshop/internal/dashboard"
	"github.com/abgdnv/giftshop/internal/idp"
	"github.com/abgdnv/giftshop/internal/quote"
	"github.com/abgdnv/giftshop/internal/recommend"
	"github.com/abgdnv/giftshop/internal/session"
	"github.com/abgdnv/giftshop/internal/store"
	"github.com/abgdnv/giftshop/internal/transport/rest"
	"github.com/abgdnv/giftshop/pkg/auth"
	"github.com/abgdnv/giftshop/pkg/messaging"
	"github.com/abgdnv/giftshop/pkg/server"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Dependencies struct {
	Catalog        *catalog.Catalog
	Sessions       *session.Manager
	Quotes         *quote.Service
	Concierge      *recommend.Service
	Dashboard      dashboard.Source
	MetricsHandler http.Handler
	Logger         *slog.Logger
}

// SetupDependencies builds the storefront services. publisher may be nil, in which case quote requests are only logged.
func SetupDependencies(ctx context.Context, dbPool *pgxpool.Pool, publisher messaging.Publisher, metrics http.Handler, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	verifier, err := auth.NewJWTVerifier(ctx, cfg.IdP)
	if err != nil {
		return nil, fmt.Errorf("failed to create token verifier: %w", err)
	}
	provider := idp.NewProvider(gocloak.NewClient(cfg.IdP.URL), verifier, cfg.IdP, logger)

	var generator recommend.Generator
	if cfg.GenAI.APIKey != "" {
		gemini, err := recommend.NewGeminiGenerator(ctx, cfg.GenAI)
		if err != nil {
			return nil, fmt.Errorf("failed to create genai client: %w", err)
		}
		generator = gemini
	} else {
		logger.Warn("GenAI API key is not configured, recommendations will use the fallback text")
	}

	if publisher == nil {
		publisher = quote.NewLogPublisher(logger)
	}

	return NewDependencies(store.NewPgStore(dbPool), provider, generator, publisher, metrics, cfg, logger), nil
}

// PersistentStore is the profile and wishlist persistence the session manager needs.
type PersistentStore interface {
	store.ProfileStore
	store.WishlistStore
}

// NewDependencies wires the services from already constructed collaborators.
// Used by E2E tests to swap the identity provider and the model for fakes.
func NewDependencies(st PersistentStore, provider session.AuthProvider, generator recommend.Generator, publisher messaging.Publisher, metrics http.Handler, cfg *config.Config, logger *slog.Logger) *Dependencies {
	c := catalog.Default()
	opts := session.Options{
		RestoreTimeout:  cfg.Session.RestoreTimeout,
		WishlistTimeout: cfg.Wishlist.Timeout,
		IdleTimeout:     cfg.Session.IdleTimeout,
		ProfileRetry:    cfg.Session.ProfileRetry,
	}
	return &Dependencies{
		Catalog:        c,
		Sessions:       session.NewManager(c, provider, st, st, opts, logger),
		Quotes:         quote.NewService(publisher, logger),
		Concierge:      recommend.NewService(generator, cfg.GenAI.CircuitBreaker, logger),
		Dashboard:      dashboard.Static{},
		MetricsHandler: metrics,
		Logger:         logger,
	}
}

// SetupHttpHandler initializes the router and routes for the storefront.
func SetupHttpHandler(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps, cfg)
	return otelhttp.NewHandler(mux, "storefront")
}

// wireRoutes sets up the HTTP routes for the storefront.
func wireRoutes(mux *chi.Mux, deps *Dependencies, cfg *config.Config) {
	if cfg.Telemetry.Metrics.Enabled && deps.MetricsHandler != nil {
		mux.Handle(cfg.Telemetry.Metrics.Path, deps.MetricsHandler)
	}
	handler := rest.NewHandler(deps.Sessions, deps.Catalog, deps.Quotes, deps.Concierge, deps.Dashboard, deps.Logger)
	handler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the storefront.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	return server.NewHTTPServer(cfg.HTTPServer, SetupHttpHandler(deps, cfg))
}
