// Package router assembles the HTTP surface: a declarative route table
// and the chi mux built from it.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pawmart/pawmart/internal/auth"
	"github.com/pawmart/pawmart/internal/handler"
	"github.com/pawmart/pawmart/internal/metrics"
	"github.com/pawmart/pawmart/internal/middleware"
)

// Route binds a method and chi pattern to a handler.
// Protected routes run behind the bearer-token middleware.
type Route struct {
	Method    string
	Pattern   string
	Protected bool
	Handler   http.HandlerFunc
}

// Handlers groups every handler the route table dispatches to.
type Handlers struct {
	Root     *handler.Handler
	Health   *handler.HealthHandler
	Metrics  *handler.MetricsHandler
	Users    *handler.UserHandler
	Listings *handler.ListingHandler
	Orders   *handler.OrderHandler
}

// Config holds the middleware settings for the router.
type Config struct {
	Logger   *slog.Logger
	Verifier *auth.Verifier
	Metrics  metrics.Recorder
	Security middleware.SecurityConfig
	CORS     middleware.CORSConfig
}

// Routes returns the route table.
func Routes(h Handlers) []Route {
	return []Route{
		{http.MethodGet, "/", false, h.Root.Hello},
		{http.MethodGet, "/healthz", false, h.Health.Healthz},
		{http.MethodGet, "/readyz", false, h.Health.Readyz},
		{http.MethodGet, "/metrics", false, h.Metrics.Metrics},

		{http.MethodGet, "/users", false, h.Users.List},
		{http.MethodPost, "/users", false, h.Users.Create},
		{http.MethodPatch, "/users/{id}", true, h.Users.Update},
		{http.MethodDelete, "/users/{id}", true, h.Users.Delete},

		{http.MethodGet, "/listings", false, h.Listings.List},
		{http.MethodGet, "/latest-listings", false, h.Listings.Latest},
		{http.MethodPost, "/listings", true, h.Listings.Create},
		{http.MethodGet, "/my-list", true, h.Listings.Mine},
		{http.MethodGet, "/listings/{id}", false, h.Listings.Get},
		{http.MethodPatch, "/listings/{id}", true, h.Listings.Update},
		{http.MethodDelete, "/listings/{id}", true, h.Listings.Delete},

		{http.MethodGet, "/orders", true, h.Orders.List},
		{http.MethodPost, "/orders", true, h.Orders.Create},
		{http.MethodGet, "/orders/{id}", false, h.Orders.Get},
		{http.MethodDelete, "/orders/{id}", false, h.Orders.Delete},
	}
}

// New configures the chi router with all routes and middleware.
func New(cfg Config, h Handlers) *chi.Mux {
	if cfg.Security.MaxRequestBodySize <= 0 {
		cfg.Security.MaxRequestBodySize = middleware.DefaultSecurityConfig().MaxRequestBodySize
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(cfg.Security))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.MaxBodySize(cfg.Security.MaxRequestBodySize))

	requireAuth := middleware.Auth(middleware.AuthConfig{
		Logger:   cfg.Logger,
		Verifier: cfg.Verifier,
		Metrics:  cfg.Metrics,
	})

	for _, rt := range Routes(h) {
		var next http.Handler = rt.Handler
		if rt.Protected {
			next = requireAuth(next)
		}
		r.Method(rt.Method, rt.Pattern, next)
	}

	r.NotFound(h.Root.NotFound)
	r.MethodNotAllowed(h.Root.MethodNotAllowed)

	return r
}
