package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iho/boglefolio/internal/adapter/http/handler"
	"github.com/iho/boglefolio/internal/adapter/http/middleware"
	"github.com/iho/boglefolio/internal/adapter/http/web"
	"github.com/iho/boglefolio/internal/infrastructure/auth"
	"github.com/iho/boglefolio/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	AssetHandler       *handler.AssetHandler
	TransactionHandler *handler.TransactionHandler
	UserHandler        *handler.UserHandler
	AuthHandler        *handler.AuthHandler
	ImportHandler      *handler.ImportHandler
	HealthHandler      *handler.HealthHandler
	WebHandler         *web.Handler
	JWTManager         *auth.JWTManager
	Sessions           usecase.SessionStore
	LoginRateLimit     *middleware.RateLimiter
	Logging            *middleware.LoggingMiddleware
}

// NewRouter creates the HTTP router serving the JSON API, the HTML pages,
// and the operational endpoints.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	}
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.LoginRateLimit != nil {
				r.Use(cfg.LoginRateLimit.Limit)
			}

			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(cfg.JWTManager))

			r.Get("/auth/me", cfg.AuthHandler.Me)

			r.Route("/accounts", func(r chi.Router) {
				r.Post("/", cfg.AccountHandler.Create)
				r.Get("/", cfg.AccountHandler.List)
				r.Get("/{id}", cfg.AccountHandler.Get)
				r.Delete("/{id}", cfg.AccountHandler.Delete)
			})

			r.Route("/assets", func(r chi.Router) {
				r.Post("/", cfg.AssetHandler.Create)
				r.Get("/", cfg.AssetHandler.List)
				r.Get("/{id}", cfg.AssetHandler.Get)
				r.Patch("/{id}", cfg.AssetHandler.Update)
				r.Delete("/{id}", cfg.AssetHandler.Delete)
				r.Get("/{id}/price", cfg.AssetHandler.GetPrice)
				r.Get("/{id}/history", cfg.AssetHandler.GetHistory)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Post("/", cfg.TransactionHandler.Create)
				r.Get("/", cfg.TransactionHandler.List)
				r.Post("/import", cfg.ImportHandler.Import)
				r.Get("/{id}", cfg.TransactionHandler.Get)
				r.Delete("/{id}", cfg.TransactionHandler.Delete)
			})

			r.Route("/users", func(r chi.Router) {
				r.Post("/", cfg.UserHandler.Create)
				r.Get("/", cfg.UserHandler.List)
				r.Get("/{id}", cfg.UserHandler.Get)
				r.Patch("/{id}", cfg.UserHandler.Update)
				r.Delete("/{id}", cfg.UserHandler.Delete)
			})
		})
	})

	// HTML pages
	if cfg.WebHandler != nil {
		r.Group(func(r chi.Router) {
			if cfg.LoginRateLimit != nil {
				r.Use(cfg.LoginRateLimit.Limit)
			}

			r.Get("/login", cfg.WebHandler.LoginPage)
			r.Post("/login/form", cfg.WebHandler.LoginForm)
			r.Get("/register", cfg.WebHandler.RegisterPage)
			r.Post("/register", cfg.WebHandler.RegisterForm)
			r.Get("/login/sso", cfg.WebHandler.SSORedirect)
			r.Get("/login/callback", cfg.WebHandler.SSOCallback)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(cfg.Sessions))

			r.Get("/", cfg.WebHandler.Dashboard)
			r.Get("/logout", cfg.WebHandler.Logout)
			r.Get("/accounts", cfg.WebHandler.Accounts)
			r.Get("/assets", cfg.WebHandler.Assets)
			r.Get("/transactions", cfg.WebHandler.Transactions)
			r.Get("/import", cfg.WebHandler.ImportPage)
			r.Post("/import", cfg.WebHandler.ImportForm)
		})
	}

	return r
}
