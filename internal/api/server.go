package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/chessdir/tournaments/internal/api/handler"
	"github.com/chessdir/tournaments/internal/api/respond"
	"github.com/chessdir/tournaments/internal/cache"
	"github.com/chessdir/tournaments/internal/config"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
// db may be nil when the memory store is in use.
func NewRouter(store handler.Store, db handler.Pinger, appCache *cache.Cache, cfg *config.Config, logger *slog.Logger, opts ...handler.Option) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Recoverer(logger))
	r.Use(RequestLogger(logger))
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag", "Retry-After"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow, clockwork.NewRealClock()))
	}

	// --- Handler dependencies ---
	h := handler.New(store, db, appCache, cfg, append([]handler.Option{handler.WithLogger(logger)}, opts...)...)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	r.Route("/api", func(r chi.Router) {
		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", h.ListTournaments)
			r.Post("/", h.CreateTournament)
			r.Get("/{id}", h.GetTournament)
			r.Put("/{id}", h.UpdateTournament)
			r.Delete("/{id}", h.DeleteTournament)
		})

		// Dev utility
		if cfg.SeedEnabled {
			r.Get("/seed", h.Seed)
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.WriteError(w, http.StatusNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	return r
}
