// Package handler provides HTTP handlers for all API endpoints.
// Handlers validate input, call the tournament store and shape every
// tournament response as a respond.Envelope. Reads are cached with ETags;
// writes invalidate the cache.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"

	"github.com/chessdir/tournaments/internal/api/respond"
	"github.com/chessdir/tournaments/internal/cache"
	"github.com/chessdir/tournaments/internal/config"
	"github.com/chessdir/tournaments/internal/tournament"
)

// Store is the persistence contract the handlers depend on. Both the
// Postgres repository and the in-memory store satisfy it.
type Store interface {
	Create(ctx context.Context, t *tournament.Tournament) error
	BulkCreate(ctx context.Context, ts []*tournament.Tournament) (int, error)
	Get(ctx context.Context, id int64) (*tournament.Tournament, error)
	Update(ctx context.Context, id int64, changes tournament.Changes) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, q tournament.ListQuery) (*tournament.Page, error)
}

// Pinger checks database reachability. Nil when running on the memory store.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	store  Store
	db     Pinger
	cache  *cache.Cache
	cfg    *config.Config
	clock  clockwork.Clock
	logger *slog.Logger
}

// Option customizes a Handler.
type Option func(*Handler)

// WithClock overrides the clock used for health timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(h *Handler) { h.clock = c }
}

// WithLogger overrides the logger; slog.Default() otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// New creates a Handler with shared dependencies.
func New(store Store, db Pinger, c *cache.Cache, cfg *config.Config, opts ...Option) *Handler {
	h := &Handler{
		store:  store,
		db:     db,
		cache:  c,
		cfg:    cfg,
		clock:  clockwork.NewRealClock(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// internalError logs err with request context and sends the generic 500.
func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.internalErrorMessage(w, r, op, err, "Internal server error")
}

func (h *Handler) internalErrorMessage(w http.ResponseWriter, r *http.Request, op string, err error, message string) {
	h.logger.ErrorContext(r.Context(), "Request failed",
		"op", op,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err)
	respond.WriteError(w, http.StatusInternalServerError, message, nil)
}
