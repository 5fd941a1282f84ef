package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chessdir/tournaments/internal/api/respond"
	"github.com/chessdir/tournaments/internal/cache"
	"github.com/chessdir/tournaments/internal/tournament"
)

const maxBodyBytes = 1 << 20

// updateErrors is the data payload of a rejected update.
type updateErrors struct {
	IDErrors   tournament.Errors `json:"idErrors,omitempty"`
	BodyErrors tournament.Errors `json:"bodyErrors,omitempty"`
}

// emptyList is the data payload when no tournament matches.
type emptyList struct {
	Total       int                      `json:"total"`
	Tournaments []*tournament.Tournament `json:"tournaments"`
}

// ListTournaments returns a filtered, paginated page of tournaments.
// @Summary List tournaments
// @Description Paginated list, newest first. title and city match case-insensitive substrings and are combined with AND.
// @Tags tournaments
// @Produce json
// @Param page query int false "Page number (>= 1)" default(1)
// @Param limit query int false "Page size (1-100)" default(10)
// @Param title query string false "Title substring"
// @Param city query string false "City substring"
// @Success 200 {object} respond.Envelope{data=tournament.Page}
// @Success 304 "Not modified"
// @Failure 400 {object} respond.Envelope
// @Failure 404 {object} respond.Envelope
// @Router /api/tournaments [get]
func (h *Handler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	q, err := tournament.ParseListQuery(r.URL.Query())
	if err != nil {
		verrs, _ := tournament.AsErrors(err)
		respond.WriteError(w, http.StatusBadRequest, "Invalid query parameters", verrs)
		return
	}

	cacheKey := fmt.Sprintf("list:%d:%d:%q:%q", q.Page, q.Limit, q.Title, q.City)
	ttl := cache.TTLList
	if h.serveCached(w, r, cacheKey, ttl) {
		return
	}

	gen := h.cache.Generation()
	page, err := h.store.List(r.Context(), q)
	if err != nil {
		h.internalError(w, r, "list tournaments", err)
		return
	}
	if page.Total == 0 {
		respond.WriteError(w, http.StatusNotFound, "No tournaments found",
			emptyList{Total: 0, Tournaments: []*tournament.Tournament{}})
		return
	}

	h.writeCacheable(w, r, cacheKey, ttl, gen, respond.Success("", page))
}

// GetTournament returns a single tournament.
// @Summary Get tournament
// @Description Returns one tournament by id.
// @Tags tournaments
// @Produce json
// @Param id path int true "Tournament ID"
// @Success 200 {object} respond.Envelope{data=tournament.Tournament}
// @Success 304 "Not modified"
// @Failure 400 {object} respond.Envelope
// @Failure 404 {object} respond.Envelope
// @Router /api/tournaments/{id} [get]
func (h *Handler) GetTournament(w http.ResponseWriter, r *http.Request) {
	id, err := tournament.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "Invalid tournament ID", nil)
		return
	}

	cacheKey := fmt.Sprintf("tournament:%d", id)
	ttl := cache.TTLDetail
	if h.serveCached(w, r, cacheKey, ttl) {
		return
	}

	gen := h.cache.Generation()
	t, err := h.store.Get(r.Context(), id)
	if errors.Is(err, tournament.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "Tournament not found", nil)
		return
	}
	if err != nil {
		h.internalError(w, r, "get tournament", err)
		return
	}

	h.writeCacheable(w, r, cacheKey, ttl, gen, respond.Success("", t))
}

// CreateTournament validates and stores a new tournament.
// @Summary Create tournament
// @Description Validates the full payload, applies defaults and stores it. Titles are unique; a title already in use returns 409.
// @Tags tournaments
// @Accept json
// @Produce json
// @Param tournament body tournament.Tournament true "Tournament payload"
// @Success 201 {object} respond.Envelope{data=tournament.Tournament}
// @Failure 400 {object} respond.Envelope
// @Failure 409 {object} respond.Envelope
// @Router /api/tournaments [post]
func (h *Handler) CreateTournament(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "Validation failed", bodyReadErrors(err))
		return
	}

	t, err := tournament.ValidateCreate(raw)
	if err != nil {
		verrs, _ := tournament.AsErrors(err)
		respond.WriteError(w, http.StatusBadRequest, "Validation failed", verrs)
		return
	}

	err = h.store.Create(r.Context(), t)
	if errors.Is(err, tournament.ErrDuplicateTitle) {
		respond.WriteError(w, http.StatusConflict, "Tournament title already exists", duplicateTitle())
		return
	}
	if err != nil {
		h.internalError(w, r, "create tournament", err)
		return
	}
	h.cache.Invalidate()

	respond.WriteSuccess(w, http.StatusCreated, "Tournament created successfully", t)
}

// UpdateTournament applies a partial update and returns the stored record.
// @Summary Update tournament
// @Description Partial update. Only keys present in the body change; nullable fields accept null. Renaming to a title already in use returns 409.
// @Tags tournaments
// @Accept json
// @Produce json
// @Param id path int true "Tournament ID"
// @Param tournament body tournament.Tournament true "Fields to change"
// @Success 200 {object} respond.Envelope{data=tournament.Tournament}
// @Failure 400 {object} respond.Envelope{data=handler.updateErrors}
// @Failure 404 {object} respond.Envelope
// @Failure 409 {object} respond.Envelope
// @Router /api/tournaments/{id} [put]
func (h *Handler) UpdateTournament(w http.ResponseWriter, r *http.Request) {
	id, idErr := tournament.ParseID(chi.URLParam(r, "id"))

	var changes tournament.Changes
	var bodyErrs tournament.Errors
	raw, err := readBody(w, r)
	if err != nil {
		bodyErrs = bodyReadErrors(err)
	} else if changes, err = tournament.ValidateUpdate(raw); err != nil {
		bodyErrs, _ = tournament.AsErrors(err)
	}

	if idErr != nil || bodyErrs != nil {
		data := updateErrors{BodyErrors: bodyErrs}
		if idErr != nil {
			data.IDErrors = tournament.Errors{"id": {"Invalid tournament ID"}}
		}
		respond.WriteError(w, http.StatusBadRequest, "Validation failed", data)
		return
	}

	err = h.store.Update(r.Context(), id, changes)
	switch {
	case errors.Is(err, tournament.ErrNotFound):
		respond.WriteError(w, http.StatusNotFound, "Tournament not updated", nil)
		return
	case errors.Is(err, tournament.ErrDuplicateTitle):
		respond.WriteError(w, http.StatusConflict, "Tournament title already exists", duplicateTitle())
		return
	case err != nil:
		h.internalError(w, r, "update tournament", err)
		return
	}
	h.cache.Invalidate()
	h.logger.InfoContext(r.Context(), "Tournament updated", "id", id, "fields", changes.Keys())

	t, err := h.store.Get(r.Context(), id)
	if errors.Is(err, tournament.ErrNotFound) {
		// Deleted between the update and the re-read.
		respond.WriteError(w, http.StatusNotFound, "Tournament not found", nil)
		return
	}
	if err != nil {
		h.internalError(w, r, "reload tournament", err)
		return
	}

	respond.WriteSuccess(w, http.StatusOK, "Tournament updated successfully", t)
}

// DeleteTournament removes a tournament.
// @Summary Delete tournament
// @Description Hard-deletes one tournament by id.
// @Tags tournaments
// @Produce json
// @Param id path int true "Tournament ID"
// @Success 200 {object} respond.Envelope
// @Failure 400 {object} respond.Envelope
// @Failure 404 {object} respond.Envelope
// @Router /api/tournaments/{id} [delete]
func (h *Handler) DeleteTournament(w http.ResponseWriter, r *http.Request) {
	id, err := tournament.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "Invalid tournament ID", nil)
		return
	}

	err = h.store.Delete(r.Context(), id)
	if errors.Is(err, tournament.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "Tournament not found", nil)
		return
	}
	if err != nil {
		h.internalError(w, r, "delete tournament", err)
		return
	}
	h.cache.Invalidate()

	respond.WriteSuccess(w, http.StatusOK, "Tournament deleted successfully", nil)
}

// serveCached answers from the cache when possible, with 304 on a matching
// If-None-Match.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration) bool {
	data, etag, ok := h.cache.Get(key)
	if !ok {
		return false
	}
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return true
	}
	respond.WriteJSON(w, data, etag, ttl, true)
	return true
}

// writeCacheable encodes env, caches it under the generation read before
// the query, and writes it with its ETag.
func (h *Handler) writeCacheable(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration, gen uint64, env respond.Envelope) {
	body, err := respond.Marshal(env)
	if err != nil {
		h.internalError(w, r, "encode response", err)
		return
	}
	etag := h.cache.Set(key, body, ttl, gen)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, body, etag, ttl, false)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	return raw, nil
}

func bodyReadErrors(err error) tournament.Errors {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return tournament.Errors{"": {fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit)}}
	}
	return tournament.Errors{"": {"Request body could not be read"}}
}

func duplicateTitle() tournament.Errors {
	return tournament.Errors{"title": {"A tournament with this title already exists"}}
}
