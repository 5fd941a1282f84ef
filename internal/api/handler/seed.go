package handler

import (
	"errors"
	"net/http"

	"github.com/chessdir/tournaments/internal/api/respond"
	"github.com/chessdir/tournaments/internal/seed"
	"github.com/chessdir/tournaments/internal/tournament"
)

// seedCount is the data payload of a successful seed.
type seedCount struct {
	Count int `json:"count"`
}

// Seed inserts the built-in sample tournaments in one statement.
// @Summary Seed sample data
// @Description Development utility. Inserts the sample tournaments; fails with 400 when they already exist.
// @Tags dev
// @Produce json
// @Success 200 {object} respond.Envelope{data=handler.seedCount}
// @Failure 400 {object} respond.Envelope
// @Failure 500 {object} respond.Envelope
// @Router /api/seed [get]
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	result, err := seed.Run(r.Context(), h.store, seed.DefaultFixture())
	if errors.Is(err, tournament.ErrDuplicateTitle) {
		respond.WriteError(w, http.StatusBadRequest, "Failed to seed data", nil)
		return
	}
	if err != nil {
		h.internalErrorMessage(w, r, "seed tournaments", err, "Internal server error while seeding data")
		return
	}
	h.cache.Invalidate()

	h.logger.InfoContext(r.Context(), "Seed finished", "summary", result.Summary())
	respond.WriteSuccess(w, http.StatusOK, "Data seeded successfully", seedCount{Count: result.Inserted})
}
