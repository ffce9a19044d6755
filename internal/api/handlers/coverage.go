package handlers

import (
	"net/http"
	"time"

	"github.com/zodiacal/horoscope-api/internal/contracts"
	"github.com/zodiacal/horoscope-api/internal/coverage"
	"github.com/zodiacal/horoscope-api/pkg/logger"
)

// CoverageHandler exposes the editorial coverage snapshot.
type CoverageHandler struct {
	checker *coverage.Checker
	log     *logger.Logger
}

// NewCoverageHandler creates the coverage handler.
func NewCoverageHandler(checker *coverage.Checker, log *logger.Logger) *CoverageHandler {
	return &CoverageHandler{checker: checker, log: log}
}

// Get handles GET /api/coverage?date=YYYY-MM-DD. The date defaults to
// today in UTC.
func (h *CoverageHandler) Get(w http.ResponseWriter, r *http.Request) {
	date := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(contracts.DateLayout, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid date: must be formatted YYYY-MM-DD")
			return
		}
		date = parsed
	}

	snap, err := h.checker.Check(r.Context(), date)
	if err != nil {
		h.log.WithError(err).Error("Coverage check failed")
		respondError(w, http.StatusInternalServerError, "storage backend failure")
		return
	}

	respondJSON(w, http.StatusOK, snap)
}
