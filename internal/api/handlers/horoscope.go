package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/zodiacal/horoscope-api/internal/horoscope"
	"github.com/zodiacal/horoscope-api/pkg/logger"
)

// HoroscopeHandler serves the horoscope read and write endpoints.
// ⭐ SSOT: horoscope HTTP handling lives in this struct only.
type HoroscopeHandler struct {
	svc *horoscope.Service
	log *logger.Logger
}

// NewHoroscopeHandler creates the handler over the domain service.
func NewHoroscopeHandler(svc *horoscope.Service, log *logger.Logger) *HoroscopeHandler {
	return &HoroscopeHandler{svc: svc, log: log}
}

// Submit handles POST /api/horoscopes. The body supplies sign, date
// and one or both horoscope texts; each supplied kind is upserted
// independently.
func (h *HoroscopeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in horoscope.SubmitInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.svc.Submit(r.Context(), in)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			h.log.WithError(err).Error("Submit failed")
			// Per-kind results still show which writes landed.
			respondJSON(w, status, map[string]interface{}{
				"error":   messageForError(err),
				"results": result,
			})
			return
		}
		respondError(w, status, messageForError(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "horoscope saved",
		"results": result,
	})
}

// GetOne handles GET /api/horoscopes/{signID}?date=YYYY-MM-DD&type=daily|weekly.
func (h *HoroscopeHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	query := r.URL.Query()

	rec, err := h.svc.FetchOne(r.Context(), vars["signID"], query.Get("date"), query.Get("type"))
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			h.log.WithError(err).Error("Fetch failed")
		}
		respondError(w, status, messageForError(err))
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

// GetAll handles GET /api/horoscopes?date=YYYY-MM-DD&type=daily|weekly.
// Returns every sign's record for the period, empty array included.
func (h *HoroscopeHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	recs, err := h.svc.FetchAll(r.Context(), query.Get("date"), query.Get("type"))
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			h.log.WithError(err).Error("List failed")
		}
		respondError(w, status, messageForError(err))
		return
	}

	respondJSON(w, http.StatusOK, recs)
}
