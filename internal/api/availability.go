package api

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/julienschmidt/httprouter"
)

type slotsResponse struct {
	Date  string      `json:"date"`
	Slots []time.Time `json:"slots"`
}

type datesResponse struct {
	Month string   `json:"month,omitempty"`
	Dates []string `json:"dates"`
}

// GET /api/availability/:id?date=YYYY-MM-DD
func (s *Server) getAvailableSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := uuidParam(ps, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		s.writeError(w, r, model.NewValidationError("date", "is required"))
		return
	}

	slots, err := s.availability.GetAvailableSlots(r.Context(), id, date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if slots == nil {
		slots = []time.Time{}
	}
	respondJSON(w, http.StatusOK, slotsResponse{Date: date, Slots: slots})
}

// GET /api/availability/:id/dates[?month=YYYY-MM]
func (s *Server) getAvailableDates(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := uuidParam(ps, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	month := r.URL.Query().Get("month")
	dates, err := s.availability.GetAvailableDates(r.Context(), id, month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if dates == nil {
		dates = []string{}
	}
	respondJSON(w, http.StatusOK, datesResponse{Month: month, Dates: dates})
}
