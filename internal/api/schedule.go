package api

import (
	"net/http"

	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/julienschmidt/httprouter"
)

func (s *Server) getOverrides(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := uuidParam(ps, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	overrides, err := s.schedules.GetOverrides(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if overrides == nil {
		overrides = []model.DateOverride{}
	}
	respondJSON(w, http.StatusOK, overrides)
}

// PUT /api/event-types/:id/overrides заменяет все ручные даты
func (s *Server) setOverrides(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := uuidParam(ps, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var overrides []model.DateOverride
	if err := decodeJSON(w, r, &overrides); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.schedules.SetManualOverrides(r.Context(), id, overrides)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) upsertOverride(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := uuidParam(ps, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var override model.DateOverride
	if err := decodeJSON(w, r, &override); err != nil {
		s.writeError(w, r, err)
		return
	}
	override.Date = ps.ByName("date")

	result, err := s.schedules.UpsertOverride(r.Context(), id, override)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) deleteOverride(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := uuidParam(ps, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.schedules.DeleteOverride(r.Context(), id, ps.ByName("date")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addManualSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := uuidParam(ps, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var slot model.TimeSlot
	if err := decodeJSON(w, r, &slot); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.schedules.AddManualSlot(r.Context(), id, ps.ByName("date"), slot)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) listRules(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := uuidParam(ps, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rules, err := s.schedules.ListRules(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if rules == nil {
		rules = []model.RecurringRule{}
	}
	respondJSON(w, http.StatusOK, rules)
}

func (s *Server) createRule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := uuidParam(ps, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var rule model.RecurringRule
	if err := decodeJSON(w, r, &rule); err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.schedules.CreateRule(r.Context(), id, rule)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) deleteRule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := uuidParam(ps, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ruleID, err := uuidParam(ps, "ruleId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.schedules.DeleteRule(r.Context(), id, ruleID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
