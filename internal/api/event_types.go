package api

import (
	"net/http"

	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

type eventTypeRequest struct {
	OwnerID          uuid.UUID             `json:"owner_id"`
	Name             string                `json:"name"`
	Description      string                `json:"description"`
	Duration         int                   `json:"duration"`
	BufferTime       int                   `json:"buffer_time"`
	Status           model.EventTypeStatus `json:"status"`
	RequiresApproval bool                  `json:"requires_approval"`
}

func (req eventTypeRequest) model() *model.EventType {
	return &model.EventType{
		OwnerID:          req.OwnerID,
		Name:             req.Name,
		Description:      req.Description,
		Duration:         req.Duration,
		BufferTime:       req.BufferTime,
		Status:           req.Status,
		RequiresApproval: req.RequiresApproval,
	}
}

// GET /api/event-types[?owner_id=]
func (s *Server) listEventTypes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var (
		eventTypes []*model.EventType
		err        error
	)

	if owner := r.URL.Query().Get("owner_id"); owner != "" {
		ownerID, parseErr := uuid.Parse(owner)
		if parseErr != nil {
			s.writeError(w, r, model.NewValidationError("owner_id", "must be a UUID"))
			return
		}
		eventTypes, err = s.eventTypes.ListByOwner(r.Context(), ownerID)
	} else {
		eventTypes, err = s.eventTypes.ListPublic(r.Context())
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if eventTypes == nil {
		eventTypes = []*model.EventType{}
	}
	respondJSON(w, http.StatusOK, eventTypes)
}

func (s *Server) createEventType(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req eventTypeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	et, err := s.eventTypes.Create(r.Context(), req.model())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, et)
}

func (s *Server) getEventType(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := uuidParam(ps, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	et, err := s.eventTypes.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, et)
}

func (s *Server) updateEventType(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := uuidParam(ps, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req eventTypeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	et := req.model()
	et.ID = id
	updated, err := s.eventTypes.Update(r.Context(), et)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}
