package api

import (
	"net/http"
	"net/url"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/Freeeeeet/booking_bot/internal/service"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

type createAppointmentRequest struct {
	EventTypeID uuid.UUID `json:"event_type_id"`
	StartTime   time.Time `json:"start_time"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	ClientPhone string    `json:"client_phone"`
	Notes       string    `json:"notes"`
}

type statusRequest struct {
	Status model.AppointmentStatus `json:"status"`
}

func (s *Server) createAppointment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createAppointmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	apt, err := s.bookings.CreateAppointment(r.Context(), service.CreateAppointmentRequest{
		EventTypeID: req.EventTypeID,
		StartTime:   req.StartTime,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		Notes:       req.Notes,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, apt)
}

func (s *Server) getAppointment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := uuidParam(ps, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	apt, err := s.bookings.GetAppointment(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, apt)
}

// GET /api/appointments?owner_id=|event_type_id=[&status=][&from=][&to=]
// from и to в RFC3339
func (s *Server) listAppointments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter, err := appointmentFilter(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	appointments, err := s.bookings.ListAppointments(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, appointments)
}

func appointmentFilter(q url.Values) (model.AppointmentFilter, error) {
	filter := model.AppointmentFilter{Status: model.AppointmentStatus(q.Get("status"))}

	for field, dst := range map[string]*uuid.UUID{"owner_id": &filter.OwnerID, "event_type_id": &filter.EventTypeID} {
		raw := q.Get(field)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, model.NewValidationError(field, "must be a UUID")
		}
		*dst = id
	}

	for field, dst := range map[string]*time.Time{"from": &filter.From, "to": &filter.To} {
		raw := q.Get(field)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, model.NewValidationError(field, "must be an RFC3339 time")
		}
		*dst = t
	}

	return filter, nil
}

func (s *Server) setAppointmentStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := uuidParam(ps, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	apt, err := s.bookings.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, apt)
}
