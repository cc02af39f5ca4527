package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// Максимальный размер тела запроса
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// writeError переводит доменную ошибку в HTTP статус
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *model.ValidationError

	switch {
	case errors.As(err, &validation):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: validation.Reason, Field: validation.Field})
	case errors.Is(err, model.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, model.ErrConflict):
		respondError(w, http.StatusConflict, model.ErrConflict.Error())
	default:
		s.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return model.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	return nil
}

func uuidParam(ps httprouter.Params, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ps.ByName(name))
	if err != nil {
		return uuid.Nil, model.NewValidationError(name, "must be a UUID")
	}
	return id, nil
}
