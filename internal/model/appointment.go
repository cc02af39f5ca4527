package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"   // Ожидает одобрения организатора
	AppointmentStatusConfirmed AppointmentStatus = "confirmed" // Подтверждена
	AppointmentStatusCancelled AppointmentStatus = "cancelled" // Отменена
	AppointmentStatusCompleted AppointmentStatus = "completed" // Состоялась
)

type Appointment struct {
	ID               uuid.UUID         `json:"id"`
	EventTypeID      uuid.UUID         `json:"event_type_id"`
	StartTime        time.Time         `json:"start_time"`
	EndTime          time.Time         `json:"end_time"`
	ClientName       string            `json:"client_name"`
	ClientEmail      string            `json:"client_email"`
	ClientPhone      string            `json:"client_phone,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	ClientTelegramID *int64            `json:"client_telegram_id,omitempty"` // nil если запись не из бота
	Status           AppointmentStatus `json:"status"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`

	// Заполняется сервисом для ответа клиенту (не из БД)
	EventType *EventType `json:"event_type,omitempty"`
}

// IsActive - участвует ли запись в проверке пересечений
func (a *Appointment) IsActive() bool {
	return a.Status != AppointmentStatusCancelled
}

// Overlaps проверяет пересечение полуоткрытых интервалов [start, end) и [a.StartTime, a.EndTime)
// Касание границ пересечением не считается
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return start.Before(a.EndTime) && end.After(a.StartTime)
}

// Known проверяет, что статус из списка известных
func (s AppointmentStatus) Known() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCancelled, AppointmentStatusCompleted:
		return true
	}
	return false
}

// AppointmentFilter - выборка записей для организатора
// Нулевые поля не участвуют в фильтре, но OwnerID или EventTypeID обязателен
type AppointmentFilter struct {
	OwnerID     uuid.UUID
	EventTypeID uuid.UUID
	Status      AppointmentStatus
	From        time.Time // записи, заканчивающиеся после From
	To          time.Time // записи, начинающиеся до To
}

func (f AppointmentFilter) Validate() error {
	if f.OwnerID == uuid.Nil && f.EventTypeID == uuid.Nil {
		return NewValidationError("owner_id", "owner_id or event_type_id is required")
	}
	if f.Status != "" && !f.Status.Known() {
		return NewValidationError("status", "unknown status "+string(f.Status))
	}
	if !f.From.IsZero() && !f.To.IsZero() && !f.From.Before(f.To) {
		return NewValidationError("to", "must be after from")
	}
	return nil
}
