package model

import (
	"time"

	"github.com/google/uuid"
)

type EventTypeStatus string

const (
	EventTypeStatusOnline   EventTypeStatus = "online"   // Доступен всем
	EventTypeStatusPrivate  EventTypeStatus = "private"  // Доступен по прямой ссылке
	EventTypeStatusArchived EventTypeStatus = "archived" // В архиве, запись закрыта
	EventTypeStatusClosed   EventTypeStatus = "closed"   // Временно закрыт
)

// EventType - тип встречи, на который клиенты записываются
type EventType struct {
	ID               uuid.UUID       `json:"id"`
	OwnerID          uuid.UUID       `json:"owner_id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Duration         int             `json:"duration"`    // в минутах
	BufferTime       int             `json:"buffer_time"` // в минутах
	Status           EventTypeStatus `json:"status"`
	RequiresApproval bool            `json:"requires_approval"` // требуется ли одобрение организатора
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Validate проверяет параметры, влияющие на расчёт слотов
func (e *EventType) Validate() error {
	if e.Name == "" {
		return NewValidationError("name", "must not be empty")
	}
	if e.Duration <= 0 {
		return NewValidationError("duration", "must be positive")
	}
	if e.BufferTime < 0 {
		return NewValidationError("buffer_time", "must not be negative")
	}
	switch e.Status {
	case EventTypeStatusOnline, EventTypeStatusPrivate, EventTypeStatusArchived, EventTypeStatusClosed:
	default:
		return NewValidationError("status", "unknown status "+string(e.Status))
	}
	return nil
}

// IsBookable проверяет принимает ли тип встречи новые записи
func (e *EventType) IsBookable() bool {
	return e.Status == EventTypeStatusOnline || e.Status == EventTypeStatusPrivate
}

// DurationValue возвращает длительность встречи
func (e *EventType) DurationValue() time.Duration {
	return time.Duration(e.Duration) * time.Minute
}

// BufferValue возвращает буфер между слотами
func (e *EventType) BufferValue() time.Duration {
	return time.Duration(e.BufferTime) * time.Minute
}
