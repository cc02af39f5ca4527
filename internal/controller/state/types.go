package state

import (
	"time"

	"github.com/google/uuid"
)

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Клиент выбрал слот и вводит email
	StateEnteringEmail UserState = "entering_email"
)

// Session хранит данные незавершённой записи
type Session struct {
	State       UserState
	EventTypeID uuid.UUID
	StartTime   time.Time
	ClientName  string
	UpdatedAt   time.Time
}
