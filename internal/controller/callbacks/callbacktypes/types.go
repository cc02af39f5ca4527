package callbacktypes

import (
	"context"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/controller/state"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/Freeeeeet/booking_bot/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventTypeService - каталог типов встреч для клиента
type EventTypeService interface {
	ListPublic(ctx context.Context) ([]*model.EventType, error)
	Get(ctx context.Context, id uuid.UUID) (*model.EventType, error)
}

// AvailabilityService - свободные даты и слоты
type AvailabilityService interface {
	GetAvailableDates(ctx context.Context, eventTypeID uuid.UUID, month string) ([]string, error)
	GetAvailableSlots(ctx context.Context, eventTypeID uuid.UUID, date string) ([]time.Time, error)
}

// BookingService - записи клиента
type BookingService interface {
	CreateAppointment(ctx context.Context, req service.CreateAppointmentRequest) (*model.Appointment, error)
	GetClientAppointments(ctx context.Context, telegramID int64) ([]*model.Appointment, error)
	CancelByClient(ctx context.Context, id uuid.UUID, telegramID int64) (*model.Appointment, error)
}

// StateManager интерфейс для управления состоянием пользователей
type StateManager interface {
	GetState(telegramID int64) state.UserState
	Get(telegramID int64) (state.Session, bool)
	Set(telegramID int64, session state.Session)
	ClearState(telegramID int64)
}

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	EventTypeService    EventTypeService
	AvailabilityService AvailabilityService
	BookingService      BookingService
	StateManager        StateManager
	Location            *time.Location
	Logger              *zap.Logger
}

var (
	_ EventTypeService    = (*service.EventTypeService)(nil)
	_ AvailabilityService = (*service.AvailabilityService)(nil)
	_ BookingService      = (*service.BookingService)(nil)
	_ StateManager        = (*state.Manager)(nil)
)
