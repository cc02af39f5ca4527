package api

import (
	"context"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/Freeeeeet/booking_bot/internal/service"
	"github.com/google/uuid"
)

type EventTypeService interface {
	Create(ctx context.Context, et *model.EventType) (*model.EventType, error)
	Update(ctx context.Context, et *model.EventType) (*model.EventType, error)
	Get(ctx context.Context, id uuid.UUID) (*model.EventType, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.EventType, error)
	ListPublic(ctx context.Context) ([]*model.EventType, error)
}

type AvailabilityService interface {
	GetAvailableSlots(ctx context.Context, eventTypeID uuid.UUID, date string) ([]time.Time, error)
	GetAvailableDates(ctx context.Context, eventTypeID uuid.UUID, month string) ([]string, error)
}

type ScheduleService interface {
	GetOverrides(ctx context.Context, eventTypeID uuid.UUID) ([]model.DateOverride, error)
	SetManualOverrides(ctx context.Context, eventTypeID uuid.UUID, overrides []model.DateOverride) ([]model.DateOverride, error)
	UpsertOverride(ctx context.Context, eventTypeID uuid.UUID, override model.DateOverride) (*model.DateOverride, error)
	DeleteOverride(ctx context.Context, eventTypeID uuid.UUID, date string) error
	AddManualSlot(ctx context.Context, eventTypeID uuid.UUID, date string, slot model.TimeSlot) (*model.DateOverride, error)
	ListRules(ctx context.Context, eventTypeID uuid.UUID) ([]model.RecurringRule, error)
	CreateRule(ctx context.Context, eventTypeID uuid.UUID, rule model.RecurringRule) (*model.RecurringRule, error)
	DeleteRule(ctx context.Context, eventTypeID, ruleID uuid.UUID) error
}

type BookingService interface {
	CreateAppointment(ctx context.Context, req service.CreateAppointmentRequest) (*model.Appointment, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	ListAppointments(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error)
	SetStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error)
}

var (
	_ EventTypeService    = (*service.EventTypeService)(nil)
	_ AvailabilityService = (*service.AvailabilityService)(nil)
	_ ScheduleService     = (*service.ScheduleService)(nil)
	_ BookingService      = (*service.BookingService)(nil)
)
