package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/Freeeeeet/booking_bot/internal/repository"
	"github.com/google/uuid"
)

// EventTypeRepository - хранилище типов встреч
type EventTypeRepository interface {
	Create(ctx context.Context, et *model.EventType) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.EventType, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.EventType, error)
	GetPublic(ctx context.Context) ([]*model.EventType, error)
	GetAllIDs(ctx context.Context) ([]uuid.UUID, error)
	Update(ctx context.Context, et *model.EventType) error
}

// ScheduleRepository - хранилище дат доступности и правил
type ScheduleRepository interface {
	GetOverrides(ctx context.Context, eventTypeID uuid.UUID) ([]model.DateOverride, error)
	GetOverridesInRange(ctx context.Context, eventTypeID uuid.UUID, from, to string) ([]model.DateOverride, error)
	GetRules(ctx context.Context, eventTypeID uuid.UUID) ([]model.RecurringRule, error)
	Modify(ctx context.Context, eventTypeID uuid.UUID, fn func(schedule *model.Schedule) error) error
}

// AppointmentRepository - хранилище записей
type AppointmentRepository interface {
	Admit(ctx context.Context, apt *model.Appointment, check repository.AdmissionCheck) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	GetActiveInRange(ctx context.Context, eventTypeID uuid.UUID, from, to time.Time) ([]model.Appointment, error)
	GetByClientTelegramID(ctx context.Context, telegramID int64, from time.Time) ([]*model.Appointment, error)
	List(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus) (bool, error)
	CompleteElapsed(ctx context.Context, now time.Time) (int64, error)
}

var (
	_ EventTypeRepository   = (*repository.EventTypeRepository)(nil)
	_ ScheduleRepository    = (*repository.ScheduleRepository)(nil)
	_ AppointmentRepository = (*repository.AppointmentRepository)(nil)
)
