package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/cache"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateAppointmentRequest - данные клиента для новой записи
type CreateAppointmentRequest struct {
	EventTypeID      uuid.UUID
	StartTime        time.Time
	ClientName       string
	ClientEmail      string
	ClientPhone      string
	Notes            string
	ClientTelegramID *int64
}

// Validate проверяет контактные данные клиента
func (r *CreateAppointmentRequest) Validate() error {
	if r.EventTypeID == uuid.Nil {
		return model.NewValidationError("event_type_id", "is required")
	}
	if r.StartTime.IsZero() {
		return model.NewValidationError("start_time", "is required")
	}
	if strings.TrimSpace(r.ClientName) == "" {
		return model.NewValidationError("client_name", "must not be empty")
	}
	if _, err := mail.ParseAddress(r.ClientEmail); err != nil {
		return model.NewValidationError("client_email", "must be a valid email address")
	}
	return nil
}

type BookingService struct {
	eventTypes   EventTypeRepository
	appointments AppointmentRepository
	cache        cache.Cache
	location     *time.Location
	logger       *zap.Logger
	now          func() time.Time
}

func NewBookingService(
	eventTypes EventTypeRepository,
	appointments AppointmentRepository,
	c cache.Cache,
	location *time.Location,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		eventTypes:   eventTypes,
		appointments: appointments,
		cache:        c,
		location:     location,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateAppointment записывает клиента на слот
//
// Начало должно совпадать с одним из слотов, которые генерируются для этой даты.
// Слот, не предлагаемый расписанием, - ошибка валидации; слот, занятый другой
// активной записью, - ErrConflict. Проверка и вставка выполняются атомарно.
func (s *BookingService) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*model.Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := req.StartTime.In(s.location)
	if !start.After(s.now()) {
		return nil, model.NewValidationError("start_time", "must be in the future")
	}

	apt := &model.Appointment{
		ID:               uuid.New(),
		EventTypeID:      req.EventTypeID,
		StartTime:        start,
		ClientName:       strings.TrimSpace(req.ClientName),
		ClientEmail:      strings.TrimSpace(req.ClientEmail),
		ClientPhone:      strings.TrimSpace(req.ClientPhone),
		Notes:            strings.TrimSpace(req.Notes),
		ClientTelegramID: req.ClientTelegramID,
	}

	err := s.appointments.Admit(ctx, apt, func(et *model.EventType, overrides []model.DateOverride, existing []model.Appointment) error {
		if !et.IsBookable() {
			return model.NewValidationError("event_type_id", "is not open for booking")
		}

		schedule, err := availability.NewGenerator(et, overrides, nil)
		if err != nil {
			return err
		}
		offered, err := schedule.IsOffered(start)
		if err != nil {
			return err
		}
		if !offered {
			return model.NewValidationError("start_time", "is not an offered slot")
		}

		free, err := availability.NewGenerator(et, overrides, existing)
		if err != nil {
			return err
		}
		offered, err = free.IsOffered(start)
		if err != nil {
			return err
		}
		if !offered {
			return model.ErrConflict
		}

		apt.EndTime = start.Add(et.DurationValue())
		apt.Status = model.AppointmentStatusConfirmed
		if et.RequiresApproval {
			apt.Status = model.AppointmentStatusPending
		}
		apt.EventType = et
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			s.logger.Info("Slot already taken",
				zap.String("event_type_id", req.EventTypeID.String()),
				zap.Time("start_time", start),
			)
		}
		return nil, fmt.Errorf("admit appointment: %w", err)
	}

	s.cache.Invalidate(ctx, apt.EventTypeID)

	s.logger.Info("Appointment created",
		zap.String("appointment_id", apt.ID.String()),
		zap.String("event_type_id", apt.EventTypeID.String()),
		zap.Time("start_time", apt.StartTime),
		zap.String("status", string(apt.Status)),
	)

	return apt, nil
}

// GetAppointment получает запись вместе с типом встречи
func (s *BookingService) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if apt == nil {
		return nil, model.ErrNotFound
	}

	et, err := s.eventTypes.GetByID(ctx, apt.EventTypeID)
	if err != nil {
		return nil, fmt.Errorf("get event type: %w", err)
	}
	apt.EventType = et
	s.localize(apt)

	return apt, nil
}

// GetClientAppointments получает предстоящие записи клиента из бота
func (s *BookingService) GetClientAppointments(ctx context.Context, telegramID int64) ([]*model.Appointment, error) {
	appointments, err := s.appointments.GetByClientTelegramID(ctx, telegramID, s.now())
	if err != nil {
		return nil, fmt.Errorf("get client appointments: %w", err)
	}

	if err := s.attachEventTypes(ctx, appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

// ListAppointments получает записи организатора или типа встречи
// Фильтр по статусу и периоду необязателен
func (s *BookingService) ListAppointments(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	appointments, err := s.appointments.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	if err := s.attachEventTypes(ctx, appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (s *BookingService) attachEventTypes(ctx context.Context, appointments []*model.Appointment) error {
	eventTypes := make(map[uuid.UUID]*model.EventType)
	for _, apt := range appointments {
		et, ok := eventTypes[apt.EventTypeID]
		if !ok {
			var err error
			et, err = s.eventTypes.GetByID(ctx, apt.EventTypeID)
			if err != nil {
				return fmt.Errorf("get event type: %w", err)
			}
			eventTypes[apt.EventTypeID] = et
		}
		apt.EventType = et
		s.localize(apt)
	}
	return nil
}

// ApproveAppointment подтверждает запись, ожидающую одобрения
func (s *BookingService) ApproveAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.AppointmentStatusConfirmed, model.AppointmentStatusPending)
}

// CancelAppointment отменяет запись со стороны организатора
func (s *BookingService) CancelAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.AppointmentStatusCancelled, model.AppointmentStatusPending, model.AppointmentStatusConfirmed)
}

// CompleteAppointment отмечает встречу как состоявшуюся
func (s *BookingService) CompleteAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.AppointmentStatusCompleted, model.AppointmentStatusConfirmed)
}

// SetStatus переводит запись в указанный статус по правилам переходов
func (s *BookingService) SetStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	switch status {
	case model.AppointmentStatusConfirmed:
		return s.ApproveAppointment(ctx, id)
	case model.AppointmentStatusCancelled:
		return s.CancelAppointment(ctx, id)
	case model.AppointmentStatusCompleted:
		return s.CompleteAppointment(ctx, id)
	default:
		return nil, model.NewValidationError("status", "unsupported target status "+string(status))
	}
}

// CancelByClient отменяет будущую запись клиентом, которому она принадлежит
func (s *BookingService) CancelByClient(ctx context.Context, id uuid.UUID, telegramID int64) (*model.Appointment, error) {
	apt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if apt == nil || apt.ClientTelegramID == nil || *apt.ClientTelegramID != telegramID {
		return nil, model.ErrNotFound
	}
	if !apt.StartTime.After(s.now()) {
		return nil, model.NewValidationError("start_time", "appointment has already started")
	}

	return s.transition(ctx, id, model.AppointmentStatusCancelled, model.AppointmentStatusPending, model.AppointmentStatusConfirmed)
}

// CompleteElapsed закрывает прошедшие подтверждённые встречи
func (s *BookingService) CompleteElapsed(ctx context.Context) (int64, error) {
	count, err := s.appointments.CompleteElapsed(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Info("Elapsed appointments completed", zap.Int64("count", count))
	}
	return count, nil
}

func (s *BookingService) transition(ctx context.Context, id uuid.UUID, to model.AppointmentStatus, from ...model.AppointmentStatus) (*model.Appointment, error) {
	apt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if apt == nil {
		return nil, model.ErrNotFound
	}

	allowed := false
	for _, status := range from {
		if apt.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, model.NewValidationError("status", fmt.Sprintf("cannot change from %s to %s", apt.Status, to))
	}

	ok, err := s.appointments.UpdateStatus(ctx, id, apt.Status, to)
	if err != nil {
		return nil, fmt.Errorf("update appointment status: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("appointment status changed concurrently: %w", model.ErrConflict)
	}

	previous := apt.Status
	apt.Status = to
	s.localize(apt)

	if to == model.AppointmentStatusCancelled {
		s.cache.Invalidate(ctx, apt.EventTypeID)
	}

	s.logger.Info("Appointment status changed",
		zap.String("appointment_id", id.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(to)),
	)

	return apt, nil
}

func (s *BookingService) localize(apt *model.Appointment) {
	apt.StartTime = apt.StartTime.In(s.location)
	apt.EndTime = apt.EndTime.In(s.location)
}
