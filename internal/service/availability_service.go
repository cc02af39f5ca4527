package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/cache"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AvailabilityService отвечает на вопросы "какие даты" и "какие слоты" для клиента
type AvailabilityService struct {
	eventTypes   EventTypeRepository
	schedules    ScheduleRepository
	appointments AppointmentRepository
	cache        cache.Cache
	location     *time.Location
	horizonDays  int
	logger       *zap.Logger
	now          func() time.Time
}

func NewAvailabilityService(
	eventTypes EventTypeRepository,
	schedules ScheduleRepository,
	appointments AppointmentRepository,
	c cache.Cache,
	location *time.Location,
	horizonDays int,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		eventTypes:   eventTypes,
		schedules:    schedules,
		appointments: appointments,
		cache:        c,
		location:     location,
		horizonDays:  horizonDays,
		logger:       logger,
		now:          time.Now,
	}
}

// GetAvailableSlots возвращает свободные слоты на дату YYYY-MM-DD
// Уже начавшиеся слоты не возвращаются; несуществующий или закрытый тип встречи даёт пустой список
func (s *AvailabilityService) GetAvailableSlots(ctx context.Context, eventTypeID uuid.UUID, date string) ([]time.Time, error) {
	day, err := model.ParseDateKey(date, s.location)
	if err != nil {
		return nil, err
	}

	slots, err := s.slotsOn(ctx, eventTypeID, day)
	if err != nil {
		return nil, err
	}

	return s.upcoming(slots), nil
}

// GetAvailableDates возвращает даты месяца YYYY-MM хотя бы с одним свободным слотом
// Пустой month означает период от сегодня на horizonDays дней вперёд
func (s *AvailabilityService) GetAvailableDates(ctx context.Context, eventTypeID uuid.UUID, month string) ([]string, error) {
	from, to, err := s.dateRange(month)
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0)

	et, err := s.bookable(ctx, eventTypeID)
	if err != nil || et == nil {
		return dates, err
	}

	key := fmt.Sprintf("dates:%s:%s", model.DateKey(from), model.DateKey(to))
	cached, cacheGen, ok := s.cache.Get(ctx, eventTypeID, key)
	if !ok {
		gen, err := s.generator(ctx, et, from, to)
		if err != nil {
			return nil, err
		}
		cached, err = gen.AvailableDates(from, to)
		if err != nil {
			return nil, fmt.Errorf("compute available dates: %w", err)
		}
		s.cache.Set(ctx, eventTypeID, cacheGen, key, cached)
	}

	today := model.DateKey(s.now().In(s.location))
	for _, date := range cached {
		if date < today {
			continue
		}
		if date == today {
			// Сегодняшняя дата доступна, только если остались будущие слоты
			slots, err := s.GetAvailableSlots(ctx, eventTypeID, date)
			if err != nil {
				return nil, err
			}
			if len(slots) == 0 {
				continue
			}
		}
		dates = append(dates, date)
	}

	return dates, nil
}

func (s *AvailabilityService) slotsOn(ctx context.Context, eventTypeID uuid.UUID, day time.Time) ([]time.Time, error) {
	slots := make([]time.Time, 0)

	et, err := s.bookable(ctx, eventTypeID)
	if err != nil || et == nil {
		return slots, err
	}

	key := "slots:" + model.DateKey(day)
	cached, cacheGen, ok := s.cache.Get(ctx, eventTypeID, key)
	if ok {
		for _, raw := range cached {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				s.logger.Warn("Invalid cached slot", zap.String("value", raw), zap.Error(err))
				break
			}
			slots = append(slots, t.In(s.location))
		}
		if len(slots) == len(cached) {
			return slots, nil
		}
		slots = slots[:0]
	}

	gen, err := s.generator(ctx, et, day, day)
	if err != nil {
		return nil, err
	}
	slots, err = gen.SlotsOn(day)
	if err != nil {
		return nil, fmt.Errorf("compute slots: %w", err)
	}

	values := make([]string, 0, len(slots))
	for _, slot := range slots {
		values = append(values, slot.Format(time.RFC3339))
	}
	s.cache.Set(ctx, eventTypeID, cacheGen, key, values)

	return slots, nil
}

// generator загружает даты и записи периода [from, to] одним запросом каждого вида
func (s *AvailabilityService) generator(ctx context.Context, et *model.EventType, from, to time.Time) (*availability.Generator, error) {
	overrides, err := s.schedules.GetOverridesInRange(ctx, et.ID, model.DateKey(from), model.DateKey(to))
	if err != nil {
		return nil, fmt.Errorf("get overrides: %w", err)
	}

	appointments, err := s.appointments.GetActiveInRange(ctx, et.ID, model.StartOfDay(from), model.StartOfDay(to).AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("get appointments: %w", err)
	}

	return availability.NewGenerator(et, overrides, appointments)
}

// bookable возвращает тип встречи или nil, если он не найден или закрыт для записи
func (s *AvailabilityService) bookable(ctx context.Context, eventTypeID uuid.UUID) (*model.EventType, error) {
	et, err := s.eventTypes.GetByID(ctx, eventTypeID)
	if err != nil {
		return nil, fmt.Errorf("get event type: %w", err)
	}
	if et == nil || !et.IsBookable() {
		return nil, nil
	}
	return et, nil
}

func (s *AvailabilityService) dateRange(month string) (time.Time, time.Time, error) {
	if month != "" {
		return model.ParseMonth(month, s.location)
	}
	from := model.StartOfDay(s.now().In(s.location))
	return from, from.AddDate(0, 0, s.horizonDays), nil
}

func (s *AvailabilityService) upcoming(slots []time.Time) []time.Time {
	now := s.now()
	result := make([]time.Time, 0, len(slots))
	for _, slot := range slots {
		if slot.After(now) {
			result = append(result, slot)
		}
	}
	return result
}
