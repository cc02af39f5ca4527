package availability

import (
	"slices"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/model"
)

// Overrides - даты доступности одного типа встречи по ключу YYYY-MM-DD
type Overrides map[string]model.DateOverride

// IndexOverrides индексирует даты по ключу, при дублях побеждает последняя
func IndexOverrides(overrides []model.DateOverride) Overrides {
	idx := make(Overrides, len(overrides))
	for _, o := range overrides {
		idx[o.Date] = o
	}
	return idx
}

// Generator считает слоты для одного типа встречи
// Безопасен для конкурентного чтения: после создания не изменяется
type Generator struct {
	duration  time.Duration
	step      time.Duration
	overrides Overrides
	conflicts *ConflictIndex
}

// NewGenerator проверяет параметры типа встречи и готовит индексы
func NewGenerator(eventType *model.EventType, overrides []model.DateOverride, appointments []model.Appointment) (*Generator, error) {
	if eventType == nil {
		return nil, model.NewValidationError("event_type", "is required")
	}
	if eventType.Duration <= 0 {
		return nil, model.NewValidationError("duration", "must be positive")
	}
	if eventType.BufferTime < 0 {
		return nil, model.NewValidationError("buffer_time", "must not be negative")
	}

	conflicts, err := NewConflictIndex(appointments)
	if err != nil {
		return nil, err
	}

	return &Generator{
		duration:  eventType.DurationValue(),
		step:      eventType.DurationValue() + eventType.BufferValue(),
		overrides: IndexOverrides(overrides),
		conflicts: conflicts,
	}, nil
}

// ComputeSlots возвращает свободные начала слотов на дату target
func ComputeSlots(eventType *model.EventType, overrides []model.DateOverride, target time.Time, appointments []model.Appointment) ([]time.Time, error) {
	gen, err := NewGenerator(eventType, overrides, appointments)
	if err != nil {
		return nil, err
	}
	return gen.SlotsOn(target)
}

// SlotsOn возвращает отсортированные начала свободных слотов на календарную дату target
// Дата определяется по локальным компонентам target
func (g *Generator) SlotsOn(target time.Time) ([]time.Time, error) {
	slots := make([]time.Time, 0)

	override, ok := g.overrides[model.DateKey(target)]
	if !ok || !override.Available || len(override.TimeSlots) == 0 {
		return slots, nil
	}

	day := model.StartOfDay(target)

	// Окна независимы: пересекающиеся окна не объединяются
	for _, window := range override.TimeSlots {
		if err := window.Validate(); err != nil {
			return nil, err
		}
		startClock, _ := model.ParseClock(window.StartTime)
		endClock, _ := model.ParseClock(window.EndTime)

		windowStart := startClock.On(day)
		windowEnd := endClock.On(day)

		for cursor := windowStart; !cursor.Add(g.duration).After(windowEnd); cursor = cursor.Add(g.step) {
			if g.conflicts.Conflicts(cursor, cursor.Add(g.duration)) {
				continue
			}
			slots = append(slots, cursor)
		}
	}

	slices.SortStableFunc(slots, func(a, b time.Time) int { return a.Compare(b) })

	return slots, nil
}

// IsOffered проверяет предлагается ли начало start среди слотов его даты
func (g *Generator) IsOffered(start time.Time) (bool, error) {
	slots, err := g.SlotsOn(start)
	if err != nil {
		return false, err
	}
	for _, slot := range slots {
		if slot.Equal(start) {
			return true, nil
		}
	}
	return false, nil
}

// AvailableDates возвращает даты из [from, to], на которые есть хотя бы один слот
func (g *Generator) AvailableDates(from, to time.Time) ([]string, error) {
	dates := make([]string, 0)

	for day := model.StartOfDay(from); !day.After(to); day = day.AddDate(0, 0, 1) {
		slots, err := g.SlotsOn(day)
		if err != nil {
			return nil, err
		}
		if len(slots) > 0 {
			dates = append(dates, model.DateKey(day))
		}
	}

	return dates, nil
}
