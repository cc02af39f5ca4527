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

// ScheduleService редактирует доступность организатора: даты вручную и регулярные правила
// Правила раскрываются в даты при каждом изменении, при записи клиента они не читаются
type ScheduleService struct {
	eventTypes EventTypeRepository
	schedules  ScheduleRepository
	cache      cache.Cache
	logger     *zap.Logger
}

func NewScheduleService(eventTypes EventTypeRepository, schedules ScheduleRepository, c cache.Cache, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		eventTypes: eventTypes,
		schedules:  schedules,
		cache:      c,
		logger:     logger,
	}
}

// GetOverrides получает все даты доступности типа встречи
func (s *ScheduleService) GetOverrides(ctx context.Context, eventTypeID uuid.UUID) ([]model.DateOverride, error) {
	if err := s.ensureEventType(ctx, eventTypeID); err != nil {
		return nil, err
	}
	return s.schedules.GetOverrides(ctx, eventTypeID)
}

// ListRules получает регулярные правила типа встречи
func (s *ScheduleService) ListRules(ctx context.Context, eventTypeID uuid.UUID) ([]model.RecurringRule, error) {
	if err := s.ensureEventType(ctx, eventTypeID); err != nil {
		return nil, err
	}
	return s.schedules.GetRules(ctx, eventTypeID)
}

// SetManualOverrides заменяет весь набор ручных дат
// Сгенерированные даты на остальные дни сохраняются и пересчитываются по правилам
func (s *ScheduleService) SetManualOverrides(ctx context.Context, eventTypeID uuid.UUID, overrides []model.DateOverride) ([]model.DateOverride, error) {
	manual, err := prepareManual(eventTypeID, overrides)
	if err != nil {
		return nil, err
	}

	var result []model.DateOverride
	err = s.modify(ctx, eventTypeID, func(schedule *model.Schedule) error {
		merged := availability.MergeManual(schedule.Overrides, manual)
		expanded, err := availability.Expand(schedule.Rules, merged)
		if err != nil {
			return err
		}
		schedule.Overrides = expanded
		result = expanded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Manual overrides replaced",
		zap.String("event_type_id", eventTypeID.String()),
		zap.Int("manual", len(manual)),
		zap.Int("total", len(result)),
	)

	return result, nil
}

// UpsertOverride задаёт доступность одной даты вручную, правила эту дату больше не меняют
func (s *ScheduleService) UpsertOverride(ctx context.Context, eventTypeID uuid.UUID, override model.DateOverride) (*model.DateOverride, error) {
	manual, err := prepareManual(eventTypeID, []model.DateOverride{override})
	if err != nil {
		return nil, err
	}
	saved := manual[0]

	err = s.modify(ctx, eventTypeID, func(schedule *model.Schedule) error {
		overrides := withoutDate(schedule.Overrides, saved.Date)
		overrides = append(overrides, saved)
		expanded, err := availability.Expand(schedule.Rules, overrides)
		if err != nil {
			return err
		}
		schedule.Overrides = expanded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Override saved",
		zap.String("event_type_id", eventTypeID.String()),
		zap.String("date", saved.Date),
		zap.Bool("available", saved.Available),
	)

	return &saved, nil
}

// DeleteOverride удаляет дату; если дата попадает под правило, она генерируется заново
func (s *ScheduleService) DeleteOverride(ctx context.Context, eventTypeID uuid.UUID, date string) error {
	if _, err := model.ParseDateKey(date, time.UTC); err != nil {
		return err
	}

	err := s.modify(ctx, eventTypeID, func(schedule *model.Schedule) error {
		overrides := withoutDate(schedule.Overrides, date)
		if len(overrides) == len(schedule.Overrides) {
			return model.ErrNotFound
		}
		expanded, err := availability.Expand(schedule.Rules, overrides)
		if err != nil {
			return err
		}
		schedule.Overrides = expanded
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Override deleted",
		zap.String("event_type_id", eventTypeID.String()),
		zap.String("date", date),
	)

	return nil
}

// AddManualSlot добавляет окно в дату, не отменяя окна правил
func (s *ScheduleService) AddManualSlot(ctx context.Context, eventTypeID uuid.UUID, date string, slot model.TimeSlot) (*model.DateOverride, error) {
	day, err := model.ParseDateKey(date, time.UTC)
	if err != nil {
		return nil, err
	}
	slot.DayOfWeek = int(day.Weekday())
	slot.Origin = model.ManualOrigin()
	if err := slot.Validate(); err != nil {
		return nil, err
	}

	var saved model.DateOverride
	err = s.modify(ctx, eventTypeID, func(schedule *model.Schedule) error {
		saved = addManualSlot(schedule.Overrides, eventTypeID, date, slot)
		overrides := append(withoutDate(schedule.Overrides, date), saved)
		expanded, err := availability.Expand(schedule.Rules, overrides)
		if err != nil {
			return err
		}
		schedule.Overrides = expanded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Manual slot added",
		zap.String("event_type_id", eventTypeID.String()),
		zap.String("date", date),
		zap.String("start_time", slot.StartTime),
		zap.String("end_time", slot.EndTime),
	)

	return &saved, nil
}

// CreateRule сохраняет правило и раскрывает его в даты в одной транзакции
func (s *ScheduleService) CreateRule(ctx context.Context, eventTypeID uuid.UUID, rule model.RecurringRule) (*model.RecurringRule, error) {
	rule.ID = uuid.New()
	rule.EventTypeID = eventTypeID
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	var generated int
	err := s.modify(ctx, eventTypeID, func(schedule *model.Schedule) error {
		schedule.Rules = append(schedule.Rules, rule)
		expanded, err := availability.Expand(schedule.Rules, schedule.Overrides)
		if err != nil {
			return err
		}
		schedule.Overrides = expanded
		for _, o := range expanded {
			if !o.Origin.IsManual() && o.Origin.HasRule(rule.ID) {
				generated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Recurring rule created",
		zap.String("event_type_id", eventTypeID.String()),
		zap.String("rule_id", rule.ID.String()),
		zap.Ints("days_of_week", rule.DaysOfWeek),
		zap.Int("generated_dates", generated),
	)

	return &rule, nil
}

// DeleteRule удаляет правило и только те даты и окна, которые держались на нём
func (s *ScheduleService) DeleteRule(ctx context.Context, eventTypeID, ruleID uuid.UUID) error {
	err := s.modify(ctx, eventTypeID, func(schedule *model.Schedule) error {
		if schedule.Rule(ruleID) == nil {
			return model.ErrNotFound
		}
		schedule.Rules = schedule.WithoutRule(ruleID)
		schedule.Overrides = availability.RemoveRule(ruleID, schedule.Overrides)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Recurring rule deleted",
		zap.String("event_type_id", eventTypeID.String()),
		zap.String("rule_id", ruleID.String()),
	)

	return nil
}

// Reconcile заново раскрывает правила типа встречи
func (s *ScheduleService) Reconcile(ctx context.Context, eventTypeID uuid.UUID) error {
	return s.modify(ctx, eventTypeID, func(schedule *model.Schedule) error {
		expanded, err := availability.Expand(schedule.Rules, schedule.Overrides)
		if err != nil {
			return err
		}
		schedule.Overrides = expanded
		return nil
	})
}

// ReconcileAll раскрывает правила всех типов встреч, ошибка одного не останавливает остальные
func (s *ScheduleService) ReconcileAll(ctx context.Context) (int, error) {
	ids, err := s.eventTypes.GetAllIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("get event types: %w", err)
	}

	var (
		reconciled int
		firstErr   error
	)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return reconciled, err
		}
		if err := s.Reconcile(ctx, id); err != nil {
			s.logger.Error("Failed to reconcile rules",
				zap.String("event_type_id", id.String()),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		reconciled++
	}

	s.logger.Info("Rules reconciled", zap.Int("event_types", reconciled), zap.Int("total", len(ids)))

	return reconciled, firstErr
}

func (s *ScheduleService) modify(ctx context.Context, eventTypeID uuid.UUID, fn func(schedule *model.Schedule) error) error {
	if err := s.schedules.Modify(ctx, eventTypeID, fn); err != nil {
		return fmt.Errorf("modify schedule: %w", err)
	}
	s.cache.Invalidate(ctx, eventTypeID)
	return nil
}

func (s *ScheduleService) ensureEventType(ctx context.Context, eventTypeID uuid.UUID) error {
	et, err := s.eventTypes.GetByID(ctx, eventTypeID)
	if err != nil {
		return fmt.Errorf("get event type: %w", err)
	}
	if et == nil {
		return model.ErrNotFound
	}
	return nil
}

// prepareManual проверяет даты, помечает их как ручные и заполняет дни недели
func prepareManual(eventTypeID uuid.UUID, overrides []model.DateOverride) ([]model.DateOverride, error) {
	seen := make(map[string]bool, len(overrides))
	result := make([]model.DateOverride, 0, len(overrides))

	for _, o := range overrides {
		day, err := model.ParseDateKey(o.Date, time.UTC)
		if err != nil {
			return nil, err
		}
		if seen[o.Date] {
			return nil, model.NewValidationError("date", "duplicate date "+o.Date)
		}
		seen[o.Date] = true

		slots := make([]model.TimeSlot, 0, len(o.TimeSlots))
		for _, slot := range o.TimeSlots {
			slot.DayOfWeek = int(day.Weekday())
			slot.Origin = model.ManualOrigin()
			slots = append(slots, slot)
		}

		prepared := model.DateOverride{
			EventTypeID: eventTypeID,
			Date:        o.Date,
			Available:   o.Available,
			TimeSlots:   slots,
			Origin:      model.ManualOrigin(),
		}
		if err := prepared.Validate(); err != nil {
			return nil, err
		}
		result = append(result, prepared)
	}

	return result, nil
}

func withoutDate(overrides []model.DateOverride, date string) []model.DateOverride {
	result := make([]model.DateOverride, 0, len(overrides))
	for _, o := range overrides {
		if o.Date != date {
			result = append(result, o)
		}
	}
	return result
}

// addManualSlot возвращает дату с добавленным ручным окном
// Совпадающее окно правила становится ручным и переживает удаление правила
func addManualSlot(overrides []model.DateOverride, eventTypeID uuid.UUID, date string, slot model.TimeSlot) model.DateOverride {
	for _, o := range overrides {
		if o.Date != date {
			continue
		}

		slots := make([]model.TimeSlot, 0, len(o.TimeSlots)+1)
		merged := false
		for _, existing := range o.TimeSlots {
			if existing.SameWindow(slot) {
				existing.Origin = model.Origin{Kind: model.OriginManual, RuleIDs: existing.Origin.RuleIDs}
				merged = true
			}
			slots = append(slots, existing)
		}
		if !merged {
			slots = append(slots, slot)
		}

		o.TimeSlots = slots
		o.Available = true
		return o
	}

	return model.DateOverride{
		EventTypeID: eventTypeID,
		Date:        date,
		Available:   true,
		TimeSlots:   []model.TimeSlot{slot},
		Origin:      model.ManualOrigin(),
	}
}
