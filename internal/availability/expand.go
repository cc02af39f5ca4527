package availability

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
)

// Индекс совпадает с time.Weekday: 0 = Sunday
var rruleWeekdays = []rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// Occurrences возвращает даты правила в диапазоне [StartDate, EndDate] включительно
func Occurrences(rule model.RecurringRule) ([]time.Time, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	// Ключи дат считаются в UTC, чтобы переходы на летнее время не сдвигали дни
	start, _ := model.ParseDateKey(rule.StartDate, time.UTC)
	end, _ := model.ParseDateKey(rule.EndDate, time.UTC)

	weekdays := make([]rrule.Weekday, 0, len(rule.DaysOfWeek))
	for _, day := range rule.DaysOfWeek {
		weekdays = append(weekdays, rruleWeekdays[day])
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   start,
		Until:     end,
		Byweekday: weekdays,
	})
	if err != nil {
		return nil, fmt.Errorf("build rrule: %w", err)
	}

	return r.All(), nil
}

// Expand пересчитывает сгенерированную доступность по правилам поверх existing
//
// Ручные даты и ручные окна сохраняются без изменений, все сгенерированные
// окна строятся заново. Окна правил на одну дату объединяются, совпадающие
// по началу и концу окна не дублируются. Повторный вызов с теми же правилами
// даёт тот же результат.
func Expand(rules []model.RecurringRule, existing []model.DateOverride) ([]model.DateOverride, error) {
	byDate := make(map[string]*model.DateOverride, len(existing))
	for _, o := range stripGenerated(existing) {
		byDate[o.Date] = &o
	}

	for _, rule := range rules {
		dates, err := Occurrences(rule)
		if err != nil {
			return nil, fmt.Errorf("expand rule %s: %w", rule.ID, err)
		}

		for _, date := range dates {
			key := model.DateKey(date)

			override, ok := byDate[key]
			if !ok {
				override = &model.DateOverride{
					EventTypeID: rule.EventTypeID,
					Date:        key,
					Available:   true,
					Origin:      model.Origin{Kind: model.OriginGenerated},
				}
				byDate[key] = override
			}
			// Ручная дата важнее правил
			if override.Origin.IsManual() {
				continue
			}

			override.Origin = override.Origin.WithRule(rule.ID)
			mergeWindow(override, model.TimeSlot{
				DayOfWeek: int(date.Weekday()),
				StartTime: rule.StartTime,
				EndTime:   rule.EndTime,
				Origin:    model.GeneratedOrigin(rule.ID),
			})
		}
	}

	return collect(byDate), nil
}

// RemoveRule убирает вклад правила из сохранённой доступности
// Даты и окна, которые держались только на этом правиле, удаляются
func RemoveRule(ruleID uuid.UUID, existing []model.DateOverride) []model.DateOverride {
	result := make([]model.DateOverride, 0, len(existing))

	for _, o := range existing {
		if o.Origin.IsManual() {
			result = append(result, o)
			continue
		}

		slots := make([]model.TimeSlot, 0, len(o.TimeSlots))
		for _, slot := range o.TimeSlots {
			if !slot.Origin.HasRule(ruleID) {
				slots = append(slots, slot)
				continue
			}
			origin := slot.Origin.WithoutRule(ruleID)
			if origin.IsManual() || len(origin.RuleIDs) > 0 {
				slot.Origin = origin
				slots = append(slots, slot)
			}
		}
		if len(slots) == 0 {
			continue
		}

		o.TimeSlots = slots
		o.Origin = o.Origin.WithoutRule(ruleID)
		result = append(result, o)
	}

	return result
}

// MergeManual заменяет ручные даты на manual, сгенерированные даты без ручной замены сохраняются
func MergeManual(existing, manual []model.DateOverride) []model.DateOverride {
	byDate := make(map[string]*model.DateOverride, len(existing)+len(manual))

	for _, o := range existing {
		if o.Origin.IsManual() {
			continue
		}
		o.TimeSlots = slices.Clone(o.TimeSlots)
		byDate[o.Date] = &o
	}

	for _, o := range manual {
		o.Origin = model.ManualOrigin()
		slots := make([]model.TimeSlot, len(o.TimeSlots))
		for i, slot := range o.TimeSlots {
			slot.Origin = model.ManualOrigin()
			slots[i] = slot
		}
		o.TimeSlots = slots
		byDate[o.Date] = &o
	}

	return collect(byDate)
}

// stripGenerated оставляет только ручные даты и ручные окна
func stripGenerated(existing []model.DateOverride) []model.DateOverride {
	result := make([]model.DateOverride, 0, len(existing))

	for _, o := range existing {
		if o.Origin.IsManual() {
			result = append(result, o)
			continue
		}

		var slots []model.TimeSlot
		for _, slot := range o.TimeSlots {
			if slot.Origin.IsManual() {
				slots = append(slots, model.TimeSlot{
					DayOfWeek: slot.DayOfWeek,
					StartTime: slot.StartTime,
					EndTime:   slot.EndTime,
					Origin:    model.ManualOrigin(),
				})
			}
		}
		if len(slots) == 0 {
			continue
		}

		result = append(result, model.DateOverride{
			EventTypeID: o.EventTypeID,
			Date:        o.Date,
			Available:   o.Available,
			TimeSlots:   slots,
			Origin:      model.Origin{Kind: model.OriginGenerated},
		})
	}

	return result
}

func mergeWindow(override *model.DateOverride, window model.TimeSlot) {
	for i := range override.TimeSlots {
		if override.TimeSlots[i].SameWindow(window) {
			for _, id := range window.Origin.RuleIDs {
				override.TimeSlots[i].Origin = override.TimeSlots[i].Origin.WithRule(id)
			}
			return
		}
	}
	override.TimeSlots = append(override.TimeSlots, window)
}

// collect возвращает даты по возрастанию, окна сгенерированных дат по началу
func collect(byDate map[string]*model.DateOverride) []model.DateOverride {
	result := make([]model.DateOverride, 0, len(byDate))
	for _, o := range byDate {
		if !o.Origin.IsManual() {
			slices.SortStableFunc(o.TimeSlots, func(a, b model.TimeSlot) int {
				if c := strings.Compare(a.StartTime, b.StartTime); c != 0 {
					return c
				}
				return strings.Compare(a.EndTime, b.EndTime)
			})
		}
		result = append(result, *o)
	}
	slices.SortFunc(result, func(a, b model.DateOverride) int {
		return strings.Compare(a.Date, b.Date)
	})
	return result
}
