// Package seed загружает типы встреч и расписание из YAML файла
package seed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Fixtures struct {
	EventTypes []EventTypeFixture `yaml:"event_types"`
}

type EventTypeFixture struct {
	OwnerID          string            `yaml:"owner_id"`
	Name             string            `yaml:"name"`
	Description      string            `yaml:"description"`
	Duration         int               `yaml:"duration"`
	BufferTime       int               `yaml:"buffer_time"`
	Status           string            `yaml:"status"`
	RequiresApproval bool              `yaml:"requires_approval"`
	Overrides        []OverrideFixture `yaml:"overrides"`
	Rules            []RuleFixture     `yaml:"rules"`
}

type OverrideFixture struct {
	Date      string        `yaml:"date"`
	Available *bool         `yaml:"available"` // по умолчанию true
	Slots     []SlotFixture `yaml:"slots"`
}

type SlotFixture struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type RuleFixture struct {
	Days      []int  `yaml:"days"`
	Start     string `yaml:"start"`
	End       string `yaml:"end"`
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
}

// Parse читает фикстуры из YAML
func Parse(r io.Reader) (*Fixtures, error) {
	var f Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return &f, nil
}

type EventTypeService interface {
	Create(ctx context.Context, et *model.EventType) (*model.EventType, error)
}

type ScheduleService interface {
	SetManualOverrides(ctx context.Context, eventTypeID uuid.UUID, overrides []model.DateOverride) ([]model.DateOverride, error)
	CreateRule(ctx context.Context, eventTypeID uuid.UUID, rule model.RecurringRule) (*model.RecurringRule, error)
}

// Summary - итог импорта
type Summary struct {
	EventTypes int
	Overrides  int
	Rules      int
}

type Importer struct {
	eventTypes EventTypeService
	schedules  ScheduleService
	logger     *zap.Logger
}

func NewImporter(eventTypes EventTypeService, schedules ScheduleService, logger *zap.Logger) *Importer {
	return &Importer{eventTypes: eventTypes, schedules: schedules, logger: logger}
}

// Import создаёт типы встреч, ручные даты и правила через сервисы
func (im *Importer) Import(ctx context.Context, f *Fixtures) (Summary, error) {
	var summary Summary

	for i, fixture := range f.EventTypes {
		et, err := fixture.eventType()
		if err != nil {
			return summary, fmt.Errorf("event type #%d: %w", i+1, err)
		}

		created, err := im.eventTypes.Create(ctx, et)
		if err != nil {
			return summary, fmt.Errorf("create event type %q: %w", fixture.Name, err)
		}
		summary.EventTypes++

		if len(fixture.Overrides) > 0 {
			overrides, err := fixture.overrides()
			if err != nil {
				return summary, fmt.Errorf("event type %q: %w", fixture.Name, err)
			}
			if _, err := im.schedules.SetManualOverrides(ctx, created.ID, overrides); err != nil {
				return summary, fmt.Errorf("set overrides of %q: %w", fixture.Name, err)
			}
			summary.Overrides += len(overrides)
		}

		for _, rf := range fixture.Rules {
			rule := model.RecurringRule{
				DaysOfWeek: rf.Days,
				StartTime:  rf.Start,
				EndTime:    rf.End,
				StartDate:  rf.StartDate,
				EndDate:    rf.EndDate,
			}
			if _, err := im.schedules.CreateRule(ctx, created.ID, rule); err != nil {
				return summary, fmt.Errorf("create rule of %q: %w", fixture.Name, err)
			}
			summary.Rules++
		}

		im.logger.Info("Event type seeded",
			zap.String("event_type_id", created.ID.String()),
			zap.String("name", created.Name),
			zap.Int("overrides", len(fixture.Overrides)),
			zap.Int("rules", len(fixture.Rules)))
	}

	return summary, nil
}

func (f EventTypeFixture) eventType() (*model.EventType, error) {
	ownerID, err := uuid.Parse(f.OwnerID)
	if err != nil {
		return nil, model.NewValidationError("owner_id", "must be a UUID")
	}

	return &model.EventType{
		OwnerID:          ownerID,
		Name:             f.Name,
		Description:      f.Description,
		Duration:         f.Duration,
		BufferTime:       f.BufferTime,
		Status:           model.EventTypeStatus(f.Status),
		RequiresApproval: f.RequiresApproval,
	}, nil
}

func (f EventTypeFixture) overrides() ([]model.DateOverride, error) {
	result := make([]model.DateOverride, 0, len(f.Overrides))
	for _, of := range f.Overrides {
		day, err := model.ParseDateKey(of.Date, time.UTC)
		if err != nil {
			return nil, err
		}

		available := true
		if of.Available != nil {
			available = *of.Available
		}

		slots := make([]model.TimeSlot, 0, len(of.Slots))
		for _, sf := range of.Slots {
			slots = append(slots, model.TimeSlot{
				DayOfWeek: int(day.Weekday()),
				StartTime: sf.Start,
				EndTime:   sf.End,
				Origin:    model.ManualOrigin(),
			})
		}

		result = append(result, model.DateOverride{
			Date:      of.Date,
			Available: available,
			TimeSlots: slots,
			Origin:    model.ManualOrigin(),
		})
	}
	return result, nil
}
