package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/booking_bot/internal/cache"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventTypeService struct {
	eventTypes EventTypeRepository
	cache      cache.Cache
	logger     *zap.Logger
}

func NewEventTypeService(eventTypes EventTypeRepository, c cache.Cache, logger *zap.Logger) *EventTypeService {
	return &EventTypeService{
		eventTypes: eventTypes,
		cache:      c,
		logger:     logger,
	}
}

// Create создаёт тип встречи, по умолчанию открытый для записи
func (s *EventTypeService) Create(ctx context.Context, et *model.EventType) (*model.EventType, error) {
	if et.Status == "" {
		et.Status = model.EventTypeStatusOnline
	}
	if et.OwnerID == uuid.Nil {
		return nil, model.NewValidationError("owner_id", "is required")
	}
	if err := et.Validate(); err != nil {
		return nil, err
	}

	et.ID = uuid.New()
	if err := s.eventTypes.Create(ctx, et); err != nil {
		return nil, fmt.Errorf("create event type: %w", err)
	}

	s.logger.Info("Event type created",
		zap.String("event_type_id", et.ID.String()),
		zap.String("owner_id", et.OwnerID.String()),
		zap.String("name", et.Name),
		zap.Int("duration", et.Duration),
	)

	return et, nil
}

// Update обновляет тип встречи, владелец не меняется
func (s *EventTypeService) Update(ctx context.Context, et *model.EventType) (*model.EventType, error) {
	current, err := s.Get(ctx, et.ID)
	if err != nil {
		return nil, err
	}

	if et.Status == "" {
		et.Status = current.Status
	}
	if err := et.Validate(); err != nil {
		return nil, err
	}
	et.OwnerID = current.OwnerID
	et.CreatedAt = current.CreatedAt

	if err := s.eventTypes.Update(ctx, et); err != nil {
		return nil, fmt.Errorf("update event type: %w", err)
	}

	// Длительность и буфер влияют на слоты
	s.cache.Invalidate(ctx, et.ID)

	s.logger.Info("Event type updated",
		zap.String("event_type_id", et.ID.String()),
		zap.String("status", string(et.Status)),
	)

	return et, nil
}

// Get получает тип встречи, отсутствие - ErrNotFound
func (s *EventTypeService) Get(ctx context.Context, id uuid.UUID) (*model.EventType, error) {
	et, err := s.eventTypes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event type: %w", err)
	}
	if et == nil {
		return nil, model.ErrNotFound
	}
	return et, nil
}

// ListByOwner получает типы встреч организатора
func (s *EventTypeService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.EventType, error) {
	return s.eventTypes.GetByOwner(ctx, ownerID)
}

// ListPublic получает типы встреч, открытые для всех
func (s *EventTypeService) ListPublic(ctx context.Context) ([]*model.EventType, error) {
	return s.eventTypes.GetPublic(ctx)
}
