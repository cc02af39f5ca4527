package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/Freeeeeet/booking_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const eventTypeColumns = `id, owner_id, name, description, duration_minutes, buffer_minutes, status, requires_approval, created_at, updated_at`

type EventTypeRepository struct {
	db base.Querier
}

func NewEventTypeRepository(db base.Querier) *EventTypeRepository {
	return &EventTypeRepository{db: db}
}

// Create создаёт тип встречи
func (r *EventTypeRepository) Create(ctx context.Context, et *model.EventType) error {
	if et.ID == uuid.Nil {
		et.ID = uuid.New()
	}

	query := `
		INSERT INTO event_types (id, owner_id, name, description, duration_minutes, buffer_minutes, status, requires_approval)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		et.ID,
		et.OwnerID,
		et.Name,
		et.Description,
		et.Duration,
		et.BufferTime,
		et.Status,
		et.RequiresApproval,
	).Scan(&et.CreatedAt, &et.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create event type: %w", err)
	}

	return nil
}

// GetByID получает тип встречи по ID
func (r *EventTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.EventType, error) {
	query := `SELECT ` + eventTypeColumns + ` FROM event_types WHERE id = $1`

	et, err := scanEventType(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event type by id: %w", err)
	}

	return et, nil
}

// Lock получает тип встречи с блокировкой строки до конца транзакции
func (r *EventTypeRepository) Lock(ctx context.Context, id uuid.UUID) (*model.EventType, error) {
	query := `SELECT ` + eventTypeColumns + ` FROM event_types WHERE id = $1 FOR UPDATE`

	et, err := scanEventType(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock event type: %w", err)
	}

	return et, nil
}

// GetByOwner получает все типы встреч организатора
func (r *EventTypeRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.EventType, error) {
	query := `SELECT ` + eventTypeColumns + ` FROM event_types WHERE owner_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get event types by owner: %w", err)
	}
	return collectEventTypes(rows)
}

// GetPublic получает типы встреч, открытые для всех (приватные доступны только по ссылке)
func (r *EventTypeRepository) GetPublic(ctx context.Context) ([]*model.EventType, error) {
	query := `SELECT ` + eventTypeColumns + ` FROM event_types WHERE status = $1 ORDER BY name`

	rows, err := r.db.Query(ctx, query, model.EventTypeStatusOnline)
	if err != nil {
		return nil, fmt.Errorf("get public event types: %w", err)
	}
	return collectEventTypes(rows)
}

// GetAllIDs возвращает ID всех типов встреч
func (r *EventTypeRepository) GetAllIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM event_types ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("get event type ids: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("scan event type id: %w", err)
	}
	return ids, nil
}

// Update обновляет изменяемые поля типа встречи
func (r *EventTypeRepository) Update(ctx context.Context, et *model.EventType) error {
	query := `
		UPDATE event_types
		SET name = $2, description = $3, duration_minutes = $4, buffer_minutes = $5,
		    status = $6, requires_approval = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		et.ID,
		et.Name,
		et.Description,
		et.Duration,
		et.BufferTime,
		et.Status,
		et.RequiresApproval,
	).Scan(&et.UpdatedAt)

	if err != nil {
		if base.IsNotFound(err) {
			return model.ErrNotFound
		}
		return fmt.Errorf("update event type: %w", err)
	}

	return nil
}

func scanEventType(row pgx.Row) (*model.EventType, error) {
	var et model.EventType
	err := row.Scan(
		&et.ID,
		&et.OwnerID,
		&et.Name,
		&et.Description,
		&et.Duration,
		&et.BufferTime,
		&et.Status,
		&et.RequiresApproval,
		&et.CreatedAt,
		&et.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &et, nil
}

func collectEventTypes(rows pgx.Rows) ([]*model.EventType, error) {
	defer rows.Close()

	var result []*model.EventType
	for rows.Next() {
		et, err := scanEventType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event type: %w", err)
		}
		result = append(result, et)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event types: %w", err)
	}

	return result, nil
}
