package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/Freeeeeet/booking_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ScheduleRepository хранит даты доступности и регулярные правила
type ScheduleRepository struct {
	pool *pgxpool.Pool
}

func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

// GetOverrides получает все даты доступности типа встречи по возрастанию даты
func (r *ScheduleRepository) GetOverrides(ctx context.Context, eventTypeID uuid.UUID) ([]model.DateOverride, error) {
	return getOverrides(ctx, r.pool, eventTypeID)
}

// GetOverridesInRange получает даты доступности в диапазоне ключей [from, to]
func (r *ScheduleRepository) GetOverridesInRange(ctx context.Context, eventTypeID uuid.UUID, from, to string) ([]model.DateOverride, error) {
	query := `
		SELECT event_type_id, date, available, time_slots, origin
		FROM date_overrides
		WHERE event_type_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`

	rows, err := r.pool.Query(ctx, query, eventTypeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get overrides in range: %w", err)
	}
	return collectOverrides(rows)
}

// GetRules получает регулярные правила типа встречи
func (r *ScheduleRepository) GetRules(ctx context.Context, eventTypeID uuid.UUID) ([]model.RecurringRule, error) {
	return getRules(ctx, r.pool, eventTypeID)
}

// Modify загружает расписание под блокировкой типа встречи, применяет fn и сохраняет результат
// Правила, отсутствующие в результате, удаляются, новые добавляются, даты заменяются целиком
func (r *ScheduleRepository) Modify(ctx context.Context, eventTypeID uuid.UUID, fn func(schedule *model.Schedule) error) error {
	return base.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		et, err := NewEventTypeRepository(tx).Lock(ctx, eventTypeID)
		if err != nil {
			return err
		}
		if et == nil {
			return model.ErrNotFound
		}

		rules, err := getRules(ctx, tx, eventTypeID)
		if err != nil {
			return err
		}
		overrides, err := getOverrides(ctx, tx, eventTypeID)
		if err != nil {
			return err
		}

		schedule := &model.Schedule{EventTypeID: eventTypeID, Rules: rules, Overrides: overrides}
		if err := fn(schedule); err != nil {
			return err
		}

		if err := saveRules(ctx, tx, eventTypeID, rules, schedule.Rules); err != nil {
			return err
		}
		return saveOverrides(ctx, tx, eventTypeID, schedule.Overrides)
	})
}

func getOverrides(ctx context.Context, db base.Querier, eventTypeID uuid.UUID) ([]model.DateOverride, error) {
	query := `
		SELECT event_type_id, date, available, time_slots, origin
		FROM date_overrides
		WHERE event_type_id = $1
		ORDER BY date
	`

	rows, err := db.Query(ctx, query, eventTypeID)
	if err != nil {
		return nil, fmt.Errorf("get overrides: %w", err)
	}
	return collectOverrides(rows)
}

// collectOverrides разбирает JSONB колонки и проверяет их на границе хранилища
func collectOverrides(rows pgx.Rows) ([]model.DateOverride, error) {
	defer rows.Close()

	result := make([]model.DateOverride, 0)
	for rows.Next() {
		var (
			o         model.DateOverride
			slotsJSON []byte
			originRaw []byte
		)
		if err := rows.Scan(&o.EventTypeID, &o.Date, &o.Available, &slotsJSON, &originRaw); err != nil {
			return nil, fmt.Errorf("scan override: %w", err)
		}
		if err := json.Unmarshal(slotsJSON, &o.TimeSlots); err != nil {
			return nil, fmt.Errorf("decode time slots for %s: %w", o.Date, err)
		}
		if err := json.Unmarshal(originRaw, &o.Origin); err != nil {
			return nil, fmt.Errorf("decode origin for %s: %w", o.Date, err)
		}
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("stored override %s: %w", o.Date, err)
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overrides: %w", err)
	}

	return result, nil
}

// saveOverrides заменяет все даты типа встречи одним батчем
func saveOverrides(ctx context.Context, db base.Querier, eventTypeID uuid.UUID, overrides []model.DateOverride) error {
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM date_overrides WHERE event_type_id = $1`, eventTypeID)

	for _, o := range overrides {
		if err := o.Validate(); err != nil {
			return err
		}

		slots := o.TimeSlots
		if slots == nil {
			slots = []model.TimeSlot{}
		}
		slotsJSON, err := json.Marshal(slots)
		if err != nil {
			return fmt.Errorf("encode time slots: %w", err)
		}
		originJSON, err := json.Marshal(o.Origin)
		if err != nil {
			return fmt.Errorf("encode origin: %w", err)
		}

		batch.Queue(`
			INSERT INTO date_overrides (event_type_id, date, available, time_slots, origin)
			VALUES ($1, $2, $3, $4, $5)
		`, eventTypeID, o.Date, o.Available, slotsJSON, originJSON)
	}

	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save overrides: %w", err)
	}
	return nil
}

func getRules(ctx context.Context, db base.Querier, eventTypeID uuid.UUID) ([]model.RecurringRule, error) {
	query := `
		SELECT id, event_type_id, days_of_week, start_time, end_time, start_date, end_date, created_at
		FROM recurring_rules
		WHERE event_type_id = $1
		ORDER BY created_at, id
	`

	rows, err := db.Query(ctx, query, eventTypeID)
	if err != nil {
		return nil, fmt.Errorf("get rules: %w", err)
	}
	defer rows.Close()

	result := make([]model.RecurringRule, 0)
	for rows.Next() {
		var (
			rule model.RecurringRule
			days []int32
		)
		err := rows.Scan(
			&rule.ID,
			&rule.EventTypeID,
			&days,
			&rule.StartTime,
			&rule.EndTime,
			&rule.StartDate,
			&rule.EndDate,
			&rule.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		for _, d := range days {
			rule.DaysOfWeek = append(rule.DaysOfWeek, int(d))
		}
		result = append(result, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rules: %w", err)
	}

	return result, nil
}

// saveRules приводит набор правил в БД к updated
func saveRules(ctx context.Context, db base.Querier, eventTypeID uuid.UUID, current, updated []model.RecurringRule) error {
	keep := make(map[uuid.UUID]bool, len(updated))
	for _, rule := range updated {
		keep[rule.ID] = true
	}
	known := make(map[uuid.UUID]bool, len(current))
	for _, rule := range current {
		known[rule.ID] = true
	}

	batch := &pgx.Batch{}
	for _, rule := range current {
		if !keep[rule.ID] {
			batch.Queue(`DELETE FROM recurring_rules WHERE id = $1`, rule.ID)
		}
	}
	for _, rule := range updated {
		if known[rule.ID] {
			continue
		}
		days := make([]int32, 0, len(rule.DaysOfWeek))
		for _, d := range rule.DaysOfWeek {
			days = append(days, int32(d))
		}
		batch.Queue(`
			INSERT INTO recurring_rules (id, event_type_id, days_of_week, start_time, end_time, start_date, end_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, rule.ID, eventTypeID, days, rule.StartTime, rule.EndTime, rule.StartDate, rule.EndDate)
	}

	if batch.Len() == 0 {
		return nil
	}
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save rules: %w", err)
	}
	return nil
}
