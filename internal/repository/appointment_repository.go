package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/Freeeeeet/booking_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const appointmentColumns = `id, event_type_id, start_time, end_time, client_name, client_email, client_phone, notes, client_telegram_id, status, created_at, updated_at`

// AdmissionCheck проверяет допустимость записи по данным, прочитанным под блокировкой
type AdmissionCheck func(et *model.EventType, overrides []model.DateOverride, appointments []model.Appointment) error

type AppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

// Admit атомарно проверяет и создаёт запись
//
// Тип встречи блокируется на время транзакции, поэтому параллельные попытки
// записи на один тип встречи выполняются по очереди. Ограничение EXCLUDE
// в таблице дополнительно не даёт сохранить пересекающиеся активные записи.
func (r *AppointmentRepository) Admit(ctx context.Context, apt *model.Appointment, check AdmissionCheck) error {
	return base.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		et, err := NewEventTypeRepository(tx).Lock(ctx, apt.EventTypeID)
		if err != nil {
			return err
		}
		if et == nil {
			return model.ErrNotFound
		}

		overrides, err := getOverrides(ctx, tx, apt.EventTypeID)
		if err != nil {
			return err
		}

		// Слоты даты лежат внутри её суток
		dayStart := model.StartOfDay(apt.StartTime)
		existing, err := getActiveInRange(ctx, tx, apt.EventTypeID, dayStart, dayStart.AddDate(0, 0, 1))
		if err != nil {
			return err
		}

		if err := check(et, overrides, existing); err != nil {
			return err
		}

		return insertAppointment(ctx, tx, apt)
	})
}

// GetByID получает запись по ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	apt, err := scanAppointment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	return apt, nil
}

// GetActiveInRange получает неотменённые записи, пересекающие [from, to)
func (r *AppointmentRepository) GetActiveInRange(ctx context.Context, eventTypeID uuid.UUID, from, to time.Time) ([]model.Appointment, error) {
	return getActiveInRange(ctx, r.pool, eventTypeID, from, to)
}

// GetByClientTelegramID получает будущие активные записи клиента из бота
func (r *AppointmentRepository) GetByClientTelegramID(ctx context.Context, telegramID int64, from time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE client_telegram_id = $1 AND end_time > $2 AND status IN ($3, $4)
		ORDER BY start_time
	`

	rows, err := r.pool.Query(ctx, query, telegramID, from, model.AppointmentStatusPending, model.AppointmentStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("get appointments by client: %w", err)
	}
	defer rows.Close()

	var result []*model.Appointment
	for rows.Next() {
		apt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		result = append(result, apt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}

	return result, nil
}

// List получает записи организатора по фильтру, по времени начала
func (r *AppointmentRepository) List(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.OwnerID != uuid.Nil {
		conditions = append(conditions, "et.owner_id = "+arg(filter.OwnerID))
	}
	if filter.EventTypeID != uuid.Nil {
		conditions = append(conditions, "a.event_type_id = "+arg(filter.EventTypeID))
	}
	if filter.Status != "" {
		conditions = append(conditions, "a.status = "+arg(filter.Status))
	}
	if !filter.From.IsZero() {
		conditions = append(conditions, "a.end_time > "+arg(filter.From))
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, "a.start_time < "+arg(filter.To))
	}

	query := `
		SELECT ` + prefixed("a", appointmentColumns) + `
		FROM appointments a
		JOIN event_types et ON et.id = a.event_type_id`
	if len(conditions) > 0 {
		query += `
		WHERE ` + strings.Join(conditions, " AND ")
	}
	query += `
		ORDER BY a.start_time`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	result := make([]*model.Appointment, 0)
	for rows.Next() {
		apt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		result = append(result, apt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}

	return result, nil
}

// UpdateStatus меняет статус, если текущий статус равен from
// Возвращает false, если запись уже в другом статусе
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus) (bool, error) {
	query := `
		UPDATE appointments
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	affected, err := base.ExecAffected(ctx, r.pool, query, id, from, to)
	if err != nil {
		if base.IsExclusionViolation(err) {
			return false, model.ErrConflict
		}
		return false, fmt.Errorf("update appointment status: %w", err)
	}

	return affected > 0, nil
}

// CompleteElapsed переводит прошедшие подтверждённые записи в completed
func (r *AppointmentRepository) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND end_time <= $3
	`

	affected, err := base.ExecAffected(ctx, r.pool, query, model.AppointmentStatusCompleted, model.AppointmentStatusConfirmed, now)
	if err != nil {
		return 0, fmt.Errorf("complete elapsed appointments: %w", err)
	}

	return affected, nil
}

func getActiveInRange(ctx context.Context, db base.Querier, eventTypeID uuid.UUID, from, to time.Time) ([]model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE event_type_id = $1 AND status <> $2 AND start_time < $4 AND end_time > $3
		ORDER BY start_time
	`

	rows, err := db.Query(ctx, query, eventTypeID, model.AppointmentStatusCancelled, from, to)
	if err != nil {
		return nil, fmt.Errorf("get appointments in range: %w", err)
	}
	defer rows.Close()

	result := make([]model.Appointment, 0)
	for rows.Next() {
		apt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		result = append(result, *apt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}

	return result, nil
}

func insertAppointment(ctx context.Context, db base.Querier, apt *model.Appointment) error {
	if apt.ID == uuid.Nil {
		apt.ID = uuid.New()
	}

	query := `
		INSERT INTO appointments (id, event_type_id, start_time, end_time, client_name, client_email,
		                          client_phone, notes, client_telegram_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := db.QueryRow(
		ctx, query,
		apt.ID,
		apt.EventTypeID,
		apt.StartTime,
		apt.EndTime,
		apt.ClientName,
		apt.ClientEmail,
		apt.ClientPhone,
		apt.Notes,
		apt.ClientTelegramID,
		apt.Status,
	).Scan(&apt.CreatedAt, &apt.UpdatedAt)

	if err != nil {
		if base.IsExclusionViolation(err) {
			return model.ErrConflict
		}
		return fmt.Errorf("create appointment: %w", err)
	}

	return nil
}

// prefixed добавляет алиас таблицы к списку колонок
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, column := range parts {
		parts[i] = alias + "." + column
	}
	return strings.Join(parts, ", ")
}

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	var apt model.Appointment
	err := row.Scan(
		&apt.ID,
		&apt.EventTypeID,
		&apt.StartTime,
		&apt.EndTime,
		&apt.ClientName,
		&apt.ClientEmail,
		&apt.ClientPhone,
		&apt.Notes,
		&apt.ClientTelegramID,
		&apt.Status,
		&apt.CreatedAt,
		&apt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &apt, nil
}
