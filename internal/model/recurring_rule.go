package model

import (
	"time"

	"github.com/google/uuid"
)

// RecurringRule - шаблон еженедельной доступности
// Используется только при редактировании: раскрывается в DateOverride до сохранения
type RecurringRule struct {
	ID          uuid.UUID `json:"id"`
	EventTypeID uuid.UUID `json:"event_type_id"`
	DaysOfWeek  []int     `json:"days_of_week"` // 0 = Sunday, 6 = Saturday
	StartTime   string    `json:"start_time"`   // HH:MM
	EndTime     string    `json:"end_time"`     // HH:MM
	StartDate   string    `json:"start_date"`   // YYYY-MM-DD
	EndDate     string    `json:"end_date"`     // YYYY-MM-DD, включительно
	CreatedAt   time.Time `json:"created_at"`
}

// Validate проверяет правило при создании
func (r *RecurringRule) Validate() error {
	if len(r.DaysOfWeek) == 0 {
		return NewValidationError("days_of_week", "must not be empty")
	}
	for _, day := range r.DaysOfWeek {
		if day < 0 || day > 6 {
			return NewValidationError("days_of_week", "must be within 0..6")
		}
	}

	if _, err := ParseClock(r.StartTime); err != nil {
		return NewValidationError("start_time", err.Error())
	}
	if _, err := ParseClock(r.EndTime); err != nil {
		return NewValidationError("end_time", err.Error())
	}
	if r.StartTime >= r.EndTime {
		return NewValidationError("end_time", "must be after start_time")
	}

	start, err := ParseDateKey(r.StartDate, time.UTC)
	if err != nil {
		return NewValidationError("start_date", "must be YYYY-MM-DD")
	}
	end, err := ParseDateKey(r.EndDate, time.UTC)
	if err != nil {
		return NewValidationError("end_date", "must be YYYY-MM-DD")
	}
	if !start.Before(end) {
		return NewValidationError("end_date", "must be after start_date")
	}

	return nil
}

// HasWeekday проверяет входит ли день недели в правило
func (r *RecurringRule) HasWeekday(day time.Weekday) bool {
	for _, d := range r.DaysOfWeek {
		if d == int(day) {
			return true
		}
	}
	return false
}
