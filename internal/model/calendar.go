package model

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
	ClockLayout = "15:04"

	// EndOfDay - конец окна в полночь следующих суток
	EndOfDay = "24:00"
)

// Clock - время суток "HH:MM" без привязки к дате
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock разбирает строку "HH:MM" в 24-часовом формате с ведущими нулями
// "24:00" допускается как конец суток
func ParseClock(s string) (Clock, error) {
	if s == EndOfDay {
		return Clock{Hour: 24}, nil
	}
	if len(s) != len(ClockLayout) {
		return Clock{}, fmt.Errorf("time %q must be HH:MM", s)
	}
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return Clock{}, fmt.Errorf("time %q must be HH:MM", s)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On возвращает момент времени c на календарной дате day в зоне day.Location()
// Для 24:00 это полночь следующей даты
func (c Clock) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, day.Location())
}

// DateKey возвращает ключ "YYYY-MM-DD" по локальным компонентам t (без перевода в UTC)
func DateKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// ParseDateKey разбирает ключ даты в полночь указанной зоны
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	if len(key) != len(DateLayout) {
		return time.Time{}, NewValidationError("date", fmt.Sprintf("%q must be YYYY-MM-DD", key))
	}
	t, err := time.ParseInLocation(DateLayout, key, loc)
	if err != nil {
		return time.Time{}, NewValidationError("date", fmt.Sprintf("%q must be YYYY-MM-DD", key))
	}
	return t, nil
}

// ParseMonth возвращает первый и последний день месяца "YYYY-MM"
func ParseMonth(month string, loc *time.Location) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation(MonthLayout, month, loc)
	if err != nil || len(month) != len(MonthLayout) {
		return time.Time{}, time.Time{}, NewValidationError("month", fmt.Sprintf("%q must be YYYY-MM", month))
	}
	return t, t.AddDate(0, 1, -1), nil
}

// StartOfDay возвращает полночь календарной даты t в её зоне
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
