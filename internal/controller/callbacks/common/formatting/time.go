package formatting

import (
	"fmt"
	"time"
)

const (
	dateLayout     = "02.01.2006"
	clockLayout    = "15:04"
	dateTimeLayout = dateLayout + " " + clockLayout
)

var (
	weekdayShort = [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	monthNames   = [...]string{
		"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
		"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
	}
)

// FormatDateTime форматирует дату и время
func FormatDateTime(t time.Time) string {
	return t.Format(dateTimeLayout)
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatDateWithWeekday форматирует дату с днём недели: "Пн, 10.03.2025"
func FormatDateWithWeekday(t time.Time) string {
	return WeekdayShort(t.Weekday()) + ", " + FormatDate(t)
}

func FormatTime(t time.Time) string {
	return t.Format(clockLayout)
}

// FormatTimeRange форматирует слот "09:00-09:30"
func FormatTimeRange(start, end time.Time) string {
	return FormatTime(start) + "-" + FormatTime(end)
}

// FormatMonth форматирует заголовок календаря: "Март 2025"
func FormatMonth(t time.Time) string {
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}

// FormatDuration форматирует длительность встречи в минутах
func FormatDuration(minutes int) string {
	hours, mins := minutes/60, minutes%60
	switch {
	case hours == 0:
		return fmt.Sprintf("%d мин", mins)
	case mins == 0:
		return fmt.Sprintf("%d ч", hours)
	default:
		return fmt.Sprintf("%d ч %d мин", hours, mins)
	}
}

// WeekdayShort возвращает "Пн", "Вт" и т.д.
func WeekdayShort(day time.Weekday) string {
	if day < 0 || int(day) >= len(weekdayShort) {
		return "?"
	}
	return weekdayShort[day]
}
