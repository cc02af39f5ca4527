package keyboard

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// MonthCalendar строит сетку месяца с понедельника.
// Дни из available ведут на выбор слотов, остальные неактивны.
// Переход на прошлые месяцы до current не показывается.
func MonthCalendar(eventTypeID uuid.UUID, month time.Time, current time.Time, available []string) *models.InlineKeyboardMarkup {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	open := make(map[string]struct{}, len(available))
	for _, date := range available {
		open[date] = struct{}{}
	}

	b := NewBuilder()

	// Заголовок с навигацией
	prev := NoopButton(" ")
	if first.After(startOfMonth(current)) {
		prev = Button("◀️", callbacktypes.MonthData(eventTypeID, first.AddDate(0, -1, 0).Format(model.MonthLayout)))
	}
	next := Button("▶️", callbacktypes.MonthData(eventTypeID, first.AddDate(0, 1, 0).Format(model.MonthLayout)))
	b.Row(prev, NoopButton(formatting.FormatMonth(first)), next)

	header := make([]models.InlineKeyboardButton, 0, 7)
	for i := 1; i <= 7; i++ {
		header = append(header, NoopButton(formatting.WeekdayShort(time.Weekday(i%7))))
	}
	b.Row(header...)

	// Понедельник = 0
	offset := (int(first.Weekday()) + 6) % 7
	cells := make([]models.InlineKeyboardButton, 0, 42)
	for i := 0; i < offset; i++ {
		cells = append(cells, NoopButton(" "))
	}
	for day := first; day.Month() == first.Month(); day = day.AddDate(0, 0, 1) {
		key := model.DateKey(day)
		if _, ok := open[key]; ok {
			cells = append(cells, Button(fmt.Sprintf("%d", day.Day()), callbacktypes.DayData(eventTypeID, key)))
			continue
		}
		cells = append(cells, NoopButton("·"))
	}
	for len(cells)%7 != 0 {
		cells = append(cells, NoopButton(" "))
	}
	b.Grid(cells, 7)

	b.Row(BackToEventTypesButton())

	return b.Build()
}

// SlotButtons строит кнопки выбора времени, по три в ряд
func SlotButtons(eventTypeID uuid.UUID, slots []time.Time, month string) *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, 0, len(slots))
	for _, slot := range slots {
		buttons = append(buttons, Button(formatting.FormatTime(slot), callbacktypes.SlotData(eventTypeID, slot)))
	}

	return NewBuilder().
		Grid(buttons, 3).
		AddBackButton(callbacktypes.MonthData(eventTypeID, month)).
		Build()
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
