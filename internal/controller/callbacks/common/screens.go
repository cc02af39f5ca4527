package common

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/go-telegram/bot/models"
)

// BuildEventTypesScreen формирует список встреч, доступных для записи
func BuildEventTypesScreen(eventTypes []*model.EventType) (string, *models.InlineKeyboardMarkup) {
	if len(eventTypes) == 0 {
		return "📭 Сейчас нет встреч, на которые можно записаться.", nil
	}

	var sb strings.Builder
	sb.WriteString("📋 <b>Выберите встречу</b>\n\n")

	b := keyboard.NewBuilder()
	for _, et := range eventTypes {
		sb.WriteString(fmt.Sprintf("• <b>%s</b> (%s)\n", html.EscapeString(et.Name), formatting.FormatDuration(et.Duration)))
		if et.Description != "" {
			sb.WriteString("  " + html.EscapeString(et.Description) + "\n")
		}
		b.Row(keyboard.Button(et.Name, callbacktypes.EventTypeData(et.ID)))
	}

	return sb.String(), b.Build()
}

// BuildCalendarScreen формирует календарь свободных дат месяца
func BuildCalendarScreen(et *model.EventType, month, current time.Time, dates []string) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf(
		"📅 <b>%s</b>\n⏱ %s\n\n",
		html.EscapeString(et.Name),
		formatting.FormatDuration(et.Duration),
	)
	if len(dates) == 0 {
		text += fmt.Sprintf("В месяце «%s» свободных дат нет.", formatting.FormatMonth(month))
	} else {
		text += fmt.Sprintf("Свободно %d %s. Выберите дату:", len(dates), formatting.PluralizeDays(len(dates)))
	}

	return text, keyboard.MonthCalendar(et.ID, month, current, dates)
}

// BuildDayScreen формирует список свободного времени на дату
func BuildDayScreen(et *model.EventType, day time.Time, slots []time.Time) (string, *models.InlineKeyboardMarkup) {
	month := day.Format(model.MonthLayout)

	if len(slots) == 0 {
		text := fmt.Sprintf("😔 На %s свободного времени не осталось.", formatting.FormatDateWithWeekday(day))
		return text, keyboard.NewBuilder().AddBackButton(callbacktypes.MonthData(et.ID, month)).Build()
	}

	text := fmt.Sprintf(
		"📅 <b>%s</b>\n%s\n\nДоступно %d %s. Выберите время:",
		html.EscapeString(et.Name),
		formatting.FormatDateWithWeekday(day),
		len(slots),
		formatting.PluralizeSlots(len(slots)),
	)

	return text, keyboard.SlotButtons(et.ID, slots, month)
}

// BuildEmailPromptScreen просит клиента ввести email
func BuildEmailPromptScreen(et *model.EventType, start time.Time) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf(
		"📝 <b>%s</b>\n🗓 %s %s\n\n"+
			"Отправьте ваш email для подтверждения записи.\n"+
			"Для отмены используйте /cancel",
		html.EscapeString(et.Name),
		formatting.FormatDateWithWeekday(start),
		formatting.FormatTimeRange(start, start.Add(et.DurationValue())),
	)

	kb := keyboard.NewBuilder().
		AddBackButton(callbacktypes.DayData(et.ID, model.DateKey(start))).
		Build()

	return text, kb
}

// BuildAppointmentCreatedScreen формирует экран успешной записи
func BuildAppointmentCreatedScreen(apt *model.Appointment) string {
	status := formatting.GetAppointmentStatusDisplay(apt.Status)

	additionalInfo := "Организатор получил уведомление о вашей записи."
	if apt.Status == model.AppointmentStatusPending {
		additionalInfo = "Организатор подтвердит запись в ближайшее время."
	}

	return fmt.Sprintf(
		"✅ Запись создана!\n\n"+
			"🗓 %s %s\n"+
			"📧 %s\n"+
			"📌 Статус: %s %s\n\n"+
			"%s\n"+
			"Ваши записи: /mybookings",
		formatting.FormatDateWithWeekday(apt.StartTime),
		formatting.FormatTimeRange(apt.StartTime, apt.EndTime),
		html.EscapeString(apt.ClientEmail),
		status.Emoji,
		status.Text,
		additionalInfo,
	)
}

// BuildAppointmentsScreen формирует список предстоящих записей клиента
func BuildAppointmentsScreen(appointments []*model.Appointment) (string, *models.InlineKeyboardMarkup) {
	if len(appointments) == 0 {
		return "📅 У вас пока нет предстоящих записей.\n\nЗаписаться: /start", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 <b>У вас %d %s</b>\n\n", len(appointments), formatting.PluralizeAppointments(len(appointments))))

	b := keyboard.NewBuilder()
	for i, apt := range appointments {
		name := "Встреча"
		if apt.EventType != nil {
			name = apt.EventType.Name
		}
		status := formatting.GetAppointmentStatusDisplay(apt.Status)

		sb.WriteString(fmt.Sprintf(
			"%d. <b>%s</b>\n   🗓 %s %s\n   %s %s\n\n",
			i+1,
			html.EscapeString(name),
			formatting.FormatDateWithWeekday(apt.StartTime),
			formatting.FormatTimeRange(apt.StartTime, apt.EndTime),
			status.Emoji,
			status.Text,
		))

		b.Row(keyboard.Button(
			fmt.Sprintf("❌ Отменить %d (%s)", i+1, formatting.FormatDateTime(apt.StartTime)),
			callbacktypes.CancelData(apt.ID),
		))
	}

	return sb.String(), b.Build()
}
