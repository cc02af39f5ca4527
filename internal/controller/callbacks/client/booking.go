package client

import (
	"context"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/booking_bot/internal/controller/state"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Client Booking Handlers
// ========================

// HandleEventType показывает календарь текущего месяца для типа встречи
func HandleEventType(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	data, err := callbacktypes.Parse(callback.Data)
	if err != nil {
		common.HandleError(hc, err, "parse_event_type")
		return
	}

	now := time.Now().In(h.Location)
	showMonth(hc, data, now, now)
}

// HandleMonth листает календарь по месяцам
func HandleMonth(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	data, err := callbacktypes.Parse(callback.Data)
	if err != nil {
		common.HandleError(hc, err, "parse_month")
		return
	}
	month, err := data.Month(h.Location)
	if err != nil {
		common.HandleError(hc, err, "parse_month")
		return
	}

	showMonth(hc, data, month, time.Now().In(h.Location))
}

func showMonth(hc *common.HandlerContext, data callbacktypes.Data, month, now time.Time) {
	h := hc.Handler

	et, err := h.EventTypeService.Get(hc.Ctx, data.ID)
	if err != nil {
		common.HandleError(hc, err, "get_event_type")
		return
	}
	if !et.IsBookable() {
		common.HandleError(hc, common.ErrEventTypeMissing, "get_event_type")
		return
	}

	dates, err := h.AvailabilityService.GetAvailableDates(hc.Ctx, et.ID, month.Format(model.MonthLayout))
	if err != nil {
		common.HandleError(hc, err, "get_available_dates")
		return
	}

	text, kb := common.BuildCalendarScreen(et, month, now, dates)
	if err := hc.EditMessage(text, kb); err != nil {
		common.HandleError(hc, err, "edit_calendar")
		return
	}
	hc.Answer("")
}

// HandleDay показывает свободное время на выбранную дату
func HandleDay(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	data, err := callbacktypes.Parse(callback.Data)
	if err != nil {
		common.HandleError(hc, err, "parse_day")
		return
	}
	day, err := data.Date(h.Location)
	if err != nil {
		common.HandleError(hc, err, "parse_day")
		return
	}

	// Возврат с ввода email сбрасывает начатую запись
	hc.ClearState()

	et, err := h.EventTypeService.Get(ctx, data.ID)
	if err != nil {
		common.HandleError(hc, err, "get_event_type")
		return
	}

	slots, err := h.AvailabilityService.GetAvailableSlots(ctx, et.ID, data.Value)
	if err != nil {
		common.HandleError(hc, err, "get_available_slots")
		return
	}

	text, kb := common.BuildDayScreen(et, day, slots)
	if err := hc.EditMessage(text, kb); err != nil {
		common.HandleError(hc, err, "edit_day")
		return
	}
	hc.Answer("")
}

// HandleSlot запоминает выбранный слот и просит email
func HandleSlot(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	data, err := callbacktypes.Parse(callback.Data)
	if err != nil {
		common.HandleError(hc, err, "parse_slot")
		return
	}
	start, err := data.SlotStart(h.Location)
	if err != nil {
		common.HandleError(hc, err, "parse_slot")
		return
	}

	et, err := h.EventTypeService.Get(ctx, data.ID)
	if err != nil {
		common.HandleError(hc, err, "get_event_type")
		return
	}

	// Слот мог быть занят пока клиент смотрел на клавиатуру
	slots, err := h.AvailabilityService.GetAvailableSlots(ctx, et.ID, model.DateKey(start))
	if err != nil {
		common.HandleError(hc, err, "get_available_slots")
		return
	}
	if !containsSlot(slots, start) {
		hc.AnswerAlert(common.ErrorMessage(common.ErrSlotUnavailable))
		return
	}

	hc.SetSession(state.Session{
		State:       state.StateEnteringEmail,
		EventTypeID: et.ID,
		StartTime:   start,
		ClientName:  hc.ClientName(),
	})

	text, kb := common.BuildEmailPromptScreen(et, start)
	if err := hc.EditMessage(text, kb); err != nil {
		common.HandleError(hc, err, "edit_email_prompt")
		return
	}

	h.Logger.Info("Slot selected",
		zap.Int64("telegram_id", hc.TelegramID),
		zap.String("event_type_id", et.ID.String()),
		zap.Time("start_time", start))
	hc.Answer("")
}

// HandleCancelAppointment отменяет запись клиента
func HandleCancelAppointment(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	data, err := callbacktypes.Parse(callback.Data)
	if err != nil {
		common.HandleError(hc, err, "parse_cancel")
		return
	}

	if _, err := h.BookingService.CancelByClient(ctx, data.ID, hc.TelegramID); err != nil {
		common.HandleError(hc, err, "cancel_appointment")
		return
	}

	appointments, err := h.BookingService.GetClientAppointments(ctx, hc.TelegramID)
	if err != nil {
		common.HandleError(hc, err, "get_client_appointments")
		return
	}

	text, kb := common.BuildAppointmentsScreen(appointments)
	if err := hc.EditMessage(text, kb); err != nil {
		h.Logger.Warn("Failed to refresh appointments", zap.Error(err))
	}

	common.LogAndAnswer(hc, "Appointment cancelled by client", "✅ Запись отменена")
}

func containsSlot(slots []time.Time, start time.Time) bool {
	for _, slot := range slots {
		if slot.Equal(start) {
			return true
		}
	}
	return false
}
