package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/booking_bot/internal/controller/state"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/Freeeeeet/booking_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// handleEmailStep завершает запись после ввода email
func (h *Handlers) handleEmailStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	session, ok := h.stateManager.Get(telegramID)
	if !ok || time.Since(session.UpdatedAt) > EmailSessionTTL {
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, chatID, common.ErrorMessage(common.ErrSessionExpired))
		return
	}

	req, err := buildAppointmentRequest(session, update.Message)
	if err != nil {
		h.sendError(ctx, b, chatID, common.ErrorMessage(err)+"\n\nПопробуйте ещё раз или /cancel")
		return
	}

	apt, err := h.bookingService.CreateAppointment(ctx, req)
	if err != nil {
		h.logger.Warn("Failed to create appointment",
			zap.Int64("telegram_id", telegramID),
			zap.String("event_type_id", session.EventTypeID.String()),
			zap.Time("start_time", session.StartTime),
			zap.Error(err))

		var validation *model.ValidationError
		if errors.As(err, &validation) && validation.Field == "client_email" {
			// Даём исправить email без повторного выбора слота
			h.sendError(ctx, b, chatID, common.ErrorMessage(err)+"\n\nПопробуйте ещё раз или /cancel")
			return
		}

		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, chatID, common.ErrorMessage(err)+"\n\nВыбрать другое время: /start")
		return
	}

	h.stateManager.ClearState(telegramID)

	h.logger.Info("Appointment created via bot",
		zap.Int64("telegram_id", telegramID),
		zap.String("appointment_id", apt.ID.String()))

	h.send(ctx, b, chatID, common.BuildAppointmentCreatedScreen(apt), nil)
}

func buildAppointmentRequest(session state.Session, msg *models.Message) (service.CreateAppointmentRequest, error) {
	email := strings.TrimSpace(msg.Text)
	if email == "" || len(email) > EmailMaxLength {
		return service.CreateAppointmentRequest{}, model.NewValidationError("client_email", "must be a valid email address")
	}

	name := session.ClientName
	if name == "" {
		name = common.DisplayName(msg.From)
	}

	telegramID := msg.From.ID
	return service.CreateAppointmentRequest{
		EventTypeID:      session.EventTypeID,
		StartTime:        session.StartTime,
		ClientName:       name,
		ClientEmail:      email,
		ClientTelegramID: &telegramID,
	}, nil
}
