package common

import (
	"errors"

	"github.com/Freeeeeet/booking_bot/internal/model"
	"go.uber.org/zap"
)

// HandleError логирует ошибку операции и показывает клиенту её текст.
// Ошибки клиента (валидация, конфликт, не найдено) пишутся как Warn.
func HandleError(hc *HandlerContext, err error, operation string) {
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.Int64("telegram_id", hc.TelegramID),
		zap.String("data", hc.Callback.Data),
		zap.Error(err),
	}

	if isClientError(err) {
		hc.Handler.Logger.Warn("Operation rejected", fields...)
	} else {
		hc.Handler.Logger.Error("Operation failed", fields...)
	}
	hc.AnswerAlert(ErrorMessage(err))
}

// LogAndAnswer логирует действие и отвечает на callback
func LogAndAnswer(hc *HandlerContext, message string, answer string) {
	hc.Handler.Logger.Info(message,
		zap.Int64("telegram_id", hc.TelegramID),
		zap.String("data", hc.Callback.Data))
	hc.Answer(answer)
}

func isClientError(err error) bool {
	return errors.Is(err, model.ErrValidation) ||
		errors.Is(err, model.ErrConflict) ||
		errors.Is(err, model.ErrNotFound) ||
		errors.Is(err, ErrSlotUnavailable) ||
		errors.Is(err, ErrSessionExpired)
}
