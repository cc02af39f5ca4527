package common

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/booking_bot/internal/model"
)

// Общие ошибки для обработчиков
var (
	ErrNoMessage        = errors.New("no message in callback")
	ErrSessionExpired   = errors.New("booking session expired")
	ErrSlotUnavailable  = errors.New("slot is no longer available")
	ErrEventTypeMissing = errors.New("event type not found")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var validation *model.ValidationError

	switch {
	case errors.Is(err, model.ErrConflict):
		return "❌ Это время уже занято. Выберите другой слот"
	case errors.Is(err, model.ErrNotFound), errors.Is(err, ErrEventTypeMissing):
		return "❌ Запись не найдена"
	case errors.As(err, &validation):
		return fmt.Sprintf("❌ Некорректные данные: %s", validationText(validation))
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, callbacktypes.ErrInvalidData):
		return "❌ Неверный формат данных"
	case errors.Is(err, ErrSessionExpired):
		return "⌛ Сессия истекла. Начните запись заново: /start"
	case errors.Is(err, ErrSlotUnavailable):
		return "❌ Этот слот больше недоступен"
	default:
		return "❌ Произошла ошибка"
	}
}

func validationText(err *model.ValidationError) string {
	switch err.Field {
	case "client_email":
		return "неверный email"
	case "client_name":
		return "не указано имя"
	case "start_time":
		return "это время недоступно для записи"
	case "event_type_id":
		return "на эту встречу нельзя записаться"
	case "status":
		return "запись уже нельзя изменить"
	default:
		return err.Field
	}
}
