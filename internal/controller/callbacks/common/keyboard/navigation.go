package keyboard

import (
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/go-telegram/bot/models"
)

// BackButton создаёт кнопку "Назад"
func BackButton(callbackData string) models.InlineKeyboardButton {
	return Button("⬅️ Назад", callbackData)
}

// BackToEventTypesButton возвращает к списку встреч
func BackToEventTypesButton() models.InlineKeyboardButton {
	return Button("⬅️ К списку встреч", callbacktypes.BackToEventTypes)
}

// NoopButton создаёт неактивную кнопку
func NoopButton(text string) models.InlineKeyboardButton {
	return Button(text, callbacktypes.Noop)
}

// AddBackButton добавляет кнопку "Назад" к builder
func (b *Builder) AddBackButton(callbackData string) *Builder {
	return b.Row(BackButton(callbackData))
}
