package common

import (
	"context"

	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleBackToEventTypes возвращает пользователя к списку встреч
func HandleBackToEventTypes(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := NewHandlerContext(ctx, b, callback, h)
	hc.ClearState()

	eventTypes, err := h.EventTypeService.ListPublic(ctx)
	if err != nil {
		HandleError(hc, err, "list_event_types")
		return
	}

	text, kb := BuildEventTypesScreen(eventTypes)
	if err := hc.EditMessage(text, kb); err != nil {
		HandleError(hc, err, "edit_event_types")
		return
	}
	hc.Answer("")
}
