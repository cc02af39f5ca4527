package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/client"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
		zap.String("user_name", callback.From.FirstName))

	switch {
	// ===== Navigation =====
	case data == callbacktypes.Noop:
		common.AnswerCallback(ctx, b, callback.ID, "")
	case data == callbacktypes.BackToEventTypes:
		common.HandleBackToEventTypes(ctx, b, callback, h)

	// ===== Client: Booking =====
	case hasPrefix(data, callbacktypes.PrefixEventType):
		client.HandleEventType(ctx, b, callback, h)
	case hasPrefix(data, callbacktypes.PrefixMonth):
		client.HandleMonth(ctx, b, callback, h)
	case hasPrefix(data, callbacktypes.PrefixDay):
		client.HandleDay(ctx, b, callback, h)
	case hasPrefix(data, callbacktypes.PrefixSlot):
		client.HandleSlot(ctx, b, callback, h)
	case hasPrefix(data, callbacktypes.PrefixCancel):
		client.HandleCancelAppointment(ctx, b, callback, h)

	// ===== Unknown Callback =====
	default:
		h.Logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, "❌ Неизвестная команда")
	}
}

func hasPrefix(data, prefix string) bool {
	return strings.HasPrefix(data, prefix+":")
}
