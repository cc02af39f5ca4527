package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/booking_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user := update.Message.From
	h.stateManager.ClearState(user.ID)

	eventTypes, err := h.eventTypeService.ListPublic(ctx)
	if err != nil {
		h.logger.Error("Failed to list event types", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}

	listText, kb := common.BuildEventTypesScreen(eventTypes)
	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Здесь можно записаться на встречу в удобное время.\n\n%s",
		html.EscapeString(common.DisplayName(user)),
		listText,
	)

	h.send(ctx, b, update.Message.Chat.ID, welcomeText, kb)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 Справка по командам:\n\n" +
		"/start - Выбрать встречу и записаться\n" +
		"/mybookings - Мои предстоящие записи\n" +
		"/cancel - Прервать текущую запись\n" +
		"/help - Эта справка\n\n" +
		"Как записаться:\n" +
		"1. Выберите встречу\n" +
		"2. Выберите дату в календаре\n" +
		"3. Выберите время\n" +
		"4. Отправьте email"

	h.send(ctx, b, update.Message.Chat.ID, helpText, nil)
}

// HandleCancel прерывает текущий диалог записи
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.send(ctx, b, update.Message.Chat.ID, "Нет активной записи.", nil)
		return
	}

	h.stateManager.ClearState(telegramID)
	h.send(ctx, b, update.Message.Chat.ID, "❌ Запись прервана.\n\nНачать заново: /start", nil)
}

// HandleMyBookings показывает предстоящие записи клиента
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	appointments, err := h.bookingService.GetClientAppointments(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to get client appointments", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось загрузить записи. Попробуйте позже.")
		return
	}

	text, kb := common.BuildAppointmentsScreen(appointments)
	h.send(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Команды обрабатываются другими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	switch currentState {
	case state.StateNone:
		h.logger.Debug("No active state, ignoring message",
			zap.Int64("telegram_id", telegramID))
	case state.StateEnteringEmail:
		h.handleEmailStep(ctx, b, update)
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
		h.stateManager.ClearState(telegramID)
	}
}

func (h *Handlers) send(ctx context.Context, b *bot.Bot, chatID int64, text string, kb *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.send(ctx, b, chatID, text, nil)
}
