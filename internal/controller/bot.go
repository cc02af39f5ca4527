package controller

import (
	"context"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/booking_bot/internal/controller/handlers"
	"github.com/Freeeeeet/booking_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	stateManager    *state.Manager
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	eventTypeService callbacktypes.EventTypeService,
	availabilityService callbacktypes.AvailabilityService,
	bookingService callbacktypes.BookingService,
	location *time.Location,
	logger *zap.Logger,
) *BotController {
	stateManager := state.NewManager()

	cmdHandlers := handlers.NewHandlers(
		eventTypeService,
		bookingService,
		stateManager,
		logger,
	)

	callbackHandler := callbacks.NewHandler(&callbacktypes.Handler{
		EventTypeService:    eventTypeService,
		AvailabilityService: availabilityService,
		BookingService:      bookingService,
		StateManager:        stateManager,
		Location:            location,
		Logger:              logger,
	})

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		stateManager:    stateManager,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mybookings", bot.MatchTypeExact, c.handlers.HandleMyBookings)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Записаться на встречу"},
		{Command: "mybookings", Description: "📅 Мои записи"},
		{Command: "cancel", Description: "❌ Прервать запись"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// ExpireSessions удаляет брошенные диалоги записи
func (c *BotController) ExpireSessions() int {
	return c.stateManager.Expire(handlers.EmailSessionTTL)
}

// Start запускает бота и блокируется до отмены контекста
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
