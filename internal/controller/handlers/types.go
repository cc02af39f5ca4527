package handlers

import (
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/callbacktypes"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	eventTypeService callbacktypes.EventTypeService
	bookingService   callbacktypes.BookingService
	stateManager     callbacktypes.StateManager
	logger           *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	eventTypeService callbacktypes.EventTypeService,
	bookingService callbacktypes.BookingService,
	stateManager callbacktypes.StateManager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		eventTypeService: eventTypeService,
		bookingService:   bookingService,
		stateManager:     stateManager,
		logger:           logger,
	}
}
