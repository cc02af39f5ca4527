// Package api - HTTP API организатора и публичной записи
package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// Options - настройки HTTP слоя
type Options struct {
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server собирает маршруты API
type Server struct {
	eventTypes   EventTypeService
	availability AvailabilityService
	schedules    ScheduleService
	bookings     BookingService
	limiter      *RateLimiter
	logger       *zap.Logger
	handler      http.Handler
}

func NewServer(
	eventTypes EventTypeService,
	availability AvailabilityService,
	schedules ScheduleService,
	bookings BookingService,
	opts Options,
	logger *zap.Logger,
) *Server {
	s := &Server{
		eventTypes:   eventTypes,
		availability: availability,
		schedules:    schedules,
		bookings:     bookings,
		limiter:      NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
		logger:       logger,
	}

	router := s.routes()
	s.handler = logging(logger, securityHeaders(corsHandler(opts.CORSOrigins, router)))

	return s
}

// Handler возвращает корневой http.Handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() *httprouter.Router {
	router := httprouter.New()
	router.GET("/api/health", s.health)

	// Публичная запись
	router.GET("/api/availability/:id", s.limiter.Limit(s.getAvailableSlots))
	router.GET("/api/availability/:id/dates", s.limiter.Limit(s.getAvailableDates))
	router.POST("/api/appointments", s.limiter.Limit(s.createAppointment))
	router.GET("/api/appointments/:id", s.limiter.Limit(s.getAppointment))

	// Организатор
	router.GET("/api/event-types", s.listEventTypes)
	router.POST("/api/event-types", s.createEventType)
	router.GET("/api/event-types/:id", s.getEventType)
	router.PUT("/api/event-types/:id", s.updateEventType)

	router.GET("/api/event-types/:id/overrides", s.getOverrides)
	router.PUT("/api/event-types/:id/overrides", s.setOverrides)
	router.PUT("/api/event-types/:id/overrides/:date", s.upsertOverride)
	router.DELETE("/api/event-types/:id/overrides/:date", s.deleteOverride)
	router.POST("/api/event-types/:id/overrides/:date/slots", s.addManualSlot)

	router.GET("/api/event-types/:id/rules", s.listRules)
	router.POST("/api/event-types/:id/rules", s.createRule)
	router.DELETE("/api/event-types/:id/rules/:ruleId", s.deleteRule)

	router.GET("/api/appointments", s.listAppointments)
	router.PUT("/api/appointments/:id/status", s.setAppointmentStatus)

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "route not found")
	})

	return router
}

func (s *Server) health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
