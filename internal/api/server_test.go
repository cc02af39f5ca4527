package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	server       *Server
	eventTypes   *fakeEventTypes
	availability *fakeAvailability
	schedules    *fakeSchedules
	bookings     *fakeBookings
}

func newTestEnv(opts Options) *testEnv {
	env := &testEnv{
		eventTypes:   &fakeEventTypes{items: make(map[uuid.UUID]*model.EventType)},
		availability: &fakeAvailability{},
		schedules:    &fakeSchedules{overrides: make(map[string]model.DateOverride)},
		bookings:     &fakeBookings{taken: make(map[time.Time]bool), appointments: make(map[uuid.UUID]*model.Appointment)},
	}
	if opts.RateLimitRPS == 0 {
		opts.RateLimitRPS = 1000
		opts.RateLimitBurst = 1000
	}
	if opts.CORSOrigins == nil {
		opts.CORSOrigins = []string{"*"}
	}
	env.server = NewServer(env.eventTypes, env.availability, env.schedules, env.bookings, opts, zap.NewNop())
	return env
}

func (env *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "10.0.0.1:5555"
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(Options{})

	rec := env.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestGetAvailableSlots(t *testing.T) {
	env := newTestEnv(Options{})
	id := uuid.New()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	env.availability.slots = []time.Time{start, start.Add(30 * time.Minute)}

	rec := env.do(t, http.MethodGet, "/api/availability/"+id.String()+"?date=2025-03-10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[slotsResponse](t, rec)
	assert.Equal(t, "2025-03-10", resp.Date)
	require.Len(t, resp.Slots, 2)
	assert.True(t, resp.Slots[0].Equal(start))

	env.availability.slots = nil
	rec = env.do(t, http.MethodGet, "/api/availability/"+id.String()+"?date=2025-03-11", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"date":"2025-03-11","slots":[]}`, rec.Body.String())
}

func TestGetAvailableSlotsBadInput(t *testing.T) {
	env := newTestEnv(Options{})

	rec := env.do(t, http.MethodGet, "/api/availability/not-a-uuid?date=2025-03-10", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "id", decode[errorResponse](t, rec).Field)

	rec = env.do(t, http.MethodGet, "/api/availability/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "date", decode[errorResponse](t, rec).Field)

	rec = env.do(t, http.MethodGet, "/api/availability/"+uuid.NewString()+"?date=10.03.2025", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAvailableDates(t *testing.T) {
	env := newTestEnv(Options{})
	env.availability.dates = []string{"2025-03-10", "2025-03-12"}

	rec := env.do(t, http.MethodGet, "/api/availability/"+uuid.NewString()+"/dates?month=2025-03", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-03", env.availability.month)
	assert.Equal(t, []string{"2025-03-10", "2025-03-12"}, decode[datesResponse](t, rec).Dates)

	rec = env.do(t, http.MethodGet, "/api/availability/"+uuid.NewString()+"/dates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", env.availability.month)
}

func TestCreateAppointment(t *testing.T) {
	env := newTestEnv(Options{})
	body := createAppointmentRequest{
		EventTypeID: uuid.New(),
		StartTime:   time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		ClientName:  "Иван",
		ClientEmail: "ivan@example.com",
	}

	rec := env.do(t, http.MethodPost, "/api/appointments", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	apt := decode[model.Appointment](t, rec)
	assert.Equal(t, model.AppointmentStatusConfirmed, apt.Status)

	rec = env.do(t, http.MethodPost, "/api/appointments", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	body.ClientEmail = "broken"
	rec = env.do(t, http.MethodPost, "/api/appointments", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "client_email", decode[errorResponse](t, rec).Field)

	rec = env.do(t, http.MethodGet, "/api/appointments/"+apt.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/appointments/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateAppointmentRejectsUnknownFields(t *testing.T) {
	env := newTestEnv(Options{})

	rec := env.do(t, http.MethodPost, "/api/appointments", map[string]any{"status": "confirmed"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "body", decode[errorResponse](t, rec).Field)
}

func TestSetAppointmentStatus(t *testing.T) {
	env := newTestEnv(Options{})
	apt := &model.Appointment{ID: uuid.New(), Status: model.AppointmentStatusPending}
	env.bookings.appointments[apt.ID] = apt

	rec := env.do(t, http.MethodPut, "/api/appointments/"+apt.ID.String()+"/status", statusRequest{Status: model.AppointmentStatusConfirmed})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.AppointmentStatusConfirmed, apt.Status)
}

func TestListAppointments(t *testing.T) {
	env := newTestEnv(Options{})
	pending := &model.Appointment{ID: uuid.New(), Status: model.AppointmentStatusPending}
	confirmed := &model.Appointment{ID: uuid.New(), Status: model.AppointmentStatusConfirmed}
	env.bookings.appointments[pending.ID] = pending
	env.bookings.appointments[confirmed.ID] = confirmed
	owner := uuid.New()

	rec := env.do(t, http.MethodGet, "/api/appointments?owner_id="+owner.String()+"&status=pending&from=2025-03-01T00:00:00Z", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[[]model.Appointment](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, pending.ID, got[0].ID)
	assert.Equal(t, owner, env.bookings.lastFilter.OwnerID)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), env.bookings.lastFilter.From)

	// Найденный ID можно подтвердить
	rec = env.do(t, http.MethodPut, "/api/appointments/"+got[0].ID.String()+"/status", statusRequest{Status: model.AppointmentStatusConfirmed})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListAppointmentsBadInput(t *testing.T) {
	env := newTestEnv(Options{})

	cases := map[string]string{
		"":              "/api/appointments",
		"owner_id":      "/api/appointments?owner_id=nope",
		"event_type_id": "/api/appointments?event_type_id=nope",
		"from":          "/api/appointments?owner_id=" + uuid.NewString() + "&from=2025-03-01",
		"status":        "/api/appointments?owner_id=" + uuid.NewString() + "&status=lost",
	}
	for field, path := range cases {
		rec := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		if field != "" {
			assert.Equal(t, field, decode[errorResponse](t, rec).Field, path)
		}
	}
}

func TestEventTypeRoutes(t *testing.T) {
	env := newTestEnv(Options{})
	ownerID := uuid.New()

	rec := env.do(t, http.MethodPost, "/api/event-types", eventTypeRequest{OwnerID: ownerID, Name: "Созвон", Duration: 30, Status: model.EventTypeStatusOnline})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	et := decode[model.EventType](t, rec)

	rec = env.do(t, http.MethodPost, "/api/event-types", eventTypeRequest{OwnerID: ownerID, Name: "Плохой", Duration: 0, Status: model.EventTypeStatusOnline})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "duration", decode[errorResponse](t, rec).Field)

	rec = env.do(t, http.MethodGet, "/api/event-types?owner_id="+ownerID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.EventType](t, rec), 1)

	rec = env.do(t, http.MethodGet, "/api/event-types", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = env.do(t, http.MethodPut, "/api/event-types/"+et.ID.String(), eventTypeRequest{Name: "Созвон 2", Duration: 45, Status: model.EventTypeStatusPrivate})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 45, decode[model.EventType](t, rec).Duration)

	rec = env.do(t, http.MethodGet, "/api/event-types/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScheduleRoutes(t *testing.T) {
	env := newTestEnv(Options{})
	base := "/api/event-types/" + uuid.NewString()

	override := model.DateOverride{
		Available: true,
		TimeSlots: []model.TimeSlot{{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"}},
	}
	rec := env.do(t, http.MethodPut, base+"/overrides/2025-03-10", override)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "2025-03-10", decode[model.DateOverride](t, rec).Date)

	rec = env.do(t, http.MethodPost, base+"/overrides/2025-03-10/slots", model.TimeSlot{DayOfWeek: 1, StartTime: "14:00", EndTime: "15:00"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[model.DateOverride](t, rec).TimeSlots, 2)

	rec = env.do(t, http.MethodGet, base+"/overrides", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.DateOverride](t, rec), 1)

	rec = env.do(t, http.MethodDelete, base+"/overrides/2025-03-10", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodDelete, base+"/overrides/2025-03-10", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rule := model.RecurringRule{DaysOfWeek: []int{1, 3}, StartTime: "09:00", EndTime: "17:00", StartDate: "2025-03-01", EndDate: "2025-03-31"}
	rec = env.do(t, http.MethodPost, base+"/rules", rule)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[model.RecurringRule](t, rec)
	assert.NotEqual(t, uuid.Nil, created.ID)

	rule.DaysOfWeek = []int{9}
	rec = env.do(t, http.MethodPost, base+"/rules", rule)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, base+"/rules/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, base+"/rules", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(Options{RateLimitRPS: 1, RateLimitBurst: 2})
	path := "/api/availability/" + uuid.NewString() + "/dates"

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, env.do(t, http.MethodGet, path, nil).Code)

	// Организаторские маршруты не ограничиваются
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/event-types", nil).Code)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(Options{CORSOrigins: []string{"https://booking.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/appointments", nil)
	req.Header.Set("Origin", "https://booking.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "https://booking.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(Options{})

	rec := env.do(t, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
