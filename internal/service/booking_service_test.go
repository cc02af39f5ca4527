package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Freeeeeet/booking_bot/internal/cache"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookingService(store *fakeStore) *BookingService {
	return newBookingServiceWithCache(store, cache.Noop{})
}

func newBookingServiceWithCache(store *fakeStore, c cache.Cache) *BookingService {
	svc := NewBookingService(store, fakeAppointments{store}, c, testLocation, testLogger())
	svc.now = fixedClock(at("2025-03-01", "12:00"))
	return svc
}

func bookingRequest(eventTypeID uuid.UUID, date, clock string) CreateAppointmentRequest {
	return CreateAppointmentRequest{
		EventTypeID: eventTypeID,
		StartTime:   at(date, clock),
		ClientName:  "Иван Петров",
		ClientEmail: "ivan@example.com",
	}
}

func TestCreateAppointment(t *testing.T) {
	store := newFakeStore()
	et := store.addEventType(30, 0, model.EventTypeStatusOnline, false)
	store.setOverrides(et.ID, manualDay("2025-03-10", [2]string{"09:00", "10:00"}))
	svc := newBookingService(store)

	apt, err := svc.CreateAppointment(context.Background(), bookingRequest(et.ID, "2025-03-10", "09:30"))
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusConfirmed, apt.Status)
	assert.True(t, apt.EndTime.Equal(at("2025-03-10", "10:00")))
	assert.Equal(t, et.ID, apt.EventType.ID)
	assert.NotEqual(t, uuid.Nil, apt.ID)

	stored, err := svc.GetAppointment(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.Equal(t, "ivan@example.com", stored.ClientEmail)
}

func TestCreateAppointmentRequiresApproval(t *testing.T) {
	store := newFakeStore()
	et := store.addEventType(30, 0, model.EventTypeStatusPrivate, true)
	store.setOverrides(et.ID, manualDay("2025-03-10", [2]string{"09:00", "10:00"}))
	svc := newBookingService(store)

	apt, err := svc.CreateAppointment(context.Background(), bookingRequest(et.ID, "2025-03-10", "09:00"))
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusPending, apt.Status)
}

func TestCreateAppointmentRejections(t *testing.T) {
	store := newFakeStore()
	et := store.addEventType(30, 15, model.EventTypeStatusOnline, false)
	closed := store.addEventType(30, 0, model.EventTypeStatusClosed, false)
	store.setOverrides(et.ID,
		manualDay("2025-03-01", [2]string{"09:00", "18:00"}),
		manualDay("2025-03-10", [2]string{"09:00", "10:00"}),
	)
	store.setOverrides(closed.ID, manualDay("2025-03-10", [2]string{"09:00", "10:00"}))
	svc := newBookingService(store)

	tests := []struct {
		name string
		req  CreateAppointmentRequest
		want error
	}{
		{name: "not an offered slot", req: bookingRequest(et.ID, "2025-03-10", "09:30"), want: model.ErrValidation},
		{name: "no availability on date", req: bookingRequest(et.ID, "2025-03-11", "09:00"), want: model.ErrValidation},
		{name: "in the past", req: bookingRequest(et.ID, "2025-03-01", "09:00"), want: model.ErrValidation},
		{name: "closed event type", req: bookingRequest(closed.ID, "2025-03-10", "09:00"), want: model.ErrValidation},
		{name: "missing event type", req: bookingRequest(uuid.New(), "2025-03-10", "09:00"), want: model.ErrNotFound},
		{
			name: "invalid email",
			req: CreateAppointmentRequest{
				EventTypeID: et.ID, StartTime: at("2025-03-10", "09:00"), ClientName: "Иван", ClientEmail: "ivan",
			},
			want: model.ErrValidation,
		},
		{
			name: "empty name",
			req: CreateAppointmentRequest{
				EventTypeID: et.ID, StartTime: at("2025-03-10", "09:00"), ClientName: " ", ClientEmail: "ivan@example.com",
			},
			want: model.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateAppointment(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateAppointmentConflict(t *testing.T) {
	store := newFakeStore()
	et := store.addEventType(30, 0, model.EventTypeStatusOnline, false)
	store.setOverrides(et.ID, manualDay("2025-03-10", [2]string{"09:00", "10:00"}))
	svc := newBookingService(store)

	_, err := svc.CreateAppointment(context.Background(), bookingRequest(et.ID, "2025-03-10", "09:00"))
	require.NoError(t, err)

	_, err = svc.CreateAppointment(context.Background(), bookingRequest(et.ID, "2025-03-10", "09:00"))
	assert.ErrorIs(t, err, model.ErrConflict)

	_, err = svc.CreateAppointment(context.Background(), bookingRequest(et.ID, "2025-03-10", "09:30"))
	assert.NoError(t, err)
}

func TestCreateAppointmentConcurrent(t *testing.T) {
	store := newFakeStore()
	et := store.addEventType(30, 0, model.EventTypeStatusOnline, false)
	store.setOverrides(et.ID, manualDay("2025-03-10", [2]string{"09:00", "10:00"}))
	svc := newBookingService(store)

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateAppointment(context.Background(), bookingRequest(et.ID, "2025-03-10", "09:00"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, model.ErrConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)
}

func TestAppointmentTransitions(t *testing.T) {
	store := newFakeStore()
	et := store.addEventType(30, 0, model.EventTypeStatusOnline, true)
	store.setOverrides(et.ID, manualDay("2025-03-10", [2]string{"09:00", "10:00"}))
	svc := newBookingService(store)
	ctx := context.Background()

	apt, err := svc.CreateAppointment(ctx, bookingRequest(et.ID, "2025-03-10", "09:00"))
	require.NoError(t, err)

	_, err = svc.CompleteAppointment(ctx, apt.ID)
	assert.ErrorIs(t, err, model.ErrValidation)

	approved, err := svc.SetStatus(ctx, apt.ID, model.AppointmentStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, approved.Status)

	_, err = svc.ApproveAppointment(ctx, apt.ID)
	assert.ErrorIs(t, err, model.ErrValidation)

	cancelled, err := svc.CancelAppointment(ctx, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)

	_, err = svc.SetStatus(ctx, apt.ID, model.AppointmentStatusPending)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.CancelAppointment(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)

	// Отменённая запись освобождает слот
	_, err = svc.CreateAppointment(ctx, bookingRequest(et.ID, "2025-03-10", "09:00"))
	assert.NoError(t, err)
}

func TestCancelByClient(t *testing.T) {
	store := newFakeStore()
	et := store.addEventType(30, 0, model.EventTypeStatusOnline, false)
	store.setOverrides(et.ID, manualDay("2025-03-10", [2]string{"09:00", "10:00"}))
	svc := newBookingService(store)
	ctx := context.Background()

	clientID := int64(42)
	req := bookingRequest(et.ID, "2025-03-10", "09:00")
	req.ClientTelegramID = &clientID

	apt, err := svc.CreateAppointment(ctx, req)
	require.NoError(t, err)

	mine, err := svc.GetClientAppointments(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, et.Name, mine[0].EventType.Name)

	_, err = svc.CancelByClient(ctx, apt.ID, 7)
	assert.ErrorIs(t, err, model.ErrNotFound)

	cancelled, err := svc.CancelByClient(ctx, apt.ID, clientID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)

	mine, err = svc.GetClientAppointments(ctx, clientID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestCompleteElapsed(t *testing.T) {
	store := newFakeStore()
	et := store.addEventType(30, 0, model.EventTypeStatusOnline, false)
	store.setOverrides(et.ID, manualDay("2025-03-10", [2]string{"09:00", "10:00"}))
	svc := newBookingService(store)
	ctx := context.Background()

	apt, err := svc.CreateAppointment(ctx, bookingRequest(et.ID, "2025-03-10", "09:00"))
	require.NoError(t, err)

	count, err := svc.CompleteElapsed(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	svc.now = fixedClock(at("2025-03-10", "09:30"))
	count, err = svc.CompleteElapsed(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	stored, err := svc.GetAppointment(ctx, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, stored.Status)
}

func TestListAppointments(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	first := store.addEventType(30, 0, model.EventTypeStatusOnline, false)
	second := store.addEventType(30, 0, model.EventTypeStatusOnline, true)
	second.OwnerID = first.OwnerID
	other := store.addEventType(30, 0, model.EventTypeStatusOnline, false)
	for _, et := range []*model.EventType{first, second, other} {
		store.setOverrides(et.ID, manualDay("2025-03-10", [2]string{"09:00", "12:00"}))
	}
	svc := newBookingService(store)

	late, err := svc.CreateAppointment(ctx, bookingRequest(first.ID, "2025-03-10", "11:00"))
	require.NoError(t, err)
	early, err := svc.CreateAppointment(ctx, bookingRequest(first.ID, "2025-03-10", "09:00"))
	require.NoError(t, err)
	pending, err := svc.CreateAppointment(ctx, bookingRequest(second.ID, "2025-03-10", "10:00"))
	require.NoError(t, err)
	_, err = svc.CreateAppointment(ctx, bookingRequest(other.ID, "2025-03-10", "09:00"))
	require.NoError(t, err)

	ids := func(appointments []*model.Appointment) []uuid.UUID {
		result := make([]uuid.UUID, 0, len(appointments))
		for _, apt := range appointments {
			result = append(result, apt.ID)
		}
		return result
	}

	byOwner, err := svc.ListAppointments(ctx, model.AppointmentFilter{OwnerID: first.OwnerID})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{early.ID, pending.ID, late.ID}, ids(byOwner))
	require.NotNil(t, byOwner[0].EventType)
	assert.Equal(t, first.ID, byOwner[0].EventType.ID)
	assert.Equal(t, testLocation, byOwner[0].StartTime.Location())

	awaiting, err := svc.ListAppointments(ctx, model.AppointmentFilter{OwnerID: first.OwnerID, Status: model.AppointmentStatusPending})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{pending.ID}, ids(awaiting))

	byEventType, err := svc.ListAppointments(ctx, model.AppointmentFilter{
		EventTypeID: first.ID,
		From:        at("2025-03-10", "10:00"),
		To:          at("2025-03-11", "00:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{late.ID}, ids(byEventType))
}

func TestListAppointmentsValidation(t *testing.T) {
	svc := newBookingService(newFakeStore())
	ctx := context.Background()

	_, err := svc.ListAppointments(ctx, model.AppointmentFilter{})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.ListAppointments(ctx, model.AppointmentFilter{OwnerID: uuid.New(), Status: "lost"})
	assert.ErrorIs(t, err, model.ErrValidation)

	from := at("2025-03-10", "10:00")
	_, err = svc.ListAppointments(ctx, model.AppointmentFilter{OwnerID: uuid.New(), From: from, To: from})
	assert.ErrorIs(t, err, model.ErrValidation)
}
