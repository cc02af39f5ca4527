package service

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/Freeeeeet/booking_bot/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var testLocation = time.FixedZone("MSK", 3*60*60)

type fakeStore struct {
	mu           sync.Mutex
	eventTypes   map[uuid.UUID]*model.EventType
	schedules    map[uuid.UUID]*model.Schedule
	appointments []model.Appointment

	overrideReads int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		eventTypes: make(map[uuid.UUID]*model.EventType),
		schedules:  make(map[uuid.UUID]*model.Schedule),
	}
}

func (f *fakeStore) addEventType(duration, buffer int, status model.EventTypeStatus, approval bool) *model.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()

	et := &model.EventType{
		ID:               uuid.New(),
		OwnerID:          uuid.New(),
		Name:             "Consultation",
		Duration:         duration,
		BufferTime:       buffer,
		Status:           status,
		RequiresApproval: approval,
	}
	f.eventTypes[et.ID] = et
	f.schedules[et.ID] = &model.Schedule{EventTypeID: et.ID}
	return et
}

func (f *fakeStore) setOverrides(eventTypeID uuid.UUID, overrides ...model.DateOverride) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schedules[eventTypeID].Overrides = overrides
}

// EventTypeRepository

func (f *fakeStore) Create(_ context.Context, et *model.EventType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *et
	f.eventTypes[et.ID] = &copied
	f.schedules[et.ID] = &model.Schedule{EventTypeID: et.ID}
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*model.EventType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	et, ok := f.eventTypes[id]
	if !ok {
		return nil, nil
	}
	copied := *et
	return &copied, nil
}

func (f *fakeStore) GetByOwner(_ context.Context, ownerID uuid.UUID) ([]*model.EventType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*model.EventType
	for _, et := range f.eventTypes {
		if et.OwnerID == ownerID {
			copied := *et
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeStore) GetPublic(_ context.Context) ([]*model.EventType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*model.EventType
	for _, et := range f.eventTypes {
		if et.Status == model.EventTypeStatusOnline {
			copied := *et
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (f *fakeStore) GetAllIDs(_ context.Context) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(f.eventTypes))
	for id := range f.eventTypes {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeStore) Update(_ context.Context, et *model.EventType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.eventTypes[et.ID]; !ok {
		return model.ErrNotFound
	}
	copied := *et
	f.eventTypes[et.ID] = &copied
	return nil
}

// ScheduleRepository

type fakeSchedules struct{ *fakeStore }

func (f fakeSchedules) GetOverrides(_ context.Context, eventTypeID uuid.UUID) ([]model.DateOverride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overrideReads++
	schedule, ok := f.schedules[eventTypeID]
	if !ok {
		return []model.DateOverride{}, nil
	}
	return slices.Clone(schedule.Overrides), nil
}

func (f fakeSchedules) GetOverridesInRange(_ context.Context, eventTypeID uuid.UUID, from, to string) ([]model.DateOverride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overrideReads++
	result := make([]model.DateOverride, 0)
	schedule, ok := f.schedules[eventTypeID]
	if !ok {
		return result, nil
	}
	for _, o := range schedule.Overrides {
		if o.Date >= from && o.Date <= to {
			result = append(result, o)
		}
	}
	return result, nil
}

func (f fakeSchedules) GetRules(_ context.Context, eventTypeID uuid.UUID) ([]model.RecurringRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	schedule, ok := f.schedules[eventTypeID]
	if !ok {
		return []model.RecurringRule{}, nil
	}
	return slices.Clone(schedule.Rules), nil
}

func (f fakeSchedules) Modify(_ context.Context, eventTypeID uuid.UUID, fn func(schedule *model.Schedule) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.schedules[eventTypeID]
	if !ok {
		return model.ErrNotFound
	}
	working := &model.Schedule{
		EventTypeID: eventTypeID,
		Rules:       slices.Clone(current.Rules),
		Overrides:   slices.Clone(current.Overrides),
	}
	if err := fn(working); err != nil {
		return err
	}
	f.schedules[eventTypeID] = working
	return nil
}

// AppointmentRepository

type fakeAppointments struct{ *fakeStore }

func (f fakeAppointments) Admit(_ context.Context, apt *model.Appointment, check repository.AdmissionCheck) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	et, ok := f.eventTypes[apt.EventTypeID]
	if !ok {
		return model.ErrNotFound
	}
	copied := *et

	dayStart := model.StartOfDay(apt.StartTime)
	existing := f.activeInRange(apt.EventTypeID, dayStart, dayStart.AddDate(0, 0, 1))

	if err := check(&copied, slices.Clone(f.schedules[apt.EventTypeID].Overrides), existing); err != nil {
		return err
	}

	// Аналог ограничения EXCLUDE
	for _, other := range f.activeInRange(apt.EventTypeID, apt.StartTime, apt.EndTime) {
		if other.Overlaps(apt.StartTime, apt.EndTime) {
			return model.ErrConflict
		}
	}

	stored := *apt
	stored.EventType = nil
	f.appointments = append(f.appointments, stored)
	return nil
}

func (f fakeAppointments) GetByID(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, apt := range f.appointments {
		if apt.ID == id {
			copied := apt
			return &copied, nil
		}
	}
	return nil, nil
}

func (f fakeAppointments) GetActiveInRange(_ context.Context, eventTypeID uuid.UUID, from, to time.Time) ([]model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.activeInRange(eventTypeID, from, to), nil
}

func (f fakeAppointments) GetByClientTelegramID(_ context.Context, telegramID int64, from time.Time) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*model.Appointment
	for _, apt := range f.appointments {
		if apt.ClientTelegramID == nil || *apt.ClientTelegramID != telegramID {
			continue
		}
		if !apt.EndTime.After(from) {
			continue
		}
		if apt.Status != model.AppointmentStatusPending && apt.Status != model.AppointmentStatusConfirmed {
			continue
		}
		copied := apt
		result = append(result, &copied)
	}
	return result, nil
}

func (f fakeAppointments) List(_ context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*model.Appointment, 0)
	for _, apt := range f.appointments {
		if filter.OwnerID != uuid.Nil && f.eventTypes[apt.EventTypeID].OwnerID != filter.OwnerID {
			continue
		}
		if filter.EventTypeID != uuid.Nil && apt.EventTypeID != filter.EventTypeID {
			continue
		}
		if filter.Status != "" && apt.Status != filter.Status {
			continue
		}
		if !filter.From.IsZero() && !apt.EndTime.After(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !apt.StartTime.Before(filter.To) {
			continue
		}
		copied := apt
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, nil
}

func (f fakeAppointments) UpdateStatus(_ context.Context, id uuid.UUID, from, to model.AppointmentStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.appointments {
		if f.appointments[i].ID == id && f.appointments[i].Status == from {
			f.appointments[i].Status = to
			return true, nil
		}
	}
	return false, nil
}

func (f fakeAppointments) CompleteElapsed(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for i := range f.appointments {
		apt := &f.appointments[i]
		if apt.Status == model.AppointmentStatusConfirmed && !apt.EndTime.After(now) {
			apt.Status = model.AppointmentStatusCompleted
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) activeInRange(eventTypeID uuid.UUID, from, to time.Time) []model.Appointment {
	result := make([]model.Appointment, 0)
	for _, apt := range f.appointments {
		if apt.EventTypeID == eventTypeID && apt.IsActive() && apt.Overlaps(from, to) {
			result = append(result, apt)
		}
	}
	return result
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func at(date, clock string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, testLocation)
	if err != nil {
		panic(err)
	}
	return t
}

func manualDay(date string, windows ...[2]string) model.DateOverride {
	o := model.DateOverride{Date: date, Available: true, Origin: model.ManualOrigin()}
	for _, w := range windows {
		o.TimeSlots = append(o.TimeSlots, model.TimeSlot{StartTime: w[0], EndTime: w[1], Origin: model.ManualOrigin()})
	}
	return o
}
