package api

import (
	"context"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/Freeeeeet/booking_bot/internal/service"
	"github.com/google/uuid"
)

type fakeEventTypes struct {
	items map[uuid.UUID]*model.EventType
}

func (f *fakeEventTypes) Create(_ context.Context, et *model.EventType) (*model.EventType, error) {
	if err := et.Validate(); err != nil {
		return nil, err
	}
	et.ID = uuid.New()
	f.items[et.ID] = et
	return et, nil
}

func (f *fakeEventTypes) Update(_ context.Context, et *model.EventType) (*model.EventType, error) {
	if _, ok := f.items[et.ID]; !ok {
		return nil, model.ErrNotFound
	}
	f.items[et.ID] = et
	return et, nil
}

func (f *fakeEventTypes) Get(_ context.Context, id uuid.UUID) (*model.EventType, error) {
	et, ok := f.items[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return et, nil
}

func (f *fakeEventTypes) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*model.EventType, error) {
	var result []*model.EventType
	for _, et := range f.items {
		if et.OwnerID == ownerID {
			result = append(result, et)
		}
	}
	return result, nil
}

func (f *fakeEventTypes) ListPublic(context.Context) ([]*model.EventType, error) {
	return nil, nil
}

type fakeAvailability struct {
	slots []time.Time
	dates []string
	month string
}

func (f *fakeAvailability) GetAvailableSlots(_ context.Context, _ uuid.UUID, date string) ([]time.Time, error) {
	if _, err := model.ParseDateKey(date, time.UTC); err != nil {
		return nil, err
	}
	return f.slots, nil
}

func (f *fakeAvailability) GetAvailableDates(_ context.Context, _ uuid.UUID, month string) ([]string, error) {
	f.month = month
	return f.dates, nil
}

type fakeSchedules struct {
	overrides map[string]model.DateOverride
	rules     []model.RecurringRule
}

func (f *fakeSchedules) GetOverrides(context.Context, uuid.UUID) ([]model.DateOverride, error) {
	var result []model.DateOverride
	for _, o := range f.overrides {
		result = append(result, o)
	}
	return result, nil
}

func (f *fakeSchedules) SetManualOverrides(_ context.Context, _ uuid.UUID, overrides []model.DateOverride) ([]model.DateOverride, error) {
	for _, o := range overrides {
		f.overrides[o.Date] = o
	}
	return overrides, nil
}

func (f *fakeSchedules) UpsertOverride(_ context.Context, _ uuid.UUID, o model.DateOverride) (*model.DateOverride, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	f.overrides[o.Date] = o
	return &o, nil
}

func (f *fakeSchedules) DeleteOverride(_ context.Context, _ uuid.UUID, date string) error {
	if _, ok := f.overrides[date]; !ok {
		return model.ErrNotFound
	}
	delete(f.overrides, date)
	return nil
}

func (f *fakeSchedules) AddManualSlot(_ context.Context, _ uuid.UUID, date string, slot model.TimeSlot) (*model.DateOverride, error) {
	o := f.overrides[date]
	o.Date = date
	o.Available = true
	o.TimeSlots = append(o.TimeSlots, slot)
	f.overrides[date] = o
	return &o, nil
}

func (f *fakeSchedules) ListRules(context.Context, uuid.UUID) ([]model.RecurringRule, error) {
	return f.rules, nil
}

func (f *fakeSchedules) CreateRule(_ context.Context, eventTypeID uuid.UUID, rule model.RecurringRule) (*model.RecurringRule, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	rule.ID = uuid.New()
	rule.EventTypeID = eventTypeID
	f.rules = append(f.rules, rule)
	return &rule, nil
}

func (f *fakeSchedules) DeleteRule(_ context.Context, _, ruleID uuid.UUID) error {
	for i, rule := range f.rules {
		if rule.ID == ruleID {
			f.rules = append(f.rules[:i], f.rules[i+1:]...)
			return nil
		}
	}
	return model.ErrNotFound
}

type fakeBookings struct {
	taken        map[time.Time]bool
	appointments map[uuid.UUID]*model.Appointment
	lastFilter   model.AppointmentFilter
}

func (f *fakeBookings) CreateAppointment(_ context.Context, req service.CreateAppointmentRequest) (*model.Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if f.taken[req.StartTime] {
		return nil, model.ErrConflict
	}
	f.taken[req.StartTime] = true

	apt := &model.Appointment{
		ID:          uuid.New(),
		EventTypeID: req.EventTypeID,
		StartTime:   req.StartTime,
		EndTime:     req.StartTime.Add(30 * time.Minute),
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		Status:      model.AppointmentStatusConfirmed,
	}
	f.appointments[apt.ID] = apt
	return apt, nil
}

func (f *fakeBookings) GetAppointment(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := f.appointments[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return apt, nil
}

func (f *fakeBookings) ListAppointments(_ context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	f.lastFilter = filter
	result := make([]*model.Appointment, 0, len(f.appointments))
	for _, apt := range f.appointments {
		if filter.Status == "" || apt.Status == filter.Status {
			result = append(result, apt)
		}
	}
	return result, nil
}

func (f *fakeBookings) SetStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	apt, ok := f.appointments[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	apt.Status = status
	return apt, nil
}
