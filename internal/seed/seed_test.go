package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const fixturesYAML = `
event_types:
  - owner_id: 7b0f4c1e-5d8a-4a57-9a53-1f0e3c9d2b11
    name: Консультация
    duration: 30
    buffer_time: 10
    status: online
    overrides:
      - date: "2025-03-10"
        slots:
          - {start: "09:00", end: "12:00"}
      - date: "2025-03-11"
        available: false
    rules:
      - days: [1, 3]
        start: "14:00"
        end: "17:00"
        start_date: "2025-03-01"
        end_date: "2025-03-31"
`

type recorder struct {
	eventTypes []*model.EventType
	overrides  map[uuid.UUID][]model.DateOverride
	rules      map[uuid.UUID][]model.RecurringRule
}

func newRecorder() *recorder {
	return &recorder{
		overrides: make(map[uuid.UUID][]model.DateOverride),
		rules:     make(map[uuid.UUID][]model.RecurringRule),
	}
}

func (r *recorder) Create(_ context.Context, et *model.EventType) (*model.EventType, error) {
	if err := et.Validate(); err != nil {
		return nil, err
	}
	et.ID = uuid.New()
	r.eventTypes = append(r.eventTypes, et)
	return et, nil
}

func (r *recorder) SetManualOverrides(_ context.Context, id uuid.UUID, overrides []model.DateOverride) ([]model.DateOverride, error) {
	r.overrides[id] = overrides
	return overrides, nil
}

func (r *recorder) CreateRule(_ context.Context, id uuid.UUID, rule model.RecurringRule) (*model.RecurringRule, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	r.rules[id] = append(r.rules[id], rule)
	return &rule, nil
}

func TestImport(t *testing.T) {
	f, err := Parse(strings.NewReader(fixturesYAML))
	require.NoError(t, err)

	rec := newRecorder()
	summary, err := NewImporter(rec, rec, zap.NewNop()).Import(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, Summary{EventTypes: 1, Overrides: 2, Rules: 1}, summary)

	require.Len(t, rec.eventTypes, 1)
	et := rec.eventTypes[0]
	assert.Equal(t, "Консультация", et.Name)
	assert.Equal(t, 10, et.BufferTime)

	overrides := rec.overrides[et.ID]
	require.Len(t, overrides, 2)
	assert.True(t, overrides[0].Available)
	require.Len(t, overrides[0].TimeSlots, 1)
	assert.Equal(t, 1, overrides[0].TimeSlots[0].DayOfWeek, "2025-03-10 is Monday")
	assert.True(t, overrides[0].TimeSlots[0].Origin.IsManual())
	assert.False(t, overrides[1].Available)

	assert.Equal(t, []int{1, 3}, rec.rules[et.ID][0].DaysOfWeek)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader("event_types:\n  - nmae: typo\n"))
	require.Error(t, err)
}

func TestImportStopsOnInvalidFixture(t *testing.T) {
	f := &Fixtures{EventTypes: []EventTypeFixture{{OwnerID: "nope", Name: "x", Duration: 30, Status: "online"}}}

	_, err := NewImporter(newRecorder(), newRecorder(), zap.NewNop()).Import(context.Background(), f)
	assert.ErrorIs(t, err, model.ErrValidation)
}
