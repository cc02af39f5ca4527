package availability

import (
	"testing"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConflictIndex(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	appointments := []model.Appointment{
		{ID: uuid.New(), StartTime: base, EndTime: base.Add(30 * time.Minute), Status: model.AppointmentStatusConfirmed},
		{ID: uuid.New(), StartTime: base, EndTime: base.Add(30 * time.Minute), Status: model.AppointmentStatusPending},
		{ID: uuid.New(), StartTime: base.Add(2 * time.Hour), EndTime: base.Add(3 * time.Hour), Status: model.AppointmentStatusCancelled},
		{ID: uuid.New(), StartTime: base.Add(4 * time.Hour), EndTime: base.Add(4 * time.Hour), Status: model.AppointmentStatusConfirmed},
	}

	idx, err := NewConflictIndex(appointments)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())

	assert.True(t, idx.Conflicts(base, base.Add(30*time.Minute)))
	assert.True(t, idx.Conflicts(base.Add(-10*time.Minute), base.Add(10*time.Minute)))
	assert.True(t, idx.Conflicts(base.Add(10*time.Minute), base.Add(20*time.Minute)))
	assert.False(t, idx.Conflicts(base.Add(30*time.Minute), base.Add(time.Hour)))
	assert.False(t, idx.Conflicts(base.Add(-30*time.Minute), base))
	assert.False(t, idx.Conflicts(base.Add(2*time.Hour), base.Add(3*time.Hour)))
	assert.False(t, idx.Conflicts(base.Add(4*time.Hour-30*time.Minute), base.Add(4*time.Hour+30*time.Minute)))
}

func TestConflictIndexEmpty(t *testing.T) {
	idx, err := NewConflictIndex(nil)
	require.NoError(t, err)
	now := time.Now()
	assert.False(t, idx.Conflicts(now, now.Add(time.Hour)))
}

func TestConflictIndexKeepsAppointmentsWithSameInterval(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	first := model.Appointment{ID: uuid.New(), StartTime: base, EndTime: base.Add(30 * time.Minute), Status: model.AppointmentStatusConfirmed}
	second := model.Appointment{ID: uuid.New(), StartTime: base, EndTime: base.Add(30 * time.Minute), Status: model.AppointmentStatusPending}

	idx, err := NewConflictIndex([]model.Appointment{first, second})
	require.NoError(t, err)

	assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, idx.Overlapping(base.Add(10*time.Minute), base.Add(time.Hour)))
	assert.Empty(t, idx.Overlapping(base.Add(30*time.Minute), base.Add(time.Hour)))
}
