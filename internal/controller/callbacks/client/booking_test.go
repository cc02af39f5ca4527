package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContainsSlot(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	slots := []time.Time{start, start.Add(30 * time.Minute)}

	assert.True(t, containsSlot(slots, start.In(time.FixedZone("MSK", 3*60*60))))
	assert.False(t, containsSlot(slots, start.Add(time.Minute)))
	assert.False(t, containsSlot(nil, start))
}
