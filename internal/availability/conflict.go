package availability

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/google/uuid"
	"github.com/rdleal/intervalst/interval"
)

// ConflictIndex - индекс активных записей для проверки пересечений
// Один интервал может хранить несколько записей с одинаковыми началом и концом
type ConflictIndex struct {
	tree         *interval.MultiValueSearchTree[uuid.UUID, time.Time]
	appointments map[uuid.UUID]model.Appointment
}

// NewConflictIndex строит индекс по записям, отменённые записи пропускаются
func NewConflictIndex(appointments []model.Appointment) (*ConflictIndex, error) {
	idx := &ConflictIndex{
		tree:         interval.NewMultiValueSearchTree[uuid.UUID](func(x, y time.Time) int { return x.Compare(y) }),
		appointments: make(map[uuid.UUID]model.Appointment, len(appointments)),
	}

	for _, apt := range appointments {
		if !apt.IsActive() {
			continue
		}
		// Интервал нулевой длины ни с чем не пересекается
		if !apt.EndTime.After(apt.StartTime) {
			continue
		}
		if err := idx.tree.Insert(apt.StartTime, apt.EndTime, apt.ID); err != nil {
			return nil, fmt.Errorf("index appointment %s: %w", apt.ID, err)
		}
		idx.appointments[apt.ID] = apt
	}

	return idx, nil
}

// Conflicts проверяет пересекается ли [start, end) хотя бы с одной записью
func (c *ConflictIndex) Conflicts(start, end time.Time) bool {
	return len(c.Overlapping(start, end)) > 0
}

// Len возвращает количество проиндексированных записей
func (c *ConflictIndex) Len() int {
	return len(c.appointments)
}

// Overlapping возвращает ID записей, пересекающих [start, end)
// Дерево ищет по замкнутым интервалам, поэтому касание границ отсекается повторной проверкой
func (c *ConflictIndex) Overlapping(start, end time.Time) []uuid.UUID {
	ids, ok := c.tree.AllIntersections(start, end)
	if !ok {
		return nil
	}
	result := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if apt := c.appointments[id]; apt.Overlaps(start, end) {
			result = append(result, id)
		}
	}
	return result
}
