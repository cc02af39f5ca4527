package model

import "github.com/google/uuid"

type OriginKind string

const (
	OriginManual    OriginKind = "manual"    // создано организатором вручную
	OriginGenerated OriginKind = "generated" // создано раскрытием регулярных правил
)

// Origin - происхождение даты или временного окна
// Для generated RuleIDs содержит все правила, породившие запись
// Ручное окно может одновременно совпадать с правилами, тогда Kind = manual и RuleIDs не пуст
type Origin struct {
	Kind    OriginKind  `json:"kind"`
	RuleIDs []uuid.UUID `json:"rule_ids,omitempty"`
}

// ManualOrigin возвращает происхождение "вручную"
func ManualOrigin() Origin {
	return Origin{Kind: OriginManual}
}

// GeneratedOrigin возвращает происхождение от правила
func GeneratedOrigin(ruleID uuid.UUID) Origin {
	return Origin{Kind: OriginGenerated, RuleIDs: []uuid.UUID{ruleID}}
}

func (o Origin) IsManual() bool {
	return o.Kind != OriginGenerated
}

// HasRule проверяет участвует ли правило в происхождении
func (o Origin) HasRule(ruleID uuid.UUID) bool {
	for _, id := range o.RuleIDs {
		if id == ruleID {
			return true
		}
	}
	return false
}

// WithRule возвращает копию с добавленным правилом (без дублей)
func (o Origin) WithRule(ruleID uuid.UUID) Origin {
	if o.HasRule(ruleID) {
		return o
	}
	ids := make([]uuid.UUID, 0, len(o.RuleIDs)+1)
	ids = append(ids, o.RuleIDs...)
	ids = append(ids, ruleID)
	return Origin{Kind: o.Kind, RuleIDs: ids}
}

// WithoutRule возвращает копию без указанного правила
func (o Origin) WithoutRule(ruleID uuid.UUID) Origin {
	ids := make([]uuid.UUID, 0, len(o.RuleIDs))
	for _, id := range o.RuleIDs {
		if id != ruleID {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		ids = nil
	}
	return Origin{Kind: o.Kind, RuleIDs: ids}
}

// TimeSlot - окно доступности внутри даты
type TimeSlot struct {
	DayOfWeek int    `json:"day_of_week"` // 0 = Sunday, 6 = Saturday; для даты информативно
	StartTime string `json:"start_time"`  // HH:MM
	EndTime   string `json:"end_time"`    // HH:MM
	Origin    Origin `json:"origin"`
}

// Validate проверяет формат и порядок времени окна
func (s TimeSlot) Validate() error {
	if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
		return NewValidationError("day_of_week", "must be within 0..6")
	}
	if _, err := ParseClock(s.StartTime); err != nil {
		return NewValidationError("start_time", err.Error())
	}
	if _, err := ParseClock(s.EndTime); err != nil {
		return NewValidationError("end_time", err.Error())
	}
	if s.StartTime >= s.EndTime {
		return NewValidationError("end_time", "must be after start_time")
	}
	return nil
}

// SameWindow сравнивает окна по паре начало/конец
func (s TimeSlot) SameWindow(other TimeSlot) bool {
	return s.StartTime == other.StartTime && s.EndTime == other.EndTime
}
