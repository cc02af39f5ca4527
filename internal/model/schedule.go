package model

import "github.com/google/uuid"

// Schedule - правила и даты одного типа встречи, изменяемые как единое целое
type Schedule struct {
	EventTypeID uuid.UUID
	Rules       []RecurringRule
	Overrides   []DateOverride
}

// Rule возвращает правило по ID или nil
func (s *Schedule) Rule(id uuid.UUID) *RecurringRule {
	for i := range s.Rules {
		if s.Rules[i].ID == id {
			return &s.Rules[i]
		}
	}
	return nil
}

// WithoutRule возвращает правила без указанного
func (s *Schedule) WithoutRule(id uuid.UUID) []RecurringRule {
	rules := make([]RecurringRule, 0, len(s.Rules))
	for _, r := range s.Rules {
		if r.ID != id {
			rules = append(rules, r)
		}
	}
	return rules
}
