package model

import (
	"time"

	"github.com/google/uuid"
)

// DateOverride - доступность типа встречи на конкретную календарную дату
// Это единственный источник окон для записи, расписания "по умолчанию" нет
type DateOverride struct {
	EventTypeID uuid.UUID  `json:"event_type_id"`
	Date        string     `json:"date"` // YYYY-MM-DD, локальная дата
	Available   bool       `json:"available"`
	TimeSlots   []TimeSlot `json:"time_slots"`
	Origin      Origin     `json:"origin"`
}

// Validate проверяет ключ даты и все окна
func (o DateOverride) Validate() error {
	if _, err := ParseDateKey(o.Date, time.UTC); err != nil {
		return err
	}
	for _, slot := range o.TimeSlots {
		if err := slot.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// HasManualSlots проверяет есть ли в дате окна, добавленные вручную
func (o DateOverride) HasManualSlots() bool {
	for _, slot := range o.TimeSlots {
		if slot.Origin.IsManual() {
			return true
		}
	}
	return false
}
