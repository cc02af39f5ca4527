package callbacktypes

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/google/uuid"
)

// Telegram ограничивает callback_data 64 байтами
const MaxDataLength = 64

// Префиксы callback data
const (
	PrefixEventType = "et"     // et:<event_type_id>
	PrefixMonth     = "month"  // month:<event_type_id>:<YYYY-MM>
	PrefixDay       = "day"    // day:<event_type_id>:<YYYY-MM-DD>
	PrefixSlot      = "slot"   // slot:<event_type_id>:<unix>
	PrefixCancel    = "cancel" // cancel:<appointment_id>

	BackToEventTypes = "back_to_event_types"
	Noop             = "noop"
)

var ErrInvalidData = errors.New("invalid callback data")

// Data - разобранная callback data
type Data struct {
	Prefix string
	ID     uuid.UUID
	Value  string
}

func EventTypeData(id uuid.UUID) string {
	return PrefixEventType + ":" + id.String()
}

func MonthData(eventTypeID uuid.UUID, month string) string {
	return PrefixMonth + ":" + eventTypeID.String() + ":" + month
}

func DayData(eventTypeID uuid.UUID, date string) string {
	return PrefixDay + ":" + eventTypeID.String() + ":" + date
}

func SlotData(eventTypeID uuid.UUID, start time.Time) string {
	return PrefixSlot + ":" + eventTypeID.String() + ":" + strconv.FormatInt(start.Unix(), 10)
}

func CancelData(appointmentID uuid.UUID) string {
	return PrefixCancel + ":" + appointmentID.String()
}

// Parse разбирает callback data вида prefix:uuid[:value]
func Parse(data string) (Data, error) {
	parts := strings.SplitN(data, ":", 3)
	if len(parts) < 2 {
		return Data{}, fmt.Errorf("%w: %q", ErrInvalidData, data)
	}

	id, err := uuid.Parse(parts[1])
	if err != nil {
		return Data{}, fmt.Errorf("%w: %q", ErrInvalidData, data)
	}

	parsed := Data{Prefix: parts[0], ID: id}
	if len(parts) == 3 {
		parsed.Value = parts[2]
	}

	switch parsed.Prefix {
	case PrefixEventType, PrefixCancel:
		if parsed.Value != "" {
			return Data{}, fmt.Errorf("%w: %q", ErrInvalidData, data)
		}
	case PrefixMonth, PrefixDay, PrefixSlot:
		if parsed.Value == "" {
			return Data{}, fmt.Errorf("%w: %q", ErrInvalidData, data)
		}
	default:
		return Data{}, fmt.Errorf("%w: unknown prefix %q", ErrInvalidData, parsed.Prefix)
	}

	return parsed, nil
}

// SlotStart возвращает начало слота из slot:<id>:<unix> в зоне loc
func (d Data) SlotStart(loc *time.Location) (time.Time, error) {
	unix, err := strconv.ParseInt(d.Value, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: slot %q", ErrInvalidData, d.Value)
	}
	return time.Unix(unix, 0).In(loc), nil
}

// Date проверяет значение day:<id>:<YYYY-MM-DD>
func (d Data) Date(loc *time.Location) (time.Time, error) {
	t, err := model.ParseDateKey(d.Value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidData, d.Value)
	}
	return t, nil
}

// Month проверяет значение month:<id>:<YYYY-MM>
func (d Data) Month(loc *time.Location) (time.Time, error) {
	first, _, err := model.ParseMonth(d.Value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: month %q", ErrInvalidData, d.Value)
	}
	return first, nil
}
