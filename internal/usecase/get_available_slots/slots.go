package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// enumerateSlotStarts перечисляет кандидатные времена начала внутри
// рабочего дня с фиксированным шагом
// Слот попадает в список, только если услуга целиком умещается до конца
// рабочего дня
func enumerateSlotStarts(durationMinutes int) ([]types.TimeString, error) {
	dayEnd := types.TimeString(domain.BusinessDayEnd)

	starts := make([]types.TimeString, 0)
	current := types.TimeString(domain.BusinessDayStart)

	for {
		slotEnd, err := current.AddMinutes(durationMinutes)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to compute slot end: %v", ErrInternal, err)
		}

		if slotEnd.IsAfter(dayEnd) {
			break
		}

		starts = append(starts, current)

		next, err := current.AddMinutes(domain.SlotIntervalMinutes)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to advance slot: %v", ErrInternal, err)
		}
		current = next
	}

	return starts, nil
}

// slotStartAt собирает момент времени из даты и времени начала слота
func slotStartAt(date time.Time, start types.TimeString) (time.Time, error) {
	t, err := time.Parse(domain.TimeFormat, start.String())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid slot time %s: %v", ErrInternal, start, err)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}
