package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// SlotCapacityOverride overrides the default concurrent-appointment capacity
// for one specific time window on one specific date, e.g. when a staff
// member is absent. At most one override exists per (date, start, end).
type SlotCapacityOverride struct {
	ID        int64
	Date      time.Time // date component only
	TimeStart types.TimeString
	TimeEnd   types.TimeString
	MaxSlots  int // > 0
	Reason    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the override window and capacity
func (o *SlotCapacityOverride) Validate() error {
	if err := o.TimeStart.Validate(); err != nil {
		return ErrInvalidTimeRange
	}
	if err := o.TimeEnd.Validate(); err != nil {
		return ErrInvalidTimeRange
	}
	if !o.TimeStart.IsBefore(o.TimeEnd) {
		return ErrInvalidTimeRange
	}
	if o.MaxSlots < MinMaxConcurrent || o.MaxSlots > MaxMaxConcurrent {
		return ErrInvalidSettings
	}
	return nil
}
