package domain

import "time"

// ScheduleSettings is the singleton scheduling configuration.
// Exactly one row exists; it is created lazily on first read and mutated
// only through the administrative update path.
type ScheduleSettings struct {
	ID                int64
	MaxConcurrent     int  // default capacity per time window, > 0
	BookingWindowDays int  // how far ahead bookings are allowed, > 0
	// PreventCompletionOnInsufficientStock re-checks inventory at
	// completion time and rejects when any requirement is unmet
	PreventCompletionOnInsufficientStock bool
	UpdatedAt                            time.Time
}

// Validate checks the admin-editable fields
func (s *ScheduleSettings) Validate() error {
	if s.MaxConcurrent < MinMaxConcurrent || s.MaxConcurrent > MaxMaxConcurrent {
		return ErrInvalidSettings
	}
	if s.BookingWindowDays < MinBookingWindowDays || s.BookingWindowDays > MaxBookingWindowDays {
		return ErrInvalidSettings
	}
	return nil
}
