package domain

import "errors"

// Default schedule settings, used when the singleton row is first created
const (
	DefaultMaxConcurrent     = 3
	DefaultBookingWindowDays = 30
)

// Business validation constants
const (
	MinMaxConcurrent     = 1
	MaxMaxConcurrent     = 100
	MinBookingWindowDays = 1
	MaxBookingWindowDays = 365

	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxBlackoutReasonLength     = 255
)

// Slot enumeration defaults: business day and candidate spacing
const (
	BusinessDayStart    = "09:00"
	BusinessDayEnd      = "18:00"
	SlotIntervalMinutes = 30
)

// Refund policy tiers. Strictly more than FullRefundCutoffHours before
// the appointment start refunds 100%, strictly more than
// HalfRefundCutoffHours refunds 50%, anything else refunds nothing.
const (
	FullRefundCutoffHours = 48
	HalfRefundCutoffHours = 24
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

var (
	// ErrInvalidTimeRange возвращается при некорректном временном диапазоне
	ErrInvalidTimeRange = errors.New("domain: invalid time range")

	// ErrInvalidSettings возвращается при выходе настроек за допустимые границы
	ErrInvalidSettings = errors.New("domain: settings out of allowed bounds")
)

// CountedStatuses список статусов, занимающих вместимость слота
var CountedStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}

// TerminalStatuses список терминальных статусов (переходы из них запрещены)
var TerminalStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusNoShow,
	StatusCancelled,
}
