package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "pending"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusNoShow     AppointmentStatus = "no_show"
	StatusCancelled  AppointmentStatus = "cancelled"
)

// PaymentState represents the payment status of an appointment
type PaymentState string

const (
	PaymentUnpaid  PaymentState = "unpaid"
	PaymentPending PaymentState = "pending"
	PaymentPaid    PaymentState = "paid"
	PaymentFailed  PaymentState = "failed"
)

// allowedTransitions is the single source of truth for the appointment
// state machine. Terminal statuses have no outgoing transitions.
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:    {StatusConfirmed, StatusInProgress, StatusCancelled, StatusNoShow},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted:  {},
	StatusNoShow:     {},
	StatusCancelled:  {},
}

// IsValidStatus returns true if s is a known appointment status
func IsValidStatus(s AppointmentStatus) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransition returns true if the state machine permits moving from one
// status to another
func CanTransition(from, to AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Appointment represents a booked salon service occurrence
type Appointment struct {
	ID         int64
	CustomerID int64
	ServiceID  int64

	// EndAt is derived from the service duration once at creation time
	// and never recomputed afterwards
	StartAt time.Time
	EndAt   time.Time

	Status       AppointmentStatus
	PaymentState PaymentState

	// Denormalized data for history
	ServiceName  string
	ServicePrice decimal.Decimal

	Notes *string

	CancelledAt        *time.Time
	CancelledBy        *int64
	CancellationReason *string
	RefundAmount       decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if no further status transitions are permitted
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusNoShow || a.Status == StatusCancelled
}

// IsCounted returns true if the appointment occupies slot capacity
func (a *Appointment) IsCounted() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed || a.Status == StatusInProgress
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return CanTransition(a.Status, StatusCancelled)
}

// IsUpcoming returns true if the appointment starts in the future
func (a *Appointment) IsUpcoming(now time.Time) bool {
	return a.StartAt.After(now)
}

// IsPast returns true if the appointment has already ended
func (a *Appointment) IsPast(now time.Time) bool {
	return a.EndAt.Before(now)
}

// Overlaps returns true if the appointment window overlaps [start, end)
// using half-open interval semantics: touching boundaries do not overlap
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartAt.Before(end) && a.EndAt.After(start)
}

// AppointmentsFilter filters staff-facing appointment listings
type AppointmentsFilter struct {
	Status     *AppointmentStatus // optional status filter
	CustomerID *int64             // optional owner filter
	From       *time.Time         // StartAt >= From
	To         *time.Time         // StartAt < To
}
