package domain

import "github.com/m04kA/SMC-AppointmentService/pkg/types"

// Slot describes one candidate booking window for presentation
type Slot struct {
	StartTime       types.TimeString
	DurationMinutes int
	IsAvailable     bool
	Reason          string // empty when available
}

// Actor is the authenticated caller acting on an appointment
type Actor struct {
	ID   int64
	Role Role
}

// Role of the authenticated caller
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// IsStaff returns true for staff and admin actors
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff || a.Role == RoleAdmin
}

// CanActOn returns true if the actor may mutate the given appointment.
// Customers own their appointments; staff and admin may act on any.
func (a Actor) CanActOn(appt *Appointment) bool {
	return a.IsStaff() || appt.CustomerID == a.ID
}
