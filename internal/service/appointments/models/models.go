package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrInvalidDateFilter возвращается при некорректном фильтре по дате
	ErrInvalidDateFilter = errors.New("invalid date filter")
)

// Фильтры по дате для staff-списка записей
const (
	DateFilterAll      = "all"
	DateFilterUpcoming = "upcoming"
	DateFilterPast     = "past"
	DateFilterToday    = "today"
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	Actor  domain.Actor `json:"-"`
	Reason string       `json:"reason"`
}

// UpdateStatusRequest запрос на обновление статуса записи
type UpdateStatusRequest struct {
	Actor  domain.Actor `json:"-"`
	Status string       `json:"status"`
}

// GetUserAppointmentsRequest запрос на получение записей пользователя
type GetUserAppointmentsRequest struct {
	Actor  domain.Actor `json:"-"`
	UserID int64        `json:"userId"`
	Status *string      `json:"status,omitempty"`
}

// ListAppointmentsRequest запрос staff-списка записей с фильтрацией
type ListAppointmentsRequest struct {
	Actor      domain.Actor `json:"-"`
	Status     *string      `json:"status,omitempty"`
	DateFilter string       `json:"dateFilter,omitempty"` // all | upcoming | past | today
}

// ToDomainFilter конвертирует запрос в domain фильтр
// now нужен для вычисления границ фильтров upcoming/past/today
func (r *ListAppointmentsRequest) ToDomainFilter(now time.Time) (domain.AppointmentsFilter, error) {
	var filter domain.AppointmentsFilter

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	switch r.DateFilter {
	case "", DateFilterAll:
		// Без ограничений по дате
	case DateFilterUpcoming:
		filter.From = &now
	case DateFilterPast:
		filter.To = &now
	case DateFilterToday:
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		dayEnd := dayStart.AddDate(0, 0, 1)
		filter.From = &dayStart
		filter.To = &dayEnd
	default:
		return filter, ErrInvalidDateFilter
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID           int64           `json:"id"`
	CustomerID   int64           `json:"customerId"`
	ServiceID    int64           `json:"serviceId"`
	StartAt      time.Time       `json:"startAt"`
	EndAt        time.Time       `json:"endAt"`
	Status       string          `json:"status"`
	PaymentState string          `json:"paymentState"`
	ServiceName  string          `json:"serviceName"`
	ServicePrice decimal.Decimal `json:"servicePrice"`
	Notes        *string         `json:"notes,omitempty"`

	CancelledAt        *string         `json:"cancelledAt,omitempty"` // ISO 8601
	CancelledBy        *int64          `json:"cancelledBy,omitempty"`
	CancellationReason *string         `json:"cancellationReason,omitempty"`
	RefundAmount       decimal.Decimal `json:"refundAmount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// CancelAppointmentResponse результат отмены записи
type CancelAppointmentResponse struct {
	AppointmentID    int64           `json:"appointmentId"`
	RefundPercentage int             `json:"refundPercentage"`
	RefundAmount     decimal.Decimal `json:"refundAmount"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		CustomerID:         a.CustomerID,
		ServiceID:          a.ServiceID,
		StartAt:            a.StartAt,
		EndAt:              a.EndAt,
		Status:             string(a.Status),
		PaymentState:       string(a.PaymentState),
		ServiceName:        a.ServiceName,
		ServicePrice:       a.ServicePrice,
		Notes:              a.Notes,
		CancelledBy:        a.CancelledBy,
		CancellationReason: a.CancellationReason,
		RefundAmount:       a.RefundAmount,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if apptResp := FromDomainAppointment(a); apptResp != nil {
			resp.Appointments = append(resp.Appointments, *apptResp)
		}
	}

	return resp
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)
	if !domain.IsValidStatus(s) {
		return "", ErrInvalidStatus
	}
	return s, nil
}
