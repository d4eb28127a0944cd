package paymentservice

import "github.com/shopspring/decimal"

// PaidAmount сумма оплаченных платежей по записи из PaymentService
type PaidAmount struct {
	AppointmentID int64           `json:"appointment_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
}

// ErrorResponse модель ошибки от PaymentService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
