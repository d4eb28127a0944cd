package create_appointment

import (
	"errors"
	"fmt"
)

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrServiceInactive возвращается, когда услуга выведена из каталога
	ErrServiceInactive = errors.New("create_appointment: service is not active")

	// ErrSlotUnavailable возвращается, когда слот не прошел проверку доступности
	ErrSlotUnavailable = errors.New("create_appointment: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)

// SlotUnavailableError несет причину отказа, сформулированную резолвером
// доступности; сопоставляется и через errors.Is(err, ErrSlotUnavailable),
// и через errors.As
type SlotUnavailableError struct {
	Reason string
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("%v: %s", ErrSlotUnavailable, e.Reason)
}

func (e *SlotUnavailableError) Unwrap() error {
	return ErrSlotUnavailable
}
