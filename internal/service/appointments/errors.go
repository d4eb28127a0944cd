package appointments

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	// Детали перехода несет InvalidTransitionError
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInsufficientStock возвращается, когда завершению записи не хватает
	// остатков инвентаря; список позиций несет InsufficientStockError
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrStatusRequiresComplete возвращается при попытке выставить статус
	// completed через общий UpdateStatus (нужно использовать Complete)
	ErrStatusRequiresComplete = errors.New("completed status must go through Complete")

	// ErrStatusRequiresCancel возвращается при попытке выставить статус
	// cancelled через общий UpdateStatus (нужно использовать Cancel)
	ErrStatusRequiresCancel = errors.New("cancelled status must go through Cancel")

	// ErrInvalidStatus возвращается при неизвестном значении статуса
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments service: internal error")
)

// InvalidTransitionError недопустимый переход машины состояний
// Разворачивается в ErrInvalidTransition для errors.Is
type InvalidTransitionError struct {
	From domain.AppointmentStatus
	To   domain.AppointmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// InsufficientStockError нехватка инвентаря при завершении записи
// Items содержит имена всех дефицитных позиций
// Разворачивается в ErrInsufficientStock для errors.Is
type InsufficientStockError struct {
	Items []string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for: %s", strings.Join(e.Items, ", "))
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
