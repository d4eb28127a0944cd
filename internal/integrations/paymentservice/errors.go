package paymentservice

import "errors"

var (
	// ErrNoPaidPayment возвращается, когда по записи нет оплаченного платежа
	ErrNoPaidPayment = errors.New("paymentservice client: no paid payment for appointment")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paymentservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("paymentservice client: invalid response")
)
