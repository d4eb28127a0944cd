package availability

import "errors"

// ErrInternal возвращается при внутренних ошибках резолвера
var ErrInternal = errors.New("availability: internal error")

// Причины недоступности, попадающие в Verdict.Reason
// Первая сработавшая проверка побеждает; вызывающему сообщается только она
const (
	ReasonPastTime          = "cannot book appointments in the past"
	ReasonWindowExceededFmt = "cannot book more than %d days in advance"
	ReasonBlockedFmt        = "time slot blocked: %s"
	ReasonBlocked           = "time slot is blocked"
	ReasonFullFmt           = "time slot full (max %d concurrent appointments)"
	ReasonInventoryFmt      = "insufficient inventory: %s"
)
