package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса доступных слотов
type Request struct {
	ServiceID int64     // ID услуги
	Date      time.Time // Дата (без времени)
}

// SlotInfo описывает один кандидатный слот
type SlotInfo struct {
	StartTime       types.TimeString `json:"start_time"`
	DurationMinutes int              `json:"duration_minutes"`
	IsAvailable     bool             `json:"is_available"`
	Reason          string           `json:"reason,omitempty"` // причина недоступности
}

// Response модель ответа со слотами на дату
type Response struct {
	Date  string     `json:"date"` // YYYY-MM-DD
	Slots []SlotInfo `json:"slots"`
}
