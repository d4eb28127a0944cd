package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UpdateSettingsRequest запрос на обновление настроек расписания
type UpdateSettingsRequest struct {
	Actor                                domain.Actor
	MaxConcurrent                        int  `json:"max_concurrent"`
	BookingWindowDays                    int  `json:"booking_window_days"`
	PreventCompletionOnInsufficientStock bool `json:"prevent_completion_on_insufficient_stock"`
}

// SettingsResponse настройки расписания в API-ответе
type SettingsResponse struct {
	MaxConcurrent                        int       `json:"max_concurrent"`
	BookingWindowDays                    int       `json:"booking_window_days"`
	PreventCompletionOnInsufficientStock bool      `json:"prevent_completion_on_insufficient_stock"`
	UpdatedAt                            time.Time `json:"updated_at"`
}

// CreateBlackoutRequest запрос на создание диапазона блокировки
type CreateBlackoutRequest struct {
	Actor   domain.Actor
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
	Reason  string    `json:"reason"`
}

// BlackoutResponse диапазон блокировки в API-ответе
type BlackoutResponse struct {
	ID      int64     `json:"id"`
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
	Reason  string    `json:"reason"`
}

// BlackoutListResponse список диапазонов блокировки
type BlackoutListResponse struct {
	Blackouts []BlackoutResponse `json:"blackouts"`
}

// CreateOverrideRequest запрос на переопределение вместимости окна
type CreateOverrideRequest struct {
	Actor     domain.Actor
	Date      string `json:"date"`       // YYYY-MM-DD
	TimeStart string `json:"time_start"` // HH:MM
	TimeEnd   string `json:"time_end"`   // HH:MM
	MaxSlots  int    `json:"max_slots"`
	Reason    string `json:"reason"`
}

// OverrideResponse переопределение вместимости в API-ответе
type OverrideResponse struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	TimeStart string `json:"time_start"`
	TimeEnd   string `json:"time_end"`
	MaxSlots  int    `json:"max_slots"`
	Reason    string `json:"reason"`
}

// OverrideListResponse список переопределений на дату
type OverrideListResponse struct {
	Overrides []OverrideResponse `json:"overrides"`
}

// FromDomainSettings конвертирует доменные настройки в API-ответ
func FromDomainSettings(s *domain.ScheduleSettings) *SettingsResponse {
	return &SettingsResponse{
		MaxConcurrent:                        s.MaxConcurrent,
		BookingWindowDays:                    s.BookingWindowDays,
		PreventCompletionOnInsufficientStock: s.PreventCompletionOnInsufficientStock,
		UpdatedAt:                            s.UpdatedAt,
	}
}

// FromDomainBlackout конвертирует доменный диапазон блокировки в API-ответ
func FromDomainBlackout(b *domain.BlackoutRange) *BlackoutResponse {
	return &BlackoutResponse{
		ID:      b.ID,
		StartAt: b.StartAt,
		EndAt:   b.EndAt,
		Reason:  b.Reason,
	}
}

// FromDomainBlackoutList конвертирует список диапазонов блокировки
func FromDomainBlackoutList(ranges []*domain.BlackoutRange) *BlackoutListResponse {
	out := make([]BlackoutResponse, 0, len(ranges))
	for _, b := range ranges {
		out = append(out, *FromDomainBlackout(b))
	}
	return &BlackoutListResponse{Blackouts: out}
}

// FromDomainOverride конвертирует доменное переопределение в API-ответ
func FromDomainOverride(o *domain.SlotCapacityOverride) *OverrideResponse {
	return &OverrideResponse{
		ID:        o.ID,
		Date:      o.Date.Format(domain.DateFormat),
		TimeStart: o.TimeStart.String(),
		TimeEnd:   o.TimeEnd.String(),
		MaxSlots:  o.MaxSlots,
		Reason:    o.Reason,
	}
}

// FromDomainOverrideList конвертирует список переопределений
func FromDomainOverrideList(overrides []*domain.SlotCapacityOverride) *OverrideListResponse {
	out := make([]OverrideResponse, 0, len(overrides))
	for _, o := range overrides {
		out = append(out, *FromDomainOverride(o))
	}
	return &OverrideListResponse{Overrides: out}
}

// ToDomainOverride конвертирует запрос в доменную модель
func (r *CreateOverrideRequest) ToDomainOverride() (*domain.SlotCapacityOverride, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	timeStart, err := types.NewTimeStringFromString(r.TimeStart)
	if err != nil {
		return nil, err
	}

	timeEnd, err := types.NewTimeStringFromString(r.TimeEnd)
	if err != nil {
		return nil, err
	}

	return &domain.SlotCapacityOverride{
		Date:      date,
		TimeStart: timeStart,
		TimeEnd:   timeEnd,
		MaxSlots:  r.MaxSlots,
		Reason:    r.Reason,
	}, nil
}
