package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// SettingsRepository интерфейс репозитория настроек расписания
type SettingsRepository interface {
	GetOrInit(ctx context.Context) (*domain.ScheduleSettings, error)
}

// BlackoutRepository интерфейс репозитория диапазонов блокировки
type BlackoutRepository interface {
	FindFirstOverlapping(ctx context.Context, start, end time.Time) (*domain.BlackoutRange, error)
}

// OverrideRepository интерфейс репозитория переопределений вместимости
type OverrideRepository interface {
	GetByWindow(ctx context.Context, date time.Time, timeStart, timeEnd types.TimeString) (*domain.SlotCapacityOverride, error)
}

// AppointmentRepository интерфейс репозитория записей (подсчет занятости)
type AppointmentRepository interface {
	CountOverlapping(ctx context.Context, start, end time.Time, excludeID *int64) (int, error)
	LockOverlapping(ctx context.Context, start, end time.Time) error
}

// InventoryRepository интерфейс репозитория остатков
type InventoryRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
