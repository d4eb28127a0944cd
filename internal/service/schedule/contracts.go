package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек расписания
type SettingsRepository interface {
	GetOrInit(ctx context.Context) (*domain.ScheduleSettings, error)
	Update(ctx context.Context, s *domain.ScheduleSettings) (*domain.ScheduleSettings, error)
}

// BlackoutRepository интерфейс репозитория диапазонов блокировки
type BlackoutRepository interface {
	Create(ctx context.Context, b *domain.BlackoutRange) (*domain.BlackoutRange, error)
	List(ctx context.Context) ([]*domain.BlackoutRange, error)
	Delete(ctx context.Context, id int64) error
}

// OverrideRepository интерфейс репозитория переопределений вместимости
type OverrideRepository interface {
	Create(ctx context.Context, o *domain.SlotCapacityOverride) (*domain.SlotCapacityOverride, error)
	ListByDate(ctx context.Context, date time.Time) ([]*domain.SlotCapacityOverride, error)
	Delete(ctx context.Context, id int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
