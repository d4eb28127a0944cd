package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Verdict результат проверки доступности слота
type Verdict struct {
	Available bool
	Reason    string // пустая строка, когда слот доступен
}

// Resolver проверяет, можно ли записаться на услугу в заданное время
// Проверки выполняются в фиксированном порядке с остановкой на первой
// неудаче: дешевые детерминированные проверки (время, окно бронирования)
// идут раньше обращений к БД (блокировки, вместимость, инвентарь)
type Resolver struct {
	settingsRepo  SettingsRepository
	blackoutRepo  BlackoutRepository
	overrideRepo  OverrideRepository
	apptRepo      AppointmentRepository
	inventoryRepo InventoryRepository
	timeProvider  TimeProvider
	logger        Logger
}

// NewResolver создает новый резолвер доступности
func NewResolver(
	settingsRepo SettingsRepository,
	blackoutRepo BlackoutRepository,
	overrideRepo OverrideRepository,
	apptRepo AppointmentRepository,
	inventoryRepo InventoryRepository,
	logger Logger,
) *Resolver {
	return &Resolver{
		settingsRepo:  settingsRepo,
		blackoutRepo:  blackoutRepo,
		overrideRepo:  overrideRepo,
		apptRepo:      apptRepo,
		inventoryRepo: inventoryRepo,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// WithTimeProvider подменяет источник времени (используется в тестах)
func (r *Resolver) WithTimeProvider(tp TimeProvider) *Resolver {
	r.timeProvider = tp
	return r
}

// Check проверяет доступность слота [startAt, startAt+duration) для услуги
// endAt всегда вычисляется из длительности услуги и не является входом
// excludeID исключает одну запись из подсчета вместимости (перепроверка
// при редактировании)
//
// Проверка инвентаря на этом этапе ориентировочная: остаток может
// измениться между бронированием и фактическим визитом, поэтому при
// завершении записи он перепроверяется заново
func (r *Resolver) Check(ctx context.Context, service *domain.Service, startAt time.Time, excludeID *int64) (Verdict, error) {
	endAt := startAt.Add(service.Duration())
	now := r.timeProvider.Now()

	// 1. Время не в прошлом
	if startAt.Before(now) {
		return unavailable(ReasonPastTime), nil
	}

	settings, err := r.settingsRepo.GetOrInit(ctx)
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	// 2. Внутри окна бронирования
	maxFuture := now.AddDate(0, 0, settings.BookingWindowDays)
	if startAt.After(maxFuture) {
		return unavailable(fmt.Sprintf(ReasonWindowExceededFmt, settings.BookingWindowDays)), nil
	}

	// 3. Не попадает в диапазон блокировки
	blocked, err := r.blackoutRepo.FindFirstOverlapping(ctx, startAt, endAt)
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: failed to check blackout ranges: %v", ErrInternal, err)
	}
	if blocked != nil {
		if blocked.Reason != "" {
			return unavailable(fmt.Sprintf(ReasonBlockedFmt, blocked.Reason)), nil
		}
		return unavailable(ReasonBlocked), nil
	}

	// 4. Вместимость окна не исчерпана
	// Внутри транзакции создания сначала блокируем пересекающиеся записи,
	// чтобы конкурентные создания на одно окно не прошли подсчет одновременно
	if dbmetrics.IsInTransaction(ctx) {
		if err := r.apptRepo.LockOverlapping(ctx, startAt, endAt); err != nil {
			return Verdict{}, fmt.Errorf("%w: failed to lock overlapping appointments: %v", ErrInternal, err)
		}
	}

	capacity, err := r.effectiveCapacity(ctx, settings, startAt, endAt)
	if err != nil {
		return Verdict{}, err
	}

	count, err := r.apptRepo.CountOverlapping(ctx, startAt, endAt, excludeID)
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: failed to count overlapping appointments: %v", ErrInternal, err)
	}

	if count >= capacity {
		r.logger.Info("Check: slot %s full, %d/%d spots taken", startAt.Format(time.RFC3339), count, capacity)
		return unavailable(fmt.Sprintf(ReasonFullFmt, capacity)), nil
	}

	// 5. Инвентаря хватает на одно выполнение услуги
	for _, req := range service.Requirements {
		item, err := r.inventoryRepo.GetByID(ctx, req.ItemID)
		if err != nil {
			return Verdict{}, fmt.Errorf("%w: failed to get item id=%d: %v", ErrInternal, req.ItemID, err)
		}
		if item.Stock.LessThan(req.QtyPerService) {
			return unavailable(fmt.Sprintf(ReasonInventoryFmt, item.Name)), nil
		}
	}

	return Verdict{Available: true}, nil
}

// EffectiveCapacity возвращает действующую вместимость окна [startAt, endAt):
// точечное переопределение на тройку (дата, начало, конец), если оно есть,
// иначе глобальный максимум из настроек
func (r *Resolver) EffectiveCapacity(ctx context.Context, startAt, endAt time.Time) (int, error) {
	settings, err := r.settingsRepo.GetOrInit(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}
	return r.effectiveCapacity(ctx, settings, startAt, endAt)
}

func (r *Resolver) effectiveCapacity(ctx context.Context, settings *domain.ScheduleSettings, startAt, endAt time.Time) (int, error) {
	date := time.Date(startAt.Year(), startAt.Month(), startAt.Day(), 0, 0, 0, 0, startAt.Location())

	override, err := r.overrideRepo.GetByWindow(ctx, date, types.NewTimeString(startAt), types.NewTimeString(endAt))
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get capacity override: %v", ErrInternal, err)
	}

	if override != nil {
		return override.MaxSlots, nil
	}

	return settings.MaxConcurrent, nil
}

func unavailable(reason string) Verdict {
	return Verdict{Available: false, Reason: reason}
}
