package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
)

// UseCase use case получения доступных слотов на дату
type UseCase struct {
	catalogRepo CatalogRepository
	checker     AvailabilityChecker
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(catalogRepo CatalogRepository, checker AvailabilityChecker, logger Logger) *UseCase {
	return &UseCase{
		catalogRepo: catalogRepo,
		checker:     checker,
		logger:      logger,
	}
}

// Execute перечисляет слоты рабочего дня и прогоняет каждый через
// резолвер доступности
// Результат носит справочный характер: между просмотром и созданием
// записи слот может занять другой клиент, окончательная проверка
// выполняется в транзакции создания
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	service, err := uc.catalogRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	starts, err := enumerateSlotStarts(service.DurationMinutes)
	if err != nil {
		return nil, err
	}

	slots := make([]SlotInfo, 0, len(starts))

	for _, start := range starts {
		startAt, err := slotStartAt(req.Date, start)
		if err != nil {
			return nil, err
		}

		verdict, err := uc.checker.Check(ctx, service, startAt, nil)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: check failed for slot %s: %v", start, err)
			return nil, fmt.Errorf("%w: availability check failed: %v", ErrInternal, err)
		}

		slots = append(slots, SlotInfo{
			StartTime:       start,
			DurationMinutes: service.DurationMinutes,
			IsAvailable:     verdict.Available,
			Reason:          verdict.Reason,
		})
	}

	uc.logger.Info("GetAvailableSlots: service=%d date=%s, %d slots enumerated",
		req.ServiceID, req.Date.Format(domain.DateFormat), len(slots))

	return &Response{
		Date:  req.Date.Format(domain.DateFormat),
		Slots: slots,
	}, nil
}
