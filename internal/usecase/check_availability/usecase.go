package check_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
)

// Request модель запроса проверки доступности
type Request struct {
	ServiceID int64     // ID услуги
	StartAt   time.Time // Время начала предполагаемой записи
}

// Response результат проверки
type Response struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"` // причина отказа, когда слот недоступен
}

// UseCase use case предварительной проверки доступности слота
// Отвечает без блокировок и транзакций; результат носит справочный
// характер и окончательно перепроверяется при создании записи
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

// Execute выполняет проверку доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	if req.StartAt.IsZero() {
		return nil, fmt.Errorf("%w: startAt is required", ErrInvalidInput)
	}

	service, err := uc.catalogRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CheckAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CheckAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	verdict, err := uc.checker.Check(ctx, service, req.StartAt, nil)
	if err != nil {
		uc.logger.Error("CheckAvailability: check failed for service=%d start=%s: %v",
			req.ServiceID, req.StartAt.Format(time.RFC3339), err)
		return nil, fmt.Errorf("%w: availability check failed: %v", ErrInternal, err)
	}

	return &Response{Available: verdict.Available, Reason: verdict.Reason}, nil
}
