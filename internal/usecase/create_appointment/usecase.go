package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
)

// UseCase use case для создания записи
type UseCase struct {
	apptRepo    AppointmentRepository
	catalogRepo CatalogRepository
	checker     AvailabilityChecker
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	apptRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	checker AvailabilityChecker,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:    apptRepo,
		catalogRepo: catalogRepo,
		checker:     checker,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute выполняет use case создания записи
// Проверка доступности и вставка идут в одной сериализуемой транзакции:
// два конкурентных создания на одно окно не могут оба пройти подсчет
// вместимости
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: customer=%d, service=%d, start=%s",
		req.CustomerID, req.ServiceID, req.StartAt.Format(time.RFC3339))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	service, err := uc.catalogRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsActive {
		uc.logger.Warn("CreateAppointment: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceInactive
	}

	var result *domain.Appointment

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		verdict, err := uc.checker.Check(txCtx, service, req.StartAt, nil)
		if err != nil {
			return fmt.Errorf("%w: availability check failed: %v", ErrInternal, err)
		}

		if !verdict.Available {
			return &SlotUnavailableError{Reason: verdict.Reason}
		}

		appt := &domain.Appointment{
			CustomerID:   req.CustomerID,
			ServiceID:    req.ServiceID,
			StartAt:      req.StartAt,
			EndAt:        req.StartAt.Add(service.Duration()),
			Status:       domain.StatusPending,
			PaymentState: domain.PaymentUnpaid,
			// Денормализуем название и цену: запись хранит условия
			// на момент бронирования, даже если услуга потом изменится
			ServiceName:  service.Name,
			ServicePrice: service.Price,
			Notes:        req.Notes,
		}

		created, err := uc.apptRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotUnavailable) {
			uc.logger.Warn("CreateAppointment: slot rejected: %v", err)
		}
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	return &Response{
		ID:           result.ID,
		CustomerID:   result.CustomerID,
		ServiceID:    result.ServiceID,
		StartAt:      result.StartAt,
		EndAt:        result.EndAt,
		Status:       string(result.Status),
		PaymentState: string(result.PaymentState),
		ServiceName:  result.ServiceName,
		ServicePrice: result.ServicePrice,
		Notes:        result.Notes,
		CreatedAt:    result.CreatedAt,
		UpdatedAt:    result.UpdatedAt,
	}, nil
}
