package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	paymentClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/paymentservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис жизненного цикла записей: отмена с расчетом возврата,
// завершение со списанием инвентаря, смена статуса по таблице переходов
type Service struct {
	apptRepo      AppointmentRepository
	settingsRepo  SettingsRepository
	catalogRepo   CatalogRepository
	inventoryRepo InventoryRepository
	paymentClient PaymentServiceClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	apptRepo AppointmentRepository,
	settingsRepo SettingsRepository,
	catalogRepo CatalogRepository,
	inventoryRepo InventoryRepository,
	paymentClient PaymentServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		apptRepo:      apptRepo,
		settingsRepo:  settingsRepo,
		catalogRepo:   catalogRepo,
		inventoryRepo: inventoryRepo,
		paymentClient: paymentClient,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// WithTimeProvider подменяет источник времени (используется в тестах)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает запись по ID
// Клиент видит только свои записи; staff и admin видят любые
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.AppointmentResponse, error) {
	appt, err := s.getAppointment(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	if !actor.CanActOn(appt) {
		s.logger.Warn("GetByID: access denied for actor=%d to appointment id=%d", actor.ID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appt), nil
}

// GetUserAppointments получает историю записей пользователя
// Опционально фильтрует по статусу; чужую историю видят только staff/admin
func (s *Service) GetUserAppointments(ctx context.Context, req *models.GetUserAppointmentsRequest) (*models.AppointmentListResponse, error) {
	if req.UserID != req.Actor.ID && !req.Actor.IsStaff() {
		s.logger.Warn("GetUserAppointments: access denied for actor=%d to user=%d", req.Actor.ID, req.UserID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserAppointments: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appointments, err := s.apptRepo.GetByCustomerID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserAppointments: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserAppointments: fetched %d appointments for user=%d", len(appointments), req.UserID)
	return models.FromDomainAppointmentList(appointments), nil
}

// ListAppointments получает все записи с фильтрацией (только staff/admin)
func (s *Service) ListAppointments(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	if !req.Actor.IsStaff() {
		s.logger.Warn("ListAppointments: access denied for actor=%d", req.Actor.ID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter(s.timeProvider.Now())
	if err != nil {
		s.logger.Warn("ListAppointments: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.apptRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListAppointments: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListAppointments: fetched %d appointments", len(appointments))
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись с расчетом возврата по временной шкале
// Клиент отменяет только свою запись; staff и admin любую
// Расчет возврата и смена статуса применяются атомарно: статус, отметки
// отмены и сумма возврата пишутся одним UPDATE внутри транзакции
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelAppointmentRequest) (*models.CancelAppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d by actor=%d", id, req.Actor.ID)

	appt, err := s.getAppointment(ctx, id, "Cancel")
	if err != nil {
		return nil, err
	}

	if !req.Actor.CanActOn(appt) {
		s.logger.Warn("Cancel: access denied for actor=%d to appointment id=%d", req.Actor.ID, id)
		return nil, ErrAccessDenied
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appt.Status)
		return nil, &InvalidTransitionError{From: appt.Status, To: domain.StatusCancelled}
	}

	// Оплаченная сумма; если оплаченного платежа нет, возврат не положен
	paid, err := s.paymentClient.GetPaidAmount(ctx, id)
	if err != nil {
		if errors.Is(err, paymentClient.ErrNoPaidPayment) {
			paid = decimal.Zero
		} else {
			s.logger.Error("Cancel: failed to get paid amount for appointment id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: Cancel - failed to get paid amount: %v", ErrInternal, err)
		}
	}

	now := s.timeProvider.Now()
	percentage := refundPercentage(now, appt.StartAt)
	refund := refundAmount(paid, percentage)

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Перечитываем запись с блокировкой: конкурентная отмена той же
		// записи не должна привести к двойному возврату
		current, err := s.apptRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if !current.CanBeCancelled() {
			return &InvalidTransitionError{From: current.Status, To: domain.StatusCancelled}
		}

		return s.apptRepo.Cancel(txCtx, id, req.Actor.ID, req.Reason, refund, now)
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: appointment id=%d cancelled, refund %d%% = %s", id, percentage, refund)

	return &models.CancelAppointmentResponse{
		AppointmentID:    id,
		RefundPercentage: percentage,
		RefundAmount:     refund,
	}, nil
}

// Complete завершает запись (только из статуса in_progress, только staff/admin)
// При включенном preventCompletionOnInsufficientStock остатки перепроверяются
// заново: проверка на этапе бронирования была ориентировочной
// Проверка и списание выполняются в одной сериализуемой транзакции с
// блокировкой строк инвентаря: конкурентные завершения, претендующие на
// одну позицию, не могут совместно увести остаток в минус
func (s *Service) Complete(ctx context.Context, id int64, actor domain.Actor) (*models.AppointmentResponse, error) {
	s.logger.Info("Complete: completing appointment id=%d by actor=%d", id, actor.ID)

	if !actor.IsStaff() {
		s.logger.Warn("Complete: access denied for actor=%d", actor.ID)
		return nil, ErrAccessDenied
	}

	settings, err := s.settingsRepo.GetOrInit(ctx)
	if err != nil {
		s.logger.Error("Complete: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: Complete - failed to get settings: %v", ErrInternal, err)
	}

	var result *domain.Appointment

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appt, err := s.apptRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
		}

		if appt.Status != domain.StatusInProgress {
			return &InvalidTransitionError{From: appt.Status, To: domain.StatusCompleted}
		}

		service, err := s.catalogRepo.GetByID(txCtx, appt.ServiceID)
		if err != nil {
			return fmt.Errorf("%w: Complete - failed to get service id=%d: %v", ErrInternal, appt.ServiceID, err)
		}

		// Перепроверка остатков с блокировкой строк; собираем ВСЕ
		// дефицитные позиции, а не только первую
		if settings.PreventCompletionOnInsufficientStock {
			insufficient := make([]string, 0)
			for _, req := range service.Requirements {
				item, err := s.inventoryRepo.GetByID(txCtx, req.ItemID)
				if err != nil {
					return fmt.Errorf("%w: Complete - failed to get item id=%d: %v", ErrInternal, req.ItemID, err)
				}
				if item.Stock.LessThan(req.QtyPerService) {
					insufficient = append(insufficient, item.Name)
				}
			}
			if len(insufficient) > 0 {
				return &InsufficientStockError{Items: insufficient}
			}
		}

		// Списание с проверкой нижней границы на уровне UPDATE
		for _, req := range service.Requirements {
			if err := s.inventoryRepo.DeductStock(txCtx, req.ItemID, req.QtyPerService); err != nil {
				return fmt.Errorf("%w: Complete - failed to deduct stock for item id=%d: %v", ErrInternal, req.ItemID, err)
			}
		}

		if err := s.apptRepo.UpdateStatus(txCtx, id, domain.StatusCompleted); err != nil {
			return fmt.Errorf("%w: Complete - failed to update status: %v", ErrInternal, err)
		}

		appt.Status = domain.StatusCompleted
		result = appt
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Complete: appointment id=%d completed, inventory deducted", id)
	return models.FromDomainAppointment(result), nil
}

// UpdateStatus выполняет общий переход статуса (только staff/admin)
// Статусы completed и cancelled через этот путь запрещены: они проходят
// через Complete и Cancel со своими побочными эффектами
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by actor=%d", id, req.Status, req.Actor.ID)

	if !req.Actor.IsStaff() {
		s.logger.Warn("UpdateStatus: access denied for actor=%d", req.Actor.ID)
		return nil, ErrAccessDenied
	}

	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return nil, ErrInvalidStatus
	}

	switch newStatus {
	case domain.StatusCompleted:
		return nil, ErrStatusRequiresComplete
	case domain.StatusCancelled:
		return nil, ErrStatusRequiresCancel
	}

	var result *domain.Appointment

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := s.apptRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		if !domain.CanTransition(appt.Status, newStatus) {
			return &InvalidTransitionError{From: appt.Status, To: newStatus}
		}

		if err := s.apptRepo.UpdateStatus(txCtx, id, newStatus); err != nil {
			return fmt.Errorf("%w: UpdateStatus - failed to update status: %v", ErrInternal, err)
		}

		appt.Status = newStatus
		result = appt
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: appointment id=%d updated to status=%s", id, newStatus)
	return models.FromDomainAppointment(result), nil
}

// getAppointment получает запись с маппингом ошибки "не найдено"
func (s *Service) getAppointment(ctx context.Context, id int64, op string) (*domain.Appointment, error) {
	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
}
