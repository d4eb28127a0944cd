package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	blackoutRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/blackout"
	overrideRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/capacityoverride"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

// Service административный сервис расписания: настройки, блокировки,
// переопределения вместимости. Все мутации доступны только staff/admin
type Service struct {
	settingsRepo SettingsRepository
	blackoutRepo BlackoutRepository
	overrideRepo OverrideRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	settingsRepo SettingsRepository,
	blackoutRepo BlackoutRepository,
	overrideRepo OverrideRepository,
	logger Logger,
) *Service {
	return &Service{
		settingsRepo: settingsRepo,
		blackoutRepo: blackoutRepo,
		overrideRepo: overrideRepo,
		logger:       logger,
	}
}

// GetSettings возвращает текущие настройки расписания
func (s *Service) GetSettings(ctx context.Context, actor domain.Actor) (*models.SettingsResponse, error) {
	if !actor.IsStaff() {
		s.logger.Warn("GetSettings: access denied for actor=%d", actor.ID)
		return nil, ErrAccessDenied
	}

	settings, err := s.settingsRepo.GetOrInit(ctx)
	if err != nil {
		s.logger.Error("GetSettings: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetSettings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSettings(settings), nil
}

// UpdateSettings обновляет настройки расписания
func (s *Service) UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	if !req.Actor.IsStaff() {
		s.logger.Warn("UpdateSettings: access denied for actor=%d", req.Actor.ID)
		return nil, ErrAccessDenied
	}

	settings := &domain.ScheduleSettings{
		MaxConcurrent:                        req.MaxConcurrent,
		BookingWindowDays:                    req.BookingWindowDays,
		PreventCompletionOnInsufficientStock: req.PreventCompletionOnInsufficientStock,
	}

	if err := settings.Validate(); err != nil {
		s.logger.Warn("UpdateSettings: invalid settings from actor=%d: %v", req.Actor.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Дефолтная строка должна существовать до UPDATE
	if _, err := s.settingsRepo.GetOrInit(ctx); err != nil {
		s.logger.Error("UpdateSettings: failed to init settings: %v", err)
		return nil, fmt.Errorf("%w: UpdateSettings - failed to init settings: %v", ErrInternal, err)
	}

	updated, err := s.settingsRepo.Update(ctx, settings)
	if err != nil {
		s.logger.Error("UpdateSettings: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSettings: settings updated by actor=%d, max_concurrent=%d, window_days=%d",
		req.Actor.ID, updated.MaxConcurrent, updated.BookingWindowDays)

	return models.FromDomainSettings(updated), nil
}

// CreateBlackout создает диапазон блокировки бронирования
func (s *Service) CreateBlackout(ctx context.Context, req *models.CreateBlackoutRequest) (*models.BlackoutResponse, error) {
	if !req.Actor.IsStaff() {
		s.logger.Warn("CreateBlackout: access denied for actor=%d", req.Actor.ID)
		return nil, ErrAccessDenied
	}

	blackout := &domain.BlackoutRange{
		StartAt: req.StartAt,
		EndAt:   req.EndAt,
		Reason:  req.Reason,
	}

	if err := blackout.Validate(); err != nil {
		s.logger.Warn("CreateBlackout: invalid range from actor=%d: %v", req.Actor.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.blackoutRepo.Create(ctx, blackout)
	if err != nil {
		s.logger.Error("CreateBlackout: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateBlackout - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBlackout: blackout id=%d created by actor=%d [%s, %s)",
		created.ID, req.Actor.ID, created.StartAt, created.EndAt)

	return models.FromDomainBlackout(created), nil
}

// ListBlackouts возвращает все диапазоны блокировки
func (s *Service) ListBlackouts(ctx context.Context, actor domain.Actor) (*models.BlackoutListResponse, error) {
	if !actor.IsStaff() {
		s.logger.Warn("ListBlackouts: access denied for actor=%d", actor.ID)
		return nil, ErrAccessDenied
	}

	ranges, err := s.blackoutRepo.List(ctx)
	if err != nil {
		s.logger.Error("ListBlackouts: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBlackouts - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBlackoutList(ranges), nil
}

// DeleteBlackout удаляет диапазон блокировки
func (s *Service) DeleteBlackout(ctx context.Context, id int64, actor domain.Actor) error {
	if !actor.IsStaff() {
		s.logger.Warn("DeleteBlackout: access denied for actor=%d", actor.ID)
		return ErrAccessDenied
	}

	if err := s.blackoutRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, blackoutRepo.ErrBlackoutNotFound) {
			s.logger.Warn("DeleteBlackout: blackout id=%d not found", id)
			return ErrBlackoutNotFound
		}
		s.logger.Error("DeleteBlackout: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteBlackout - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteBlackout: blackout id=%d deleted by actor=%d", id, actor.ID)
	return nil
}

// CreateOverride создает переопределение вместимости окна
func (s *Service) CreateOverride(ctx context.Context, req *models.CreateOverrideRequest) (*models.OverrideResponse, error) {
	if !req.Actor.IsStaff() {
		s.logger.Warn("CreateOverride: access denied for actor=%d", req.Actor.ID)
		return nil, ErrAccessDenied
	}

	override, err := req.ToDomainOverride()
	if err != nil {
		s.logger.Warn("CreateOverride: invalid request from actor=%d: %v", req.Actor.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := override.Validate(); err != nil {
		s.logger.Warn("CreateOverride: invalid override from actor=%d: %v", req.Actor.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.overrideRepo.Create(ctx, override)
	if err != nil {
		if errors.Is(err, overrideRepo.ErrDuplicateWindow) {
			s.logger.Warn("CreateOverride: duplicate window %s [%s, %s)", req.Date, req.TimeStart, req.TimeEnd)
			return nil, ErrDuplicateWindow
		}
		s.logger.Error("CreateOverride: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateOverride - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateOverride: override id=%d created by actor=%d for %s [%s, %s) max_slots=%d",
		created.ID, req.Actor.ID, req.Date, req.TimeStart, req.TimeEnd, created.MaxSlots)

	return models.FromDomainOverride(created), nil
}

// ListOverrides возвращает переопределения на дату
func (s *Service) ListOverrides(ctx context.Context, date time.Time, actor domain.Actor) (*models.OverrideListResponse, error) {
	if !actor.IsStaff() {
		s.logger.Warn("ListOverrides: access denied for actor=%d", actor.ID)
		return nil, ErrAccessDenied
	}

	overrides, err := s.overrideRepo.ListByDate(ctx, date)
	if err != nil {
		s.logger.Error("ListOverrides: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListOverrides - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainOverrideList(overrides), nil
}

// DeleteOverride удаляет переопределение вместимости
func (s *Service) DeleteOverride(ctx context.Context, id int64, actor domain.Actor) error {
	if !actor.IsStaff() {
		s.logger.Warn("DeleteOverride: access denied for actor=%d", actor.ID)
		return ErrAccessDenied
	}

	if err := s.overrideRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, overrideRepo.ErrOverrideNotFound) {
			s.logger.Warn("DeleteOverride: override id=%d not found", id)
			return ErrOverrideNotFound
		}
		s.logger.Error("DeleteOverride: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteOverride - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteOverride: override id=%d deleted by actor=%d", id, actor.ID)
	return nil
}
