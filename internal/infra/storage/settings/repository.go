package settings

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// singletonID фиксированный ID единственной строки настроек
const singletonID = 1

// Repository репозиторий настроек расписания (singleton-строка)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetOrInit возвращает настройки, лениво создавая строку с дефолтами
// при первом обращении
// INSERT ... ON CONFLICT DO NOTHING делает инициализацию безопасной
// при конкурентных первых чтениях
func (r *Repository) GetOrInit(ctx context.Context) (*domain.ScheduleSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert, insertArgs, err := psqlbuilder.Insert("schedule_settings").
		Columns("id", "max_concurrent", "booking_window_days", "prevent_completion_on_insufficient_stock").
		Values(singletonID, domain.DefaultMaxConcurrent, domain.DefaultBookingWindowDays, true).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOrInit - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insert, insertArgs...); err != nil {
		return nil, fmt.Errorf("%w: GetOrInit - execute insert: %v", ErrExecQuery, err)
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"max_concurrent",
		"booking_window_days",
		"prevent_completion_on_insufficient_stock",
		"updated_at",
	).
		From("schedule_settings").
		Where(squirrel.Eq{"id": singletonID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOrInit - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.ScheduleSettings
	var updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.MaxConcurrent,
		&s.BookingWindowDays,
		&s.PreventCompletionOnInsufficientStock,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: GetOrInit - scan settings: %v", ErrScanRow, err)
	}

	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// Update обновляет настройки (административный путь)
func (r *Repository) Update(ctx context.Context, s *domain.ScheduleSettings) (*domain.ScheduleSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("schedule_settings").
		Set("max_concurrent", s.MaxConcurrent).
		Set("booking_window_days", s.BookingWindowDays).
		Set("prevent_completion_on_insufficient_stock", s.PreventCompletionOnInsufficientStock).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": singletonID}).
		Suffix("RETURNING id, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	s.UpdatedAt = updatedAt.Time

	return s, nil
}
