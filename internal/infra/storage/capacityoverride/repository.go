package capacityoverride

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var overrideColumns = []string{
	"id",
	"date",
	"time_start",
	"time_end",
	"max_slots",
	"reason",
	"created_at",
	"updated_at",
}

// Repository репозиторий переопределений вместимости слотов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория переопределений
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает переопределение вместимости
// Нарушение уникальности (date, time_start, time_end) возвращает ErrDuplicateWindow
func (r *Repository) Create(ctx context.Context, o *domain.SlotCapacityOverride) (*domain.SlotCapacityOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slot_capacity_overrides").
		Columns("date", "time_start", "time_end", "max_slots", "reason").
		Values(o.Date, o.TimeStart.String(), o.TimeEnd.String(), o.MaxSlots, o.Reason).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&o.ID, &createdAt, &updatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateWindow
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	return o, nil
}

// GetByWindow возвращает переопределение для точной тройки (date, time_start, time_end)
// Отсутствие переопределения обычный случай, возвращается (nil, nil)
func (r *Repository) GetByWindow(ctx context.Context, date time.Time, timeStart, timeEnd types.TimeString) (*domain.SlotCapacityOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(overrideColumns...).
		From("slot_capacity_overrides").
		Where(squirrel.Eq{
			"date":       date,
			"time_start": timeStart.String(),
			"time_end":   timeEnd.String(),
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByWindow - build select query: %v", ErrBuildQuery, err)
	}

	o, err := r.scanOverride(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByWindow - scan override: %v", ErrScanRow, err)
	}

	return o, nil
}

// ListByDate возвращает переопределения на дату в порядке time_start
func (r *Repository) ListByDate(ctx context.Context, date time.Time) ([]*domain.SlotCapacityOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(overrideColumns...).
		From("slot_capacity_overrides").
		Where(squirrel.Eq{"date": date}).
		OrderBy("time_start ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]*domain.SlotCapacityOverride, 0)
	for rows.Next() {
		var o domain.SlotCapacityOverride
		var createdAt, updatedAt sql.NullTime
		var timeStart, timeEnd string

		if err := rows.Scan(&o.ID, &o.Date, &timeStart, &timeEnd, &o.MaxSlots, &o.Reason, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListByDate - scan row: %v", ErrScanRow, err)
		}

		o.TimeStart = types.TimeString(timeStart)
		o.TimeEnd = types.TimeString(timeEnd)
		o.CreatedAt = createdAt.Time
		o.UpdatedAt = updatedAt.Time

		overrides = append(overrides, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByDate - rows error: %v", ErrScanRow, err)
	}

	return overrides, nil
}

// Delete удаляет переопределение
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slot_capacity_overrides").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrOverrideNotFound
	}

	return nil
}

// scanOverride сканирует одну строку; пробрасывает sql.ErrNoRows как есть
func (r *Repository) scanOverride(row *sql.Row) (*domain.SlotCapacityOverride, error) {
	var o domain.SlotCapacityOverride
	var createdAt, updatedAt sql.NullTime
	var timeStart, timeEnd string

	err := row.Scan(
		&o.ID,
		&o.Date,
		&timeStart,
		&timeEnd,
		&o.MaxSlots,
		&o.Reason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.TimeStart = types.TimeString(timeStart)
	o.TimeEnd = types.TimeString(timeEnd)
	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	return &o, nil
}
