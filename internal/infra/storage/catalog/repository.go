package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository read-only доступ к каталогу услуг
// Жизненным циклом услуг движок не владеет (CRUD каталога делает внешняя система)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает услугу вместе с её требованиями к инвентарю
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"price",
		"duration_minutes",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var svc domain.Service
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&svc.ID,
		&svc.Name,
		&svc.Price,
		&svc.DurationMinutes,
		&svc.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan service: %v", ErrScanRow, err)
	}

	svc.CreatedAt = createdAt.Time
	svc.UpdatedAt = updatedAt.Time

	requirements, err := r.getRequirements(ctx, executor, id)
	if err != nil {
		return nil, err
	}
	svc.Requirements = requirements

	return &svc, nil
}

// getRequirements получает требования услуги к инвентарю (JOIN с items ради имени)
func (r *Repository) getRequirements(ctx context.Context, executor dbmetrics.DBExecutor, serviceID int64) ([]domain.InventoryRequirement, error) {
	query, args, err := psqlbuilder.Select(
		"si.item_id",
		"i.name",
		"si.qty_per_service",
	).
		From("service_items si").
		Join("items i ON i.id = si.item_id").
		Where(squirrel.Eq{"si.service_id": serviceID}).
		OrderBy("si.item_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getRequirements - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getRequirements - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	requirements := make([]domain.InventoryRequirement, 0)
	for rows.Next() {
		var req domain.InventoryRequirement
		if err := rows.Scan(&req.ItemID, &req.ItemName, &req.QtyPerService); err != nil {
			return nil, fmt.Errorf("%w: getRequirements - scan row: %v", ErrScanRow, err)
		}
		requirements = append(requirements, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getRequirements - rows error: %v", ErrScanRow, err)
	}

	return requirements, nil
}
