package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository доступ к остаткам инвентаря
// Движок читает остатки при проверке доступности и списывает их при
// завершении записи; остальной CRUD инвентаря делает внешняя система
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория инвентаря
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает позицию инвентаря
// Внутри транзакции блокирует строку (FOR UPDATE): завершение записи
// выполняет read-check-write по остатку и должно быть сериализовано
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "name", "stock", "unit").
		From("items").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var item domain.Item
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&item.ID,
		&item.Name,
		&item.Stock,
		&item.Unit,
	)

	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan item: %v", ErrScanRow, err)
	}

	return &item, nil
}

// DeductStock атомарно списывает qty единиц с проверкой нижней границы:
// UPDATE не проходит, если остаток меньше списываемого количества
// Это закрывает гонку check-then-write при конкурентных завершениях,
// претендующих на одну и ту же позицию
func (r *Repository) DeductStock(ctx context.Context, id int64, qty decimal.Decimal) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("items").
		Set("stock", squirrel.Expr("stock - ?", qty)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.GtOrEq{"stock": qty}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeductStock - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeductStock - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeductStock - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Либо позиции нет, либо остатка не хватает; различаем отдельным чтением
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return fmt.Errorf("%w: item id=%d", ErrInsufficientStock, id)
	}

	return nil
}
