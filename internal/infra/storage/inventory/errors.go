package inventory

import "errors"

var (
	// ErrItemNotFound возвращается, когда позиция инвентаря не найдена
	ErrItemNotFound = errors.New("inventory.repository: item not found")

	// ErrInsufficientStock возвращается, когда списание опустило бы остаток ниже нуля
	ErrInsufficientStock = errors.New("inventory.repository: insufficient stock")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("inventory.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("inventory.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("inventory.repository: failed to scan row")
)
