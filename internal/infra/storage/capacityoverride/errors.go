package capacityoverride

import "errors"

var (
	// ErrOverrideNotFound возвращается, когда переопределение не найдено
	ErrOverrideNotFound = errors.New("capacityoverride.repository: override not found")

	// ErrDuplicateWindow возвращается при попытке создать второе переопределение
	// на ту же тройку (date, time_start, time_end)
	ErrDuplicateWindow = errors.New("capacityoverride.repository: override already exists for this window")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("capacityoverride.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("capacityoverride.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("capacityoverride.repository: failed to scan row")
)
