package detailer

import "errors"

var (
	// ErrDetailerNotFound возвращается, когда детейлер не найден
	ErrDetailerNotFound = errors.New("detailer.repository: detailer not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("detailer.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("detailer.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("detailer.repository: failed to scan row")
)
