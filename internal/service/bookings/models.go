package bookings

import "github.com/m04kA/SMC-DetailingService/internal/domain"

// TransitionRequest параметры перехода статуса бронирования
// ActorDetailerID - идентификатор детейлера, выполняющего переход.
// nil означает действие диспетчерской без проверки принадлежности
type TransitionRequest struct {
	BookingID       int64
	Target          domain.BookingStatus
	Notes           *string
	ActorDetailerID *int64
}
