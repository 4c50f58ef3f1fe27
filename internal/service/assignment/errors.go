package assignment

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("assignment: booking not found")

	// ErrDetailerNotFound возвращается, когда детейлер не найден
	ErrDetailerNotFound = errors.New("assignment: detailer not found")

	// ErrDetailerInactive возвращается при назначении на деактивированного детейлера
	ErrDetailerInactive = errors.New("assignment: detailer is not active")

	// ErrAlreadyAssigned возвращается, когда бронирование уже имеет детейлера
	ErrAlreadyAssigned = errors.New("assignment: booking already assigned")

	// ErrBookingCanceled возвращается при назначении на отменённое бронирование
	ErrBookingCanceled = errors.New("assignment: booking is canceled")

	// ErrNoActiveDetailers возвращается, когда автоназначение не нашло
	// ни одного активного детейлера
	ErrNoActiveDetailers = errors.New("assignment: no active detailers available")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("assignment: internal error")
)
