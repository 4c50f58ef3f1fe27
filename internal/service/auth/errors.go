package auth

import "errors"

var (
	// ErrInvalidCredentials возвращается при неверной паре email/пароль
	// Намеренно не различает "нет такого email" и "неверный пароль"
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrDetailerInactive возвращается при входе деактивированного детейлера
	ErrDetailerInactive = errors.New("auth: detailer is not active")

	// ErrInvalidToken возвращается при невалидном или просроченном токене
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("auth: internal error")
)
