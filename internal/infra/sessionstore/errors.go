package sessionstore

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия отсутствует или истекла по TTL
	ErrSessionNotFound = errors.New("sessionstore: session not found")

	// ErrStore возвращается при ошибках нижележащего хранилища
	ErrStore = errors.New("sessionstore: store error")
)
