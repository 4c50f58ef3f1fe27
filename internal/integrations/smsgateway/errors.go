package smsgateway

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("smsgateway client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от шлюза
	ErrInvalidResponse = errors.New("smsgateway client: invalid response")

	// ErrRejected возвращается, когда шлюз отклонил сообщение (некорректный номер, блокировка)
	ErrRejected = errors.New("smsgateway client: message rejected")
)
