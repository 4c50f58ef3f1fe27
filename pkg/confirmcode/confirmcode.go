package confirmcode

import (
	"crypto/rand"
	"fmt"
)

const (
	alphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength = 8

	digits        = "0123456789"
	smsCodeLength = 6
)

// Generate возвращает 8-символьный алфавитно-цифровой код подтверждения бронирования
func Generate() (string, error) {
	return randomString(alphabet, codeLength)
}

// GenerateSMSCode возвращает 6-значный числовой код для SMS-верификации
func GenerateSMSCode() (string, error) {
	return randomString(digits, smsCodeLength)
}

func randomString(charset string, length int) (string, error) {
	// Байты от limit и выше отбрасываются: прямой остаток от деления
	// смещал бы распределение к началу набора символов
	limit := 256 - 256%len(charset)

	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("confirmcode: read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, charset[int(b)%len(charset)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
