package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrPasswordMismatch is returned when a password does not match the stored digest
var ErrPasswordMismatch = errors.New("password does not match")

// DigestSize - длина hex-представления SHA256 дайджеста
const DigestSize = sha256.Size * 2

// HashPassword хеширует пароль с использованием SHA256
// Детерминированно: одинаковый пароль даёт одинаковый hex-encoded дайджест,
// совместимый с UserInfo.json клиента TConect
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hash := sha256.Sum256([]byte(password))
	return hex.EncodeToString(hash[:]), nil
}

// VerifyPassword проверяет, соответствует ли пароль сохраненному дайджесту
// Сравнение выполняется за постоянное время
func VerifyPassword(password, digest string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if digest == "" {
		return fmt.Errorf("stored digest cannot be empty")
	}

	computed, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to compute password digest: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) != 1 {
		return ErrPasswordMismatch
	}

	return nil
}
