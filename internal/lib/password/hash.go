// Package password реализует хеширование паролей и проверку их сложности.
//
// GetHash создает bcrypt-хеш пароля для безопасного хранения.
// CompareHash сравнивает bcrypt-хеш с введённым паролем.
// CheckComplexity проверяет длину и состав пароля.
package password

import (
	"errors"
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// Границы длины пароля.
const (
	MinLength = 8
	MaxLength = 64
)

const cost = 12

// Ошибки проверки сложности пароля.
var (
	ErrLength    = fmt.Errorf("password must be between %d and %d characters", MinLength, MaxLength)
	ErrUppercase = errors.New("password must contain at least one uppercase letter")
	ErrLowercase = errors.New("password must contain at least one lowercase letter")
	ErrDigit     = errors.New("password must contain at least one digit")
)

// GetHash принимает пароль пользователя и возвращает его bcrypt‑хэш.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает bcrypt‑хэш с введённым паролем.
//
// Возвращает nil, если пароль соответствует хэшу, иначе ошибку.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CheckComplexity возвращает первую нарушенную проверку или nil.
func CheckComplexity(password string) error {
	n := len([]rune(password))
	if n < MinLength || n > MaxLength {
		return ErrLength
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	switch {
	case !upper:
		return ErrUppercase
	case !lower:
		return ErrLowercase
	case !digit:
		return ErrDigit
	}
	return nil
}
