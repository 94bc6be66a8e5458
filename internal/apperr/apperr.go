// Package apperr описывает классы ошибок сервиса: отсутствующая сущность,
// ошибка валидации, запрет доступа, конфликт и ошибка хранилища.
// Слои ниже HTTP возвращают *Error, а обработчики сопоставляют класс
// ошибки с HTTP-статусом через errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

// Классы ошибок. Используются как цели для errors.Is.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation error")
	ErrForbidden   = errors.New("forbidden")
	ErrConflict    = errors.New("conflict")
	ErrPersistence = errors.New("persistence error")
)

// Error ошибка с классом, сущностью и исходной причиной.
type Error struct {
	Kind    error  // Один из ErrNotFound, ErrValidation, ...
	Entity  string // Сущность, к которой относится ошибка (user, category, training)
	Message string
	Err     error // Исходная причина, может быть nil
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Entity != "" {
		msg += ": " + e.Entity
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is позволяет сравнивать ошибку с классом: errors.Is(err, apperr.ErrNotFound).
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound сообщает, что сущность entity не найдена.
func NotFound(entity string) error {
	return &Error{Kind: ErrNotFound, Entity: entity}
}

// Validation сообщает о некорректных входных данных.
func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// Forbidden сообщает о нарушении политики доступа.
func Forbidden(message string) error {
	return &Error{Kind: ErrForbidden, Message: message}
}

// Conflict сообщает о нарушении уникальности.
func Conflict(entity, message string) error {
	return &Error{Kind: ErrConflict, Entity: entity, Message: message}
}

// Persistence оборачивает ошибку хранилища.
func Persistence(op string, err error) error {
	return &Error{Kind: ErrPersistence, Message: op, Err: err}
}

// Entity возвращает сущность из цепочки ошибок или пустую строку.
func Entity(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Entity
	}
	return ""
}
