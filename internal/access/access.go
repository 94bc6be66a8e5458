// Package access реализует политику доступа к операциям сервиса.
//
// Проверки выполняются обработчиками до обращения к сервисам, поэтому
// статистика и запись тренировок не знают о ролях вызывающего.
package access

import (
	"github.com/magabrotheeeer/gym-tracker/internal/apperr"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// Principal аутентифицированный вызывающий.
type Principal struct {
	UserID int64
	Role   models.Role
}

// IsAdmin сообщает, что вызывающий является администратором.
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// CanAccessUser проверяет доступ к данным пользователя userID.
// Данные конкретного пользователя доступны ему самому и администраторам,
// агрегаты по всем пользователям (userID == nil) разрешены только администраторам.
func CanAccessUser(p Principal, userID *int64) error {
	if p.IsAdmin() {
		return nil
	}
	if userID == nil {
		return apperr.Forbidden("only admins can query all users")
	}
	if *userID != p.UserID {
		return apperr.Forbidden("not enough permissions")
	}
	return nil
}

// RequireAdmin пропускает только администраторов.
func RequireAdmin(p Principal) error {
	if !p.IsAdmin() {
		return apperr.Forbidden("admin access required")
	}
	return nil
}
