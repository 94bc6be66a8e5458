// Package models содержит доменные структуры сервиса учёта тренировок:
// пользователей, категории, тренировки и строки статистических отчётов,
// а также структуры для приёма данных из JSON-запросов.
package models

import "time"

// SubscriptionType тариф пользователя, одна из осей агрегации статистики.
type SubscriptionType string

// Допустимые тарифы.
const (
	SubscriptionStandard SubscriptionType = "standard"
	SubscriptionPremium  SubscriptionType = "premium"
	SubscriptionVIP      SubscriptionType = "vip"
)

// Valid сообщает, входит ли значение в закрытый список тарифов.
func (s SubscriptionType) Valid() bool {
	switch s {
	case SubscriptionStandard, SubscriptionPremium, SubscriptionVIP:
		return true
	}
	return false
}

// Role роль пользователя в системе.
type Role string

// Допустимые роли.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid сообщает, входит ли значение в закрытый список ролей.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User представляет зарегистрированного пользователя.
// Телефон и адрес необязательны и хранятся как NULL, если не заданы.
type User struct {
	ID               int64            `json:"user_id"`
	Name             string           `json:"name"`
	Surname          string           `json:"surname"`
	PhoneNumber      *string          `json:"phone_number,omitempty"`
	Email            string           `json:"email"`
	Address          *string          `json:"address,omitempty"`
	PasswordHash     string           `json:"-"`
	SubscriptionType SubscriptionType `json:"subscription_type"`
	Role             Role             `json:"role"`
	CreatedAt        time.Time        `json:"created_at"`
}

// DummyUser используется для приёма данных регистрации из JSON-запроса.
type DummyUser struct {
	Name             string `json:"name" validate:"required,max=255"`
	Surname          string `json:"surname" validate:"required,max=255"`
	Email            string `json:"email" validate:"required,email,max=255"`
	PhoneNumber      string `json:"phone_number" validate:"omitempty,max=15,phone"`
	Address          string `json:"address" validate:"omitempty,max=255"`
	Password         string `json:"password" validate:"required,min=8,max=64,password"`
	SubscriptionType string `json:"subscription_type" validate:"omitempty,oneof=standard premium vip"`
	Role             string `json:"role" validate:"omitempty,oneof=user admin"`
}

// DummyUserUpdate частичное обновление пользователя; nil означает «не менять».
type DummyUserUpdate struct {
	Name             *string `json:"name" validate:"omitempty,max=255"`
	Surname          *string `json:"surname" validate:"omitempty,max=255"`
	Email            *string `json:"email" validate:"omitempty,email,max=255"`
	PhoneNumber      *string `json:"phone_number" validate:"omitempty,max=15,phone"`
	Address          *string `json:"address" validate:"omitempty,max=255"`
	SubscriptionType *string `json:"subscription_type" validate:"omitempty,oneof=standard premium vip"`
	Password         *string `json:"password" validate:"omitempty,min=8,max=64,password"`
}

// UserPatch набор изменений, передаваемый в хранилище.
type UserPatch struct {
	Name             *string
	Surname          *string
	Email            *string
	PhoneNumber      *string
	Address          *string
	SubscriptionType *SubscriptionType
	PasswordHash     *string
}

// Empty сообщает, что патч ничего не меняет.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Surname == nil && p.Email == nil && p.PhoneNumber == nil &&
		p.Address == nil && p.SubscriptionType == nil && p.PasswordHash == nil
}

// UserSearchFilter параметры поиска пользователей; пустые поля не фильтруют.
type UserSearchFilter struct {
	Search           string
	SubscriptionType SubscriptionType
	Role             Role
}

// UserSearchResult строка результата поиска пользователей.
type UserSearchResult struct {
	UserFullName     string           `json:"user_full_name"`
	SubscriptionType SubscriptionType `json:"subscription_type"`
	Role             Role             `json:"role"`
}

// UserCountBySubscription количество пользователей на тарифе.
type UserCountBySubscription struct {
	SubscriptionType SubscriptionType `json:"subscription_type"`
	UserCount        int64            `json:"user_count"`
}
