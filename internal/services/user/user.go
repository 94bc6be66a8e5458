// Package user содержит бизнес-логику управления пользователями:
// регистрацию, чтение, поиск, частичное обновление и удаление.
// Проверки доступа выполняются вызывающей стороной.
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/gym-tracker/internal/apperr"
	"github.com/magabrotheeeer/gym-tracker/internal/events"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/password"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// Repository определяет методы хранилища пользователей.
type Repository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	SearchUsers(ctx context.Context, filter models.UserSearchFilter) ([]models.UserSearchResult, error)
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	CountUsersBySubscription(ctx context.Context, year *int) ([]models.UserCountBySubscription, error)
}

// Service реализует операции над пользователями.
type Service struct {
	repo      Repository
	publisher events.Publisher
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, publisher events.Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// Register хэширует пароль и сохраняет пользователя.
// Пустые тариф и роль заменяются на standard и user.
func (s *Service) Register(ctx context.Context, req models.DummyUser) (*models.User, error) {
	const op = "services.user.Register"

	if err := password.CheckComplexity(req.Password); err != nil {
		return nil, apperr.Validation("password: %v", err)
	}
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub := models.SubscriptionType(req.SubscriptionType)
	if sub == "" {
		sub = models.SubscriptionStandard
	}
	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleUser
	}
	if !sub.Valid() || !role.Valid() {
		return nil, apperr.Validation("unknown subscription type or role")
	}

	created, err := s.repo.CreateUser(ctx, models.User{
		Name:             req.Name,
		Surname:          req.Surname,
		PhoneNumber:      optional(req.PhoneNumber),
		Email:            req.Email,
		Address:          optional(req.Address),
		PasswordHash:     hashed,
		SubscriptionType: sub,
		Role:             role,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user registered", slog.String("op", op), slog.Int64("user_id", created.ID))
	s.publisher.UserCreated(ctx, *created)
	return created, nil
}

// Get возвращает пользователя по ID.
func (s *Service) Get(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("services.user.Get: %w", err)
	}
	return u, nil
}

// List возвращает страницу пользователей.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if limit <= 0 || offset < 0 {
		return nil, apperr.Validation("limit must be positive and offset non-negative")
	}
	users, err := s.repo.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("services.user.List: %w", err)
	}
	return users, nil
}

// Search ищет пользователей по фильтру.
func (s *Service) Search(ctx context.Context, filter models.UserSearchFilter) ([]models.UserSearchResult, error) {
	if filter.SubscriptionType != "" && !filter.SubscriptionType.Valid() {
		return nil, apperr.Validation("unknown subscription type %q", filter.SubscriptionType)
	}
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, apperr.Validation("unknown role %q", filter.Role)
	}
	res, err := s.repo.SearchUsers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("services.user.Search: %w", err)
	}
	return res, nil
}

// Update применяет частичное обновление. Новый пароль хэшируется.
func (s *Service) Update(ctx context.Context, id int64, req models.DummyUserUpdate) (*models.User, error) {
	const op = "services.user.Update"

	patch := models.UserPatch{
		Name:        req.Name,
		Surname:     req.Surname,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	}
	if req.SubscriptionType != nil {
		sub := models.SubscriptionType(*req.SubscriptionType)
		if !sub.Valid() {
			return nil, apperr.Validation("unknown subscription type %q", sub)
		}
		patch.SubscriptionType = &sub
	}
	if req.Password != nil {
		if err := password.CheckComplexity(*req.Password); err != nil {
			return nil, apperr.Validation("password: %v", err)
		}
		hashed, err := password.GetHash(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		patch.PasswordHash = &hashed
	}

	updated, err := s.repo.UpdateUser(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user updated", slog.String("op", op), slog.Int64("user_id", id))
	return updated, nil
}

// Delete удаляет пользователя вместе с его тренировками.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "services.user.Delete"

	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user deleted", slog.String("op", op), slog.Int64("user_id", id))
	s.publisher.UserDeleted(ctx, id)
	return nil
}

// CountBySubscription считает пользователей по тарифам.
func (s *Service) CountBySubscription(ctx context.Context, year *int) ([]models.UserCountBySubscription, error) {
	counts, err := s.repo.CountUsersBySubscription(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("services.user.CountBySubscription: %w", err)
	}
	return counts, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
