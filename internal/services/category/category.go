// Package category отдаёт справочник категорий тренировок.
// Категории неизменяемы, поэтому ответы кэшируются без инвалидации.
package category

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

const listKey = "categories"

// Repository определяет чтение категорий из хранилища.
type Repository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш.
	Set(ctx context.Context, key string, value any) error
}

// Service читает категории через кэш.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// List возвращает все категории.
func (s *Service) List(ctx context.Context) ([]models.Category, error) {
	const op = "services.category.List"

	var cached []models.Category
	if s.fromCache(ctx, op, listKey, &cached) {
		return cached, nil
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.toCache(ctx, op, listKey, categories)
	return categories, nil
}

// Get возвращает категорию по ID.
func (s *Service) Get(ctx context.Context, id int64) (*models.Category, error) {
	const op = "services.category.Get"
	key := fmt.Sprintf("category:%d", id)

	var cached models.Category
	if s.fromCache(ctx, op, key, &cached) {
		return &cached, nil
	}

	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.toCache(ctx, op, key, c)
	return c, nil
}

// fromCache читает ключ; ошибки кэша не мешают ответить из хранилища.
func (s *Service) fromCache(ctx context.Context, op, key string, dst any) bool {
	found, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.log.Warn("cache get failed", slog.String("op", op), slog.String("key", key), sl.Err(err))
		return false
	}
	return found
}

func (s *Service) toCache(ctx context.Context, op, key string, value any) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.log.Warn("cache set failed", slog.String("op", op), slog.String("key", key), sl.Err(err))
	}
}
