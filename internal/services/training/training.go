// Package training принимает записи о тренировках.
package training

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/gym-tracker/internal/apperr"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// Repository определяет запись и чтение тренировок.
type Repository interface {
	// CreateTraining атомарно проверяет пользователя и категорию и вставляет запись.
	CreateTraining(ctx context.Context, training models.Training) (*models.Training, error)
	GetTraining(ctx context.Context, id int64) (*models.Training, error)
}

// Service реализует приём тренировок.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Create проверяет данные и сохраняет тренировку.
// Несуществующие пользователь или категория дают apperr.ErrNotFound.
func (s *Service) Create(ctx context.Context, req models.DummyTraining) (*models.Training, error) {
	const op = "services.training.Create"

	if req.TrainingDuration <= 0 {
		return nil, apperr.Validation("training_duration must be greater than 0")
	}
	if req.TrainingDuration > models.MaxTrainingDuration {
		return nil, apperr.Validation("training_duration must be less than or equal to %d", models.MaxTrainingDuration)
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, apperr.Validation("date must be in format %s", models.DateLayout)
	}

	created, err := s.repo.CreateTraining(ctx, models.Training{
		UserID:           req.UserID,
		CategoryID:       req.CategoryID,
		Date:             date,
		TrainingDuration: req.TrainingDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("training created",
		slog.String("op", op),
		slog.Int64("training_id", created.ID),
		slog.Int64("user_id", created.UserID),
	)
	return created, nil
}

// Get возвращает тренировку по ID.
func (s *Service) Get(ctx context.Context, id int64) (*models.Training, error) {
	t, err := s.repo.GetTraining(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("services.training.Get: %w", err)
	}
	return t, nil
}
