package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/gym-tracker/internal/apperr"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// CreateTraining записывает тренировку в одной транзакции с проверкой
// существования пользователя и категории. При любой ошибке ничего не сохраняется.
func (s *Storage) CreateTraining(ctx context.Context, training models.Training) (*models.Training, error) {
	const op = "storage.CreateTraining"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err = s.mustExist(ctx, tx, `SELECT 1 FROM users WHERE user_id = ?`, training.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.NotFound("user"))
		}
		return nil, apperr.Persistence(op, err)
	}
	if err = s.mustExist(ctx, tx, `SELECT 1 FROM categories WHERE category_id = ?`, training.CategoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.NotFound("category"))
		}
		return nil, apperr.Persistence(op, err)
	}

	query := `INSERT INTO trainings (user_id, category_id, date, training_duration)
			  VALUES (?, ?, ?, ?)
			  RETURNING training_id`
	var newID int64
	if err = tx.QueryRowContext(ctx, s.dialect.rebind(query),
		training.UserID, training.CategoryID, s.dialect.dateArg(training.Date),
		training.TrainingDuration).Scan(&newID); err != nil {
		return nil, apperr.Persistence(op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, apperr.Persistence(op, err)
	}

	created := training
	created.ID = newID
	return &created, nil
}

func (s *Storage) mustExist(ctx context.Context, tx *sql.Tx, query string, id int64) error {
	var one int
	return tx.QueryRowContext(ctx, s.dialect.rebind(query), id).Scan(&one)
}

// GetTraining возвращает тренировку по ID.
func (s *Storage) GetTraining(ctx context.Context, id int64) (*models.Training, error) {
	const op = "storage.GetTraining"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT training_id, user_id, category_id, date, training_duration
			  FROM trainings WHERE training_id = ?`
	var t models.Training
	if err := s.DB.QueryRowContext(ctx, s.dialect.rebind(query), id).Scan(
		&t.ID, &t.UserID, &t.CategoryID, dateValue{&t.Date}, &t.TrainingDuration); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.NotFound("training"))
		}
		return nil, apperr.Persistence(op, err)
	}
	return &t, nil
}
