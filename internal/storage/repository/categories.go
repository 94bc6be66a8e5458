package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/gym-tracker/internal/apperr"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// ListCategories возвращает справочник категорий.
func (s *Storage) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "storage.ListCategories"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT category_id, name FROM categories ORDER BY category_id`)
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err = rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, apperr.Persistence(op, err)
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, apperr.Persistence(op, err)
	}
	return result, nil
}

// GetCategory возвращает категорию по ID.
func (s *Storage) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	const op = "storage.GetCategory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var c models.Category
	query := s.dialect.rebind(`SELECT category_id, name FROM categories WHERE category_id = ?`)
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.NotFound("category"))
		}
		return nil, apperr.Persistence(op, err)
	}
	return &c, nil
}
