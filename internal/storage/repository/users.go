package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/gym-tracker/internal/apperr"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

const userColumns = `user_id, name, surname, phone_number, email, address,
			      password_hash, subscription_type, role, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u              models.User
		phone, address sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Surname, &phone, &u.Email, &address,
		&u.PasswordHash, &u.SubscriptionType, &u.Role, timeValue{&u.CreatedAt}); err != nil {
		return nil, err
	}
	if phone.Valid {
		u.PhoneNumber = &phone.String
	}
	if address.Valid {
		u.Address = &address.String
	}
	return &u, nil
}

// CreateUser сохраняет нового пользователя и возвращает запись с присвоенным ID.
// Повторный email возвращает apperr.ErrConflict.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (name, surname, phone_number, email, address,
			      password_hash, subscription_type, role)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			  RETURNING ` + userColumns
	row := s.DB.QueryRowContext(ctx, s.dialect.rebind(query),
		user.Name, user.Surname, user.PhoneNumber, user.Email, user.Address,
		user.PasswordHash, string(user.SubscriptionType), string(user.Role))
	created, err := scanUser(row)
	if err != nil {
		if s.dialect.isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, apperr.Conflict("user", "email already registered"))
		}
		return nil, apperr.Persistence(op, err)
	}
	return created, nil
}

// GetUser возвращает пользователя по ID.
func (s *Storage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = ?`
	u, err := scanUser(s.DB.QueryRowContext(ctx, s.dialect.rebind(query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.NotFound("user"))
		}
		return nil, apperr.Persistence(op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	u, err := scanUser(s.DB.QueryRowContext(ctx, s.dialect.rebind(query), email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.NotFound("user"))
		}
		return nil, apperr.Persistence(op, err)
	}
	return u, nil
}

// ListUsers возвращает страницу пользователей в порядке регистрации.
func (s *Storage) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  ORDER BY user_id
			  LIMIT ? OFFSET ?`
	rows, err := s.DB.QueryContext(ctx, s.dialect.rebind(query), limit, offset)
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, apperr.Persistence(op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, apperr.Persistence(op, err)
	}
	return result, nil
}

// SearchUsers ищет пользователей по подстроке имени или фамилии
// с необязательными фильтрами по тарифу и роли.
func (s *Storage) SearchUsers(ctx context.Context, filter models.UserSearchFilter) ([]models.UserSearchResult, error) {
	const op = "storage.SearchUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var (
		conds []string
		args  []any
	)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		conds = append(conds, fmt.Sprintf("(name %[1]s ? OR surname %[1]s ?)", s.dialect.likeOp))
		args = append(args, pattern, pattern)
	}
	if filter.SubscriptionType != "" {
		conds = append(conds, "subscription_type = ?")
		args = append(args, string(filter.SubscriptionType))
	}
	if filter.Role != "" {
		conds = append(conds, "role = ?")
		args = append(args, string(filter.Role))
	}

	query := `SELECT name, surname, subscription_type, role FROM users`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY user_id`

	rows, err := s.DB.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.UserSearchResult, 0)
	for rows.Next() {
		var (
			name, surname string
			r             models.UserSearchResult
		)
		if err = rows.Scan(&name, &surname, &r.SubscriptionType, &r.Role); err != nil {
			return nil, apperr.Persistence(op, err)
		}
		r.UserFullName = name + " " + surname
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, apperr.Persistence(op, err)
	}
	return result, nil
}

// UpdateUser применяет частичное обновление и возвращает итоговую запись.
func (s *Storage) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Surname != nil {
		set("surname", *patch.Surname)
	}
	if patch.Email != nil {
		set("email", *patch.Email)
	}
	if patch.PhoneNumber != nil {
		set("phone_number", *patch.PhoneNumber)
	}
	if patch.Address != nil {
		set("address", *patch.Address)
	}
	if patch.SubscriptionType != nil {
		set("subscription_type", string(*patch.SubscriptionType))
	}
	if patch.PasswordHash != nil {
		set("password_hash", *patch.PasswordHash)
	}

	if len(sets) == 0 {
		return s.GetUser(ctx, id)
	}

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE user_id = ? RETURNING ` + userColumns
	args = append(args, id)
	u, err := scanUser(s.DB.QueryRowContext(ctx, s.dialect.rebind(query), args...))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, fmt.Errorf("%s: %w", op, apperr.NotFound("user"))
		case s.dialect.isUniqueViolation(err):
			return nil, fmt.Errorf("%s: %w", op, apperr.Conflict("user", "email already registered"))
		}
		return nil, apperr.Persistence(op, err)
	}
	return u, nil
}

// DeleteUser удаляет пользователя; его тренировки удаляются каскадно.
func (s *Storage) DeleteUser(ctx context.Context, id int64) error {
	const op = "storage.DeleteUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, s.dialect.rebind(`DELETE FROM users WHERE user_id = ?`), id)
	if err != nil {
		return apperr.Persistence(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperr.Persistence(op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, apperr.NotFound("user"))
	}
	return nil
}

// CountUsersBySubscription считает пользователей на каждом тарифе.
// Если задан год, учитываются только зарегистрированные не позже него.
func (s *Storage) CountUsersBySubscription(ctx context.Context, year *int) ([]models.UserCountBySubscription, error) {
	const op = "storage.CountUsersBySubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT subscription_type, COUNT(user_id) FROM users`
	var args []any
	if year != nil {
		query += ` WHERE ` + s.dialect.yearExpr + ` <= ?`
		args = append(args, *year)
	}
	query += ` GROUP BY subscription_type ORDER BY subscription_type`

	rows, err := s.DB.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.UserCountBySubscription, 0)
	for rows.Next() {
		var c models.UserCountBySubscription
		if err = rows.Scan(&c.SubscriptionType, &c.UserCount); err != nil {
			return nil, apperr.Persistence(op, err)
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, apperr.Persistence(op, err)
	}
	return result, nil
}
