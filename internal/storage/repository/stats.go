package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/gym-tracker/internal/apperr"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/period"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// trainingWhere строит условие по окну дат (включительно) и необязательному пользователю.
func (s *Storage) trainingWhere(filter models.StatsFilter) (string, []any) {
	where := `t.date BETWEEN ? AND ?`
	args := []any{s.dialect.dateArg(filter.DateFrom), s.dialect.dateArg(filter.DateTo)}
	if filter.UserID != nil {
		where += ` AND t.user_id = ?`
		args = append(args, *filter.UserID)
	}
	return where, args
}

// query выполняет запрос статистики и сканирует каждую строку функцией scan.
func (s *Storage) query(ctx context.Context, op, query string, args []any, scan func(*sql.Rows) error) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return apperr.Persistence(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		if err = scan(rows); err != nil {
			return apperr.Persistence(op, err)
		}
	}
	if err = rows.Err(); err != nil {
		return apperr.Persistence(op, err)
	}
	return nil
}

// StatsByCategory суммирует минуты по категориям за период.
// Категории без тренировок в окне не возвращаются.
func (s *Storage) StatsByCategory(ctx context.Context, filter models.StatsFilter) ([]models.CategoryStat, error) {
	const op = "storage.StatsByCategory"

	where, args := s.trainingWhere(filter)
	query := `SELECT c.category_id, c.name, COALESCE(SUM(t.training_duration), 0)
			  FROM trainings t
			  JOIN categories c ON c.category_id = t.category_id
			  WHERE ` + where + `
			  GROUP BY c.category_id, c.name
			  ORDER BY c.category_id`

	result := make([]models.CategoryStat, 0)
	err := s.query(ctx, op, query, args, func(rows *sql.Rows) error {
		var r models.CategoryStat
		if err := rows.Scan(&r.CategoryID, &r.CategoryName, &r.TotalMinutes); err != nil {
			return err
		}
		result = append(result, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// StatsAllTimeByCategory суммирует минуты пользователя по категориям без ограничения по датам.
func (s *Storage) StatsAllTimeByCategory(ctx context.Context, userID int64) ([]models.CategoryTotal, error) {
	const op = "storage.StatsAllTimeByCategory"

	query := `SELECT c.name, COALESCE(SUM(t.training_duration), 0)
			  FROM trainings t
			  JOIN categories c ON c.category_id = t.category_id
			  WHERE t.user_id = ?
			  GROUP BY c.category_id, c.name
			  ORDER BY c.category_id`

	result := make([]models.CategoryTotal, 0)
	err := s.query(ctx, op, query, []any{userID}, func(rows *sql.Rows) error {
		var r models.CategoryTotal
		if err := rows.Scan(&r.CategoryName, &r.TotalMinutes); err != nil {
			return err
		}
		result = append(result, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// TotalTime возвращает общую сумму минут за период; пустое окно даёт 0.
func (s *Storage) TotalTime(ctx context.Context, filter models.StatsFilter) (models.TotalTime, error) {
	const op = "storage.TotalTime"

	where, args := s.trainingWhere(filter)
	query := `SELECT COALESCE(SUM(t.training_duration), 0)
			  FROM trainings t
			  WHERE ` + where

	var total models.TotalTime
	err := s.query(ctx, op, query, args, func(rows *sql.Rows) error {
		return rows.Scan(&total.TotalMinutes)
	})
	if err != nil {
		return models.TotalTime{}, err
	}
	return total, nil
}

// StatsByCategoryAndSubscription суммирует минуты по парам категория × тариф пользователя.
func (s *Storage) StatsByCategoryAndSubscription(ctx context.Context, filter models.StatsFilter) ([]models.CategorySubscriptionStat, error) {
	const op = "storage.StatsByCategoryAndSubscription"

	where, args := s.trainingWhere(filter)
	query := `SELECT c.name, u.subscription_type, COALESCE(SUM(t.training_duration), 0)
			  FROM trainings t
			  JOIN categories c ON c.category_id = t.category_id
			  JOIN users u ON u.user_id = t.user_id
			  WHERE ` + where + `
			  GROUP BY c.name, u.subscription_type
			  ORDER BY c.name, u.subscription_type`

	result := make([]models.CategorySubscriptionStat, 0)
	err := s.query(ctx, op, query, args, func(rows *sql.Rows) error {
		var r models.CategorySubscriptionStat
		if err := rows.Scan(&r.CategoryName, &r.SubscriptionType, &r.TotalMinutes); err != nil {
			return err
		}
		result = append(result, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// StatsByDayOfWeek суммирует минуты по дням недели. Возвращает только дни,
// в которые были тренировки; дополнение нулями делает сервис.
func (s *Storage) StatsByDayOfWeek(ctx context.Context, filter models.StatsFilter) ([]models.WeekdayTotal, error) {
	const op = "storage.StatsByDayOfWeek"

	where, args := s.trainingWhere(filter)
	query := `SELECT ` + s.dialect.weekdayExpr + ` AS weekday, COALESCE(SUM(t.training_duration), 0)
			  FROM trainings t
			  WHERE ` + where + `
			  GROUP BY weekday
			  ORDER BY weekday`

	result := make([]models.WeekdayTotal, 0, 7)
	err := s.query(ctx, op, query, args, func(rows *sql.Rows) error {
		var (
			n int
			r models.WeekdayTotal
		)
		if err := rows.Scan(&n, &r.TotalMinutes); err != nil {
			return err
		}
		wd, err := period.Weekday(n)
		if err != nil {
			return err
		}
		r.Weekday = wd
		result = append(result, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// StatsBySubscriptionOverTime суммирует минуты по парам месяц × тариф пользователя.
func (s *Storage) StatsBySubscriptionOverTime(ctx context.Context, filter models.StatsFilter) ([]models.SubscriptionMonthStat, error) {
	const op = "storage.StatsBySubscriptionOverTime"

	where, args := s.trainingWhere(filter)
	query := `SELECT ` + s.dialect.monthExpr + ` AS month_start, u.subscription_type,
			      COALESCE(SUM(t.training_duration), 0)
			  FROM trainings t
			  JOIN users u ON u.user_id = t.user_id
			  WHERE ` + where + `
			  GROUP BY month_start, u.subscription_type
			  ORDER BY month_start, u.subscription_type`

	result := make([]models.SubscriptionMonthStat, 0)
	err := s.query(ctx, op, query, args, func(rows *sql.Rows) error {
		var (
			month models.Date
			r     models.SubscriptionMonthStat
		)
		if err := rows.Scan(dateValue{dst: &month}, &r.SubscriptionType, &r.TotalMinutes); err != nil {
			return err
		}
		r.MonthYear = period.MonthLabel(month.Time)
		result = append(result, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
