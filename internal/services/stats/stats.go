// Package stats строит отчёты по тренировкам поверх агрегирующих запросов хранилища.
//
// Все отчёты считаются при каждом запросе полным проходом по подходящим
// строкам. Ошибка хранилища возвращается целиком, частичных отчётов нет.
package stats

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/gym-tracker/internal/lib/period"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// CategoryReader отдаёт суммы по категориям.
type CategoryReader interface {
	StatsByCategory(ctx context.Context, filter models.StatsFilter) ([]models.CategoryStat, error)
	StatsAllTimeByCategory(ctx context.Context, userID int64) ([]models.CategoryTotal, error)
}

// TotalReader отдаёт общую сумму минут.
type TotalReader interface {
	TotalTime(ctx context.Context, filter models.StatsFilter) (models.TotalTime, error)
}

// SubscriptionReader отдаёт суммы в разрезе тарифов.
type SubscriptionReader interface {
	StatsByCategoryAndSubscription(ctx context.Context, filter models.StatsFilter) ([]models.CategorySubscriptionStat, error)
	StatsBySubscriptionOverTime(ctx context.Context, filter models.StatsFilter) ([]models.SubscriptionMonthStat, error)
}

// WeekdayReader отдаёт суммы по дням недели, только непустые дни.
type WeekdayReader interface {
	StatsByDayOfWeek(ctx context.Context, filter models.StatsFilter) ([]models.WeekdayTotal, error)
}

// Repository объединяет все запросы статистики.
type Repository interface {
	CategoryReader
	TotalReader
	SubscriptionReader
	WeekdayReader
}

// Service строит отчёты.
type Service struct {
	repo Repository
}

// New создает новый экземпляр Service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// ByCategory суммирует минуты по категориям за период.
func (s *Service) ByCategory(ctx context.Context, filter models.StatsFilter) ([]models.CategoryStat, error) {
	res, err := s.repo.StatsByCategory(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("services.stats.ByCategory: %w", err)
	}
	return res, nil
}

// AllTimeByCategory суммирует минуты пользователя по категориям за всё время.
func (s *Service) AllTimeByCategory(ctx context.Context, userID int64) ([]models.CategoryTotal, error) {
	res, err := s.repo.StatsAllTimeByCategory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("services.stats.AllTimeByCategory: %w", err)
	}
	return res, nil
}

// TotalTime возвращает общую сумму минут за период.
func (s *Service) TotalTime(ctx context.Context, filter models.StatsFilter) (models.TotalTime, error) {
	res, err := s.repo.TotalTime(ctx, filter)
	if err != nil {
		return models.TotalTime{}, fmt.Errorf("services.stats.TotalTime: %w", err)
	}
	return res, nil
}

// ByCategoryAndSubscription суммирует минуты по парам категория × тариф.
func (s *Service) ByCategoryAndSubscription(ctx context.Context, filter models.StatsFilter) ([]models.CategorySubscriptionStat, error) {
	res, err := s.repo.StatsByCategoryAndSubscription(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("services.stats.ByCategoryAndSubscription: %w", err)
	}
	return res, nil
}

// ByDayOfWeek возвращает ровно семь строк с воскресенья по субботу,
// дни без тренировок заполняются нулём.
func (s *Service) ByDayOfWeek(ctx context.Context, filter models.StatsFilter) ([]models.DayOfWeekStat, error) {
	rows, err := s.repo.StatsByDayOfWeek(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("services.stats.ByDayOfWeek: %w", err)
	}
	return fillWeek(rows), nil
}

// BySubscriptionOverTime суммирует минуты по парам месяц × тариф.
func (s *Service) BySubscriptionOverTime(ctx context.Context, filter models.StatsFilter) ([]models.SubscriptionMonthStat, error) {
	res, err := s.repo.StatsBySubscriptionOverTime(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("services.stats.BySubscriptionOverTime: %w", err)
	}
	return res, nil
}

func fillWeek(rows []models.WeekdayTotal) []models.DayOfWeekStat {
	var totals [7]int64
	for _, r := range rows {
		totals[r.Weekday] += r.TotalMinutes
	}

	week := period.Week()
	out := make([]models.DayOfWeekStat, 0, len(week))
	for _, d := range week {
		out = append(out, models.DayOfWeekStat{
			DayOfWeek:    d.String(),
			TotalMinutes: totals[d],
		})
	}
	return out
}
