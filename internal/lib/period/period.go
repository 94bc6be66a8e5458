// Package period содержит функции работы с календарём для отчётов:
// разбор диапазона дат, канонический порядок дней недели и метки месяцев.
//
// Каноническая нумерация дней недели совпадает с time.Weekday:
// 0 воскресенье, 6 суббота. Каждый диалект хранилища обязан
// отдавать номер дня именно в этой нумерации.
package period

import (
	"fmt"
	"time"

	"github.com/magabrotheeeer/gym-tracker/internal/apperr"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// MonthLayout формат метки месяца в отчётах ("2024-03").
const MonthLayout = "2006-01"

// ParseRange разбирает границы периода в формате models.DateLayout.
// Период, у которого начало позже конца, не считается ошибкой:
// по нему просто не найдётся ни одной тренировки.
func ParseRange(from, to string) (models.Date, models.Date, error) {
	dateFrom, err := models.ParseDate(from)
	if err != nil {
		return models.Date{}, models.Date{}, apperr.Validation("date_from must be in format %s", models.DateLayout)
	}
	dateTo, err := models.ParseDate(to)
	if err != nil {
		return models.Date{}, models.Date{}, apperr.Validation("date_to must be in format %s", models.DateLayout)
	}
	return dateFrom, dateTo, nil
}

// Week возвращает все семь дней недели в порядке отчёта: с воскресенья по субботу.
func Week() []time.Weekday {
	week := make([]time.Weekday, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		week = append(week, d)
	}
	return week
}

// Weekday переводит номер дня из хранилища в time.Weekday.
func Weekday(n int) (time.Weekday, error) {
	if n < int(time.Sunday) || n > int(time.Saturday) {
		return 0, fmt.Errorf("day of week %d out of range 0..6", n)
	}
	return time.Weekday(n), nil
}

// MonthLabel возвращает метку месяца для даты.
func MonthLabel(t time.Time) string {
	return t.Format(MonthLayout)
}
