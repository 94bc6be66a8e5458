package models

import "time"

// StatsFilter общий фильтр отчётов: диапазон дат включительно с обеих
// сторон и необязательный пользователь (nil означает всех пользователей).
type StatsFilter struct {
	UserID   *int64
	DateFrom Date
	DateTo   Date
}

// CategoryStat сумма минут по категории за период.
type CategoryStat struct {
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name"`
	TotalMinutes int64  `json:"total_minutes"`
}

// CategoryTotal сумма минут по категории за всё время.
type CategoryTotal struct {
	CategoryName string `json:"category_name"`
	TotalMinutes int64  `json:"total_minutes"`
}

// TotalTime общая сумма минут за период.
type TotalTime struct {
	TotalMinutes int64 `json:"total_minutes"`
}

// CategorySubscriptionStat сумма минут по паре категория × тариф.
type CategorySubscriptionStat struct {
	CategoryName     string           `json:"category_name"`
	SubscriptionType SubscriptionType `json:"subscription_type"`
	TotalMinutes     int64            `json:"total_minutes"`
}

// WeekdayTotal строка хранилища для отчёта по дням недели.
type WeekdayTotal struct {
	Weekday      time.Weekday
	TotalMinutes int64
}

// DayOfWeekStat сумма минут по дню недели ("Sunday".."Saturday").
type DayOfWeekStat struct {
	DayOfWeek    string `json:"day_of_week"`
	TotalMinutes int64  `json:"total_minutes"`
}

// SubscriptionMonthStat сумма минут по месяцу ("2024-03") и тарифу.
type SubscriptionMonthStat struct {
	MonthYear        string           `json:"month_year"`
	SubscriptionType SubscriptionType `json:"subscription_type"`
	TotalMinutes     int64            `json:"total_minutes"`
}
