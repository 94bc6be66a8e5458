package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout формат календарной даты во всех запросах и ответах.
const DateLayout = "2006-01-02"

// Date календарная дата без времени, сериализуется как "2006-01-02".
type Date struct {
	time.Time
}

// NewDate отбрасывает время суток и часовой пояс.
func NewDate(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate разбирает дату в формате DateLayout.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return NewDate(t), nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON реализует json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON реализует json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	*d = parsed
	return nil
}

// Category справочная категория тренировки. Создаётся только миграциями.
type Category struct {
	ID   int64  `json:"category_id"`
	Name string `json:"name"`
}

// Training одна записанная тренировка пользователя.
type Training struct {
	ID               int64 `json:"training_id"`
	UserID           int64 `json:"user_id"`
	CategoryID       int64 `json:"category_id"`
	Date             Date  `json:"date"`
	TrainingDuration int   `json:"training_duration"` // Длительность в минутах, всегда > 0
}

// MaxTrainingDuration верхняя граница длительности: колонка training_duration имеет тип INTEGER.
const MaxTrainingDuration = math.MaxInt32

// DummyTraining используется для приёма данных тренировки из JSON-запроса.
// Дата приходит строкой, чтобы её можно было провалидировать до разбора.
type DummyTraining struct {
	UserID           int64  `json:"user_id" validate:"required,gt=0"`
	CategoryID       int64  `json:"category_id" validate:"required,gt=0"`
	Date             string `json:"date" validate:"required,datetime=2006-01-02"`
	TrainingDuration int    `json:"training_duration" validate:"required,gt=0,lte=2147483647"`
}
