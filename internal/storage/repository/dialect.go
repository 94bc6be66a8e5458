package repository

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/magabrotheeeer/gym-tracker/internal/migrations"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

const pgUniqueViolation = "23505"

// dialect описывает то, чем PostgreSQL и SQLite расходятся в запросах.
// Запросы пишутся с плейсхолдерами "?", для PostgreSQL они переписываются в $n.
type dialect struct {
	name      string
	sqlDriver string
	numbered  bool

	// Номер дня недели даты тренировки, 0 = воскресенье.
	weekdayExpr string
	// Первое число месяца даты тренировки.
	monthExpr string
	// Год регистрации пользователя.
	yearExpr string
	// Регистронезависимое сравнение по шаблону.
	likeOp string
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case migrations.DriverPostgres:
		return dialect{
			name:        driver,
			sqlDriver:   "pgx",
			numbered:    true,
			weekdayExpr: "EXTRACT(DOW FROM t.date)::int",
			monthExpr:   "date_trunc('month', t.date)::date",
			yearExpr:    "EXTRACT(YEAR FROM created_at)::int",
			likeOp:      "ILIKE",
		}, nil
	case migrations.DriverSQLite:
		return dialect{
			name:        driver,
			sqlDriver:   "sqlite",
			weekdayExpr: "CAST(strftime('%w', t.date) AS INTEGER)",
			monthExpr:   "strftime('%Y-%m-01', t.date)",
			yearExpr:    "CAST(strftime('%Y', created_at) AS INTEGER)",
			likeOp:      "LIKE",
		}, nil
	default:
		return dialect{}, fmt.Errorf("unsupported storage driver %q", driver)
	}
}

// rebind заменяет "?" на $1, $2, ... для PostgreSQL.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// dateArg приводит календарную дату к виду, который драйвер сравнивает корректно.
// В SQLite даты хранятся текстом "2006-01-02".
func (d dialect) dateArg(date models.Date) any {
	if d.numbered {
		return date.Time
	}
	return date.String()
}

func (d dialect) isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
	}
	return false
}

// dateValue сканирует колонку даты, которую драйверы отдают
// то как time.Time, то как текст.
type dateValue struct {
	dst *models.Date
}

func (v dateValue) Scan(src any) error {
	switch x := src.(type) {
	case time.Time:
		*v.dst = models.NewDate(x)
		return nil
	case string:
		return v.parse(x)
	case []byte:
		return v.parse(string(x))
	default:
		return fmt.Errorf("unsupported date value %T", src)
	}
}

func (v dateValue) parse(s string) error {
	if len(s) > len(models.DateLayout) {
		s = s[:len(models.DateLayout)]
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return err
	}
	*v.dst = d
	return nil
}

// timeValue сканирует отметку времени из time.Time или текста RFC 3339.
type timeValue struct {
	dst *time.Time
}

func (v timeValue) Scan(src any) error {
	switch x := src.(type) {
	case time.Time:
		*v.dst = x.UTC()
		return nil
	case string:
		return v.parse(x)
	case []byte:
		return v.parse(string(x))
	default:
		return fmt.Errorf("unsupported timestamp value %T", src)
	}
}

func (v timeValue) parse(s string) error {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", models.DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			*v.dst = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unsupported timestamp format %q", s)
}
