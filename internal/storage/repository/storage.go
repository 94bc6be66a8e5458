// Package repository реализует хранилище пользователей, категорий и
// тренировок поверх database/sql. Поддерживаются PostgreSQL (pgx) и
// SQLite (modernc), различия диалектов собраны в dialect.go.
// Здесь же живёт агрегирующий слой статистики: все суммы считаются в SQL.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
	// Регистрация драйвера sqlite (без cgo).
	_ "modernc.org/sqlite"

	"github.com/magabrotheeeer/gym-tracker/internal/migrations"
)

// Storage инкапсулирует соединение с базой данных и диалект её SQL.
type Storage struct {
	DB      *sql.DB
	dialect dialect
}

// New открывает соединение с базой выбранного драйвера ("postgres" или "sqlite")
// и проверяет его доступность.
func New(driver, dsn string) (*Storage, error) {
	const op = "storage.New"

	d, err := dialectFor(driver)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if d.name == migrations.DriverSQLite {
		dsn = migrations.SQLiteDSN(dsn)
	}

	db, err := sql.Open(d.sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if d.name == migrations.DriverSQLite {
		// SQLite допускает одного писателя.
		db.SetMaxOpenConns(1)
	}
	if err = db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if d.name == migrations.DriverSQLite {
		if err = checkForeignKeys(context.Background(), db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return &Storage{
		DB:      db,
		dialect: d,
	}, nil
}

// checkForeignKeys убеждается, что SQLite проверяет внешние ключи:
// на этом держится каскадное удаление тренировок вместе с пользователем.
func checkForeignKeys(ctx context.Context, db *sql.DB) error {
	var enabled int
	if err := db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&enabled); err != nil {
		return err
	}
	if enabled != 1 {
		return errors.New("sqlite foreign keys are disabled, remove foreign_keys(0) from dsn")
	}
	return nil
}

// Driver возвращает имя драйвера хранилища.
func (s *Storage) Driver() string {
	return s.dialect.name
}

// Ping проверяет соединение с базой.
func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}
