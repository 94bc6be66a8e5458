// Package migrations содержит схему базы данных для обоих поддерживаемых
// драйверов и применяет её через golang-migrate из встроенных файлов.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgxv5 "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Поддерживаемые драйверы хранилища.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

//go:embed postgres/*.sql sqlite/*.sql
var migrationsFS embed.FS

// Up применяет все непримененные миграции. Отсутствие изменений ошибкой не считается.
func Up(driver, dsn string) error {
	return run(driver, dsn, func(m *migrate.Migrate) error {
		return m.Up()
	})
}

// Down откатывает все миграции.
func Down(driver, dsn string) error {
	return run(driver, dsn, func(m *migrate.Migrate) error {
		return m.Down()
	})
}

func run(driver, dsn string, step func(*migrate.Migrate) error) error {
	const op = "migrations.run"

	sqlDriver, err := sqlDriverName(driver)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if driver == DriverSQLite {
		dsn = SQLiteDSN(dsn)
	}

	// Отдельное соединение: Close у драйвера миграций закрывает и *sql.DB.
	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return fmt.Errorf("%s: open database: %w", op, err)
	}
	defer db.Close()

	var dbDriver database.Driver
	switch driver {
	case DriverPostgres:
		dbDriver, err = pgxv5.WithInstance(db, &pgxv5.Config{})
	case DriverSQLite:
		dbDriver, err = sqlite.WithInstance(db, &sqlite.Config{})
	}
	if err != nil {
		return fmt.Errorf("%s: create %s driver: %w", op, driver, err)
	}

	src, err := iofs.New(migrationsFS, driver)
	if err != nil {
		return fmt.Errorf("%s: create iofs source: %w", op, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, dbDriver)
	if err != nil {
		return fmt.Errorf("%s: create migrate instance: %w", op, err)
	}
	defer m.Close()

	if err := step(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func sqlDriverName(driver string) (string, error) {
	switch driver {
	case DriverPostgres:
		return "pgx", nil
	case DriverSQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported storage driver %q", driver)
	}
}

const sqliteForeignKeys = "_pragma=foreign_keys(1)"

// SQLiteDSN включает в строку подключения SQLite проверку внешних ключей.
// Без неё ON DELETE CASCADE не срабатывает. Явно заданный foreign_keys не меняется.
func SQLiteDSN(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqliteForeignKeys
	}
	return dsn + "?" + sqliteForeignKeys
}
