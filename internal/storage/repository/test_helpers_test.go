package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-tracker/internal/migrations"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// setupTestDatabase поднимает SQLite во временном каталоге и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "gym.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	require.NoError(t, migrations.Up(migrations.DriverSQLite, dsn))

	storage, err := New(migrations.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = storage.Close()
	})
	return storage
}

// TestDataFactory содержит методы для создания тестовых данных.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя с заданным тарифом.
func (f *TestDataFactory) CreateUser(t *testing.T, email string, sub models.SubscriptionType) int64 {
	t.Helper()
	u, err := f.storage.CreateUser(context.Background(), models.User{
		Name:             "Test",
		Surname:          "User",
		Email:            email,
		PasswordHash:     "hash",
		SubscriptionType: sub,
		Role:             models.RoleUser,
	})
	require.NoError(t, err)
	return u.ID
}

// CategoryID возвращает ID категории из сидов по имени.
func (f *TestDataFactory) CategoryID(t *testing.T, name string) int64 {
	t.Helper()
	var id int64
	query := f.storage.dialect.rebind(`SELECT category_id FROM categories WHERE name = ?`)
	err := f.storage.DB.QueryRow(query, name).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateTraining создает тестовую тренировку.
func (f *TestDataFactory) CreateTraining(t *testing.T, userID, categoryID int64, date string, minutes int) int64 {
	t.Helper()
	d, err := models.ParseDate(date)
	require.NoError(t, err)
	tr, err := f.storage.CreateTraining(context.Background(), models.Training{
		UserID:           userID,
		CategoryID:       categoryID,
		Date:             d,
		TrainingDuration: minutes,
	})
	require.NoError(t, err)
	return tr.ID
}

// countTrainings возвращает число сохранённых тренировок.
func countTrainings(t *testing.T, s *Storage) int {
	t.Helper()
	var n int
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM trainings`).Scan(&n))
	return n
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func ptr[T any](v T) *T {
	return &v
}
