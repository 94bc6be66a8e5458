package gymtracker

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-tracker/internal/config"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/migrations"
)

type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

type apiClient struct {
	t       *testing.T
	handler http.Handler
}

func (c apiClient) do(method, path, token string, body any) (int, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	var env envelope
	if bytes.HasPrefix(rec.Body.Bytes(), []byte("{")) {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func newTestApp(t *testing.T) (*App, apiClient) {
	t.Helper()

	cfg := &config.Config{
		Env: sl.EnvLocal,
		Storage: config.Storage{
			Driver:  migrations.DriverSQLite,
			DSN:     "file:" + filepath.Join(t.TempDir(), "app.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
			Migrate: true,
		},
		HTTPServer: config.HTTPServer{AddressHTTP: ":0", TimeoutHTTP: 5 * time.Second, IdleTimeout: time.Minute},
		JWTToken:   config.JWTToken{JWTSecretKey: "app-test-secret", TokenTTL: time.Hour},
		RateLimit:  config.RateLimit{RPS: 1000, Burst: 1000},
	}

	app, err := New(context.Background(), cfg, sl.Discard())
	require.NoError(t, err)
	t.Cleanup(app.close)
	return app, apiClient{t: t, handler: app.server.Handler}
}

func registerUser(t *testing.T, c apiClient, email, sub string) int64 {
	t.Helper()
	code, env := c.do(http.MethodPost, "/api/v1/users", "", map[string]string{
		"name":              "Test",
		"surname":           "User",
		"email":             email,
		"password":          "Secret123",
		"subscription_type": sub,
		"role":              "admin",
	})
	require.Equal(t, http.StatusCreated, code, env.Error)

	var u struct {
		ID   int64  `json:"user_id"`
		Role string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &u))
	assert.Equal(t, "user", u.Role, "public registration never grants admin")
	return u.ID
}

func loginUser(t *testing.T, c apiClient, email string) string {
	t.Helper()
	code, env := c.do(http.MethodPost, "/api/v1/login", "", map[string]string{
		"email":    email,
		"password": "Secret123",
	})
	require.Equal(t, http.StatusOK, code, env.Error)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Token
}

func TestApp_EndToEnd(t *testing.T) {
	app, c := newTestApp(t)

	annaEmail := uuid.NewString() + "@example.com"
	borisEmail := uuid.NewString() + "@example.com"
	adminEmail := uuid.NewString() + "@example.com"

	anna := registerUser(t, c, annaEmail, "standard")
	boris := registerUser(t, c, borisEmail, "vip")
	registerUser(t, c, adminEmail, "premium")
	_, err := app.db.DB.Exec(`UPDATE users SET role = 'admin' WHERE email = ?`, adminEmail)
	require.NoError(t, err)

	annaToken := loginUser(t, c, annaEmail)
	borisToken := loginUser(t, c, borisEmail)
	adminToken := loginUser(t, c, adminEmail)

	code, _ := c.do(http.MethodPost, "/api/v1/login", "", map[string]string{"email": annaEmail, "password": "Wrong1234"})
	assert.Equal(t, http.StatusUnauthorized, code)

	// Справочник категорий доступен любому аутентифицированному пользователю.
	code, env := c.do(http.MethodGet, "/api/v1/categories", annaToken, nil)
	require.Equal(t, http.StatusOK, code)
	var categories []struct {
		ID   int64  `json:"category_id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	ids := map[string]int64{}
	for _, cat := range categories {
		ids[cat.Name] = cat.ID
	}
	require.Contains(t, ids, "Cardio")
	require.Contains(t, ids, "Running")

	trainings := []struct {
		token    string
		user     int64
		category string
		date     string
		minutes  int
	}{
		{annaToken, anna, "Cardio", "2024-03-03", 20},
		{annaToken, anna, "Cardio", "2024-03-05", 30},
		{annaToken, anna, "Running", "2024-03-05", 15},
		{borisToken, boris, "Cardio", "2024-03-05", 40},
	}
	for _, tr := range trainings {
		code, env := c.do(http.MethodPost, "/api/v1/trainings", tr.token, map[string]any{
			"user_id":           tr.user,
			"category_id":       ids[tr.category],
			"date":              tr.date,
			"training_duration": tr.minutes,
		})
		require.Equal(t, http.StatusCreated, code, env.Error)
	}

	t.Run("нельзя записать тренировку другому пользователю", func(t *testing.T) {
		code, _ := c.do(http.MethodPost, "/api/v1/trainings", annaToken, map[string]any{
			"user_id": boris, "category_id": ids["Cardio"], "date": "2024-03-06", "training_duration": 10,
		})
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("несуществующая категория", func(t *testing.T) {
		code, env := c.do(http.MethodPost, "/api/v1/trainings", adminToken, map[string]any{
			"user_id": anna, "category_id": 9999, "date": "2024-03-06", "training_duration": 10,
		})
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "category not found", env.Error)
	})

	t.Run("префикс статистики без отчёта", func(t *testing.T) {
		for _, path := range []string{"/api/v1/trainings/stats", "/api/v1/trainings/stats/"} {
			code, env := c.do(http.MethodGet, path, annaToken, nil)
			assert.Equal(t, http.StatusNotFound, code, path)
			assert.Equal(t, "report not found", env.Error, path)
		}
	})

	t.Run("общее время пользователя", func(t *testing.T) {
		code, env := c.do(http.MethodGet,
			"/api/v1/trainings/stats/total-time?user_id="+itoa(anna)+"&date_from=2024-03-01&date_to=2024-03-31", annaToken, nil)
		require.Equal(t, http.StatusOK, code, env.Error)
		assert.JSONEq(t, `{"total_minutes":65}`, string(env.Data))
	})

	t.Run("статистика по всем только для администратора", func(t *testing.T) {
		url := "/api/v1/trainings/stats/total-time?date_from=2024-03-01&date_to=2024-03-31"
		code, _ := c.do(http.MethodGet, url, annaToken, nil)
		assert.Equal(t, http.StatusForbidden, code)

		code, env := c.do(http.MethodGet, url, adminToken, nil)
		require.Equal(t, http.StatusOK, code)
		assert.JSONEq(t, `{"total_minutes":105}`, string(env.Data))
	})

	t.Run("дни недели", func(t *testing.T) {
		code, env := c.do(http.MethodGet,
			"/api/v1/trainings/stats/by-day-of-week?date_from=2024-03-01&date_to=2024-03-31", adminToken, nil)
		require.Equal(t, http.StatusOK, code)
		var days []struct {
			Day     string `json:"day_of_week"`
			Minutes int64  `json:"total_minutes"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &days))
		require.Len(t, days, 7)
		assert.Equal(t, "Sunday", days[0].Day)
		assert.Equal(t, int64(20), days[0].Minutes)
		assert.Equal(t, "Tuesday", days[2].Day)
		assert.Equal(t, int64(85), days[2].Minutes)
	})

	t.Run("администраторские маршруты", func(t *testing.T) {
		code, _ := c.do(http.MethodGet, "/api/v1/users", annaToken, nil)
		assert.Equal(t, http.StatusForbidden, code)

		code, _ = c.do(http.MethodGet, "/api/v1/users?limit=10", adminToken, nil)
		assert.Equal(t, http.StatusOK, code)

		code, _ = c.do(http.MethodGet, "/api/v1/users", "", nil)
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("удаление пользователя удаляет его тренировки", func(t *testing.T) {
		code, _ := c.do(http.MethodDelete, "/api/v1/users/"+itoa(boris), adminToken, nil)
		require.Equal(t, http.StatusOK, code)

		code, env := c.do(http.MethodGet,
			"/api/v1/trainings/stats/total-time?date_from=2024-03-01&date_to=2024-03-31", adminToken, nil)
		require.Equal(t, http.StatusOK, code)
		assert.JSONEq(t, `{"total_minutes":65}`, string(env.Data))
	})

	t.Run("служебные маршруты", func(t *testing.T) {
		code, _ := c.do(http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, code)

		rec := httptest.NewRecorder()
		c.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `route="/api/v1/trainings/stats/total-time"`)
	})
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
