// Package gymtracker собирает HTTP- и gRPC-серверы сервиса учёта тренировок.
package gymtracker

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/gym-tracker/internal/config"
	"github.com/magabrotheeeer/gym-tracker/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/gym-tracker/internal/http/handlers/auth/register"
	categorylist "github.com/magabrotheeeer/gym-tracker/internal/http/handlers/category/list"
	categoryread "github.com/magabrotheeeer/gym-tracker/internal/http/handlers/category/read"
	"github.com/magabrotheeeer/gym-tracker/internal/http/handlers/health"
	statshandlers "github.com/magabrotheeeer/gym-tracker/internal/http/handlers/stats"
	trainingcreate "github.com/magabrotheeeer/gym-tracker/internal/http/handlers/training/create"
	trainingread "github.com/magabrotheeeer/gym-tracker/internal/http/handlers/training/read"
	"github.com/magabrotheeeer/gym-tracker/internal/http/handlers/user/countsub"
	userlist "github.com/magabrotheeeer/gym-tracker/internal/http/handlers/user/list"
	userread "github.com/magabrotheeeer/gym-tracker/internal/http/handlers/user/read"
	"github.com/magabrotheeeer/gym-tracker/internal/http/handlers/user/remove"
	"github.com/magabrotheeeer/gym-tracker/internal/http/handlers/user/search"
	"github.com/magabrotheeeer/gym-tracker/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/gym-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-tracker/internal/http/response"
	"github.com/magabrotheeeer/gym-tracker/internal/metrics"
	authservice "github.com/magabrotheeeer/gym-tracker/internal/services/auth"
	categoryservice "github.com/magabrotheeeer/gym-tracker/internal/services/category"
	statsservice "github.com/magabrotheeeer/gym-tracker/internal/services/stats"
	trainingservice "github.com/magabrotheeeer/gym-tracker/internal/services/training"
	userservice "github.com/magabrotheeeer/gym-tracker/internal/services/user"
)

// Services сервисы, которые обслуживают маршруты API.
type Services struct {
	Auth       *authservice.Service
	Users      *userservice.Service
	Categories *categoryservice.Service
	Trainings  *trainingservice.Service
	Stats      *statsservice.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	tokens middlewarectx.TokenParser,
	svc Services,
	storage health.Pinger,
	m *metrics.Metrics,
	limit config.RateLimit,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		m.Middleware,
	)

	r.Get("/health", health.New(logger, storage).ServeHTTP)
	r.Handle("/metrics", m.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)

	stats := statshandlers.New(logger, svc.Stats)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, limit.RPS, limit.Burst))

		// Открытые конечные точки
		r.Post("/login", login.New(logger, svc.Auth).ServeHTTP)
		r.With(middlewarectx.OptionalJWTMiddleware(tokens, logger)).
			Post("/users", register.New(logger, svc.Users).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(tokens, logger))

			r.Get("/users/{id}", userread.New(logger, svc.Users).ServeHTTP)
			r.Patch("/users/{id}", update.New(logger, svc.Users).ServeHTTP)

			r.Get("/categories", categorylist.New(logger, svc.Categories).ServeHTTP)
			r.Get("/categories/{id}", categoryread.New(logger, svc.Categories).ServeHTTP)

			r.Post("/trainings", trainingcreate.New(logger, svc.Trainings).ServeHTTP)
			r.Get("/trainings/{id}", trainingread.New(logger, svc.Trainings).ServeHTTP)

			// Префикс без имени отчёта не должен читаться как /trainings/{id}.
			r.Route("/trainings/stats", func(r chi.Router) {
				r.Get("/", reportNotFound)
				r.Get("/by-category", stats.ByCategory)
				r.Get("/by-category/{user_id}", stats.AllTimeByCategory)
				r.Get("/total-time", stats.TotalTime)
				r.Get("/by-subscription", stats.ByCategoryAndSubscription)
				r.Get("/by-day-of-week", stats.ByDayOfWeek)
				r.Get("/by-subscription-over-time", stats.BySubscriptionOverTime)
			})

			// Только для администраторов
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnly(logger))
				r.Get("/users", userlist.New(logger, svc.Users).ServeHTTP)
				r.Get("/users/search", search.New(logger, svc.Users).ServeHTTP)
				r.Get("/users/stats/subscriptions", countsub.New(logger, svc.Users).ServeHTTP)
				r.Delete("/users/{id}", remove.New(logger, svc.Users).ServeHTTP)
			})
		})
	})
}

func reportNotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	render.JSON(w, r, response.Error("report not found"))
}
