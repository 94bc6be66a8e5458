// Package search реализует HTTP-обработчик поиска пользователей
// по имени или фамилии, тарифу и роли.
package search

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-tracker/internal/http/response"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// Handler обрабатывает запросы поиска пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики поиска.
type Service interface {
	Search(ctx context.Context, filter models.UserSearchFilter) ([]models.UserSearchResult, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Поиск пользователей
// @Description Подстрока ищется в имени и фамилии без учёта регистра. Только для администраторов.
// @Tags Users
// @Produce  json
// @Param search query string false "Подстрока имени или фамилии"
// @Param subscription_type query string false "Тариф" Enums(standard, premium, vip)
// @Param role query string false "Роль" Enums(user, admin)
// @Success 200 {array} models.UserSearchResult
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Неизвестный тариф или роль"
// @Security BearerAuth
// @Router /users/search [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.search"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	filter := models.UserSearchFilter{
		Search:           q.Get("search"),
		SubscriptionType: models.SubscriptionType(q.Get("subscription_type")),
		Role:             models.Role(q.Get("role")),
	}

	res, err := h.service.Search(r.Context(), filter)
	if err != nil {
		log.Error("failed to search users", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("users found", slog.Int("count", len(res)))
	render.JSON(w, r, response.StatusOKWithData(res))
}
