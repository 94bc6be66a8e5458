// Package countsub реализует HTTP-обработчик подсчёта пользователей по тарифам.
//
// Необязательный параметр year оставляет только пользователей,
// зарегистрированных не позже указанного года.
package countsub

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-tracker/internal/http/response"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// Handler обрабатывает запросы статистики пользователей по тарифам.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики подсчёта.
type Service interface {
	CountBySubscription(ctx context.Context, year *int) ([]models.UserCountBySubscription, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Количество пользователей по тарифам
// @Tags Users
// @Produce  json
// @Param year query int false "Учитывать пользователей, созданных не позже этого года"
// @Success 200 {array} models.UserCountBySubscription
// @Failure 400 {object} response.ErrorResponse "Некорректный год"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Security BearerAuth
// @Router /users/stats/subscriptions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.countsub"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var year *int
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			log.Error("invalid year", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid year"))
			return
		}
		year = &y
	}

	counts, err := h.service.CountBySubscription(r.Context(), year)
	if err != nil {
		log.Error("failed to count users", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(counts))
}
