// Package read реализует HTTP-обработчик получения тренировки по ID.
package read

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-tracker/internal/access"
	"github.com/magabrotheeeer/gym-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-tracker/internal/http/response"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// Handler обрабатывает запросы на получение тренировки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения тренировки.
type Service interface {
	Get(ctx context.Context, id int64) (*models.Training, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить тренировку
// @Tags Trainings
// @Produce  json
// @Param id path int true "ID тренировки"
// @Success 200 {object} models.Training
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Тренировка не найдена"
// @Security BearerAuth
// @Router /trainings/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.training.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	p, ok := middlewarectx.PrincipalFrom(r.Context())
	if !ok {
		log.Error("principal not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	training, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Error("failed to read training", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	// Владелец известен только после чтения записи.
	if err := access.CanAccessUser(p, &training.UserID); err != nil {
		log.Warn("access denied", slog.Int64("caller", p.UserID), slog.Int64("training_id", id))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(training))
}
