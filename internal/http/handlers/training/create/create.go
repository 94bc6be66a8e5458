// Package create реализует HTTP-обработчик записи новой тренировки.
//
// Handler принимает JSON-запрос с данными тренировки, валидирует его,
// проверяет, что вызывающий пишет тренировку себе (или является администратором),
// и возвращает сохранённую запись.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gym-tracker/internal/access"
	"github.com/magabrotheeeer/gym-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-tracker/internal/http/response"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/validate"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// Handler управляет HTTP-запросами на создание тренировок.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис записи тренировок
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики записи тренировки.
type Service interface {
	Create(ctx context.Context, req models.DummyTraining) (*models.Training, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Записать тренировку
// @Description Сохраняет тренировку пользователя. Обычный пользователь может записывать только свои тренировки.
// @Tags Trainings
// @Accept  json
// @Produce  json
// @Param request body models.DummyTraining true "Данные тренировки"
// @Success 201 {object} models.Training
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь или категория не найдены"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Security BearerAuth
// @Router /trainings [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.training.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyTraining
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	p, ok := middlewarectx.PrincipalFrom(r.Context())
	if !ok {
		log.Error("principal not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	if err := access.CanAccessUser(p, &req.UserID); err != nil {
		log.Warn("access denied", slog.Int64("caller", p.UserID), slog.Int64("user_id", req.UserID))
		response.Fail(w, r, err)
		return
	}

	training, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create training", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("training created", slog.Int64("training_id", training.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(training))
}
