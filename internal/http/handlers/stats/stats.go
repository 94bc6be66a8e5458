// Package stats реализует HTTP-обработчики отчётов по тренировкам.
//
// Отчёты за период принимают query-параметры date_from и date_to
// (YYYY-MM-DD, границы включительно) и необязательный user_id.
// Без user_id отчёт строится по всем пользователям и доступен только
// администраторам. Права проверяются до обращения к хранилищу.
package stats

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-tracker/internal/access"
	"github.com/magabrotheeeer/gym-tracker/internal/apperr"
	"github.com/magabrotheeeer/gym-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-tracker/internal/http/response"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/period"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// Service описывает построение отчётов.
type Service interface {
	ByCategory(ctx context.Context, filter models.StatsFilter) ([]models.CategoryStat, error)
	AllTimeByCategory(ctx context.Context, userID int64) ([]models.CategoryTotal, error)
	TotalTime(ctx context.Context, filter models.StatsFilter) (models.TotalTime, error)
	ByCategoryAndSubscription(ctx context.Context, filter models.StatsFilter) ([]models.CategorySubscriptionStat, error)
	ByDayOfWeek(ctx context.Context, filter models.StatsFilter) ([]models.DayOfWeekStat, error)
	BySubscriptionOverTime(ctx context.Context, filter models.StatsFilter) ([]models.SubscriptionMonthStat, error)
}

// Handler обслуживает все отчёты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ByCategory godoc
// @Summary Минуты по категориям за период
// @Tags Stats
// @Produce  json
// @Param user_id query int false "ID пользователя; без него отчёт по всем (только админ)"
// @Param date_from query string true "Начало периода, YYYY-MM-DD"
// @Param date_to query string true "Конец периода, YYYY-MM-DD"
// @Success 200 {array} models.CategoryStat
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Некорректные параметры"
// @Security BearerAuth
// @Router /trainings/stats/by-category [get]
func (h *Handler) ByCategory(w http.ResponseWriter, r *http.Request) {
	serveReport(h, w, r, "handlers.stats.ByCategory", h.service.ByCategory)
}

// TotalTime godoc
// @Summary Общее время тренировок за период
// @Tags Stats
// @Produce  json
// @Param user_id query int false "ID пользователя; без него отчёт по всем (только админ)"
// @Param date_from query string true "Начало периода, YYYY-MM-DD"
// @Param date_to query string true "Конец периода, YYYY-MM-DD"
// @Success 200 {object} models.TotalTime
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Некорректные параметры"
// @Security BearerAuth
// @Router /trainings/stats/total-time [get]
func (h *Handler) TotalTime(w http.ResponseWriter, r *http.Request) {
	serveReport(h, w, r, "handlers.stats.TotalTime", h.service.TotalTime)
}

// ByCategoryAndSubscription godoc
// @Summary Минуты по категориям и тарифам за период
// @Tags Stats
// @Produce  json
// @Param user_id query int false "ID пользователя; без него отчёт по всем (только админ)"
// @Param date_from query string true "Начало периода, YYYY-MM-DD"
// @Param date_to query string true "Конец периода, YYYY-MM-DD"
// @Success 200 {array} models.CategorySubscriptionStat
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Некорректные параметры"
// @Security BearerAuth
// @Router /trainings/stats/by-subscription [get]
func (h *Handler) ByCategoryAndSubscription(w http.ResponseWriter, r *http.Request) {
	serveReport(h, w, r, "handlers.stats.ByCategoryAndSubscription", h.service.ByCategoryAndSubscription)
}

// ByDayOfWeek godoc
// @Summary Минуты по дням недели за период
// @Description Всегда семь строк с воскресенья по субботу.
// @Tags Stats
// @Produce  json
// @Param user_id query int false "ID пользователя; без него отчёт по всем (только админ)"
// @Param date_from query string true "Начало периода, YYYY-MM-DD"
// @Param date_to query string true "Конец периода, YYYY-MM-DD"
// @Success 200 {array} models.DayOfWeekStat
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Некорректные параметры"
// @Security BearerAuth
// @Router /trainings/stats/by-day-of-week [get]
func (h *Handler) ByDayOfWeek(w http.ResponseWriter, r *http.Request) {
	serveReport(h, w, r, "handlers.stats.ByDayOfWeek", h.service.ByDayOfWeek)
}

// BySubscriptionOverTime godoc
// @Summary Минуты по месяцам и тарифам за период
// @Tags Stats
// @Produce  json
// @Param user_id query int false "ID пользователя; без него отчёт по всем (только админ)"
// @Param date_from query string true "Начало периода, YYYY-MM-DD"
// @Param date_to query string true "Конец периода, YYYY-MM-DD"
// @Success 200 {array} models.SubscriptionMonthStat
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Некорректные параметры"
// @Security BearerAuth
// @Router /trainings/stats/by-subscription-over-time [get]
func (h *Handler) BySubscriptionOverTime(w http.ResponseWriter, r *http.Request) {
	serveReport(h, w, r, "handlers.stats.BySubscriptionOverTime", h.service.BySubscriptionOverTime)
}

// AllTimeByCategory godoc
// @Summary Минуты пользователя по категориям за всё время
// @Tags Stats
// @Produce  json
// @Param user_id path int true "ID пользователя"
// @Success 200 {array} models.CategoryTotal
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Security BearerAuth
// @Router /trainings/stats/by-category/{user_id} [get]
func (h *Handler) AllTimeByCategory(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.stats.AllTimeByCategory"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		log.Error("failed to decode user_id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user_id"))
		return
	}

	if !h.authorize(w, r, log, &userID) {
		return
	}

	res, err := h.service.AllTimeByCategory(r.Context(), userID)
	if err != nil {
		log.Error("failed to build report", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(res))
}

func serveReport[T any](h *Handler, w http.ResponseWriter, r *http.Request, op string,
	build func(context.Context, models.StatsFilter) (T, error),
) {
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter, err := parseFilter(r)
	if err != nil {
		log.Error("invalid report parameters", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	if !h.authorize(w, r, log, filter.UserID) {
		return
	}

	res, err := build(r.Context(), filter)
	if err != nil {
		log.Error("failed to build report", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Debug("report built",
		slog.String("date_from", filter.DateFrom.String()),
		slog.String("date_to", filter.DateTo.String()),
	)
	render.JSON(w, r, response.StatusOKWithData(res))
}

func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, log *slog.Logger, userID *int64) bool {
	p, ok := middlewarectx.PrincipalFrom(r.Context())
	if !ok {
		log.Error("principal not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return false
	}
	if err := access.CanAccessUser(p, userID); err != nil {
		log.Warn("access denied", slog.Int64("caller", p.UserID))
		response.Fail(w, r, err)
		return false
	}
	return true
}

func parseFilter(r *http.Request) (models.StatsFilter, error) {
	q := r.URL.Query()

	var filter models.StatsFilter
	if raw := q.Get("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filter, apperr.Validation("user_id must be a positive integer")
		}
		filter.UserID = &id
	}

	from, to, err := period.ParseRange(q.Get("date_from"), q.Get("date_to"))
	if err != nil {
		return filter, err
	}
	filter.DateFrom, filter.DateTo = from, to
	return filter, nil
}
