package availability

import (
	"lodge/infras/otel"
	"lodge/internal/domains/availability/model/dto"
	"lodge/internal/domains/availability/service"
	"lodge/shared/constant"
	"lodge/shared/validator"
	"lodge/transport/http/middleware"
	"lodge/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Availability
	auth    middleware.Auth
	otel    otel.Otel
}

func New(service service.Availability, auth middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		auth:    auth,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/availability", func(r chi.Router) {
		r.Use(handler.auth.Authenticate)
		r.Use(handler.auth.RequireRole(constant.RoleAdmin, constant.RoleStaff))

		r.Get("/rooms/{id}", handler.GetCalendar)
		r.Post("/extend", handler.ExtendHorizon)
	})
}

// GetCalendar returns the availability ledger of one room over a date range.
// @Summary Get a room's availability calendar
// @Description List per-day total and available units for a room between start_date (inclusive) and end_date (exclusive).
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param start_date query string true "Range start (YYYY-MM-DD)"
// @Param end_date query string true "Range end, exclusive (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetCalendarResponse] "Availability calendar"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/rooms/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCalendar")
	defer scope.End()

	roomID := chi.URLParam(r, constant.RequestParamID)
	startDate := r.URL.Query().Get(constant.RequestParamStartDate)
	endDate := r.URL.Query().Get(constant.RequestParamEndDate)

	calendar, err := handler.service.GetCalendar(ctx, roomID, startDate, endDate)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get availability calendar")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Availability calendar retrieved successfully")

	response.WithJSON(w, http.StatusOK, calendar)
}

// ExtendHorizon creates missing ledger rows for a room.
// @Summary Extend a room's availability horizon
// @Description Ensure the room has ledger rows covering the given number of days from today. Existing days keep their counters.
// @Tags Availability
// @Accept json
// @Produce json
// @Param request body dto.ExtendHorizonRequest true "Extend Horizon Request"
// @Success 200 {object} response.Message "Availability horizon extended successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/extend [post]
// @Security BearerAuth
func (handler *Handler) ExtendHorizon(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExtendHorizon")
	defer scope.End()

	req := dto.ExtendHorizonRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.ExtendHorizon(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to extend availability horizon")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Availability horizon extended by user " + user)

	response.WithMessage(w, http.StatusOK, "Availability horizon extended successfully")
}
