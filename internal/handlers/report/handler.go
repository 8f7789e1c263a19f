package report

import (
	"lodge/infras/otel"
	"lodge/internal/domains/report/model/dto"
	"lodge/internal/domains/report/service"
	"lodge/shared/constant"
	"lodge/shared/validator"
	"lodge/transport/http/middleware"
	"lodge/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Report
	auth    middleware.Auth
	otel    otel.Otel
}

func New(service service.Report, auth middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		auth:    auth,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Use(handler.auth.Authenticate)
		r.Use(handler.auth.RequireRole(constant.RoleAdmin))

		r.Post("/bookings/export", handler.ExportBookings)
	})
}

// ExportBookings exports bookings to a CSV object in S3.
// @Summary Export bookings to CSV
// @Description Export every booking starting inside the given range to a CSV object in S3 and return its location. Admin only.
// @Tags Report
// @Accept json
// @Produce json
// @Param request body dto.ExportBookingsRequest true "Export Bookings Request"
// @Success 200 {object} response.Data[dto.ExportBookingsResponse] "Export location"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reports/bookings/export [post]
// @Security BearerAuth
func (handler *Handler) ExportBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExportBookings")
	defer scope.End()

	req := dto.ExportBookingsRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.ExportBookings(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export bookings")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Bookings exported successfully by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}
