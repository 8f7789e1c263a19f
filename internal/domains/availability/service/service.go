package service

import (
	"context"
	"fmt"

	"lodge/config"
	"lodge/infras/otel"
	"lodge/internal/domains/availability/model"
	"lodge/internal/domains/availability/model/dto"
	"lodge/internal/domains/availability/repository"
	roomModel "lodge/internal/domains/room/model"
	roomRepo "lodge/internal/domains/room/repository"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Availability interface {
	GetCalendar(ctx context.Context, roomID, startDate, endDate string) (dto.GetCalendarResponse, error)
	ExtendHorizon(ctx context.Context, req dto.ExtendHorizonRequest) error
}

type serviceImpl struct {
	repo     repository.Availability
	roomRepo roomRepo.Room
	cfg      *config.Config
	otel     otel.Otel
}

func New(repo repository.Availability, roomRepo roomRepo.Room, cfg *config.Config, otel otel.Otel) Availability {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		cfg:      cfg,
		otel:     otel,
	}
}

// GetCalendar lists the ledger rows of one room over a date range, ascending
// by day. The range is half-open: endDate itself is not included.
func (s *serviceImpl) GetCalendar(ctx context.Context, roomID, startDate, endDate string) (res dto.GetCalendarResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetCalendar")
	defer scope.End()
	defer scope.TraceIfError(err)

	start, err := timezone.ParseDay(startDate)
	if err != nil {
		return res, failure.BadRequestFromString("start_date must be a valid date in YYYY-MM-DD format")
	}

	end, err := timezone.ParseDay(endDate)
	if err != nil {
		return res, failure.BadRequestFromString("end_date must be a valid date in YYYY-MM-DD format")
	}

	if !start.Before(end) {
		return res, failure.BadRequestFromString("end_date must be after start_date")
	}

	exist, err := s.roomRepo.Exist(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return res, fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound("room not found") //nolint:wrapcheck
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRoomID,
				Operator: gDto.FilterOperatorEq,
				Value:    roomID,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "day_start",
				Field:    model.FieldDay,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    start,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "day_end",
				Field:    model.FieldDay,
				Operator: gDto.FilterOperatorLess,
				Value:    end,
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{
		SortBy:  model.FieldDay,
		SortDir: "ASC",
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get availability calendar")

		return res, fmt.Errorf("failed to get availability calendar: %w", err)
	}

	summary, err := s.repo.Summarize(ctx, roomID, model.DaySet(start, end))
	if err != nil {
		log.Error().Err(err).Msg("failed to summarize availability")

		return res, fmt.Errorf("failed to summarize availability: %w", err)
	}

	res.FromModels(roomID, models)
	res.Summary.FromModel(summary)

	return res, nil
}

// ExtendHorizon makes sure the room has ledger rows covering the requested
// number of days from today. Days already present keep their counters.
func (s *serviceImpl) ExtendHorizon(ctx context.Context, req dto.ExtendHorizonRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ExtendHorizon")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return failure.NotFound("room not found") //nolint:wrapcheck
	}

	if err = s.repo.EnsureRange(ctx, req.ToModels(user, room.Capacity)); err != nil {
		log.Error().Err(err).Msg("failed to extend availability horizon")

		return fmt.Errorf("failed to extend availability horizon: %w", err)
	}

	log.Info().Str("room_id", req.RoomID).Int("days", req.Days).Msg("availability horizon extended")

	return nil
}
