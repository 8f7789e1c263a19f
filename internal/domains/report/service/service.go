package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"lodge/config"
	"lodge/infras/otel"
	"lodge/infras/s3"
	bookingModel "lodge/internal/domains/booking/model"
	bookingRepo "lodge/internal/domains/booking/repository"
	"lodge/internal/domains/report/model/dto"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	exportDirectory  = "reports"
	exportTimeFormat = "20060102T150405"
)

var csvHeader = []string{
	"id", "room_id", "start_date", "end_date", "quantity",
	"total_price", "status", "created_by", "created_at",
}

type Report interface {
	ExportBookings(ctx context.Context, req dto.ExportBookingsRequest) (dto.ExportBookingsResponse, error)
}

type serviceImpl struct {
	bookingRepo bookingRepo.Booking
	storage     s3.S3
	cfg         *config.Config
	otel        otel.Otel
}

func New(bookingRepo bookingRepo.Booking, storage s3.S3, cfg *config.Config, otel otel.Otel) Report {
	return &serviceImpl{
		bookingRepo: bookingRepo,
		storage:     storage,
		cfg:         cfg,
		otel:        otel,
	}
}

// ExportBookings writes every booking whose stay starts inside the range to
// a CSV object in S3 and returns where it landed.
func (s *serviceImpl) ExportBookings(ctx context.Context, req dto.ExportBookingsRequest) (res dto.ExportBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ExportBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	start, err := timezone.ParseDay(req.StartDate)
	if err != nil {
		return res, failure.BadRequestFromString("start_date must be a valid date in YYYY-MM-DD format")
	}

	end, err := timezone.ParseDay(req.EndDate)
	if err != nil {
		return res, failure.BadRequestFromString("end_date must be a valid date in YYYY-MM-DD format")
	}

	if !start.Before(end) {
		return res, failure.BadRequestFromString("end_date must be after start_date")
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				ArgName:  "export_start",
				Field:    bookingModel.FieldStartDate,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    start,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				ArgName:  "export_end",
				Field:    bookingModel.FieldStartDate,
				Operator: gDto.FilterOperatorLess,
				Value:    end,
				Table:    bookingModel.TableName,
			},
		},
	}

	if req.Status != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    bookingModel.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    req.Status,
			Table:    bookingModel.TableName,
		})
	}

	params := gDto.QueryParams{
		SortBy:  bookingModel.FieldStartDate,
		SortDir: "ASC",
	}

	bookings, err := s.bookingRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to load bookings for export")

		return res, fmt.Errorf("failed to load bookings for export: %w", err)
	}

	data, err := encodeCSV(bookings)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode bookings export")

		return res, fmt.Errorf("failed to encode bookings export: %w", err)
	}

	objectName := fmt.Sprintf("bookings_%s_%s_%s.csv",
		start.Format(constant.DayFormat),
		end.Format(constant.DayFormat),
		timezone.Now().Format(exportTimeFormat),
	)

	url, err := s.storage.Upload(ctx, exportDirectory, objectName, constant.ContentTypeCSV, data)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload bookings export")

		return res, fmt.Errorf("failed to upload bookings export: %w", err)
	}

	log.Info().Str("object", objectName).Int("rows", len(bookings)).Msg("bookings export uploaded")

	res = dto.ExportBookingsResponse{
		URL:       url,
		ObjectKey: exportDirectory + "/" + objectName,
		Rows:      len(bookings),
		StartDate: start.Format(constant.DayFormat),
		EndDate:   end.Format(constant.DayFormat),
	}

	return res, nil
}

func encodeCSV(bookings []bookingModel.Booking) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	if err := writer.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, booking := range bookings {
		record := []string{
			booking.ID,
			booking.RoomID,
			booking.StartDate.Format(constant.DayFormat),
			booking.EndDate.Format(constant.DayFormat),
			strconv.Itoa(booking.Quantity),
			strconv.FormatInt(booking.TotalPrice, 10),
			booking.Status,
			booking.CreatedBy,
			booking.CreatedAt.Format(constant.DateFormat),
		}

		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}
