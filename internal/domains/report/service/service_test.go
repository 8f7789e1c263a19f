package service_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"lodge/config"
	"lodge/infras/otel/mocks"
	s3Mocks "lodge/infras/s3/mocks"
	bookingMocks "lodge/internal/domains/booking/mocks"
	bookingModel "lodge/internal/domains/booking/model"
	"lodge/internal/domains/report/model/dto"
	"lodge/internal/domains/report/service"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
)

func newReportService(ctrl *gomock.Controller) (service.Report, *bookingMocks.MockBooking, *s3Mocks.MockS3) {
	bookingRepo := bookingMocks.NewMockBooking(ctrl)
	storage := s3Mocks.NewMockS3(ctrl)

	svc := service.New(bookingRepo, storage, &config.Config{}, mocks.NewOtel())

	return svc, bookingRepo, storage
}

func exportedBooking() bookingModel.Booking {
	booking := bookingModel.Booking{
		ID:         "booking-1",
		RoomID:     "room-1",
		StartDate:  time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 12, 3, 0, 0, 0, 0, time.UTC),
		Quantity:   2,
		TotalPrice: 480000,
		Status:     bookingModel.StatusConfirmed,
	}
	booking.CreatedBy = "guest-1"
	booking.CreatedAt = time.Date(2025, 11, 20, 8, 0, 0, 0, time.UTC)

	return booking
}

func TestReportService_ExportBookings(t *testing.T) {
	req := dto.ExportBookingsRequest{
		StartDate: "2025-12-01",
		EndDate:   "2026-01-01",
	}

	t.Run("uploads a CSV of the bookings in range", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, bookingRepo, storage := newReportService(ctrl)

		bookingRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]bookingModel.Booking, error) {
				assert.Equal(t, bookingModel.FieldStartDate, params.SortBy)
				assert.Equal(t, "ASC", params.SortDir)
				assert.Len(t, filter.Filters, 2)

				return []bookingModel.Booking{exportedBooking()}, nil
			})

		storage.EXPECT().
			Upload(gomock.Any(), "reports", gomock.Any(), "text/csv", gomock.Any()).
			DoAndReturn(func(_ context.Context, _, objectName, _ string, data []byte) (string, error) {
				assert.True(t, strings.HasPrefix(objectName, "bookings_2025-12-01_2026-01-01_"))
				assert.True(t, strings.HasSuffix(objectName, ".csv"))

				lines := strings.Split(strings.TrimSpace(string(data)), "\n")
				assert.Len(t, lines, 2)
				assert.Contains(t, lines[0], "total_price")
				assert.Contains(t, lines[1], "booking-1,room-1,2025-12-01,2025-12-03,2,480000,confirmed,guest-1")

				return "https://cdn.example.com/reports/" + objectName, nil
			})

		res, err := svc.ExportBookings(context.Background(), req)

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Rows)
		assert.Equal(t, "2025-12-01", res.StartDate)
		assert.Equal(t, "2026-01-01", res.EndDate)
		assert.True(t, strings.HasPrefix(res.ObjectKey, "reports/bookings_"))
		assert.Contains(t, res.URL, res.ObjectKey[len("reports/"):])
	})

	t.Run("status filter narrows the export", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, bookingRepo, storage := newReportService(ctrl)

		filtered := req
		filtered.Status = bookingModel.StatusCancelled

		bookingRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]bookingModel.Booking, error) {
				assert.Len(t, filter.Filters, 3)

				return nil, nil
			})

		storage.EXPECT().
			Upload(gomock.Any(), "reports", gomock.Any(), "text/csv", gomock.Any()).
			Return("https://cdn.example.com/reports/export.csv", nil)

		res, err := svc.ExportBookings(context.Background(), filtered)

		assert.NoError(t, err)
		assert.Equal(t, 0, res.Rows)
	})

	t.Run("malformed dates are rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, _, _ := newReportService(ctrl)

		_, err := svc.ExportBookings(context.Background(), dto.ExportBookingsRequest{
			StartDate: "01/12/2025",
			EndDate:   "2026-01-01",
		})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		assert.ErrorContains(t, err, "start_date")
	})

	t.Run("range must span at least one day", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, _, _ := newReportService(ctrl)

		_, err := svc.ExportBookings(context.Background(), dto.ExportBookingsRequest{
			StartDate: "2025-12-01",
			EndDate:   "2025-12-01",
		})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("upload failure surfaces as an error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, bookingRepo, storage := newReportService(ctrl)

		bookingRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]bookingModel.Booking{exportedBooking()}, nil)

		storage.EXPECT().
			Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", errors.New("bucket unavailable"))

		_, err := svc.ExportBookings(context.Background(), req)

		assert.ErrorContains(t, err, "failed to upload bookings export")
	})
}
