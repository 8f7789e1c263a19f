package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"lodge/config"
	kafkaMocks "lodge/infras/kafka/mocks"
	"lodge/infras/otel/mocks"
	availabilityMocks "lodge/internal/domains/availability/mocks"
	bookingMocks "lodge/internal/domains/booking/mocks"
	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/model/dto"
	"lodge/internal/domains/booking/service"
	roomMocks "lodge/internal/domains/room/mocks"
	roomModel "lodge/internal/domains/room/model"
	cacheMocks "lodge/shared/cache/mocks"
	"lodge/shared/constant"
	"lodge/shared/failure"
	idempotencyMocks "lodge/shared/idempotency/mocks"
	lockMocks "lodge/shared/lock/mocks"
	gModel "lodge/shared/model"
)

type bookingMockSet struct {
	repo   *bookingMocks.MockBooking
	ledger *availabilityMocks.MockAvailability
	room   *roomMocks.MockRoom
	lock   *lockMocks.MockRoomLock
	idem   *idempotencyMocks.MockStore
	kafka  *kafkaMocks.MockClient
	cache  *cacheMocks.MockRedisCache
}

func newBookingService(ctrl *gomock.Controller, cfg *config.Config) (service.Booking, bookingMockSet) {
	m := bookingMockSet{
		repo:   bookingMocks.NewMockBooking(ctrl),
		ledger: availabilityMocks.NewMockAvailability(ctrl),
		room:   roomMocks.NewMockRoom(ctrl),
		lock:   lockMocks.NewMockRoomLock(ctrl),
		idem:   idempotencyMocks.NewMockStore(ctrl),
		kafka:  kafkaMocks.NewMockClient(ctrl),
		cache:  cacheMocks.NewMockRedisCache(ctrl),
	}

	svc := service.New(m.repo, m.ledger, m.room, m.lock, m.idem, m.kafka, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

// allowAsyncPublish covers the detached event publish and cache invalidation
// that follow a committed state change.
func (m bookingMockSet) allowAsyncPublish() {
	m.kafka.EXPECT().
		SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	m.cache.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	m.cache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()
}

func bookingTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Booking.LockLeaseMs = 5000
	cfg.Booking.IdempotencyTTL = 3600
	cfg.Cache.TTL = 3600

	return cfg
}

func bookingTestContext(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func activeRoom() roomModel.Room {
	return roomModel.Room{
		ID:           "room-1",
		Name:         "Seaview Double",
		Capacity:     4,
		NightlyPrice: 120000,
		Active:       true,
	}
}

func TestBookingService_Create(t *testing.T) {
	day1 := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 12, 2, 0, 0, 0, 0, time.UTC)

	req := dto.CreateBookingRequest{
		RoomID:    "room-1",
		StartDate: "2025-12-01",
		EndDate:   "2025-12-03",
		Quantity:  2,
	}

	t.Run("successful booking decrements each night and releases the lock", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, bookingTestConfig())
		m.allowAsyncPublish()

		m.room.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeRoom(), nil)

		m.lock.EXPECT().
			Acquire(gomock.Any(), "room-1", gomock.Any(), 5000).
			Return(true, nil)

		m.ledger.EXPECT().
			EnsureRange(gomock.Any(), gomock.Len(2)).
			Return(nil)

		gomock.InOrder(
			m.ledger.EXPECT().
				TryDecrement(gomock.Any(), "room-1", day1, 2).
				Return(true, nil),
			m.ledger.EXPECT().
				TryDecrement(gomock.Any(), "room-1", day2, 2).
				Return(true, nil),
		)

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(nil)

		m.lock.EXPECT().
			Release(gomock.Any(), "room-1", gomock.Any()).
			Return(nil)

		res, err := svc.Create(bookingTestContext("guest-1", constant.RoleGuest), req)

		assert.NoError(t, err)
		assert.Equal(t, "room-1", res.RoomID)
		assert.Equal(t, "2025-12-01", res.StartDate)
		assert.Equal(t, "2025-12-03", res.EndDate)
		assert.Equal(t, model.StatusConfirmed, res.Status)
		// 2 nights x 2 units x 120000
		assert.Equal(t, int64(480000), res.TotalPrice)
	})

	t.Run("idempotency key saves the record after commit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, bookingTestConfig())
		m.allowAsyncPublish()

		keyed := req
		keyed.IdempotencyKey = "token-1"

		m.idem.EXPECT().
			Get(gomock.Any(), "token-1").
			Return("", nil)

		m.room.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeRoom(), nil)

		m.lock.EXPECT().
			Acquire(gomock.Any(), "room-1", gomock.Any(), 5000).
			Return(true, nil)

		m.ledger.EXPECT().
			EnsureRange(gomock.Any(), gomock.Any()).
			Return(nil)

		m.ledger.EXPECT().
			TryDecrement(gomock.Any(), "room-1", gomock.Any(), 2).
			Return(true, nil).
			Times(2)

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(nil)

		m.lock.EXPECT().
			Release(gomock.Any(), "room-1", gomock.Any()).
			Return(nil)

		m.idem.EXPECT().
			Save(gomock.Any(), "token-1", gomock.Any(), 3600).
			Return(nil)

		_, err := svc.Create(bookingTestContext("guest-1", constant.RoleGuest), keyed)

		assert.NoError(t, err)
	})

	t.Run("idempotent replay returns the stored booking without touching the ledger", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, bookingTestConfig())

		keyed := req
		keyed.IdempotencyKey = "token-1"

		stored := model.Booking{
			ID:         "booking-1",
			RoomID:     "room-1",
			StartDate:  day1,
			EndDate:    time.Date(2025, 12, 3, 0, 0, 0, 0, time.UTC),
			Quantity:   2,
			TotalPrice: 480000,
			Status:     model.StatusConfirmed,
			Metadata:   gModel.Metadata{CreatedBy: "guest-1"},
		}

		m.idem.EXPECT().
			Get(gomock.Any(), "token-1").
			Return("booking-1", nil)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(stored, nil)

		res, err := svc.Create(bookingTestContext("guest-1", constant.RoleGuest), keyed)

		assert.NoError(t, err)
		assert.Equal(t, "booking-1", res.ID)
		assert.Equal(t, int64(480000), res.TotalPrice)
	})

	t.Run("busy lock returns locked without touching the ledger", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, bookingTestConfig())

		m.room.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeRoom(), nil)

		m.lock.EXPECT().
			Acquire(gomock.Any(), "room-1", gomock.Any(), 5000).
			Return(false, nil)

		_, err := svc.Create(bookingTestContext("guest-1", constant.RoleGuest), req)

		assert.Error(t, err)
		assert.Equal(t, http.StatusLocked, failure.GetCode(err))
	})

	t.Run("shortfall on the second night restores the first and reports the failing day", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, bookingTestConfig())

		m.room.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeRoom(), nil)

		m.lock.EXPECT().
			Acquire(gomock.Any(), "room-1", gomock.Any(), 5000).
			Return(true, nil)

		m.ledger.EXPECT().
			EnsureRange(gomock.Any(), gomock.Any()).
			Return(nil)

		gomock.InOrder(
			m.ledger.EXPECT().
				TryDecrement(gomock.Any(), "room-1", day1, 2).
				Return(true, nil),
			m.ledger.EXPECT().
				TryDecrement(gomock.Any(), "room-1", day2, 2).
				Return(false, nil),
			m.ledger.EXPECT().
				Increment(gomock.Any(), "room-1", day1, 2).
				Return(true, nil),
		)

		m.lock.EXPECT().
			Release(gomock.Any(), "room-1", gomock.Any()).
			Return(nil)

		_, err := svc.Create(bookingTestContext("guest-1", constant.RoleGuest), req)

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.Contains(t, err.Error(), "2025-12-02")
	})

	t.Run("insert failure restores every decremented night", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, bookingTestConfig())

		m.room.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeRoom(), nil)

		m.lock.EXPECT().
			Acquire(gomock.Any(), "room-1", gomock.Any(), 5000).
			Return(true, nil)

		m.ledger.EXPECT().
			EnsureRange(gomock.Any(), gomock.Any()).
			Return(nil)

		m.ledger.EXPECT().
			TryDecrement(gomock.Any(), "room-1", gomock.Any(), 2).
			Return(true, nil).
			Times(2)

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(errors.New("database error"))

		m.ledger.EXPECT().
			Increment(gomock.Any(), "room-1", day1, 2).
			Return(true, nil)

		m.ledger.EXPECT().
			Increment(gomock.Any(), "room-1", day2, 2).
			Return(true, nil)

		m.lock.EXPECT().
			Release(gomock.Any(), "room-1", gomock.Any()).
			Return(nil)

		_, err := svc.Create(bookingTestContext("guest-1", constant.RoleGuest), req)

		assert.Error(t, err)
	})

	t.Run("range transaction flag uses the single range decrement", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		cfg := bookingTestConfig()
		cfg.Booking.RangeTransactions = true

		svc, m := newBookingService(ctrl, cfg)
		m.allowAsyncPublish()

		m.room.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeRoom(), nil)

		m.lock.EXPECT().
			Acquire(gomock.Any(), "room-1", gomock.Any(), 5000).
			Return(true, nil)

		m.ledger.EXPECT().
			EnsureRange(gomock.Any(), gomock.Any()).
			Return(nil)

		m.ledger.EXPECT().
			DecrementRange(gomock.Any(), "room-1", []time.Time{day1, day2}, 2).
			Return(true, time.Time{}, nil)

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(nil)

		m.lock.EXPECT().
			Release(gomock.Any(), "room-1", gomock.Any()).
			Return(nil)

		_, err := svc.Create(bookingTestContext("guest-1", constant.RoleGuest), req)

		assert.NoError(t, err)
	})

	t.Run("inactive room is not bookable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, bookingTestConfig())

		room := activeRoom()
		room.Active = false

		m.room.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(room, nil)

		_, err := svc.Create(bookingTestContext("guest-1", constant.RoleGuest), req)

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("zero-night stay is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, bookingTestConfig())

		m.room.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeRoom(), nil)

		sameDay := req
		sameDay.EndDate = sameDay.StartDate

		_, err := svc.Create(bookingTestContext("guest-1", constant.RoleGuest), sameDay)

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestBookingService_Cancel(t *testing.T) {
	day1 := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 12, 2, 0, 0, 0, 0, time.UTC)

	confirmed := model.Booking{
		ID:        "booking-1",
		RoomID:    "room-1",
		StartDate: day1,
		EndDate:   time.Date(2025, 12, 3, 0, 0, 0, 0, time.UTC),
		Quantity:  2,
		Status:    model.StatusConfirmed,
		Metadata:  gModel.Metadata{CreatedBy: "guest-1"},
	}

	t.Run("owner cancel restores every night once", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, bookingTestConfig())
		m.allowAsyncPublish()

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(confirmed, nil)

		m.repo.EXPECT().
			MarkCancelled(gomock.Any(), "booking-1", "guest-1", "plans changed", gomock.Any()).
			Return(true, nil)

		m.ledger.EXPECT().
			Increment(gomock.Any(), "room-1", day1, 2).
			Return(true, nil)

		m.ledger.EXPECT().
			Increment(gomock.Any(), "room-1", day2, 2).
			Return(true, nil)

		err := svc.Cancel(
			bookingTestContext("guest-1", constant.RoleGuest),
			"booking-1",
			dto.CancelBookingRequest{Reason: "plans changed"},
		)

		assert.NoError(t, err)
	})

	t.Run("admin can cancel another user's booking", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, bookingTestConfig())
		m.allowAsyncPublish()

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(confirmed, nil)

		m.repo.EXPECT().
			MarkCancelled(gomock.Any(), "booking-1", "admin-1", "", gomock.Any()).
			Return(true, nil)

		m.ledger.EXPECT().
			Increment(gomock.Any(), "room-1", gomock.Any(), 2).
			Return(true, nil).
			Times(2)

		err := svc.Cancel(
			bookingTestContext("admin-1", constant.RoleAdmin),
			"booking-1",
			dto.CancelBookingRequest{},
		)

		assert.NoError(t, err)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, bookingTestConfig())

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(confirmed, nil)

		err := svc.Cancel(
			bookingTestContext("guest-2", constant.RoleGuest),
			"booking-1",
			dto.CancelBookingRequest{},
		)

		assert.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("second cancel is rejected and restores nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, bookingTestConfig())

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(confirmed, nil)

		m.repo.EXPECT().
			MarkCancelled(gomock.Any(), "booking-1", "guest-1", "", gomock.Any()).
			Return(false, nil)

		err := svc.Cancel(
			bookingTestContext("guest-1", constant.RoleGuest),
			"booking-1",
			dto.CancelBookingRequest{},
		)

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("unknown booking is not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, bookingTestConfig())

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)

		err := svc.Cancel(
			bookingTestContext("guest-1", constant.RoleGuest),
			"nonexistent",
			dto.CancelBookingRequest{},
		)

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_Get(t *testing.T) {
	booking := model.Booking{
		ID:        "booking-1",
		RoomID:    "room-1",
		StartDate: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 12, 3, 0, 0, 0, 0, time.UTC),
		Quantity:  1,
		Status:    model.StatusConfirmed,
		Metadata:  gModel.Metadata{CreatedBy: "guest-1"},
	}

	tests := []struct {
		name     string
		userID   string
		role     string
		stored   model.Booking
		wantErr  bool
		wantCode int
	}{
		{
			name:   "owner sees own booking",
			userID: "guest-1",
			role:   constant.RoleGuest,
			stored: booking,
		},
		{
			name:   "admin sees any booking",
			userID: "admin-1",
			role:   constant.RoleAdmin,
			stored: booking,
		},
		{
			name:     "other guest is rejected",
			userID:   "guest-2",
			role:     constant.RoleGuest,
			stored:   booking,
			wantErr:  true,
			wantCode: http.StatusForbidden,
		},
		{
			name:     "missing booking is not found",
			userID:   "guest-1",
			role:     constant.RoleGuest,
			stored:   model.Booking{},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, m := newBookingService(ctrl, bookingTestConfig())

			m.repo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(tt.stored, nil)

			res, err := svc.Get(bookingTestContext(tt.userID, tt.role), "booking-1")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "booking-1", res.ID)
		})
	}
}
