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
	"lodge/infras/otel/mocks"
	availabilityMocks "lodge/internal/domains/availability/mocks"
	roomMocks "lodge/internal/domains/room/mocks"
	"lodge/internal/domains/room/model"
	"lodge/internal/domains/room/model/dto"
	"lodge/internal/domains/room/service"
	cacheMocks "lodge/shared/cache/mocks"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
)

var errCacheMiss = errors.New("cache miss")

type roomMockSet struct {
	repo   *roomMocks.MockRoom
	ledger *availabilityMocks.MockAvailability
	cache  *cacheMocks.MockRedisCache
}

func newRoomService(ctrl *gomock.Controller, cfg *config.Config) (service.Room, roomMockSet) {
	m := roomMockSet{
		repo:   roomMocks.NewMockRoom(ctrl),
		ledger: availabilityMocks.NewMockAvailability(ctrl),
		cache:  cacheMocks.NewMockRedisCache(ctrl),
	}

	svc := service.New(m.repo, m.ledger, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

// allowAsyncCache covers the detached cache writes and invalidations that
// follow a committed state change.
func (m roomMockSet) allowAsyncCache() {
	m.cache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
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

func roomTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Booking.HorizonDays = 30
	cfg.Cache.TTL = 3600

	return cfg
}

func roomTestContext(userID string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
}

func TestRoomService_Create(t *testing.T) {
	req := dto.CreateRoomRequest{
		Name:         "Seaview Double",
		Description:  "Second floor, balcony",
		Capacity:     4,
		NightlyPrice: 120000,
	}

	t.Run("successful create seeds the availability horizon", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newRoomService(ctrl, roomTestConfig())
		m.allowAsyncCache()

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, room model.Room) error {
				assert.NotEmpty(t, room.ID)
				assert.Equal(t, "Seaview Double", room.Name)
				assert.True(t, room.Active)
				assert.Equal(t, "admin-1", room.CreatedBy)

				return nil
			})

		m.ledger.EXPECT().
			EnsureRange(gomock.Any(), gomock.Len(30)).
			Return(nil)

		err := svc.Create(roomTestContext("admin-1"), req)
		assert.NoError(t, err)
	})

	t.Run("insert failure stops before the ledger is touched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newRoomService(ctrl, roomTestConfig())

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(errors.New("insert failed"))

		err := svc.Create(roomTestContext("admin-1"), req)
		assert.Error(t, err)
	})

	t.Run("horizon seed failure surfaces as an error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newRoomService(ctrl, roomTestConfig())

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(nil)

		m.ledger.EXPECT().
			EnsureRange(gomock.Any(), gomock.Len(30)).
			Return(errors.New("bulk insert failed"))

		err := svc.Create(roomTestContext("admin-1"), req)
		assert.ErrorContains(t, err, "failed to seed availability horizon")
	})
}

func TestRoomService_Get(t *testing.T) {
	t.Run("cache miss falls through to the repository", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newRoomService(ctrl, roomTestConfig())
		m.allowAsyncCache()

		m.cache.EXPECT().
			Get(gomock.Any(), "room:get:room-1", gomock.Any()).
			Return(errCacheMiss)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Room{ID: "room-1", Name: "Seaview Double", Capacity: 4}, nil)

		res, err := svc.Get(context.Background(), "room-1")

		assert.NoError(t, err)
		assert.Equal(t, "room-1", res.ID)
		assert.Equal(t, 4, res.Capacity)
	})

	t.Run("cache hit skips the repository", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newRoomService(ctrl, roomTestConfig())

		m.cache.EXPECT().
			Get(gomock.Any(), "room:get:room-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				res, ok := value.(*dto.RoomResponse)
				assert.True(t, ok)
				res.ID = "room-1"
				res.Name = "Seaview Double"

				return nil
			})

		res, err := svc.Get(context.Background(), "room-1")

		assert.NoError(t, err)
		assert.Equal(t, "Seaview Double", res.Name)
	})

	t.Run("missing room returns not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newRoomService(ctrl, roomTestConfig())

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errCacheMiss)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Room{}, nil)

		_, err := svc.Get(context.Background(), "missing")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestRoomService_GetAll(t *testing.T) {
	t.Run("lists rooms with a paginated total", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newRoomService(ctrl, roomTestConfig())
		m.allowAsyncCache()

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errCacheMiss).
			Times(2)

		m.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(15, nil)

		m.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Room{{ID: "room-1"}, {ID: "room-2"}}, nil)

		res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Len(t, res.Rooms, 2)
		assert.Equal(t, 15, res.TotalData)
		assert.Equal(t, 2, res.TotalPage)
	})
}

func TestRoomService_Update(t *testing.T) {
	t.Run("updates only the provided fields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newRoomService(ctrl, roomTestConfig())
		m.allowAsyncCache()

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Room{ID: "room-1"}, nil)

		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "Garden Twin", fields["name"])
				assert.NotContains(t, fields, "capacity")
				assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])

				return nil
			})

		err := svc.Update(roomTestContext("admin-1"), dto.UpdateRoomRequest{Name: "Garden Twin"}, "room-1")
		assert.NoError(t, err)
	})

	t.Run("missing room returns not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newRoomService(ctrl, roomTestConfig())

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Room{}, nil)

		err := svc.Update(roomTestContext("admin-1"), dto.UpdateRoomRequest{Name: "Garden Twin"}, "missing")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestRoomService_Delete(t *testing.T) {
	t.Run("deletes an existing room", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newRoomService(ctrl, roomTestConfig())
		m.allowAsyncCache()

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		m.repo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		err := svc.Delete(context.Background(), "room-1")
		assert.NoError(t, err)
	})

	t.Run("missing room returns not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newRoomService(ctrl, roomTestConfig())

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.Delete(context.Background(), "missing")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestRoomService_Search(t *testing.T) {
	start := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 3, 0, 0, 0, 0, time.UTC)

	t.Run("lists rooms that can host the full stay", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newRoomService(ctrl, roomTestConfig())
		m.allowAsyncCache()

		m.cache.EXPECT().
			Get(gomock.Any(), "room:search:2025-12-01:2025-12-03", gomock.Any()).
			Return(errCacheMiss)

		m.repo.EXPECT().
			Search(gomock.Any(), start, end, 2).
			Return([]model.RoomAvailability{
				{ID: "room-1", Name: "Seaview Double", Capacity: 4, NightlyPrice: 120000, MinAvailable: 2},
			}, nil)

		res, err := svc.Search(context.Background(), "2025-12-01", "2025-12-03")

		assert.NoError(t, err)
		assert.Equal(t, "2025-12-01", res.StartDate)
		assert.Equal(t, "2025-12-03", res.EndDate)
		assert.Equal(t, 2, res.Nights)
		assert.Len(t, res.Rooms, 1)
		assert.Equal(t, 2, res.Rooms[0].MinAvailable)
	})

	t.Run("cache hit skips the repository", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newRoomService(ctrl, roomTestConfig())

		m.cache.EXPECT().
			Get(gomock.Any(), "room:search:2025-12-01:2025-12-03", gomock.Any()).
			Return(nil)

		_, err := svc.Search(context.Background(), "2025-12-01", "2025-12-03")
		assert.NoError(t, err)
	})

	t.Run("malformed start date is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, _ := newRoomService(ctrl, roomTestConfig())

		_, err := svc.Search(context.Background(), "01/12/2025", "2025-12-03")

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		assert.ErrorContains(t, err, "start_date")
	})

	t.Run("stay must span at least one night", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, _ := newRoomService(ctrl, roomTestConfig())

		_, err := svc.Search(context.Background(), "2025-12-01", "2025-12-01")

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		assert.ErrorContains(t, err, "end_date must be after start_date")
	})
}
