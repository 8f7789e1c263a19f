package service

import (
	"context"
	"fmt"
	"time"

	"lodge/config"
	"lodge/infras/kafka"
	"lodge/infras/otel"
	availabilityDto "lodge/internal/domains/availability/model/dto"
	availabilityRepo "lodge/internal/domains/availability/repository"
	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/model/dto"
	"lodge/internal/domains/booking/repository"
	roomModel "lodge/internal/domains/room/model"
	roomRepo "lodge/internal/domains/room/repository"
	"lodge/shared"
	"lodge/shared/cache"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/idempotency"
	"lodge/shared/lock"
	"lodge/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
	cacheSearchRooms   = "room:search"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) error
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (int, error)
}

type serviceImpl struct {
	repo        repository.Booking
	ledgerRepo  availabilityRepo.Availability
	roomRepo    roomRepo.Room
	roomLock    lock.RoomLock
	idemStore   idempotency.Store
	kafkaClient kafka.Client
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Booking,
	ledgerRepo availabilityRepo.Availability,
	roomRepo roomRepo.Room,
	roomLock lock.RoomLock,
	idemStore idempotency.Store,
	kafkaClient kafka.Client,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:        repo,
		ledgerRepo:  ledgerRepo,
		roomRepo:    roomRepo,
		roomLock:    roomLock,
		idemStore:   idemStore,
		kafkaClient: kafkaClient,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

// Create runs the full booking transaction: idempotency replay check, room
// lock acquisition, per-night conditional decrements (with rollback of the
// already-taken nights on the first shortfall), booking insert, idempotency
// record, lock release. The lock is advisory; even without it the ledger
// guards keep counters consistent, serialization just avoids partial
// decrement churn between competing attempts on the same room.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if req.IdempotencyKey != constant.Empty {
		replay, found, err := s.replay(ctx, req.IdempotencyKey)
		if err != nil {
			return res, err
		}

		if found {
			log.Info().Str("booking_id", replay.ID).Msg("idempotent replay, returning stored booking")
			scope.AddEvent("idempotent replay")

			res.FromModel(replay)

			return res, nil
		}
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty || !room.Active {
		return res, failure.NotFound("room not found") //nolint:wrapcheck
	}

	booking, err := req.ToModel(user, room.NightlyPrice)
	if err != nil {
		return res, failure.BadRequestFromString("dates must be valid days in YYYY-MM-DD format")
	}

	if booking.Nights() < 1 {
		return res, failure.BadRequestFromString("end_date must be after start_date")
	}

	ownerToken := uuid.NewString()

	acquired, err := s.roomLock.Acquire(ctx, room.ID, ownerToken, s.cfg.Booking.LockLeaseMs)
	if err != nil {
		log.Error().Err(err).Msg("failed to acquire room lock")

		return res, fmt.Errorf("failed to acquire room lock: %w", err)
	}

	if !acquired {
		return res, failure.Locked("room is being booked by another request, retry shortly") //nolint:wrapcheck
	}

	err = s.reserve(ctx, room, booking)

	if releaseErr := s.roomLock.Release(ctx, room.ID, ownerToken); releaseErr != nil {
		log.Error().Err(releaseErr).Str("room_id", room.ID).Msg("failed to release room lock")
	}

	if err != nil {
		return res, err
	}

	if req.IdempotencyKey != constant.Empty {
		if err := s.idemStore.Save(ctx, req.IdempotencyKey, booking.ID, s.cfg.Booking.IdempotencyTTL); err != nil {
			// The booking is committed; a lost idempotency record only costs
			// replay protection for this token.
			log.Warn().Err(err).Str("booking_id", booking.ID).Msg("failed to save idempotency record")
		}
	}

	s.publishAndInvalidate(ctx, dto.EventBookingConfirmed, booking)

	scope.AddEvent("booking created by user " + user)

	res.FromModel(booking)

	return res, nil
}

// replay resolves an idempotency token to its stored booking, if any.
func (s *serviceImpl) replay(ctx context.Context, token string) (booking model.Booking, found bool, err error) {
	bookingID, err := s.idemStore.Get(ctx, token)
	if err != nil {
		return booking, false, fmt.Errorf("failed to check idempotency token: %w", err)
	}

	if bookingID == constant.Empty {
		return booking, false, nil
	}

	booking, err = s.repo.Get(ctx, shared.FilterByID(bookingID, model.FieldID, model.TableName))
	if err != nil {
		return booking, false, fmt.Errorf("failed to get booking for idempotency token: %w", err)
	}

	// A dangling token (booking row gone) falls through to a fresh attempt.
	return booking, booking.ID != constant.Empty, nil
}

// reserve decrements the ledger for every night of the stay and inserts the
// booking row. Any failure puts back exactly the nights already taken, in
// the same ascending order, before returning. Must be called holding the
// room lock.
func (s *serviceImpl) reserve(ctx context.Context, room roomModel.Room, booking model.Booking) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reserve")
	defer scope.End()
	defer scope.TraceIfError(err)

	days := booking.DaySet()

	rows := availabilityDto.NewLedgerRows(room.ID, booking.CreatedBy, days, room.Capacity)
	if err = s.ledgerRepo.EnsureRange(ctx, rows); err != nil {
		log.Error().Err(err).Msg("failed to ensure ledger rows")

		return fmt.Errorf("failed to ensure ledger rows: %w", err)
	}

	if s.cfg.Booking.RangeTransactions {
		err = s.reserveRange(ctx, room.ID, days, booking.Quantity)
	} else {
		err = s.reserveDayByDay(ctx, room.ID, days, booking.Quantity)
	}

	if err != nil {
		return err
	}

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to insert booking, restoring availability")
		s.restore(ctx, room.ID, days, booking.Quantity)

		return err
	}

	return nil
}

// reserveDayByDay walks the day-set in ascending order, taking quantity
// units from each night. The first night that cannot cover the quantity
// aborts the walk and the nights already taken are restored.
func (s *serviceImpl) reserveDayByDay(ctx context.Context, roomID string, days []time.Time, quantity int) error {
	decremented := make([]time.Time, 0, len(days))

	for _, day := range days {
		ok, err := s.ledgerRepo.TryDecrement(ctx, roomID, day, quantity)
		if err != nil {
			log.Error().Err(err).Msg("failed to decrement availability, restoring")
			s.restore(ctx, roomID, decremented, quantity)

			return fmt.Errorf("failed to decrement availability: %w", err)
		}

		if !ok {
			s.restore(ctx, roomID, decremented, quantity)

			return failure.Conflict(fmt.Sprintf( //nolint:wrapcheck
				"insufficient availability on %s", day.Format(constant.DayFormat),
			))
		}

		decremented = append(decremented, day)
	}

	return nil
}

// reserveRange takes the whole day-set in one database transaction. Used
// when the range transaction flag is on; semantics match the day walk.
func (s *serviceImpl) reserveRange(ctx context.Context, roomID string, days []time.Time, quantity int) error {
	ok, failingDay, err := s.ledgerRepo.DecrementRange(ctx, roomID, days, quantity)
	if err != nil {
		log.Error().Err(err).Msg("failed to decrement availability range")

		return fmt.Errorf("failed to decrement availability range: %w", err)
	}

	if !ok {
		return failure.Conflict(fmt.Sprintf( //nolint:wrapcheck
			"insufficient availability on %s", failingDay.Format(constant.DayFormat),
		))
	}

	return nil
}

// restore puts quantity units back on each day, ascending. A rejected or
// failed increment means the ledger no longer matches what was decremented;
// that is logged loudly rather than masked, and the walk continues so the
// remaining days still get their units back.
func (s *serviceImpl) restore(ctx context.Context, roomID string, days []time.Time, quantity int) {
	for _, day := range days {
		ok, err := s.ledgerRepo.Increment(ctx, roomID, day, quantity)
		if err != nil {
			log.Error().Err(err).
				Str("room_id", roomID).
				Str("day", day.Format(constant.DayFormat)).
				Msg("failed to restore availability")

			continue
		}

		if !ok {
			log.Error().
				Str("room_id", roomID).
				Str("day", day.Format(constant.DayFormat)).
				Int("quantity", quantity).
				Msg("availability restore rejected, counter would exceed total units")
		}
	}
}

// Cancel flips a confirmed booking to cancelled and gives its nights back.
// The status flip is a compare-and-set, so a second cancel is rejected and
// the restoration runs at most once.
func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CancelBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found") //nolint:wrapcheck
	}

	if booking.CreatedBy != user && role != constant.RoleAdmin {
		return failure.ResourceRestrictedError //nolint:wrapcheck
	}

	now := timezone.Now()

	cancelled, err := s.repo.MarkCancelled(ctx, id, user, req.Reason, now)
	if err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	if !cancelled {
		return failure.Conflict("booking is already cancelled") //nolint:wrapcheck
	}

	s.restore(ctx, booking.RoomID, booking.DaySet(), booking.Quantity)

	booking.Status = model.StatusCancelled
	booking.CancelledAt = &now

	s.publishAndInvalidate(ctx, dto.EventBookingCancelled, booking)

	scope.AddEvent("booking cancelled by user " + user)

	return nil
}

// publishAndInvalidate emits the lifecycle event and drops stale caches.
// Both run detached from the request; the booking is already committed.
func (s *serviceImpl) publishAndInvalidate(ctx context.Context, eventType string, booking model.Booking) {
	go func() {
		c := context.WithoutCancel(ctx)

		event := dto.NewBookingEvent(eventType, booking)
		message := kafka.Message{Key: booking.ID, Value: event}

		if err := s.kafkaClient.SendMessages(c, s.cfg.Kafka.Topics.BookingEvents, message); err != nil {
			log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to publish booking event")
		}

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, booking.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		shared.InvalidateCaches(c, s.cache, cacheSearchRooms)
	}()
}

// Get returns one booking. Guests only see their own; admins see all.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	if booking.CreatedBy != user && role != constant.RoleAdmin {
		return res, failure.ResourceRestrictedError //nolint:wrapcheck
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CountBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}
