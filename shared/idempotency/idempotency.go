package idempotency

//go:generate go run go.uber.org/mock/mockgen -source=./idempotency.go -destination=./mocks/idempotency_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"lodge/infras/otel"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	otelScopeName          = "idempotency"
	otelTokenKeyAttribute  = "idempotency.key"
	otelBookingIDAttribute = "idempotency.booking_id"

	keyPrefix = "idem:"
)

// Store maps a caller-supplied request token to the booking it produced.
// Entries expire after the retention window; a replay past that window is
// treated as a fresh request. The availability ledger stays correct even
// when an entry is lost; the store only prevents duplicate bookings on retry.
type Store interface {
	Get(ctx context.Context, token string) (bookingID string, err error)
	Save(ctx context.Context, token, bookingID string, ttlSeconds int) error
}

type redisStore struct {
	client *redis.Client
	otel   otel.Otel
}

func New(client *redis.Client, ot otel.Otel) Store {
	return &redisStore{
		client: client,
		otel:   ot,
	}
}

// Get implements Store. A missing token returns an empty booking id and no
// error.
func (s *redisStore) Get(ctx context.Context, token string) (bookingID string, err error) {
	ctx, scope := s.otel.NewScope(ctx, otelScopeName, otelScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	key := keyPrefix + token
	scope.SetAttribute(otelTokenKeyAttribute, key)

	bookingID, err = s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}

	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to look up idempotency token")

		return "", fmt.Errorf("failed to look up idempotency token: %w", err)
	}

	return bookingID, nil
}

// Save implements Store.
func (s *redisStore) Save(ctx context.Context, token, bookingID string, ttlSeconds int) (err error) {
	ctx, scope := s.otel.NewScope(ctx, otelScopeName, otelScopeName+".Save")
	defer scope.End()
	defer scope.TraceIfError(err)

	key := keyPrefix + token
	scope.SetAttributes(map[string]any{
		otelTokenKeyAttribute:  key,
		otelBookingIDAttribute: bookingID,
	})

	ttl := time.Duration(ttlSeconds) * time.Second

	if err = s.client.Set(ctx, key, bookingID, ttl).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to save idempotency token")

		return fmt.Errorf("failed to save idempotency token: %w", err)
	}

	return nil
}
