package lock

//go:generate go run go.uber.org/mock/mockgen -source=./lock.go -destination=./mocks/lock_mock.go -package=mocks

import (
	"context"
	"fmt"
	"lodge/infras/otel"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	otelScopeName        = "lock"
	otelLockKeyAttribute = "lock.key"

	keyPrefix = "lock:room:"
)

// releaseScript deletes the lock only when the stored owner token matches.
// A holder that outlived its lease must not delete a lock that has since
// been acquired by someone else.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RoomLock is an advisory per-room mutex with a bounded lease. Acquire is
// set-if-absent: it never blocks and never queues. Expiry of the lease makes
// the lock available again whether or not the holder finished.
type RoomLock interface {
	Acquire(ctx context.Context, roomKey, ownerToken string, leaseMs int) (bool, error)
	Release(ctx context.Context, roomKey, ownerToken string) error
}

type redisLock struct {
	client *redis.Client
	otel   otel.Otel
}

func New(client *redis.Client, ot otel.Otel) RoomLock {
	return &redisLock{
		client: client,
		otel:   ot,
	}
}

// Acquire implements RoomLock.
func (l *redisLock) Acquire(ctx context.Context, roomKey, ownerToken string, leaseMs int) (acquired bool, err error) {
	ctx, scope := l.otel.NewScope(ctx, otelScopeName, otelScopeName+".Acquire")
	defer scope.End()
	defer scope.TraceIfError(err)

	key := keyPrefix + roomKey
	scope.SetAttribute(otelLockKeyAttribute, key)

	lease := time.Duration(leaseMs) * time.Millisecond

	acquired, err = l.client.SetNX(ctx, key, ownerToken, lease).Result()
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to acquire room lock")

		return false, fmt.Errorf("failed to acquire room lock: %w", err)
	}

	return acquired, nil
}

// Release implements RoomLock.
func (l *redisLock) Release(ctx context.Context, roomKey, ownerToken string) (err error) {
	ctx, scope := l.otel.NewScope(ctx, otelScopeName, otelScopeName+".Release")
	defer scope.End()
	defer scope.TraceIfError(err)

	key := keyPrefix + roomKey
	scope.SetAttribute(otelLockKeyAttribute, key)

	released, err := releaseScript.Run(ctx, l.client, []string{key}, ownerToken).Int()
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to release room lock")

		return fmt.Errorf("failed to release room lock: %w", err)
	}

	if released == 0 {
		// Lease expired before we got here, or another holder took over.
		log.Warn().Str("key", key).Msg("room lock was not held by this owner on release")
	}

	return nil
}
