package locker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultTTL   = 30 * time.Second
	defaultRetry = 25 * time.Millisecond
	keyPrefix    = "rafflehub:lock:"
)

// unlockScript deletes the key only while it still holds our token.
const unlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`

var ErrLockNotAcquired = errors.New("lock not acquired")

type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// Redis shares keyed locks between instances. A crashed holder releases the
// key after ttl.
type Redis struct {
	client RedisClient
	ttl    time.Duration
	retry  time.Duration
}

func NewRedis(client RedisClient) *Redis {
	return &Redis{
		client: client,
		ttl:    defaultTTL,
		retry:  defaultRetry,
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	k := keyPrefix + key
	token := uuid.NewString()

	for {
		ok, err := r.client.SetNX(ctx, k, token, r.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrLockNotAcquired, ctx.Err())
		case <-time.After(r.retry):
		}
	}

	return func() {
		if err := r.client.Eval(context.Background(), unlockScript, []string{k}, token).Err(); err != nil {
			zap.L().Warn("can't release lock", zap.String("key", k), zap.Error(err))
		}
	}, nil
}
