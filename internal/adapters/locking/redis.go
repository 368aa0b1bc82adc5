package locking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
)

// acquireScript sets every key to the owner token with a TTL, or none of them
// when any key is already held. Returns 1 on success.
var acquireScript = redis.NewScript(`
for i = 1, #KEYS do
  if redis.call("EXISTS", KEYS[i]) == 1 then
    return 0
  end
end
for i = 1, #KEYS do
  redis.call("SET", KEYS[i], ARGV[1], "PX", ARGV[2])
end
return 1
`)

// releaseScript deletes the keys still owned by the token.
var releaseScript = redis.NewScript(`
local n = 0
for i = 1, #KEYS do
  if redis.call("GET", KEYS[i]) == ARGV[1] then
    n = n + redis.call("DEL", KEYS[i])
  end
end
return n
`)

// RedisLocker holds subtree locks in Redis so every replica sees them.
// A lock expires after ttl even if its holder never releases it.
type RedisLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
}

// NewRedisLocker creates a Redis backed locker.
func NewRedisLocker(client redis.UniversalClient, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLocker{client: client, ttl: ttl, prefix: "gl:lock"}
}

var _ portsrepo.SubtreeLocker = (*RedisLocker)(nil)

func (l *RedisLocker) keys(companyID string, keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprintf("%s:{%s}:%s", l.prefix, companyID, k)
	}
	return out
}

// TryLock takes every key or none.
func (l *RedisLocker) TryLock(ctx context.Context, companyID string, keys []string) (portsrepo.ReleaseFunc, error) {
	redisKeys := l.keys(companyID, keys)
	token := uuid.NewString()
	if len(redisKeys) == 0 {
		return func(context.Context) error { return nil }, nil
	}

	ok, err := acquireScript.Run(ctx, l.client, redisKeys, token, l.ttl.Milliseconds()).Int()
	if err != nil {
		return nil, fmt.Errorf("acquiring structural lock: %w", err)
	}
	if ok != 1 {
		return nil, fmt.Errorf("%w: subtree is locked by another structural change", apperrors.ErrConcurrency)
	}

	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, redisKeys, token).Err(); err != nil {
			return fmt.Errorf("releasing structural lock: %w", err)
		}
		return nil
	}, nil
}
