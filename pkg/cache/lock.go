package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"scrobblex/pkg/logger"
	"scrobblex/utils/uuid"
)

// 只有持有者才能删除锁
const unlockScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`

var ErrLockTimeout = errors.New("redis lock: wait timeout")

// RedisLocker 基于 SETNX 的分布式互斥锁，多实例部署时保证同一用户的交易串行。
// ttl 防止持有者宕机后锁永不释放，持有时间不能超过 ttl。
type RedisLocker struct {
	rc       *redis.Client
	prefix   string
	ttl      time.Duration
	interval time.Duration
	newToken func() string
}

func NewRedisLocker(rc *redis.Client, prefix string, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		rc:       rc,
		prefix:   prefix,
		ttl:      ttl,
		interval: 10 * time.Millisecond,
		newToken: uuid.GenUUID,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	key = l.prefix + key
	token := l.newToken()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		ok, err := l.rc.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, ErrLockTimeout
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	return func() {
		// 释放不受请求 ctx 取消影响
		if err := l.rc.Eval(context.Background(), unlockScript, []string{key}, token).Err(); err != nil {
			logger.Errorf("release redis lock %s: %v", key, err)
		}
	}, nil
}
