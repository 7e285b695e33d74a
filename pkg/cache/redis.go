package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	json "github.com/goccy/go-json"
	"scrobblex/conf"
)

var redisClient *redis.Client

// InitRedis 初始化redisClient
func InitRedis(redisCfg conf.RedisConfig) {
	redisClient = redis.NewClient(&redis.Options{
		DB:           redisCfg.Db,
		Addr:         redisCfg.Addr,
		Password:     redisCfg.Password,
		PoolSize:     redisCfg.PoolSize,
		MinIdleConns: redisCfg.MinIdleConns,
		IdleTimeout:  time.Duration(redisCfg.IdleTimeout) * time.Second,
	})
	_, err := redisClient.Ping(context.TODO()).Result()
	if err != nil {
		panic(err)
	}
}

// SetRedisClient 替换全局客户端，测试时传入 redismock
func SetRedisClient(c *redis.Client) {
	redisClient = c
}

// Enabled 是否已经初始化 redis
func Enabled() bool {
	return redisClient != nil
}

func GetRedisClient() *redis.Client {
	if nil == redisClient {
		panic("Please initialize the Redis client first!")
	}
	return redisClient
}

// 关闭redis client
func CloseRedis() error {
	if nil != redisClient {
		return redisClient.Close()
	}
	return nil
}

// GetJSON 读取 json 缓存，key 不存在时 hit 为 false
func GetJSON(ctx context.Context, rc *redis.Client, key string, dst interface{}) (hit bool, err error) {
	data, err := rc.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 写入 json 缓存
func SetJSON(ctx context.Context, rc *redis.Client, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return rc.Set(ctx, key, data, ttl).Err()
}
