package consts

import "time"

const (
	// RequestId 请求id名称
	RequestId   = "request_id"
	UserID      = "user_id"
	IsAdmin     = "is_admin"
	JWTTokenCtx = "token_ctx"

	// IdempotencyKeyHeader 客户端生成的交易幂等键
	IdempotencyKeyHeader = "Idempotency-Key"
)

const (
	// 艺人列表缓存
	ArtistListCacheKey = "scrobblex:artists:list"
	ArtistListCacheTTL = 30 * time.Second

	// 排行榜缓存
	LeaderboardCacheKey = "scrobblex:leaderboard"
	LeaderboardCacheTTL = time.Minute

	// 账本分布式锁前缀
	LedgerLockPrefix = "scrobblex:lock:"
)

const (
	DateLayout   = "2006-01-02"
	TimeLayout   = "2006-01-02 15:04:05"
	TimeLayoutMs = "2006-01-02 15:04:05.000"
)

const (
	// 分页默认值
	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 200

	// 价格历史默认天数
	DefaultHistoryDays = 30
	MaxHistoryDays     = 365

	LeaderboardSize = 50
)
