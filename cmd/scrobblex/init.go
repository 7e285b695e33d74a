package api

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"scrobblex/conf"
	"scrobblex/internal/consts"
	"scrobblex/internal/dao/query"
	"scrobblex/internal/handler/admin"
	"scrobblex/internal/handler/artist"
	"scrobblex/internal/handler/leaderboard"
	"scrobblex/internal/handler/trade"
	"scrobblex/internal/handler/user"
	"scrobblex/internal/ledger"
	"scrobblex/internal/router"
	"scrobblex/internal/service"
	"scrobblex/pkg/cache"
	"scrobblex/pkg/db"
	"scrobblex/pkg/kafka"
	"scrobblex/pkg/logger"
	"scrobblex/pkg/metrics"
	"scrobblex/utils/uuid"
)

// OpenSQLite 本地联调用的内存库，建表并写入演示数据
func OpenSQLite(ctx context.Context, cfg *conf.Config) (*gorm.DB, error) {
	ds, err := db.Open(sqlite.Open(":memory:"))
	if err != nil {
		return nil, err
	}
	sqlDB, err := ds.DB()
	if err != nil {
		return nil, err
	}
	// 内存库每个连接都是独立的库
	sqlDB.SetMaxOpenConns(1)
	if err := query.AutoMigrate(ds); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	if err := query.Seed(ctx, ds, decimal.NewFromFloat(cfg.Trade.OpeningBalance)); err != nil {
		return nil, fmt.Errorf("seed sqlite: %w", err)
	}
	logger.Infof("使用 sqlite 内存库，已写入演示数据")
	return ds, nil
}

// App 组装好的服务依赖
type App struct {
	Router   Router
	Producer kafka.ProducerService
	// 成交事件消费者，未配置 kafka 时为 nil
	Consumer    *kafka.TradeConsumer
	Leaderboard service.LeaderboardService
}

// InitRouter 组装 dao、service、handler。rc 为 nil 时不使用缓存和分布式锁
func InitRouter(cfg *conf.Config, ds *gorm.DB, rc *redis.Client) *App {
	m := metrics.NewRegistry()

	ud := query.NewUserDao(ds)
	ad := query.NewArtistDao(ds)
	ld := query.NewLedgerDao(ds)
	wd := query.NewWatchlistDao(ds)

	// 多实例共用一个库时需要分布式锁
	var locker ledger.Locker = ledger.NewLocalLocker()
	if rc != nil {
		locker = cache.NewRedisLocker(rc, consts.LedgerLockPrefix, cfg.Trade.LockTTL)
	}

	producer := kafka.NewTradeProducer(cfg.Kafka.Broker, cfg.Kafka.TradeTopic)
	node := uuid.NewNode(cfg.NodeId)
	ts := service.NewTradeService(ld, locker, ad, producer, m, cfg.Trade, ledger.WithIDGenerator(node.GenSnowID))
	as := service.NewArtistService(ad, rc, m)
	ps := service.NewPortfolioService(ud, ld, ad)
	ws := service.NewWatchlistService(wd, ad)
	us := service.NewUserService(ud)
	ls := service.NewLeaderboardService(ud, ld, ad, rc, m)

	app := &App{
		Router: router.NewApiRouter(
			artist.NewArtistHandler(as),
			trade.NewTradeHandler(ts),
			user.NewUserHandler(us, ps, ws),
			leaderboard.NewHandler(ls),
			admin.NewAdminHandler(as),
			m,
		),
		Producer:    producer,
		Leaderboard: ls,
	}
	if cfg.Kafka.Broker != "" {
		app.Consumer = kafka.NewTradeConsumer(cfg.Kafka.Broker, cfg.Kafka.TradeTopic, cfg.AppName+"-leaderboard")
	}
	return app
}
