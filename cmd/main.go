package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"scrobblex/cmd/scrobblex"
	"scrobblex/conf"
	"scrobblex/internal/middleware"
	"scrobblex/pkg/cache"
	"scrobblex/pkg/db"
	"scrobblex/pkg/logger"
)

/*
本地联调

	storage: sqlite 时使用内存库并写入演示艺人和 id 为 1 的管理员

curl http://localhost:12180/api/v1/artists

curl -X POST http://localhost:12180/api/v1/trade \
  -H "Authorization: Bearer $TOKEN" \
  -H "Idempotency-Key: $(uuidgen)" \
  -H "Content-Type: application/json" \
  -d '{"artist_id":1,"shares":10,"side":"buy","price":185.42}'
*/

func main() {
	configPath := flag.String("c", "", "config file path")
	flag.Parse()
	path := *configPath
	if path == "" {
		path = os.Getenv("SCROBBLEX_CONFIG")
	}
	if path == "" {
		path = "conf/config.yaml"
	}

	// 加载配置文件
	if err := conf.LoadConfig(path); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	appCfg := &conf.AppConfig
	logger.InitLogger(&appCfg.Log, appCfg.AppName)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var datasource *gorm.DB
	if appCfg.Storage == "sqlite" {
		var err error
		datasource, err = api.OpenSQLite(ctx, appCfg)
		if err != nil {
			logger.Fatalf("open sqlite: %v", err)
		}
	} else {
		dbUser := os.Getenv("DB_USER")
		dbPass := os.Getenv("DB_PASSWORD")
		dbHost := os.Getenv("DB_HOST")
		dbPort := os.Getenv("DB_PORT")
		dbName := os.Getenv("DB_NAME")
		if dbUser == "" || dbPass == "" || dbHost == "" {
			dbUser = appCfg.Username
			dbPass = appCfg.Db.Password
			dbHost = appCfg.Host
			dbPort = appCfg.Port
			dbName = appCfg.DbName
		}
		if dbName == "" {
			dbName = appCfg.DbName
		}

		// 初始化数据库
		datasource = db.Init(db.Config{
			User:      dbUser,
			Password:  dbPass,
			Host:      dbHost,
			Port:      dbPort,
			DBName:    dbName,
			ParseTime: true,
		})
	}

	redisHost := os.Getenv("REDIS_HOST")
	redisPort := os.Getenv("REDIS_PORT")
	if redisHost != "" && redisPort != "" {
		appCfg.Redis.Addr = net.JoinHostPort(redisHost, redisPort)
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		appCfg.Redis.Password = redisPassword
	}

	// 初始化redis缓存，未配置地址时缓存、分布式锁和token黑名单不启用
	var rc *redis.Client
	if appCfg.Redis.Addr != "" {
		cache.InitRedis(appCfg.Redis)
		rc = cache.GetRedisClient()
	}

	app := api.InitRouter(appCfg, datasource, rc)
	if app.Consumer != nil {
		// 成交后让排行榜缓存失效
		go app.Consumer.Run(ctx, app.Leaderboard.OnTrade)
	}

	// 创建并启动服务
	srv := api.NewServer(appCfg)
	srv.RegisterOnShutdown(func() error { return db.Close(datasource) })
	srv.RegisterOnShutdown(cache.CloseRedis)
	srv.RegisterOnShutdown(app.Producer.Close)
	srv.RegisterOnShutdown(func() error {
		cancel()
		return nil
	})

	srv.Run(middleware.NewMiddleware(), app.Router)
}
