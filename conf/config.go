package conf

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// 配置加载（数据库、缓存、jwt等）

type Db struct {
	DbName   string `yaml:"dbname"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	FileName   string `yaml:"file-name"`
	TimeFormat string `yaml:"time-format"`
	MaxSize    int    `yaml:"max-size"`
	MaxBackups int    `yaml:"max-backups"`
	MaxAge     int    `yaml:"max-age"`
	Compress   bool   `yaml:"compress"`
	LocalTime  bool   `yaml:"local-time"`
	Console    bool   `yaml:"console"`
}

// RedisConfig is used to configure redis
type RedisConfig struct {
	Addr         string `yaml:"address"`
	Password     string `yaml:"password"`
	Db           int    `yaml:"db"`
	PoolSize     int    `yaml:"pool-size"`
	MinIdleConns int    `yaml:"min-idle-conns"`
	IdleTimeout  int    `yaml:"idle-timeout"`
}

type JwtConfig struct {
	Secret                  string `yaml:"secret"`
	JwtTtl                  int64  `yaml:"ttl"`             // token 有效期（秒）
	JwtBlacklistGracePeriod int64  `yaml:"blacklistperiod"` // 黑名单宽限时间（秒）
	CookieName              string `yaml:"cookie-name"`     // 浏览器端保存token的cookie
}

type KafkaConfig struct {
	Broker     string `yaml:"broker"`
	TradeTopic string `yaml:"trade-topic"`
}

// TradeConfig 交易相关
type TradeConfig struct {
	MaxRetries        int           `yaml:"max-retries"`         // 存储冲突时的最大重试次数
	RetryBackoff      time.Duration `yaml:"retry-backoff"`       // 每次重试递增的等待时间
	MaxPriceDeviation float64       `yaml:"max-price-deviation"` // 客户端报价与服务端价格允许的偏差比例
	LockTTL           time.Duration `yaml:"lock-ttl"`            // 分布式锁过期时间
	OpeningBalance    float64       `yaml:"opening-balance"`     // 新用户初始资金
}

type Config struct {
	AppName      string `yaml:"app_name"`
	Listen       string `yaml:"listen"`
	Mode         string `yaml:"mode"`
	Language     string `yaml:"language"`
	MaxPingCount int    `yaml:"max-ping-count"`
	// 账本存储: mysql 或 sqlite（本地联调，内存库自动建表并写入演示数据）
	Storage string `yaml:"storage"`
	// 服务实例的雪花节点id
	NodeId int64 `yaml:"node-id"`

	Db    `yaml:"database"`
	Log   LogConfig   `yaml:"log"`
	Jwt   JwtConfig   `yaml:"jwt"`
	Redis RedisConfig `yaml:"redis"`
	Kafka KafkaConfig `yaml:"kafka"`
	Trade TradeConfig `yaml:"trade"`
}

var AppConfig Config

func LoadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("Read config file error %w", err)
	}
	if err := yaml.Unmarshal(data, &AppConfig); err != nil {
		return fmt.Errorf("Unmarshal config yaml error: %w", err)
	}
	AppConfig.applyDefaults()
	return nil
}

func (c *Config) applyDefaults() {
	if c.Storage == "" {
		c.Storage = "mysql"
	}
	if c.MaxPingCount == 0 {
		c.MaxPingCount = 10
	}
	if c.Jwt.CookieName == "" {
		c.Jwt.CookieName = "auth-token"
	}
	if c.Kafka.TradeTopic == "" {
		c.Kafka.TradeTopic = "scrobblex_trade"
	}
	if c.Trade.MaxRetries == 0 {
		c.Trade.MaxRetries = 3
	}
	if c.Trade.RetryBackoff == 0 {
		c.Trade.RetryBackoff = 20 * time.Millisecond
	}
	if c.Trade.MaxPriceDeviation == 0 {
		c.Trade.MaxPriceDeviation = 0.05
	}
	if c.Trade.LockTTL == 0 {
		c.Trade.LockTTL = 5 * time.Second
	}
}
