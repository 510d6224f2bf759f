package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	MySQLDSN string `envconfig:"MYSQL_DSN" default:"user:password@tcp(127.0.0.1:3306)/moderation?charset=utf8mb4&parseTime=True"`

	Redis struct {
		Addr     string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
		Password string `envconfig:"REDIS_PASSWORD"`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
	} `envconfig:""`

	Kafka struct {
		Brokers []string `envconfig:"KAFKA_BROKERS"` // 为空时 outbox 降级为日志投递
		Topic   string   `envconfig:"KAFKA_TOPIC" default:"moderation-events"`
	} `envconfig:""`

	JWT struct {
		AccessSecret string        `envconfig:"JWT_ACCESS_SECRET" default:"secret-key"`
		AccessTTL    time.Duration `envconfig:"JWT_ACCESS_TTL" default:"30m"`
	} `envconfig:""`

	// Policy 处罚与活跃度阈值，策略常量集中在这里而不是散在代码里
	Policy struct {
		BanWindow          time.Duration `envconfig:"BAN_WINDOW" default:"3h"`
		ActivityMinMembers int64         `envconfig:"ACTIVITY_MIN_MEMBERS" default:"50"`
		ActivityMinPosts   int64         `envconfig:"ACTIVITY_MIN_POSTS" default:"20"`
		ActivityMinPercent int64         `envconfig:"ACTIVITY_MIN_PERCENT" default:"60"`
	} `envconfig:""`

	Worker struct {
		OutboxInterval time.Duration `envconfig:"OUTBOX_INTERVAL" default:"1s"`
		OutboxBatch    int           `envconfig:"OUTBOX_BATCH" default:"200"`
		SampleInterval time.Duration `envconfig:"SAMPLE_INTERVAL" default:"5m"`
	} `envconfig:""`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
