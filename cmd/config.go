package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceName string
	HTTPPort    string

	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSslMode         string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// RedisAddr enables the Redis shop queue and the menu cache. Empty means the
	// in-memory sample shops.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// ShopIDs are registered as known shops in Redis at startup.
	ShopIDs []kernel.UUID

	// MenuServiceURL enables the HTTP menu catalog. Empty means the sample menu.
	MenuServiceURL string
	MenuCacheTTL   time.Duration

	// KafkaBrokers enables event publishing to Kafka. Empty means events are
	// only logged.
	KafkaBrokers     []string
	OrderEventsTopic string

	OrderQueueSlotDuration time.Duration
	CollaboratorTimeout    time.Duration

	OutboxRelaySchedule string
	OutboxBatchSize     int
	OutboxRetryBase     time.Duration
	OutboxRetryMax      time.Duration
	SnowflakeNode       int64

	JaegerEndpoint string
}

var defaults = map[string]any{
	"SERVICE_NAME":              "orderservice",
	"HTTP_PORT":                 "8080",
	"DB_HOST":                   "localhost",
	"DB_PORT":                   "5432",
	"DB_USER":                   "postgres",
	"DB_PASSWORD":               "postgres",
	"DB_NAME":                   "orders",
	"DB_SSLMODE":                "disable",
	"DB_MAX_OPEN_CONNS":         20,
	"DB_MAX_IDLE_CONNS":         5,
	"DB_CONN_MAX_LIFETIME":      "30m",
	"REDIS_DB":                  0,
	"MENU_CACHE_TTL":            "5m",
	"ORDER_EVENTS_TOPIC":        "order-events",
	"ORDER_QUEUE_SLOT_DURATION": "2m",
	"COLLABORATOR_TIMEOUT":      "3s",
	"OUTBOX_RELAY_SCHEDULE":     "* * * * * *",
	"OUTBOX_BATCH_SIZE":         100,
	"OUTBOX_RETRY_BASE":         "5s",
	"OUTBOX_RETRY_MAX":          "10m",
	"SNOWFLAKE_NODE":            1,
}

// LoadConfig reads the environment, after loading .env when one exists.
// Unset variables take their defaults.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	shopIDs, err := parseShopIDs(v.GetString("SHOP_IDS"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ServiceName:            v.GetString("SERVICE_NAME"),
		HTTPPort:               v.GetString("HTTP_PORT"),
		DBHost:                 v.GetString("DB_HOST"),
		DBPort:                 v.GetString("DB_PORT"),
		DBUser:                 v.GetString("DB_USER"),
		DBPassword:             v.GetString("DB_PASSWORD"),
		DBName:                 v.GetString("DB_NAME"),
		DBSslMode:              v.GetString("DB_SSLMODE"),
		DBMaxOpenConns:         v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:         v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxLifetime:      v.GetDuration("DB_CONN_MAX_LIFETIME"),
		RedisAddr:              v.GetString("REDIS_ADDR"),
		RedisPassword:          v.GetString("REDIS_PASSWORD"),
		RedisDB:                v.GetInt("REDIS_DB"),
		ShopIDs:                shopIDs,
		MenuServiceURL:         v.GetString("MENU_SERVICE_URL"),
		MenuCacheTTL:           v.GetDuration("MENU_CACHE_TTL"),
		KafkaBrokers:           splitList(v.GetString("KAFKA_BROKERS")),
		OrderEventsTopic:       v.GetString("ORDER_EVENTS_TOPIC"),
		OrderQueueSlotDuration: v.GetDuration("ORDER_QUEUE_SLOT_DURATION"),
		CollaboratorTimeout:    v.GetDuration("COLLABORATOR_TIMEOUT"),
		OutboxRelaySchedule:    v.GetString("OUTBOX_RELAY_SCHEDULE"),
		OutboxBatchSize:        v.GetInt("OUTBOX_BATCH_SIZE"),
		OutboxRetryBase:        v.GetDuration("OUTBOX_RETRY_BASE"),
		OutboxRetryMax:         v.GetDuration("OUTBOX_RETRY_MAX"),
		SnowflakeNode:          v.GetInt64("SNOWFLAKE_NODE"),
		JaegerEndpoint:         v.GetString("JAEGER_ENDPOINT"),
	}
	return cfg, cfg.Validate()
}

// Validate checks the values the service cannot start without.
func (c Config) Validate() error {
	var problems []error
	positive := map[string]time.Duration{
		"ORDER_QUEUE_SLOT_DURATION": c.OrderQueueSlotDuration,
		"COLLABORATOR_TIMEOUT":      c.CollaboratorTimeout,
		"MENU_CACHE_TTL":            c.MenuCacheTTL,
		"OUTBOX_RETRY_BASE":         c.OutboxRetryBase,
		"OUTBOX_RETRY_MAX":          c.OutboxRetryMax,
	}
	for name, d := range positive {
		if d <= 0 {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%s is not positive", d)))
		}
	}
	if c.OutboxRetryMax < c.OutboxRetryBase {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("OUTBOX_RETRY_MAX",
			fmt.Errorf("%s is below OUTBOX_RETRY_BASE %s", c.OutboxRetryMax, c.OutboxRetryBase)))
	}
	if c.OutboxBatchSize <= 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("OUTBOX_BATCH_SIZE", c.OutboxBatchSize, 1, 10000))
	}
	if c.SnowflakeNode < 0 || c.SnowflakeNode > 1023 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("SNOWFLAKE_NODE", c.SnowflakeNode, 0, 1023))
	}
	if c.HTTPPort == "" {
		problems = append(problems, errs.NewValueIsRequiredError("HTTP_PORT"))
	}
	if len(c.KafkaBrokers) > 0 && c.OrderEventsTopic == "" {
		problems = append(problems, errs.NewValueIsRequiredError("ORDER_EVENTS_TOPIC"))
	}
	return errors.Join(problems...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseShopIDs(s string) ([]kernel.UUID, error) {
	var ids []kernel.UUID
	for _, part := range splitList(s) {
		id, err := kernel.UUIDFromString(part)
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("SHOP_IDS", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
