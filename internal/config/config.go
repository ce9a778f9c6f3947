package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config 服務啟動所需的所有設定，全部來自環境變數（可由 .env 補上）
type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// DB
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Redis
	RedisAddr     string        `envconfig:"REDIS_ADDR" required:"true"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	// JWT
	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	// RabbitMQ；AMQPURL 為空時事件不送出
	AMQPURL        string `envconfig:"AMQP_URL"`
	EventsExchange string `envconfig:"EVENTS_EXCHANGE" default:"vidly.events"`
	WorkerCount    int    `envconfig:"WORKER_COUNT" default:"1"`

	// Tracing；endpoint 為空時不啟用
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"vidly"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
}

var loadDotenv = godotenv.Load

// Load 讀取 .env（若存在）後解析環境變數
func Load() (Config, error) {
	_ = loadDotenv()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}
	if c.DatabaseURL == "" || c.RedisAddr == "" || c.JWTSecret == "" {
		return Config{}, errors.New("DATABASE_URL, REDIS_ADDR and JWT_SECRET must not be empty")
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = 1
	}
	for i, o := range c.CORSOrigins {
		c.CORSOrigins[i] = strings.TrimSpace(o)
	}
	return c, nil
}
