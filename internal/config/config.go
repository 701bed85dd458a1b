package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR"`
	Port     string `env:"PORT"`
	MySQLDSN string `env:"MYSQL_DSN"`
	RedisURL string `env:"REDIS_URL"`

	RabbitMQURL       string `env:"RABBITMQ_URL"`
	RabbitExchange    string `env:"RABBITMQ_EXCHANGE" envDefault:"domain.events"`
	RabbitQueue       string `env:"RABBITMQ_QUEUE" envDefault:"notifyd.events"`
	RabbitRoutingKey  string `env:"RABBITMQ_ROUTING_KEY" envDefault:"#"`
	RabbitConsumerTag string `env:"RABBITMQ_CONSUMER_TAG" envDefault:"notifyd"`

	PushGatewayURL string `env:"PUSH_GATEWAY_URL"`
	PushGatewayKey string `env:"PUSH_GATEWAY_KEY"`

	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"notifications@localhost"`
	SupportEmail         string `env:"SUPPORT_EMAIL" envDefault:"support@localhost"`

	SSEHeartbeat   time.Duration `env:"SSE_HEARTBEAT" envDefault:"15s"`
	HistoryLimit   int           `env:"HISTORY_LIMIT" envDefault:"20"`
	ChannelTimeout time.Duration `env:"CHANNEL_TIMEOUT" envDefault:"5s"`
	SweepInterval  time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`
	SweepBatch     int           `env:"SWEEP_BATCH" envDefault:"100"`
	QuietHoursTZ   string        `env:"QUIET_HOURS_TZ" envDefault:"UTC"`

	OTELServiceName string  `env:"OTEL_SERVICE_NAME" envDefault:"notifyd"`
	OTLPEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure    bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	TraceRatio      float64 `env:"OTEL_TRACES_SAMPLER_ARG" envDefault:"1"`
}

func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.HTTPAddr == "" {
		if cfg.Port != "" {
			cfg.HTTPAddr = ":" + cfg.Port
		} else {
			cfg.HTTPAddr = ":8080"
		}
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 20
	}
	if cfg.SweepBatch <= 0 {
		cfg.SweepBatch = 100
	}
	if cfg.ChannelTimeout <= 0 {
		cfg.ChannelTimeout = 5 * time.Second
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.TraceRatio < 0 || cfg.TraceRatio > 1 {
		return nil, fmt.Errorf("OTEL_TRACES_SAMPLER_ARG must be within [0,1], got %v", cfg.TraceRatio)
	}
	if _, err := time.LoadLocation(cfg.QuietHoursTZ); err != nil {
		return nil, fmt.Errorf("QUIET_HOURS_TZ: %w", err)
	}
	return cfg, nil
}

// Location returns the zone quiet hours are evaluated in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.QuietHoursTZ)
	if err != nil {
		return time.UTC
	}
	return loc
}
