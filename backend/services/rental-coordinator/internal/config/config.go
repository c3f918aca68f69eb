package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "playpoint/backend/libs/config"
)

// Config defines rental coordinator configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"COORDINATOR_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"COORDINATOR_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"COORDINATOR_REDIS_ADDR"`
		Password string `yaml:"password" env:"COORDINATOR_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"COORDINATOR_REDIS_DB"`
		Channel  string `yaml:"channel" env:"COORDINATOR_REDIS_CHANNEL"`
	} `yaml:"redis"`
	Billing struct {
		Interval time.Duration `yaml:"interval" env:"COORDINATOR_BILLING_INTERVAL"`
	} `yaml:"billing"`
	Timeout struct {
		Interval time.Duration `yaml:"interval" env:"COORDINATOR_TIMEOUT_INTERVAL"`
	} `yaml:"timeout"`
	Idle struct {
		Interval time.Duration `yaml:"interval" env:"COORDINATOR_IDLE_INTERVAL"`
	} `yaml:"idle"`
	Hardware struct {
		CommandTimeout time.Duration `yaml:"commandTimeout" env:"COORDINATOR_HARDWARE_TIMEOUT"`
	} `yaml:"hardware"`
	Device struct {
		IDFile string `yaml:"idFile" env:"COORDINATOR_DEVICE_ID_FILE"`
	} `yaml:"device"`
}

// Load reads configuration via shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8084"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.Channel = "rental:changes"
	cfg.Billing.Interval = 30 * time.Second
	cfg.Timeout.Interval = 30 * time.Second
	cfg.Idle.Interval = 60 * time.Second
	cfg.Hardware.CommandTimeout = 5 * time.Second

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return nil, errors.New("config: redis addr required")
	}
	if strings.TrimSpace(cfg.Redis.Channel) == "" {
		return nil, errors.New("config: redis channel required")
	}
	if cfg.Billing.Interval <= 0 || cfg.Timeout.Interval <= 0 || cfg.Idle.Interval <= 0 {
		return nil, errors.New("config: intervals must be positive")
	}
	return cfg, nil
}

// HTTPAddress returns :port style string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8084"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
