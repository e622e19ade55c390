package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig               `mapstructure:"server"`
	Redis      RedisConfig                `mapstructure:"redis"`
	RateLimits map[string]RateLimitConfig `mapstructure:"rate_limits"`
	Csrf       CsrfConfig                 `mapstructure:"csrf"`
	Session    SessionConfig              `mapstructure:"session"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

type RedisConfig struct {
	// Enabled switches the counter and token stores from in-process to
	// redis-backed, for multi-instance deployments.
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

// RateLimitConfig is one route class policy.
type RateLimitConfig struct {
	Limit  int    `mapstructure:"limit"`
	Window string `mapstructure:"window"`
}

type CsrfConfig struct {
	TTL    string `mapstructure:"ttl"`
	Header string `mapstructure:"header"`
}

type SessionConfig struct {
	TTL          string `mapstructure:"ttl"`
	CookieSecure bool   `mapstructure:"cookie_secure"`
}

var globalConfig Config

func Load(configPath string) error {
	viper.Reset()
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file is optional; environment variables and defaults apply.
	}

	globalConfig = Config{}
	if err := viper.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	setDefaultValues()

	return validate()
}

func setDefaultValues() {
	if globalConfig.Server.Port == 0 {
		globalConfig.Server.Port = 5000
	}
	if globalConfig.Server.MetricsPort == 0 {
		globalConfig.Server.MetricsPort = 9090
	}
	if globalConfig.Redis.Port == 0 {
		globalConfig.Redis.Port = 6379
	}
	if globalConfig.RateLimits == nil {
		globalConfig.RateLimits = map[string]RateLimitConfig{}
	}
	if _, ok := globalConfig.RateLimits["auth"]; !ok {
		globalConfig.RateLimits["auth"] = RateLimitConfig{Limit: 5, Window: "1m"}
	}
	if _, ok := globalConfig.RateLimits["api"]; !ok {
		globalConfig.RateLimits["api"] = RateLimitConfig{Limit: 100, Window: "1m"}
	}
	if _, ok := globalConfig.RateLimits["analyzer"]; !ok {
		globalConfig.RateLimits["analyzer"] = RateLimitConfig{Limit: 10, Window: "1m"}
	}
	if globalConfig.Csrf.TTL == "" {
		globalConfig.Csrf.TTL = "24h"
	}
	if globalConfig.Session.TTL == "" {
		globalConfig.Session.TTL = "24h"
	}
}

func validate() error {
	for class, rl := range globalConfig.RateLimits {
		if rl.Limit <= 0 {
			return fmt.Errorf("rate limit for %s must be positive", class)
		}
		if _, err := time.ParseDuration(rl.Window); err != nil {
			return fmt.Errorf("invalid rate limit window for %s: %w", class, err)
		}
	}
	if _, err := time.ParseDuration(globalConfig.Csrf.TTL); err != nil {
		return fmt.Errorf("invalid csrf ttl: %w", err)
	}
	if _, err := time.ParseDuration(globalConfig.Session.TTL); err != nil {
		return fmt.Errorf("invalid session ttl: %w", err)
	}
	return nil
}

func GetConfig() *Config {
	return &globalConfig
}
