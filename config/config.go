package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds all configuration for the relay server.
// Tags use mapstructure for viper unmarshalling; values come from a config
// file, environment variables, or defaults, in that order of precedence.
type ServerConfig struct {
	HTTPPort    string `mapstructure:"HTTP_PORT"`
	MongoURI    string `mapstructure:"MONGO_URI"`
	MongoDBName string `mapstructure:"MONGO_DB_NAME"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogPretty   bool   `mapstructure:"LOG_PRETTY"`

	OtelServiceName string `mapstructure:"OTEL_SERVICE_NAME"`

	// Pusher credentials. All four are required; Validate fails fast when
	// any is absent.
	PusherAppID   string `mapstructure:"PUSHER_APP_ID"`
	PusherKey     string `mapstructure:"PUSHER_KEY"`
	PusherSecret  string `mapstructure:"PUSHER_SECRET"`
	PusherCluster string `mapstructure:"PUSHER_CLUSTER"`

	// AllowedOrigins is the comma-separated CORS allowlist.
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	// RedisAddr, when set, switches the validated-session cache from the
	// in-process store to Redis.
	RedisAddr          string        `mapstructure:"REDIS_ADDR"`
	SessionCacheTTL    time.Duration `mapstructure:"SESSION_CACHE_TTL"`
	SessionCachePrefix string        `mapstructure:"SESSION_CACHE_PREFIX"`
}

// Origins returns the parsed CORS allowlist.
func (c *ServerConfig) Origins() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// Validate checks the settings the process cannot run without.
func (c *ServerConfig) Validate() error {
	var missing []string
	if c.PusherAppID == "" {
		missing = append(missing, "PUSHER_APP_ID")
	}
	if c.PusherKey == "" {
		missing = append(missing, "PUSHER_KEY")
	}
	if c.PusherSecret == "" {
		missing = append(missing, "PUSHER_SECRET")
	}
	if c.PusherCluster == "" {
		missing = append(missing, "PUSHER_CLUSTER")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.MongoURI == "" {
		return errors.New("MONGO_URI must not be empty")
	}
	return nil
}

// LoadConfig reads configuration from file, environment variables, and
// defaults.
func LoadConfig() (*ServerConfig, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/realtime-relay/")
	v.AddConfigPath("$HOME/.realtime-relay")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("HTTP_PORT", "3001")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017/realtime_relay_dev")
	v.SetDefault("MONGO_DB_NAME", "realtime_relay_dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", true)
	v.SetDefault("OTEL_SERVICE_NAME", "realtime-relay")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("SESSION_CACHE_TTL", "30s")
	v.SetDefault("SESSION_CACHE_PREFIX", "relay")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return &cfg, nil
}
