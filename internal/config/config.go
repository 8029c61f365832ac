package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Models    ModelsConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
	Logger    LoggerConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type ModelsConfig struct {
	Dir            string
	DefaultVersion string
	LoadTimeout    time.Duration
}

type AuthConfig struct {
	APIKey string
}

type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

type AuditConfig struct {
	Enabled bool
	Path    string
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("MODELS_DIR", "app/models")
	v.SetDefault("MODELS_DEFAULT_VERSION", "v1")
	v.SetDefault("MODELS_LOAD_TIMEOUT", "30s")
	v.SetDefault("API_KEY", "default-secret-key")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 10)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("AUDIT_ENABLED", true)
	v.SetDefault("AUDIT_PATH", "data/predictions.db")
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	loadTimeout, err := time.ParseDuration(v.GetString("MODELS_LOAD_TIMEOUT"))
	if err != nil {
		loadTimeout = 30 * time.Second
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Models: ModelsConfig{
			Dir:            v.GetString("MODELS_DIR"),
			DefaultVersion: v.GetString("MODELS_DEFAULT_VERSION"),
			LoadTimeout:    loadTimeout,
		},
		Auth: AuthConfig{
			APIKey: v.GetString("API_KEY"),
		},
		RateLimit: RateLimitConfig{
			PerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
			Burst:     v.GetInt("RATE_LIMIT_BURST"),
		},
		Audit: AuditConfig{
			Enabled: v.GetBool("AUDIT_ENABLED"),
			Path:    v.GetString("AUDIT_PATH"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}
