// config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DB struct {
		Host         string
		Port         string
		User         string
		Password     string
		DBName       string
		SSLMode      string
		MaxOpenConns int
		MaxIdleConns int
		ConnLifetime time.Duration
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	LLM struct {
		APIKey  string
		Model   string
		Timeout time.Duration
	}
	JWT struct {
		Secret string
		TTL    time.Duration
	}
	News struct {
		BaseURL  string
		APIKey   string
		CacheTTL time.Duration
	}
	Scheduler struct {
		HourUTC   int
		DBTimeout time.Duration
	}
	Server struct {
		Port string
	}
	LogLevel        string
	ShutdownTimeout time.Duration
}

// Load loads the configuration from config.{yaml,json}, overridable by
// environment variables. If no config file is present, environment variables
// alone are used.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")
	v.AddConfigPath("$HOME/.medtrack")

	// Set default values
	v.SetDefault("ShutdownTimeout", 10*time.Second)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LLM.Model", "gpt-4")
	v.SetDefault("LLM.Timeout", 60*time.Second)
	v.SetDefault("JWT.TTL", 24*time.Hour)
	v.SetDefault("News.CacheTTL", time.Hour)
	v.SetDefault("Scheduler.HourUTC", 0)
	v.SetDefault("Scheduler.DBTimeout", 10*time.Second)
	v.SetDefault("Server.Port", "8080")
	v.SetDefault("DB.MaxOpenConns", 20)
	v.SetDefault("DB.MaxIdleConns", 10)
	v.SetDefault("DB.ConnLifetime", 5*time.Minute)
	v.SetDefault("Redis.DB", 0)

	v.AutomaticEnv()

	// If no config file is found, fall back to environment variables only.
	if err := v.ReadInConfig(); err != nil {
		cfg := &Config{}

		cfg.DB.Host = getEnvOr("DB_HOST", "localhost")
		cfg.DB.Port = getEnvOr("DB_PORT", "5432")
		cfg.DB.User = getEnvOr("DB_USER", "postgres")
		cfg.DB.Password = getEnvOr("DB_PASSWORD", "postgres")
		cfg.DB.DBName = getEnvOr("DB_NAME", "medtrack")
		cfg.DB.SSLMode = getEnvOr("DB_SSL_MODE", "disable")
		cfg.DB.MaxOpenConns = 20
		cfg.DB.MaxIdleConns = 10
		cfg.DB.ConnLifetime = 5 * time.Minute
		cfg.Redis.Addr = getEnvOr("REDIS_ADDR", "localhost:6379")
		cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
		cfg.LLM.APIKey = os.Getenv("LLM_API_KEY")
		cfg.LLM.Model = getEnvOr("LLM_MODEL", "gpt-4")
		cfg.LLM.Timeout = 60 * time.Second
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
		cfg.JWT.TTL = 24 * time.Hour
		cfg.News.BaseURL = os.Getenv("NEWS_BASE_URL")
		cfg.News.APIKey = os.Getenv("NEWS_API_KEY")
		cfg.News.CacheTTL = time.Hour
		cfg.Scheduler.DBTimeout = 10 * time.Second
		cfg.Server.Port = getEnvOr("SERVER_PORT", "8080")
		cfg.LogLevel = getEnvOr("LOG_LEVEL", "info")
		cfg.ShutdownTimeout = 10 * time.Second

		return cfg, nil
	}

	// Process any ${ENV_VAR} syntax in the config values
	for _, key := range v.AllKeys() {
		value := v.GetString(key)
		if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
			envVar := strings.TrimPrefix(strings.TrimSuffix(value, "}"), "${")
			if envValue := os.Getenv(envVar); envValue != "" {
				v.Set(key, envValue)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Helper function to get environment variable with default value
func getEnvOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
