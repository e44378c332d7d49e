package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceName   string
	LogLevel      slog.Level
	Port          string
	JWTSecret     string
	JWTExpiresIn  time.Duration
	DB            DBConfig
	MigrationsDir string
	OTLPEndpoint  string
	CORSOrigins   string
	AuthRateLimit RateLimitConfig
}

type DBConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

// URL returns the pgx connection string. The password is escaped so any character is allowed.
func (c DBConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User), url.QueryEscape(c.Password), c.Host, c.Port, c.Name, c.SSLMode,
	)
}

func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env.dev"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("load env file %s: %w", file, err)
			}
			slog.Info("No env file found, reading configuration from the environment", slog.String("file", file))
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVICE_NAME", "project-hub")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("API_PORT", "3001")
	v.SetDefault("JWT_SECRET", "dev-secret-change-me")
	v.SetDefault("JWT_EXPIRES_IN", 86400)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_NAME", "project_hub")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("AUTH_RATE_LIMIT_PER_MINUTE", 30)
	v.SetDefault("AUTH_RATE_LIMIT_BURST", 15)

	cfg := &Config{
		ServiceName:  v.GetString("SERVICE_NAME"),
		Port:         v.GetString("API_PORT"),
		JWTSecret:    v.GetString("JWT_SECRET"),
		JWTExpiresIn: time.Duration(v.GetInt("JWT_EXPIRES_IN")) * time.Second,
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		MigrationsDir: v.GetString("MIGRATIONS_DIR"),
		OTLPEndpoint:  v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		CORSOrigins:   v.GetString("CORS_ALLOW_ORIGINS"),
		AuthRateLimit: RateLimitConfig{
			PerMinute: v.GetInt("AUTH_RATE_LIMIT_PER_MINUTE"),
			Burst:     v.GetInt("AUTH_RATE_LIMIT_BURST"),
		},
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.JWTExpiresIn <= 0 {
		return fmt.Errorf("JWT_EXPIRES_IN must be positive, got %s", c.JWTExpiresIn)
	}
	if c.AuthRateLimit.PerMinute <= 0 || c.AuthRateLimit.Burst <= 0 {
		return fmt.Errorf("auth rate limit must be positive")
	}
	return nil
}
