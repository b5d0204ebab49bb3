// Package config loads service configuration from environment variables,
// prefixed PLAYPROOF_.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration for the playproof service.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	NATS      NATSConfig
	Token     TokenConfig
	GameData  GameDataConfig
	Challenge ChallengeConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	RequestTimeout  time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	RateLimitRPS    float64       `env:"SERVER_RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst  int           `env:"SERVER_RATE_LIMIT_BURST" envDefault:"20"`
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host            string        `env:"DATABASE_HOST" envDefault:"localhost"`
	Port            int           `env:"DATABASE_PORT" envDefault:"5432"`
	User            string        `env:"DATABASE_USER" envDefault:"playproof"`
	Password        string        `env:"DATABASE_PASSWORD" envDefault:"playproof"`
	Database        string        `env:"DATABASE_NAME" envDefault:"playproof"`
	SSLMode         string        `env:"DATABASE_SSL_MODE" envDefault:"disable"`
	MaxConns        int           `env:"DATABASE_MAX_CONNS" envDefault:"25"`
	MinConns        int           `env:"DATABASE_MIN_CONNS" envDefault:"5"`
	MaxConnLifetime time.Duration `env:"DATABASE_MAX_CONN_LIFETIME" envDefault:"1h"`
	MigrationsPath  string        `env:"DATABASE_MIGRATIONS_PATH" envDefault:"migrations"`
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host        string        `env:"REDIS_HOST" envDefault:"localhost"`
	Port        int           `env:"REDIS_PORT" envDefault:"6379"`
	Password    string        `env:"REDIS_PASSWORD" envDefault:""`
	DB          int           `env:"REDIS_DB" envDefault:"0"`
	DialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL           string        `env:"NATS_URL" envDefault:"nats://localhost:4222"`
	SubjectPrefix string        `env:"NATS_SUBJECT_PREFIX" envDefault:"playproof"`
	MaxReconnects int           `env:"NATS_MAX_RECONNECTS" envDefault:"10"`
	ReconnectWait time.Duration `env:"NATS_RECONNECT_WAIT" envDefault:"2s"`
}

// TokenConfig holds JWT and refresh token configuration.
type TokenConfig struct {
	Issuer               string        `env:"TOKEN_ISSUER" envDefault:"playproof"`
	Audience             string        `env:"TOKEN_AUDIENCE" envDefault:"playproof"`
	AccessTokenDuration  time.Duration `env:"TOKEN_ACCESS_DURATION" envDefault:"10m"`
	RefreshTokenDuration time.Duration `env:"TOKEN_REFRESH_DURATION" envDefault:"1440h"`
	SigningKey           string        `env:"TOKEN_SIGNING_KEY,required"`
}

// GameDataConfig holds the game data feed configuration.
type GameDataConfig struct {
	BaseURL string        `env:"GAMEDATA_BASE_URL" envDefault:"https://api.brawlstars.com"`
	APIKey  string        `env:"GAMEDATA_API_KEY,required"`
	Timeout time.Duration `env:"GAMEDATA_TIMEOUT" envDefault:"10s"`
}

// ChallengeConfig holds the proof-of-play protocol parameters.
type ChallengeConfig struct {
	SessionDuration    time.Duration `env:"CHALLENGE_SESSION_DURATION" envDefault:"10m"`
	AttemptsPerSession int           `env:"CHALLENGE_ATTEMPTS_PER_SESSION" envDefault:"3"`
	SessionThreshold   int           `env:"CHALLENGE_SESSION_THRESHOLD" envDefault:"3"`
	SessionWindow      time.Duration `env:"CHALLENGE_SESSION_WINDOW" envDefault:"10m"`
	ReaperInterval     time.Duration `env:"CHALLENGE_REAPER_INTERVAL" envDefault:"5m"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "PLAYPROOF_"}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Address returns the HTTP listen address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ConnectionString returns the PostgreSQL connection URL.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// Address returns the Redis address.
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
