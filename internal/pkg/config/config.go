package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string `env:"DATABASE_URL,required"`
}

// JWTConfig holds the token signing settings.
type JWTConfig struct {
	Secret    string        `env:"JWT_SECRET,required"`
	ExpiresIn time.Duration `env:"JWT_EXPIRES_IN" envDefault:"168h"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port string `env:"PORT" envDefault:"3000"`
	Env  string `env:"APP_ENV" envDefault:"development"`
}

// RateLimitConfig holds the fixed-window limiter settings.
type RateLimitConfig struct {
	Window      time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	MaxRequests int           `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"100"`
}

// CORSConfig holds the allowed cross-origin source.
type CORSConfig struct {
	Origin string `env:"FRONTEND_URL" envDefault:"http://localhost:4200"`
}

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	Server    ServerConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

// Load parses the environment into a Config. Missing required values
// (DATABASE_URL, JWT_SECRET) fail fast so the process never starts
// half-configured.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
