// Package config loads runtime settings from .env files and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gamestore/internal/cart"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Env  string `validate:"required,oneof=development staging production test"`
	Addr string `validate:"required"`

	DBDSN     string
	DBTimeout time.Duration `validate:"gt=0"`

	PageSize int `validate:"min=1,max=100"`

	LogLevel  string `validate:"oneof=debug info warn warning error"`
	LogFormat string `validate:"omitempty,oneof=json text"`

	AllowedOrigins []string
	RateLimitRPS   float64 `validate:"gt=0"`
	RateLimitBurst int     `validate:"min=1"`

	CartKey         string `validate:"required"`
	CartStorage     string `validate:"oneof=memory badger dir"`
	CartStoragePath string `validate:"required_unless=CartStorage memory"`

	CatalogAPIURL string `validate:"required,url"`
	CatalogAPIRPS int    `validate:"min=1"`
	MinLoading    time.Duration
}

var validate = validator.New()

// LoadEnvFiles reads .env and .env.local. Variables already present in the
// environment are never overridden.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load builds a Config from the environment after reading env files.
func Load() (*Config, error) {
	LoadEnvFiles()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		Addr:            getEnv("APP_ADDR", ":8080"),
		DBDSN:           os.Getenv("DB_DSN"),
		DBTimeout:       getDuration("DB_TIMEOUT", 3*time.Second),
		PageSize:        getInt("CATALOG_PAGE_SIZE", 12),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(os.Getenv("LOG_FORMAT")),
		AllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		RateLimitRPS:    getFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:  getInt("RATE_LIMIT_BURST", 40),
		CartKey:         getEnv("CART_KEY", cart.DefaultKey),
		CartStorage:     strings.ToLower(getEnv("CART_STORAGE", "dir")),
		CartStoragePath: getEnv("CART_STORAGE_PATH", defaultStoragePath()),
		CatalogAPIURL:   getEnv("CATALOG_API_URL", "http://localhost:8080"),
		CatalogAPIRPS:   getInt("CATALOG_API_RPS", 10),
		MinLoading:      getDuration("MIN_LOADING", 0),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".gamestore"
	}
	return dir + string(os.PathSeparator) + "gamestore"
}
