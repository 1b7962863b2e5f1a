package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds the runtime settings read from the environment (and .env, when present)
type Config struct {
	Port    string
	GinMode string

	// DatabaseURL selects postgres. When empty the sqlite file at DataPath is used.
	DatabaseURL string
	DataPath    string

	// RedisAddr selects the redis store over the SQL one
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StoreTimeout  time.Duration

	JWTSecret     string
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string
}

func Load() Config {
	return Config{
		Port:          getenv("PORT", "8000"),
		GinMode:       os.Getenv("GIN_MODE"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DataPath:      getenv("DATA_PATH", "seat_lottery.db"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getenvInt("REDIS_DB", 0),
		StoreTimeout:  getenvDuration("STORE_TIMEOUT", 3*time.Second),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenTTL:      getenvDuration("TOKEN_TTL", 24*time.Hour),
		AdminUsername: getenv("ADMIN_USERNAME", "admin"),
		AdminPassword: getenv("ADMIN_PASSWORD", "admin123"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("config: invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
