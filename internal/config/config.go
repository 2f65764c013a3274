package config

import (
	"os"
	"strconv"
	"time"

	"sk8_webapp/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	// Optional Redis for the rate limiter; empty means the limiter
	// counts in Postgres instead.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Optional Firebase service account; empty disables the
	// /auth/firebase exchange.
	FirebaseCredentials string

	AllowedOrigin string

	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Load reads configuration from the environment (and .env when
// present). Missing required values are fatal.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	rateLimitRequests := 30
	if v := os.Getenv("RATE_LIMIT_REQUESTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rateLimitRequests = n
		}
	}

	rateLimitWindow := time.Minute
	if v := os.Getenv("RATE_LIMIT_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rateLimitWindow = time.Duration(n) * time.Second
		}
	}

	return &Config{
		AppPort:             port,
		DatabaseURL:         dbURL,
		JWTSecret:           jwtSecret,
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		RedisDB:             redisDB,
		FirebaseCredentials: os.Getenv("FIREBASE_CREDENTIALS"),
		AllowedOrigin:       os.Getenv("ALLOWED_ORIGIN"),
		RateLimitRequests:   rateLimitRequests,
		RateLimitWindow:     rateLimitWindow,
	}
}
