package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sk8_webapp/internal/config"
	"sk8_webapp/internal/db"
	httpServer "sk8_webapp/internal/http"
	"sk8_webapp/internal/logger"
	"sk8_webapp/internal/repository"
	"sk8_webapp/internal/service"
	"sk8_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_JSON") == "true")
	cfg := config.Load()

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	limiter := newLimiter(cfg, dbPool)
	tokens := service.NewTokenService(cfg.JWTSecret)

	var verifier service.TokenVerifier
	if cfg.FirebaseCredentials != "" {
		v, err := service.NewFirebaseVerifier(context.Background(), cfg.FirebaseCredentials)
		if err != nil {
			logger.Fatal("firebase verifier init failed", "error", err)
		}
		verifier = v
	}

	hub := ws.NewHub()
	games := service.NewGameService(repository.NewGameRepository(dbPool), hub)

	r := gin.Default()

	// frontend may live on another domain
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r, httpServer.Deps{
		DB:            dbPool,
		Games:         games,
		Tokens:        tokens,
		Verifier:      verifier,
		Limiter:       limiter,
		Hub:           hub,
		AllowedOrigin: cfg.AllowedOrigin,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

// newLimiter prefers Redis when configured and falls back to counting
// in Postgres with the same transaction discipline as the game store.
func newLimiter(cfg *config.Config, dbPool *pgxpool.Pool) service.Limiter {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		logger.Info("rate limiter backed by redis", "addr", cfg.RedisAddr)
		return service.NewRedisLimiter(client, cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
	logger.Info("rate limiter backed by postgres")
	return service.NewStoreLimiter(
		repository.NewRateLimitRepository(dbPool),
		cfg.RateLimitRequests,
		cfg.RateLimitWindow,
	)
}
