package service

import (
	"context"
	"regexp"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"

	"sk8_webapp/internal/domain"
	"sk8_webapp/internal/logger"
	"sk8_webapp/internal/repository"
)

// Limiter throttles requests per (identity, ip, action) tuple within a
// fixed window. Implementations must count atomically so concurrent
// requests for the same key never undercount.
type Limiter interface {
	Allow(ctx context.Context, uid, ip, action string) error
}

var limitKeyRe = regexp.MustCompile(`[^A-Za-z0-9_-]`)

func limitKey(uid, ip, action string) string {
	if uid == "" {
		uid = "anonymous"
	}
	if ip == "" {
		ip = "unknown"
	}
	return limitKeyRe.ReplaceAllString("uid:"+uid+"|ip:"+ip+"|fn:"+action, "_")
}

// RedisLimiter counts with INCR/EXPIRE. Redis being down fails open so
// the game stays playable without it.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, uid, ip, action string) error {
	key := "rl:" + strconv.FormatInt(int64(l.window.Seconds()), 10) + ":" + limitKey(uid, ip, action)

	val, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		logger.Warn("rate limiter redis error, allowing request", "error", err)
		return nil
	}
	if val == 1 {
		l.client.Expire(ctx, key, l.window)
	}
	if val > int64(l.limit) {
		return domain.NewError(domain.KindResourceExhausted, "too many requests, please slow down")
	}
	return nil
}

// StoreLimiter counts in the database with the same row-lock
// transaction discipline as the game store. Used when Redis is not
// configured.
type StoreLimiter struct {
	repo   *repository.RateLimitRepository
	limit  int
	window time.Duration
}

func NewStoreLimiter(repo *repository.RateLimitRepository, limit int, window time.Duration) *StoreLimiter {
	return &StoreLimiter{repo: repo, limit: limit, window: window}
}

func (l *StoreLimiter) Allow(ctx context.Context, uid, ip, action string) error {
	return l.repo.Increment(ctx, limitKey(uid, ip, action), l.limit, l.window)
}
