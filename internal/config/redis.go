package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NewRedisClient builds a client for the redis instance backing the
// response cache and the rate limiter. It pings with a short timeout and
// returns nil when redis is unreachable; both middlewares treat a nil
// client as "disabled" so the API keeps serving without it.
//
// Configured via REDIS_ADDR (host:port), REDIS_PASSWORD and REDIS_DB.
func NewRedisClient() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     strOr("REDIS_ADDR", "localhost:6379"),
		Password: strOr("REDIS_PASSWORD", ""),
		DB:       intOr("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).Warn("redis ping failed")
		_ = client.Close()
		return nil
	}
	return client
}
