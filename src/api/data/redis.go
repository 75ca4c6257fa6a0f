package data

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const noncePrefix = "nonce:"

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

// Login nonces live for five minutes and are single use.

func SetNonce(ctx context.Context, rdb *redis.Client, email, nonce string) error {
	return rdb.Set(ctx, noncePrefix+email, nonce, 5*time.Minute).Err()
}

func GetAndDelNonce(ctx context.Context, rdb *redis.Client, email string) (string, error) {
	return rdb.GetDel(ctx, noncePrefix+email).Result()
}
