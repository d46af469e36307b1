package platform

import (
	"os"

	"github.com/redis/go-redis/v9"
)

var (
	Redis *redis.Client
)

// InitRedis connects the session cache. REDIS_ADDR is optional; when it is
// unset callers fall back to in-process session storage.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return
	}
	Redis = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
}
