package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisUploadAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

type redisUploadRateLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
}

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// NewRedisUploadRateLimiter crea un rate limiter respaldado en redis, para
// cuando el servicio corre con varias replicas detras del mismo limite.
func NewRedisUploadRateLimiter(client *redis.Client, window time.Duration, max int) UploadRateLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisUploadRateLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "upload:rl:",
	}
}

func (l *redisUploadRateLimiter) Allow(key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	normalizedKey := strings.ToLower(strings.TrimSpace(key))
	if normalizedKey == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	redisKey := l.prefix + normalizedKey
	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	count, err := l.client.Eval(ctx, redisUploadAllowScript, []string{redisKey}, seconds).Int()
	if err != nil {
		// fail-open: si redis no responde, no bloqueamos el servicio
		return true
	}
	return count <= l.max
}
