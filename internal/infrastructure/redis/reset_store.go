package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "reset:"

// consumeScript deletes the key only when it still holds the given token.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ResetTokenStore keeps one pending reset token per email, expiring with
// the key TTL.
type ResetTokenStore struct {
	client *redis.Client
}

// NewClient parses a redis:// URL and checks the server answers PING.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func NewResetTokenStore(client *redis.Client) *ResetTokenStore {
	return &ResetTokenStore{client: client}
}

func (s *ResetTokenStore) Save(ctx context.Context, email, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, keyPrefix+email, token, ttl).Err(); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}
	return nil
}

func (s *ResetTokenStore) Consume(ctx context.Context, email, token string) (bool, error) {
	n, err := consumeScript.Run(ctx, s.client, []string{keyPrefix + email}, token).Int()
	if err != nil {
		return false, fmt.Errorf("consume reset token: %w", err)
	}
	return n == 1, nil
}

// Ping reports whether redis is reachable. Used by the readiness check.
func (s *ResetTokenStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
