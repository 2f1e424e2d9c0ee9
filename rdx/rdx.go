package rdx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

const suggestionTTL = 30 * time.Minute

func Init(addr string) {
	Conn = redis.NewClient(&redis.Options{Addr: addr})
}

// CacheSuggestions stores the latest recommendation batch for a user.
// Each new request overwrites the previous batch; that is the whole
// invalidation rule.
func CacheSuggestions(ctx context.Context, userID string, payload []byte) error {
	if Conn == nil || userID == "" {
		return nil
	}
	return Conn.Set(ctx, "ai:last:"+userID, payload, suggestionTTL).Err()
}

// LastSuggestions returns the cached batch, or nil when none is stored.
func LastSuggestions(ctx context.Context, userID string) ([]byte, error) {
	if Conn == nil {
		return nil, nil
	}
	raw, err := Conn.Get(ctx, "ai:last:"+userID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return raw, err
}
