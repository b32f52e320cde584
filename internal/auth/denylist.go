// AngelaMos | 2026
// denylist.go

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist records access-token IDs revoked before their natural expiry.
type Denylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type redisDenylist struct {
	client *redis.Client
}

func NewRedisDenylist(client *redis.Client) Denylist {
	return &redisDenylist{client: client}
}

func denylistKey(jti string) string {
	return "auth:denylist:" + jti
}

func (d *redisDenylist) Revoke(
	ctx context.Context,
	jti string,
	ttl time.Duration,
) error {
	if ttl <= 0 {
		return nil
	}

	if err := d.client.Set(ctx, denylistKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("denylist token: %w", err)
	}
	return nil
}

func (d *redisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, denylistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check denylist: %w", err)
	}
	return n > 0, nil
}
