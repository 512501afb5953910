package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

type Cache struct {
	RDB *redis.Client
	sf  singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	// 先读缓存
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
	// single flight 合并回源
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = c.RDB.Set(ctx, key, b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

const revokedPrefix = "auth:revoked:"

// RevokeUser 标记该用户的全部已签发 token 失效（删号等场景）。
// TTL 取 token 最长生存期，之后标记自然过期。
func (c *Cache) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	return c.RDB.Set(ctx, revokedPrefix+userID, "1", ttl).Err()
}

// UserRevoked redis 不可用时放行，不把登录态绑死在缓存上
func (c *Cache) UserRevoked(ctx context.Context, userID string) bool {
	n, err := c.RDB.Exists(ctx, revokedPrefix+userID).Result()
	return err == nil && n > 0
}
