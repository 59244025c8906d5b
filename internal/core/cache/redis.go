package cache

import (
	"context"
	"fmt"
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

func (c *Cache) Ping(ctx context.Context) error {
	return c.RDB.Ping(ctx).Err()
}

// GetOrLoad 读缓存，miss 时 singleflight 合并回源。
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
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

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	return c.RDB.Del(ctx, keys...).Err()
}

// ---- 未读通知计数（写路径 INCR，读路径 miss 回源 DB）----

func KeyUnread(userID string) string { return fmt.Sprintf("notif:unread:%s", userID) }

// KeyAvailableRides 仪表盘"可接行程"的短 TTL 缓存键。
func KeyAvailableRides(userID string) string { return fmt.Sprintf("rides:avail:%s", userID) }

// KeySuggestions 推荐列表缓存键。
func KeySuggestions(userID string) string { return fmt.Sprintf("suggest:%s", userID) }

func (c *Cache) IncrUnread(ctx context.Context, userID string, ttl time.Duration) {
	key := KeyUnread(userID)
	_ = c.RDB.Incr(ctx, key).Err()
	_ = c.RDB.Expire(ctx, key, ttl).Err()
}

func (c *Cache) GetUnread(ctx context.Context, userID string) (int64, bool) {
	n, err := c.RDB.Get(ctx, KeyUnread(userID)).Int64()
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *Cache) SetUnread(ctx context.Context, userID string, n int64, ttl time.Duration) {
	_ = c.RDB.Set(ctx, KeyUnread(userID), n, ttl).Err()
}
