package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// 清單快取的 key；寫入相關資料時整個刪除
const (
	KeyGenres = "vidly:genres:list"
	KeyMovies = "vidly:movies:list"
)

var (
	jsonMarshal   = json.Marshal
	jsonUnmarshal = json.Unmarshal
)

// Lookup 讀取 key 並解碼到 dest；key 不存在時回傳 false, nil
func Lookup(ctx context.Context, c Cache, key string, dest any) (bool, error) {
	raw, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := jsonUnmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Store 以 JSON 編碼 v 後寫入
func Store(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	b, err := jsonMarshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, b, ttl).Err()
}

func Invalidate(ctx context.Context, c Cache, keys ...string) error {
	return c.Del(ctx, keys...).Err()
}
