package rediscache

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// DefaultCursorKey: ключ индекса round-robin по API-ключам агрегатора.
const DefaultCursorKey = "faplm_hoorin_key_index"

// Cursor хранит целочисленный индекс без срока жизни.
// Чтение и запись не атомарны: параллельные запросы могут взять один и тот же индекс.
type Cursor struct {
	c   *redis.Client
	key string
}

func NewCursor(c *redis.Client, key string) *Cursor {
	if key == "" {
		key = DefaultCursorKey
	}
	return &Cursor{c: c, key: key}
}

// Load: отсутствующий или битый ключ читается как 0.
func (cur *Cursor) Load(ctx context.Context) (int, error) {
	s, err := cur.c.Get(ctx, cur.key).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "redis get cursor")
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}

func (cur *Cursor) Store(ctx context.Context, v int) error {
	if err := cur.c.Set(ctx, cur.key, strconv.Itoa(v), 0).Err(); err != nil {
		return errors.Wrap(err, "redis set cursor")
	}
	return nil
}
