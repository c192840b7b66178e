package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"lapor/internal/domain"
)

const (
	ReportsListKey     = "reports:all"
	SuggestionsListKey = "suggestions:all"
)

var errStaleGeneration = errors.New("list cache generation moved")

// ListCache keeps the full, unfiltered list of one entity kind. Filtering
// happens after the read so one key serves every query.
//
// A generation counter next to the list is bumped by every Invalidate. Set
// only stores a list read under the generation Get reported, so a list loaded
// before a concurrent write never replaces the invalidation.
type ListCache[T any] struct {
	client *goredis.Client
	key    string
	genKey string
	ttl    time.Duration
}

func NewListCache[T any](r *Redis, key string, ttl time.Duration) *ListCache[T] {
	return &ListCache[T]{client: r.Client, key: key, genKey: key + ":gen", ttl: ttl}
}

func NewReportCache(r *Redis, ttl time.Duration) *ListCache[*domain.Report] {
	return NewListCache[*domain.Report](r, ReportsListKey, ttl)
}

func NewSuggestionCache(r *Redis, ttl time.Duration) *ListCache[*domain.Suggestion] {
	return NewListCache[*domain.Suggestion](r, SuggestionsListKey, ttl)
}

// Get returns ok=false on a miss, together with the generation to pass to
// Set once the list has been loaded from the store.
func (c *ListCache[T]) Get(ctx context.Context) ([]T, int64, bool, error) {
	vals, err := c.client.MGet(ctx, c.key, c.genKey).Result()
	if err != nil {
		return nil, 0, false, err
	}

	var gen int64
	if g, ok := vals[1].(string); ok {
		if gen, err = strconv.ParseInt(g, 10, 64); err != nil {
			return nil, 0, false, err
		}
	}

	data, ok := vals[0].(string)
	if !ok {
		return nil, gen, false, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, gen, false, err
	}
	return items, gen, true, nil
}

// Set stores items when the generation still equals gen. A moved generation
// skips the write without error.
func (c *ListCache[T]) Set(ctx context.Context, gen int64, items []T) error {
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}

	err = c.client.Watch(ctx, func(tx *goredis.Tx) error {
		cur, err := tx.Get(ctx, c.genKey).Int64()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
			p.Set(ctx, c.key, b, c.ttl)
			return nil
		})
		return err
	}, c.genKey)
	if errors.Is(err, errStaleGeneration) || errors.Is(err, goredis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *ListCache[T]) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Incr(ctx, c.genKey)
		p.Del(ctx, c.key)
		return nil
	})
	return err
}
