package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"lapor/internal/domain"
	"lapor/pkg/e"
)

// AuditQueue carries accepted status changes from the services to the
// audit writer.
type AuditQueue struct {
	client *redis.Client
	key    string
}

func NewAuditQueue(client *redis.Client, key string) *AuditQueue {
	return &AuditQueue{client: client, key: key}
}

func (q *AuditQueue) Enqueue(ctx context.Context, change domain.StatusChange) error {
	b, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, b).Err()
}

// BRPop returns e.ErrAuditQueueEmpty when nothing arrived within timeout.
func (q *AuditQueue) BRPop(ctx context.Context, timeout time.Duration) (domain.StatusChange, error) {
	var c domain.StatusChange

	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return c, e.ErrAuditQueueEmpty
		}
		return c, err
	}
	if len(res) < 2 {
		return c, e.ErrAuditQueueEmpty
	}
	if err := json.Unmarshal([]byte(res[1]), &c); err != nil {
		return c, err
	}
	return c, nil
}

// Requeue puts a change back at the consuming end so it is retried first.
func (q *AuditQueue) Requeue(ctx context.Context, change domain.StatusChange) error {
	b, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return q.client.RPush(ctx, q.key, b).Err()
}
