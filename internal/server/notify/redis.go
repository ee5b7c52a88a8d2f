package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/talentbridge/internal/common"
	"github.com/redis/go-redis/v9"
)

const defaultEnqueueTimeout = 2 * time.Second

// RedisQueue is a list-backed queue: LPUSH to enqueue, BRPOP to consume.
// Exhausted messages go to "<key>:dead".
type RedisQueue struct {
	client  redis.UniversalClient
	key     string
	timeout time.Duration
}

func NewRedisQueue(client redis.UniversalClient, key string) *RedisQueue {
	return &RedisQueue{client: client, key: key, timeout: defaultEnqueueTimeout}
}

// Enqueue pushes msg and fails fast when Redis does not answer in time.
func (q *RedisQueue) Enqueue(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrQueueUnavailable, err)
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context, wait time.Duration) (*Message, error) {
	res, err := q.client.BRPop(ctx, wait, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrQueueUnavailable, err)
	}

	// res is [key, value]
	var msg Message
	if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return &msg, nil
}

func (q *RedisQueue) DeadLetter(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.DeadKey(), payload).Err()
}

// DeadKey names the list holding undeliverable messages.
func (q *RedisQueue) DeadKey() string {
	return q.key + ":dead"
}
