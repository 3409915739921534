// Package queue is the deferred-task channel between request handlers and
// the background worker. Handlers only ever enqueue; the contract is that a
// task is durably enqueued before the HTTP response goes out, not that it
// has been processed.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type TaskType string

const (
	TaskAddClick              TaskType = "add_click"
	TaskGenerateInstanceImage TaskType = "generate_instance_image"
	TaskRefreshUserInfo       TaskType = "refresh_user_info"
)

// Task is the unit of deferred work. Exactly one of InstanceID/UserID is set
// depending on the type.
type Task struct {
	Type       TaskType `json:"type"`
	InstanceID string   `json:"instance_id,omitempty"`
	UserID     string   `json:"user_id,omitempty"`
}

// Queue is what request handlers depend on.
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
}

const defaultKey = "affiliates:tasks"

// RedisQueue is a Redis-list backed queue: LPUSH to enqueue, BRPOP to drain.
type RedisQueue struct {
	rdb *redis.Client
	key string
}

func NewRedisQueue(rdb *redis.Client) *RedisQueue {
	return &RedisQueue{rdb: rdb, key: defaultKey}
}

func (q *RedisQueue) Enqueue(ctx context.Context, task Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to encode task: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	return nil
}

// Dequeue blocks up to timeout waiting for a task. Returns (nil, nil) when
// the wait times out so worker loops can check their context and retry.
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*Task, error) {
	res, err := q.rdb.BRPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue task: %w", err)
	}
	// BRPOP returns [key, value].
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply: %v", res)
	}

	var task Task
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		return nil, fmt.Errorf("failed to decode task: %w", err)
	}
	return &task, nil
}
