package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// QueueName is the redis list holding pending domain-scan tasks.
const QueueName = "scan_tasks"

var Client *redis.Client

// Task is one unit of work: score a single domain as part of a bulk job.
type Task struct {
	JobID  string `json:"job_id"`
	Domain string `json:"domain"`
}

// Init connects to Redis and pings it to ensure it's alive.
func Init(addr string) error {
	Client = redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    "", // No password for local docker
		DB:          0,  // Default DB
		DialTimeout: 5 * time.Second,
	})

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	return nil
}

// Enqueue pushes a task onto the scan queue.
func Enqueue(ctx context.Context, task Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshaling task: %w", err)
	}
	if err := Client.LPush(ctx, QueueName, payload).Err(); err != nil {
		return fmt.Errorf("enqueueing task for %s: %w", task.Domain, err)
	}
	return nil
}
