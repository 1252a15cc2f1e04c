package queue

import (
	"context"
	"fmt"
	"os"

	"github.com/hibiken/asynq"
	_ "github.com/joho/godotenv/autoload"

	"github.com/markvault/markvault/internal/config"
)

// Client wraps asynq.Client for enqueuing tasks.
type Client struct {
	client *asynq.Client
}

func NewClient() *Client {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     os.Getenv(config.ENV_KEY_REDIS_ADDR),
		Password: os.Getenv(config.ENV_KEY_REDIS_PASSWORD),
	})

	return &Client{
		client: client,
	}
}

// Close closes the client connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueTask enqueues a task to the queue.
func (c *Client) EnqueueTask(ctx context.Context, taskType string, payload []byte) error {
	task := asynq.NewTask(taskType, payload)

	if _, err := c.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue task %s: %w", taskType, err)
	}

	return nil
}
