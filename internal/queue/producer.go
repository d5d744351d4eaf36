package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"folio/internal/metrics"
)

// Producer appends tasks to a redis stream.
type Producer struct {
	client redis.Cmdable
	stream string
}

func NewProducer(client redis.Cmdable, stream string) *Producer {
	return &Producer{client: client, stream: stream}
}

// Enqueue writes all tasks in one pipeline.
func (p *Producer) Enqueue(ctx context.Context, tasks ...Task) error {
	if len(tasks) == 0 {
		return nil
	}
	_, err := p.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, task := range tasks {
			pipe.XAdd(ctx, &redis.XAddArgs{
				Stream: p.stream,
				Values: task.values(),
			})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	for _, task := range tasks {
		metrics.TasksEnqueued.WithLabelValues(task.Type).Inc()
	}
	return nil
}
