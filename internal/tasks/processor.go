package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"folio/internal/metrics"
	"folio/internal/queue"
)

type BlobDeleter interface {
	Delete(ctx context.Context, key string) error
}

// Processor executes tasks read by the worker's stream consumer.
type Processor struct {
	blobs  BlobDeleter
	logger zerolog.Logger
}

func NewProcessor(blobs BlobDeleter, logger zerolog.Logger) *Processor {
	return &Processor{
		blobs:  blobs,
		logger: logger,
	}
}

func (p *Processor) Handle(ctx context.Context, task queue.Task) error {
	var err error
	switch task.Type {
	case queue.TaskBlobDelete:
		err = p.handleBlobDelete(ctx, task)
	default:
		p.logger.Warn().Str("type", task.Type).Msg("unknown task type")
		metrics.TasksProcessed.WithLabelValues(task.Type, "skipped").Inc()
		return nil
	}

	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.TasksProcessed.WithLabelValues(task.Type, result).Inc()
	return err
}

func (p *Processor) handleBlobDelete(ctx context.Context, task queue.Task) error {
	if task.Key == "" {
		return errors.New("blob.delete without key")
	}
	if err := p.blobs.Delete(ctx, task.Key); err != nil {
		return fmt.Errorf("delete blob %s: %w", task.Key, err)
	}
	p.logger.Info().
		Str("key", task.Key).
		Str("reason", task.Reason).
		Msg("blob deleted")
	return nil
}
