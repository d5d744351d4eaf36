package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"folio/internal/queue"
)

const sweepBatch = 500

type expiredUploads interface {
	TakeExpired(ctx context.Context, ttl time.Duration, limit int64) ([]string, error)
}

type enqueuer interface {
	Enqueue(ctx context.Context, tasks ...queue.Task) error
}

// Scheduler runs periodic maintenance inside the api process.
type Scheduler struct {
	cron       *cron.Cron
	schedule   string
	pending    expiredUploads
	queue      enqueuer
	pendingTTL time.Duration
	log        zerolog.Logger
}

func NewScheduler(schedule string, pendingTTL time.Duration, pending expiredUploads, queue enqueuer, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		schedule:   schedule,
		pending:    pending,
		queue:      queue,
		pendingTTL: pendingTTL,
		log:        log,
	}
}

func (s *Scheduler) Start() error {
	if s.pending == nil || s.queue == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := s.SweepUploads(ctx); err != nil {
			s.log.Error().Err(err).Msg("sweep abandoned uploads failed")
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// SweepUploads turns abandoned uploads into blob.delete tasks and reports how
// many were queued.
func (s *Scheduler) SweepUploads(ctx context.Context) (int, error) {
	total := 0
	for {
		keys, err := s.pending.TakeExpired(ctx, s.pendingTTL, sweepBatch)
		if err != nil {
			return total, err
		}
		if len(keys) == 0 {
			break
		}

		tasks := make([]queue.Task, len(keys))
		for i, key := range keys {
			tasks[i] = queue.BlobDelete(key, "upload abandoned")
		}
		if err := s.queue.Enqueue(ctx, tasks...); err != nil {
			return total, err
		}
		total += len(keys)
		if len(keys) < sweepBatch {
			break
		}
	}

	if total > 0 {
		s.log.Info().Int("count", total).Msg("queued abandoned uploads for deletion")
	}
	return total, nil
}
