package events

import (
	"context"
	"time"

	"github.com/robfig/cron"
	"github.com/rs/zerolog"

	"brotos/internal/repository"
)

const (
	outboxWorkerName = "OutboxCronWorker"
	drainBatchSize   = 100
)

// Worker periodically drains unpublished outbox rows to a Publisher.
type Worker struct {
	publisher Publisher
	outbox    repository.OutboxRepository
	cron      *cron.Cron
	schedule  string
	log       zerolog.Logger
	now       func() time.Time
}

// NewWorker creates a worker that drains on the given cron schedule.
func NewWorker(publisher Publisher, outbox repository.OutboxRepository, schedule string, log zerolog.Logger) *Worker {
	return &Worker{
		publisher: publisher,
		outbox:    outbox,
		cron:      cron.New(),
		schedule:  schedule,
		log:       log.With().Str("worker", outboxWorkerName).Logger(),
		now:       time.Now,
	}
}

// Start schedules the drain and starts the cron runner.
func (w *Worker) Start() error {
	if err := w.cron.AddFunc(w.schedule, func() {
		if _, err := w.Drain(context.Background()); err != nil {
			w.log.Error().Err(err).Msg("drain outbox")
		}
	}); err != nil {
		return err
	}
	w.cron.Start()
	w.log.Info().Str("schedule", w.schedule).Msg("outbox worker started")
	return nil
}

// Stop halts future runs.
func (w *Worker) Stop() {
	w.cron.Stop()
}

// Drain publishes one batch of pending events in creation order. A failed publish stops the
// batch so later events for the same consultant are not delivered ahead of it.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	pending, err := w.outbox.ListUnpublished(ctx, drainBatchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for i := range pending {
		event := &pending[i]
		if err := w.publisher.Publish(ctx, event.Message()); err != nil {
			w.log.Warn().Err(err).Str("event_id", event.ID.String()).Str("type", string(event.Type)).Msg("publish failed")
			if incErr := w.outbox.IncrementAttempts(ctx, event.ID); incErr != nil {
				return published, incErr
			}
			return published, nil
		}
		if err := w.outbox.MarkPublished(ctx, event.ID, w.now()); err != nil {
			return published, err
		}
		published++
	}
	if published > 0 {
		w.log.Debug().Int("published", published).Msg("outbox drained")
	}
	return published, nil
}
