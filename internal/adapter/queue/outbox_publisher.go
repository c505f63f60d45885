package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/adarsh180/accidentaware/internal/logging"
	"github.com/adarsh180/accidentaware/internal/usecase"
)

// Publisher is what the outbox drain needs from a broker client.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// OutboxPublisher drains PENDING outbox rows to the broker. Rows written in
// the order transaction are delivered at-least-once: a publish failure bumps
// the retry counter and backs the row off instead of losing it.
type OutboxPublisher struct {
	repo      usecase.OutboxRepo
	pub       Publisher
	interval  time.Duration
	batchSize int
	log       *slog.Logger
}

func NewOutboxPublisher(repo usecase.OutboxRepo, pub Publisher, interval time.Duration, batchSize int) *OutboxPublisher {
	if interval <= 0 {
		interval = time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &OutboxPublisher{
		repo:      repo,
		pub:       pub,
		interval:  interval,
		batchSize: batchSize,
		log:       logging.New("outbox"),
	}
}

// Run blocks until ctx is cancelled.
func (p *OutboxPublisher) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.drain(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPublisher) drain(ctx context.Context) {
	rows, err := p.repo.FetchPending(ctx, p.batchSize)
	if err != nil {
		p.log.Error("fetch pending outbox rows", "err", err)
		return
	}
	for _, row := range rows {
		if err := p.pub.Publish(ctx, row.Channel, row.Payload); err != nil {
			p.log.Warn("publish failed, backing off",
				"id", row.ID, "channel", row.Channel, "retries", row.RetryCount, "err", err)
			_ = p.repo.MarkFailed(ctx, row.ID, time.Now().Add(backoff(row.RetryCount)))
			continue
		}
		if err := p.repo.MarkSent(ctx, row.ID); err != nil {
			// Published but not marked; the row will be re-published.
			// Consumers must tolerate duplicates.
			p.log.Warn("mark sent failed", "id", row.ID, "err", err)
		}
	}
}

func backoff(retries int) time.Duration {
	d := time.Duration(1<<min(retries, 6)) * time.Second
	if d > time.Minute {
		return time.Minute
	}
	return d
}
