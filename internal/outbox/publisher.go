package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robertarktes/webinar-seats/internal/adapters/crdb"
	"github.com/robertarktes/webinar-seats/internal/observability"
)

const batchSize = 10

type Store interface {
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
	GetUnpublishedOutbox(ctx context.Context, tx pgx.Tx, limit int) ([]crdb.OutboxRecord, error)
	MarkPublished(ctx context.Context, tx pgx.Tx, id uuid.UUID, publishedAt time.Time) error
}

type Sender interface {
	Publish(ctx context.Context, key string, msg amqp.Publishing) error
}

type Publisher struct {
	store  Store
	sender Sender
	logger observability.Logger
	now    func() time.Time
}

func NewPublisher(store Store, sender Sender, logger observability.Logger) *Publisher {
	return &Publisher{store: store, sender: sender, logger: logger, now: time.Now}
}

func (p *Publisher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.PublishBatch(ctx); err != nil {
				p.logger.WithError(err).Error("outbox batch failed")
			}
		}
	}
}

// PublishBatch sends up to batchSize pending records and marks the ones the
// broker accepted. Records that fail to publish stay NEW for the next batch.
func (p *Publisher) PublishBatch(ctx context.Context) (int, error) {
	published := 0
	err := p.store.WithTx(ctx, func(tx pgx.Tx) error {
		records, err := p.store.GetUnpublishedOutbox(ctx, tx, batchSize)
		if err != nil {
			return err
		}
		if len(records) > 0 {
			observability.OutboxLag.Set(p.now().Sub(records[0].CreatedAt).Seconds())
		}
		for _, rec := range records {
			msg := amqp.Publishing{
				MessageId:   rec.DedupeKey,
				ContentType: "application/json",
				Timestamp:   rec.CreatedAt,
				Body:        rec.Payload,
			}
			if err := p.sender.Publish(ctx, rec.EventType, msg); err != nil {
				observability.RabbitPublishRetries.Inc()
				p.logger.WithField("outbox_id", rec.ID.String()).WithError(err).Warn("publish outbox record")
				continue
			}
			if err := p.store.MarkPublished(ctx, tx, rec.ID, p.now()); err != nil {
				return err
			}
			published++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return published, nil
}
