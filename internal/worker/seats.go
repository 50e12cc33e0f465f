package worker

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robertarktes/webinar-seats/internal/domain"
	"github.com/robertarktes/webinar-seats/internal/observability"
	"github.com/robertarktes/webinar-seats/internal/usecase"
)

const RoutingKeyChangeSeats = "webinar.change_seats"

var errMalformed = errors.New("malformed change seats message")

type SeatChanger interface {
	Execute(ctx context.Context, cmd usecase.ChangeSeatsCommand) (int, error)
}

type changeSeatsMessage struct {
	ActorID   string `json:"actor_id"`
	WebinarID string `json:"webinar_id"`
	Seats     *int   `json:"seats"`
}

// SeatsHandler turns queued change seats requests into use case calls.
type SeatsHandler struct {
	changeSeats SeatChanger
	logger      observability.Logger
}

func NewSeatsHandler(changeSeats SeatChanger, logger observability.Logger) *SeatsHandler {
	return &SeatsHandler{changeSeats: changeSeats, logger: logger}
}

func (h *SeatsHandler) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("delivery channel closed")
			}
			h.Handle(ctx, d)
		}
	}
}

// Handle acks processed messages, including those rejected by business
// rules, drops malformed ones and requeues infrastructure failures.
func (h *SeatsHandler) Handle(ctx context.Context, d amqp.Delivery) {
	logger := h.logger.WithField("message_id", d.MessageId)

	err := h.process(ctx, d.Body)
	switch {
	case err == nil:
		observability.SeatChanges.WithLabelValues("changed").Inc()
		h.ack(logger, d)
	case errors.Is(err, errMalformed):
		logger.WithError(err).Warn("dropping change seats message")
		if nackErr := d.Nack(false, false); nackErr != nil {
			logger.WithError(nackErr).Error("nack failed")
		}
	case domain.KindOf(err) != domain.KindUnknown:
		observability.SeatChanges.WithLabelValues(domain.KindOf(err).String()).Inc()
		logger.WithField("kind", domain.KindOf(err).String()).WithError(err).Info("change seats rejected")
		h.ack(logger, d)
	default:
		logger.WithError(err).Error("change seats failed, requeueing")
		if nackErr := d.Nack(false, true); nackErr != nil {
			logger.WithError(nackErr).Error("nack failed")
		}
	}
}

func (h *SeatsHandler) ack(logger observability.Logger, d amqp.Delivery) {
	if err := d.Ack(false); err != nil {
		logger.WithError(err).Error("ack failed")
	}
}

func (h *SeatsHandler) process(ctx context.Context, body []byte) error {
	var msg changeSeatsMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return errors.Mark(errors.Wrap(err, "decode"), errMalformed)
	}
	if msg.ActorID == "" || msg.WebinarID == "" || msg.Seats == nil {
		return errMalformed
	}
	_, err := h.changeSeats.Execute(ctx, usecase.ChangeSeatsCommand{
		Actor:     domain.User{ID: msg.ActorID},
		WebinarID: msg.WebinarID,
		Seats:     *msg.Seats,
	})
	return err
}
