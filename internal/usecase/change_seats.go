package usecase

import (
	"context"

	"github.com/robertarktes/webinar-seats/internal/domain"
	"github.com/robertarktes/webinar-seats/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type ChangeSeatsCommand struct {
	Actor     domain.User
	WebinarID string
	Seats     int
}

// ChangeSeats raises the seat capacity of a webinar on behalf of its organizer.
type ChangeSeats struct {
	repo   domain.WebinarRepository
	logger observability.Logger
}

func NewChangeSeats(repo domain.WebinarRepository, logger observability.Logger) *ChangeSeats {
	return &ChangeSeats{repo: repo, logger: logger}
}

// Execute applies the rules in order and stops at the first violation:
// the webinar must exist, the actor must be its organizer, the seat count
// must not decrease and must stay within the domain bounds. On success the
// webinar is persisted once and the new seat count is returned.
//
// Repository errors are returned as is.
func (uc *ChangeSeats) Execute(ctx context.Context, cmd ChangeSeatsCommand) (int, error) {
	ctx, span := otel.Tracer("usecase").Start(ctx, "ChangeSeats")
	defer span.End()
	span.SetAttributes(
		attribute.String("webinar.id", cmd.WebinarID),
		attribute.Int("webinar.seats.requested", cmd.Seats),
	)

	seats, err := uc.execute(ctx, cmd)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		uc.logger.WithField("webinar_id", cmd.WebinarID).
			WithField("kind", domain.KindOf(err).String()).
			WithError(err).
			Debug("change seats rejected")
		return 0, err
	}
	uc.logger.WithField("webinar_id", cmd.WebinarID).WithField("seats", seats).Debug("seats changed")
	return seats, nil
}

func (uc *ChangeSeats) execute(ctx context.Context, cmd ChangeSeatsCommand) (int, error) {
	webinar, err := uc.repo.FindByID(ctx, cmd.WebinarID)
	if err != nil {
		return 0, err
	}
	if webinar == nil {
		return 0, domain.ErrWebinarNotFound
	}

	if !webinar.IsOrganizer(cmd.Actor) {
		return 0, domain.ErrNotOrganizer
	}

	if cmd.Seats < webinar.Seats {
		return 0, domain.ErrSeatsReduced
	}

	if err := webinar.ChangeSeats(cmd.Seats); err != nil {
		return 0, err
	}

	if err := uc.repo.Update(ctx, webinar); err != nil {
		return 0, err
	}
	return webinar.Seats, nil
}
