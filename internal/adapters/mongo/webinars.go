package mongo

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/webinar-seats/internal/domain"
	"github.com/robertarktes/webinar-seats/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type WebinarRepository struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewWebinarRepository(db *mongo.Database, logger observability.Logger) *WebinarRepository {
	return &WebinarRepository{
		coll:   db.Collection("webinars"),
		logger: logger,
	}
}

type WebinarDoc struct {
	ID          string    `bson:"_id"`
	OrganizerID string    `bson:"organizer_id"`
	Title       string    `bson:"title"`
	StartDate   time.Time `bson:"start_date"`
	EndDate     time.Time `bson:"end_date"`
	Seats       int       `bson:"seats"`
}

func toDoc(w *domain.Webinar) WebinarDoc {
	return WebinarDoc{
		ID:          w.ID,
		OrganizerID: w.OrganizerID,
		Title:       w.Title,
		StartDate:   w.StartDate.UTC(),
		EndDate:     w.EndDate.UTC(),
		Seats:       w.Seats,
	}
}

func (d WebinarDoc) toDomain() *domain.Webinar {
	return &domain.Webinar{
		ID:          d.ID,
		OrganizerID: d.OrganizerID,
		Title:       d.Title,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Seats:       d.Seats,
	}
}

func (r *WebinarRepository) FindByID(ctx context.Context, id string) (*domain.Webinar, error) {
	var doc WebinarDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.logger.WithField("webinar_id", id).WithError(err).Error("failed to get webinar")
		return nil, errors.Wrapf(err, "find webinar %s", id)
	}
	return doc.toDomain(), nil
}

func (r *WebinarRepository) Update(ctx context.Context, webinar *domain.Webinar) error {
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": webinar.ID}, toDoc(webinar), options.Replace().SetUpsert(true))
	if err != nil {
		r.logger.WithField("webinar_id", webinar.ID).WithError(err).Error("failed to update webinar")
		return errors.Wrapf(err, "update webinar %s", webinar.ID)
	}
	return nil
}
