package crdb

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robertarktes/webinar-seats/internal/domain"
	"github.com/robertarktes/webinar-seats/internal/observability"
)

const (
	SerializationFailureCode = "40001"

	EventSeatsChanged = "webinar.seats_changed"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	start := time.Now()
	defer func() { observability.DBTxDuration.Observe(time.Since(start).Seconds()) }()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "SET TRANSACTION ISOLATION LEVEL SERIALIZABLE")
	if err != nil {
		return errors.Wrap(err, "set isolation")
	}

	err = fn(tx)
	if err != nil {
		return mapTxError(err)
	}

	return mapTxError(tx.Commit(ctx))
}

func mapTxError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == SerializationFailureCode {
		return domain.ErrSerializationFailure
	}
	return err
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Webinar, error) {
	var w domain.Webinar
	err := r.pool.QueryRow(ctx, `
		SELECT id, organizer_id, title, start_date, end_date, seats
		FROM webinars WHERE id = $1
	`, id).Scan(&w.ID, &w.OrganizerID, &w.Title, &w.StartDate, &w.EndDate, &w.Seats)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find webinar %s", id)
	}
	return &w, nil
}

type SeatsChanged struct {
	WebinarID     string    `json:"webinar_id"`
	OrganizerID   string    `json:"organizer_id"`
	PreviousSeats int       `json:"previous_seats"`
	Seats         int       `json:"seats"`
	ChangedAt     time.Time `json:"changed_at"`
}

// Update upserts the webinar row. When an existing row's seat count changes
// a webinar.seats_changed record is added to the outbox in the same
// transaction; writing identical state twice records nothing new. A seat
// count below the locked row's is refused with domain.ErrSeatsReduced.
func (r *Repository) Update(ctx context.Context, webinar *domain.Webinar) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		var previous int
		err := tx.QueryRow(ctx, `SELECT seats FROM webinars WHERE id = $1 FOR UPDATE`, webinar.ID).Scan(&previous)
		exists := true
		if errors.Is(err, pgx.ErrNoRows) {
			exists = false
		} else if err != nil {
			return errors.Wrapf(err, "lock webinar %s", webinar.ID)
		}
		if exists && webinar.Seats < previous {
			return domain.ErrSeatsReduced
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO webinars (id, organizer_id, title, start_date, end_date, seats)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				organizer_id = excluded.organizer_id,
				title = excluded.title,
				start_date = excluded.start_date,
				end_date = excluded.end_date,
				seats = excluded.seats
		`, webinar.ID, webinar.OrganizerID, webinar.Title, webinar.StartDate, webinar.EndDate, webinar.Seats)
		if err != nil {
			return errors.Wrapf(err, "upsert webinar %s", webinar.ID)
		}

		if !exists || previous == webinar.Seats {
			return nil
		}

		payload, err := json.Marshal(SeatsChanged{
			WebinarID:     webinar.ID,
			OrganizerID:   webinar.OrganizerID,
			PreviousSeats: previous,
			Seats:         webinar.Seats,
			ChangedAt:     time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		return r.InsertOutbox(ctx, tx, OutboxRecord{
			ID:            uuid.New(),
			AggregateType: "webinar",
			AggregateID:   webinar.ID,
			EventType:     EventSeatsChanged,
			Payload:       payload,
			DedupeKey:     uuid.New().String(),
		})
	})
}
