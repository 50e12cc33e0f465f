package crdb

import (
	"context"

	"github.com/cockroachdb/errors"
)

const Schema = `
CREATE TABLE IF NOT EXISTS webinars (
	id STRING PRIMARY KEY,
	organizer_id STRING NOT NULL,
	title STRING NOT NULL,
	start_date TIMESTAMPTZ NOT NULL,
	end_date TIMESTAMPTZ NOT NULL,
	seats INT NOT NULL
);
CREATE TABLE IF NOT EXISTS outbox (
	id UUID PRIMARY KEY,
	aggregate_type STRING NOT NULL,
	aggregate_id STRING NOT NULL,
	event_type STRING NOT NULL,
	payload_json JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	published_at TIMESTAMPTZ,
	status STRING NOT NULL CHECK (status IN ('NEW', 'PUBLISHED', 'FAILED')),
	dedupe_key STRING NOT NULL
);
CREATE INDEX IF NOT EXISTS outbox_status_created_at_idx ON outbox (status, created_at);
`

func (r *Repository) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, Schema)
	return errors.Wrap(err, "apply schema")
}
