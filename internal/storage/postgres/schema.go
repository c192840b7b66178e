package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"lapor/pkg/e"
)

// Schema is the row layout the lifecycle engine expects the store to honour.
const Schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id         uuid PRIMARY KEY,
	email      text NOT NULL UNIQUE,
	full_name  text,
	phone      text,
	role       text NOT NULL DEFAULT 'citizen' CHECK (role IN ('citizen', 'officer', 'admin')),
	created_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS reports (
	id          uuid PRIMARY KEY,
	reporter_id uuid NOT NULL REFERENCES profiles(id),
	category    text NOT NULL,
	title       text NOT NULL,
	description text NOT NULL,
	photo_ref   text NOT NULL,
	latitude    double precision NOT NULL,
	longitude   double precision NOT NULL,
	address     text NOT NULL DEFAULT '',
	status      text NOT NULL CHECK (status IN ('pending', 'in_progress', 'resolved', 'rejected')),
	response    text,
	assignee_id uuid REFERENCES profiles(id),
	created_at  timestamptz NOT NULL,
	updated_at  timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS reports_reporter_idx ON reports (reporter_id, created_at DESC);

CREATE TABLE IF NOT EXISTS suggestions (
	id           uuid PRIMARY KEY,
	submitter_id uuid NOT NULL REFERENCES profiles(id),
	category     text NOT NULL,
	title        text NOT NULL,
	description  text NOT NULL CHECK (char_length(description) >= 10),
	status       text NOT NULL CHECK (status IN ('pending', 'approved', 'rejected')),
	response     text,
	created_at   timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS suggestions_submitter_idx ON suggestions (submitter_id, created_at DESC);

CREATE TABLE IF NOT EXISTS status_changes (
	id         uuid PRIMARY KEY,
	entity     text NOT NULL,
	entity_id  uuid NOT NULL,
	actor_id   uuid NOT NULL,
	from_status text NOT NULL,
	to_status  text NOT NULL,
	response   text,
	changed_at timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS status_changes_entity_idx ON status_changes (entity, entity_id, changed_at);
`

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	const op = "postgres.Migrate"

	if _, err := pool.Exec(ctx, Schema); err != nil {
		return e.WrapError(ctx, op, err)
	}
	return nil
}
