package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Message timestamps are epoch milliseconds (bigint) rather than
// timestamptz because the realtime layer compares them against
// presence timestamps client-side.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS channels (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL DEFAULT '',
		topic      TEXT NOT NULL DEFAULT '',
		kind       TEXT NOT NULL DEFAULT 'section-group',
		created_by TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id                UUID PRIMARY KEY,
		channel_id        TEXT NOT NULL REFERENCES channels(id),
		sender_id         TEXT NOT NULL DEFAULT '',
		sender_name       TEXT NOT NULL DEFAULT '',
		sender_avatar_url TEXT NOT NULL DEFAULT '',
		body              TEXT NOT NULL,
		created_at        BIGINT NOT NULL,
		priority          TEXT NOT NULL DEFAULT 'normal',
		context           JSONB
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_channel_created
		ON messages (channel_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS pins (
		id                 UUID PRIMARY KEY,
		channel_id         TEXT NOT NULL REFERENCES channels(id),
		message_id         UUID NOT NULL REFERENCES messages(id),
		sender_name        TEXT NOT NULL DEFAULT '',
		body               TEXT NOT NULL DEFAULT '',
		message_created_at BIGINT NOT NULL,
		pinned_by_id       TEXT NOT NULL DEFAULT '',
		pinned_by_name     TEXT NOT NULL DEFAULT '',
		pinned_at          BIGINT NOT NULL,
		UNIQUE (channel_id, message_id)
	)`,
}

// EnsureSchema creates the tables the core needs if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
