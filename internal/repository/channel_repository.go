package repository

import (
	"context"
	"errors"

	"campuschat/internal/domain"
	chat_errors "campuschat/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresChannelRepository struct {
	pool *pgxpool.Pool
}

func NewChannelRepository(pool *pgxpool.Pool) ChannelRepository {
	return &PostgresChannelRepository{pool: pool}
}

func (r *PostgresChannelRepository) Ensure(ctx context.Context, ch domain.Channel) (domain.Channel, error) {
	// ON CONFLICT DO NOTHING keeps curated metadata intact; the read-back
	// returns whichever row won.
	_, err := r.pool.Exec(ctx, `
		INSERT INTO channels (id, name, topic, kind, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (id) DO NOTHING`,
		ch.ID, ch.Name, ch.Topic, string(ch.Kind), ch.CreatedBy)
	if err != nil {
		return domain.Channel{}, err
	}
	return r.GetByID(ctx, ch.ID)
}

func (r *PostgresChannelRepository) GetByID(ctx context.Context, id string) (domain.Channel, error) {
	return scanChannel(r.pool.QueryRow(ctx, `
		SELECT id, name, topic, kind, created_by, created_at
		FROM channels WHERE id = $1`, id))
}

func (r *PostgresChannelRepository) List(ctx context.Context) ([]domain.Channel, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, topic, kind, created_by, created_at
		FROM channels ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []domain.Channel
	for rows.Next() {
		ch, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, rows.Err()
}

func (r *PostgresChannelRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM pins WHERE channel_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM messages WHERE channel_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM channels WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return chat_errors.ErrNotFound
		}
		return nil
	})
}

func scanChannel(row pgx.Row) (domain.Channel, error) {
	var ch domain.Channel
	var kind string
	err := row.Scan(&ch.ID, &ch.Name, &ch.Topic, &kind, &ch.CreatedBy, &ch.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Channel{}, chat_errors.ErrNotFound
		}
		return domain.Channel{}, err
	}
	ch.Kind = domain.ChannelKind(kind)
	return ch, nil
}
