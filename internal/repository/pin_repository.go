package repository

import (
	"context"

	"campuschat/internal/domain"
	chat_errors "campuschat/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresPinRepository struct {
	pool *pgxpool.Pool
}

func NewPinRepository(pool *pgxpool.Pool) PinRepository {
	return &PostgresPinRepository{pool: pool}
}

func (r *PostgresPinRepository) Add(ctx context.Context, p *domain.Pin) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO pins (id, channel_id, message_id, sender_name, body, message_created_at, pinned_by_id, pinned_by_name, pinned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.ChannelID, p.MessageID, p.SenderName, p.Text, p.MessageCreatedAt,
		p.PinnedByID, p.PinnedByName, p.PinnedAt)
	if isUniqueViolation(err) {
		return chat_errors.ErrAlreadyExists
	}
	return err
}

func (r *PostgresPinRepository) Remove(ctx context.Context, channelID, messageID string) error {
	// No rows affected is fine: unpin is idempotent.
	_, err := r.pool.Exec(ctx,
		`DELETE FROM pins WHERE channel_id = $1 AND message_id = $2`, channelID, messageID)
	return err
}

func (r *PostgresPinRepository) ListByChannel(ctx context.Context, channelID string) ([]domain.Pin, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, channel_id, message_id, sender_name, body, message_created_at, pinned_by_id, pinned_by_name, pinned_at
		FROM pins WHERE channel_id = $1
		ORDER BY pinned_at DESC, id DESC`, channelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pins []domain.Pin
	for rows.Next() {
		var p domain.Pin
		if err := rows.Scan(&p.ID, &p.ChannelID, &p.MessageID, &p.SenderName, &p.Text,
			&p.MessageCreatedAt, &p.PinnedByID, &p.PinnedByName, &p.PinnedAt); err != nil {
			return nil, err
		}
		pins = append(pins, p)
	}
	return pins, rows.Err()
}
