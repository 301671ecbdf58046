package repository

import (
	"context"
	"encoding/json"
	"errors"

	"campuschat/internal/domain"
	chat_errors "campuschat/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresMessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &PostgresMessageRepository{pool: pool}
}

func (r *PostgresMessageRepository) Append(ctx context.Context, defaults domain.Channel, m *domain.Message) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO channels (id, name, topic, kind, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5, now())
			ON CONFLICT (id) DO NOTHING`,
			defaults.ID, defaults.Name, defaults.Topic, string(defaults.Kind), defaults.CreatedBy)
		if err != nil {
			return err
		}

		var contextJSON []byte
		if m.Context != nil {
			contextJSON, err = json.Marshal(m.Context)
			if err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO messages (id, channel_id, sender_id, sender_name, sender_avatar_url, body, created_at, priority, context)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			m.ID, m.ChannelID, m.SenderID, m.SenderName, m.SenderAvatarURL, m.Text, m.CreatedAt, string(m.Priority), contextJSON)
		if isUniqueViolation(err) {
			return chat_errors.ErrAlreadyExists
		}
		return err
	})
}

func (r *PostgresMessageRepository) ListByChannel(ctx context.Context, channelID string) ([]domain.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, channel_id, sender_id, sender_name, sender_avatar_url, body, created_at, priority, context
		FROM messages WHERE channel_id = $1
		ORDER BY created_at ASC, id ASC`, channelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *PostgresMessageRepository) GetByID(ctx context.Context, channelID, id string) (domain.Message, error) {
	return scanMessage(r.pool.QueryRow(ctx, `
		SELECT id, channel_id, sender_id, sender_name, sender_avatar_url, body, created_at, priority, context
		FROM messages WHERE channel_id = $1 AND id = $2`, channelID, id))
}

func scanMessage(row pgx.Row) (domain.Message, error) {
	var m domain.Message
	var priority string
	var contextJSON []byte
	err := row.Scan(&m.ID, &m.ChannelID, &m.SenderID, &m.SenderName, &m.SenderAvatarURL,
		&m.Text, &m.CreatedAt, &priority, &contextJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Message{}, chat_errors.ErrNotFound
		}
		return domain.Message{}, err
	}
	m.Priority = domain.Priority(priority)
	if len(contextJSON) > 0 {
		var mc domain.MessageContext
		if err := json.Unmarshal(contextJSON, &mc); err == nil {
			m.Context = &mc
		}
	}
	return m, nil
}
