package repository

import (
	"context"

	"campuschat/internal/domain"
)

// ChannelRepository is the durable boundary for channel identity.
type ChannelRepository interface {
	// Ensure upserts the channel row. When the row already exists the
	// stored name/kind/topic are left untouched: lazily-created defaults
	// must never clobber curated metadata. Safe under concurrent calls.
	Ensure(ctx context.Context, ch domain.Channel) (domain.Channel, error)
	GetByID(ctx context.Context, id string) (domain.Channel, error)
	List(ctx context.Context) ([]domain.Channel, error)
	// Delete removes a channel row and its dependent messages/pins.
	// Only section-group channels are ever deleted; the service layer
	// enforces that.
	Delete(ctx context.Context, id string) error
}

// MessageRepository is the append-only message store.
type MessageRepository interface {
	// Append ensures the channel exists and inserts the message in a
	// single transaction, so a reader never observes the message without
	// its channel or vice versa.
	Append(ctx context.Context, defaults domain.Channel, m *domain.Message) error
	// ListByChannel returns the full history ordered by createdAt
	// ascending (point-in-time read).
	ListByChannel(ctx context.Context, channelID string) ([]domain.Message, error)
	GetByID(ctx context.Context, channelID, id string) (domain.Message, error)
}

// PinRepository stores per-channel pin records.
type PinRepository interface {
	Add(ctx context.Context, p *domain.Pin) error
	// Remove is idempotent: removing an absent pin is not an error.
	Remove(ctx context.Context, channelID, messageID string) error
	// ListByChannel returns pins most-recently-pinned first.
	ListByChannel(ctx context.Context, channelID string) ([]domain.Pin, error)
}
