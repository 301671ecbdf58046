package services

import (
	"context"
	"errors"
	"time"

	"campuschat/internal/domain"
	"campuschat/internal/events"
	"campuschat/internal/repository"
	chat_errors "campuschat/pkg/errors"
	"campuschat/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Actor identifies who performed a pin mutation.
type Actor struct {
	ID   string
	Name string
}

// PinService maintains each channel's pinned-message list. Every mutation
// broadcasts the full updated list, never a delta, so client caches stay
// consistent without merge logic.
type PinService struct {
	pins        repository.PinRepository
	messages    repository.MessageRepository
	broadcaster Broadcaster
	log         *logger.Logger
	now         func() time.Time
}

func NewPinService(pins repository.PinRepository, messages repository.MessageRepository, broadcaster Broadcaster, log *logger.Logger) *PinService {
	return &PinService{
		pins:        pins,
		messages:    messages,
		broadcaster: broadcaster,
		log:         log,
		now:         time.Now,
	}
}

// SetClock overrides the time source. Test hook.
func (s *PinService) SetClock(now func() time.Time) { s.now = now }

// Pin records a pin for messageID in channelID. If the message does not
// exist in that channel the call is a no-op returning the current list:
// a pin must never dangle.
func (s *PinService) Pin(ctx context.Context, channelID, messageID string, actor Actor) ([]domain.Pin, error) {
	if channelID == "" || messageID == "" {
		return nil, chat_errors.ErrInvalidInput
	}

	msg, err := s.messages.GetByID(ctx, channelID, messageID)
	if err != nil {
		if errors.Is(err, chat_errors.ErrNotFound) {
			return s.pins.ListByChannel(ctx, channelID)
		}
		return nil, err
	}

	pin := domain.Pin{
		ID:               uuid.New().String(),
		ChannelID:        channelID,
		MessageID:        messageID,
		SenderName:       msg.SenderName,
		Text:             msg.Text,
		MessageCreatedAt: msg.CreatedAt,
		PinnedByID:       actor.ID,
		PinnedByName:     actor.Name,
		PinnedAt:         s.now().UnixMilli(),
	}
	if err := s.pins.Add(ctx, &pin); err != nil && !errors.Is(err, chat_errors.ErrAlreadyExists) {
		s.log.Logger.Error("pin persist failed",
			zap.String("channel_id", channelID), zap.String("message_id", messageID), zap.Error(err))
		return nil, err
	}

	return s.broadcastList(ctx, channelID)
}

// Unpin removes a pin. Idempotent: unpinning an absent pin returns the
// unchanged list.
func (s *PinService) Unpin(ctx context.Context, channelID, messageID string) ([]domain.Pin, error) {
	if channelID == "" || messageID == "" {
		return nil, chat_errors.ErrInvalidInput
	}
	if err := s.pins.Remove(ctx, channelID, messageID); err != nil {
		return nil, err
	}
	return s.broadcastList(ctx, channelID)
}

// List returns the channel's pins, most-recently-pinned first.
func (s *PinService) List(ctx context.Context, channelID string) ([]domain.Pin, error) {
	return s.pins.ListByChannel(ctx, channelID)
}

func (s *PinService) broadcastList(ctx context.Context, channelID string) ([]domain.Pin, error) {
	pins, err := s.pins.ListByChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if pins == nil {
		pins = []domain.Pin{}
	}
	s.broadcaster.Broadcast(channelID, events.Encode(events.EventChannelPinned, events.ChannelPinnedPayload{
		ChannelID: channelID,
		Pins:      pins,
	}))
	return pins, nil
}
