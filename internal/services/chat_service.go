package services

import (
	"context"
	"sync"
	"time"

	"campuschat/internal/domain"
	"campuschat/internal/events"
	"campuschat/internal/repository"
	chat_errors "campuschat/pkg/errors"
	"campuschat/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const anonymousSenderName = "Anonymous"

// SendRequest is a validated client send intent.
type SendRequest struct {
	ChannelID       string
	Text            string
	SenderID        string
	SenderName      string
	SenderAvatarURL string
	Priority        domain.Priority
	Context         *domain.MessageContext
	ClientMsgID     string
}

// ChatService is the message fan-out engine: it turns a send intent into
// a durable row and broadcasts the canonical persisted form to the room.
// Sends are serialized per channel, so broadcast order matches
// persistence order and createdAt is non-decreasing within a channel.
type ChatService struct {
	messages    repository.MessageRepository
	broadcaster Broadcaster
	log         *logger.Logger
	now         func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewChatService(messages repository.MessageRepository, broadcaster Broadcaster, log *logger.Logger) *ChatService {
	return &ChatService{
		messages:    messages,
		broadcaster: broadcaster,
		log:         log,
		now:         time.Now,
		locks:       make(map[string]*sync.Mutex),
	}
}

// SetClock overrides the time source. Test hook.
func (s *ChatService) SetClock(now func() time.Time) { s.now = now }

func (s *ChatService) channelLock(channelID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[channelID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[channelID] = l
	}
	return l
}

// Send persists a message and fans it out to the channel room. On
// persistence failure nothing is broadcast and the error is returned to
// the caller only; other clients never observe a partial send.
func (s *ChatService) Send(ctx context.Context, req SendRequest) (domain.Message, error) {
	if req.ChannelID == "" || req.Text == "" {
		return domain.Message{}, chat_errors.ErrInvalidInput
	}
	if req.SenderName == "" {
		req.SenderName = anonymousSenderName
	}
	if req.Priority == "" {
		req.Priority = domain.PriorityNormal
	}

	lock := s.channelLock(req.ChannelID)
	lock.Lock()
	defer lock.Unlock()

	m := domain.Message{
		ID:              uuid.New().String(),
		ChannelID:       req.ChannelID,
		SenderID:        req.SenderID,
		SenderName:      req.SenderName,
		SenderAvatarURL: req.SenderAvatarURL,
		Text:            req.Text,
		CreatedAt:       s.now().UnixMilli(),
		Priority:        req.Priority,
		Context:         req.Context,
	}

	if err := s.messages.Append(ctx, DefaultsFor(req.ChannelID), &m); err != nil {
		s.log.Logger.Error("message persist failed",
			zap.String("channel_id", req.ChannelID), zap.Error(err))
		return domain.Message{}, err
	}

	s.broadcaster.Broadcast(req.ChannelID, events.Encode(events.EventMessageNew, events.MessageNewPayload{
		Message:     m,
		ClientMsgID: req.ClientMsgID,
	}))
	return m, nil
}

// History returns the channel's full message history, oldest first.
func (s *ChatService) History(ctx context.Context, channelID string) ([]domain.Message, error) {
	if channelID == "" {
		return nil, chat_errors.ErrInvalidInput
	}
	return s.messages.ListByChannel(ctx, channelID)
}
