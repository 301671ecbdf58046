package repository

import (
	"context"
	"sort"
	"sync"

	"campuschat/internal/domain"
	chat_errors "campuschat/pkg/errors"
)

// In-memory repositories backing unit tests. They honor the same
// idempotence and ordering contracts as the postgres implementations.

type MockChannelRepository struct {
	mu       sync.Mutex
	channels map[string]domain.Channel

	EnsureErr error
}

func NewMockChannelRepository() *MockChannelRepository {
	return &MockChannelRepository{channels: make(map[string]domain.Channel)}
}

func (r *MockChannelRepository) Ensure(ctx context.Context, ch domain.Channel) (domain.Channel, error) {
	if r.EnsureErr != nil {
		return domain.Channel{}, r.EnsureErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.channels[ch.ID]; ok {
		return existing, nil
	}
	r.channels[ch.ID] = ch
	return ch, nil
}

func (r *MockChannelRepository) GetByID(ctx context.Context, id string) (domain.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.channels[id]
	if !ok {
		return domain.Channel{}, chat_errors.ErrNotFound
	}
	return ch, nil
}

func (r *MockChannelRepository) List(ctx context.Context) ([]domain.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Channel, 0, len(r.channels))
	for _, ch := range r.channels {
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MockChannelRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.channels[id]; !ok {
		return chat_errors.ErrNotFound
	}
	delete(r.channels, id)
	return nil
}

type MockMessageRepository struct {
	mu       sync.Mutex
	messages map[string][]domain.Message
	channels *MockChannelRepository

	AppendErr error
}

func NewMockMessageRepository(channels *MockChannelRepository) *MockMessageRepository {
	return &MockMessageRepository{
		messages: make(map[string][]domain.Message),
		channels: channels,
	}
}

func (r *MockMessageRepository) Append(ctx context.Context, defaults domain.Channel, m *domain.Message) error {
	if r.AppendErr != nil {
		return r.AppendErr
	}
	if r.channels != nil {
		if _, err := r.channels.Ensure(ctx, defaults); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[m.ChannelID] = append(r.messages[m.ChannelID], *m)
	return nil
}

func (r *MockMessageRepository) ListByChannel(ctx context.Context, channelID string) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Message, len(r.messages[channelID]))
	copy(out, r.messages[channelID])
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

func (r *MockMessageRepository) GetByID(ctx context.Context, channelID, id string) (domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages[channelID] {
		if m.ID == id {
			return m, nil
		}
	}
	return domain.Message{}, chat_errors.ErrNotFound
}

type MockPinRepository struct {
	mu   sync.Mutex
	pins map[string][]domain.Pin

	AddErr error
}

func NewMockPinRepository() *MockPinRepository {
	return &MockPinRepository{pins: make(map[string][]domain.Pin)}
}

func (r *MockPinRepository) Add(ctx context.Context, p *domain.Pin) error {
	if r.AddErr != nil {
		return r.AddErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.pins[p.ChannelID] {
		if existing.MessageID == p.MessageID {
			return chat_errors.ErrAlreadyExists
		}
	}
	r.pins[p.ChannelID] = append(r.pins[p.ChannelID], *p)
	return nil
}

func (r *MockPinRepository) Remove(ctx context.Context, channelID, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pins := r.pins[channelID]
	for i, p := range pins {
		if p.MessageID == messageID {
			r.pins[channelID] = append(pins[:i], pins[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *MockPinRepository) ListByChannel(ctx context.Context, channelID string) ([]domain.Pin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Pin, len(r.pins[channelID]))
	copy(out, r.pins[channelID])
	sort.SliceStable(out, func(i, j int) bool { return out[i].PinnedAt > out[j].PinnedAt })
	return out, nil
}
