package httpdto

import "campuschat/internal/domain"

// Success shapes mirror what the socket layer emits; web clients merge
// both sources into one local cache, so these stay flat.

type ChannelsResponse struct {
	Channels []domain.Channel `json:"channels"`
}

type ChannelResponse struct {
	Channel domain.Channel `json:"channel"`
}

type ProvisionChannelRequest struct {
	ID    string `json:"id" binding:"required"`
	Name  string `json:"name"`
	Topic string `json:"topic"`
	Kind  string `json:"kind"`
}
