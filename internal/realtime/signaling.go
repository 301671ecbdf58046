package realtime

import (
	"campuschat/internal/events"
	"campuschat/pkg/logger"

	"go.uber.org/zap"
)

// CallRelay forwards call lifecycle and WebRTC negotiation events between
// peers. It is stateless: no call state is stored server-side, SDP and
// candidate payloads pass through opaque, and a relay to a disconnected
// socket is silently dropped.
type CallRelay struct {
	hub *Hub
	log *logger.Logger
}

func NewCallRelay(hub *Hub, log *logger.Logger) *CallRelay {
	return &CallRelay{hub: hub, log: log}
}

// Invite fans a call invite out to the channel room. The inviting
// connection never receives its own invite back, nor do other tabs of
// the same identity.
func (r *CallRelay) Invite(c *Client, p events.CallInvitePayload) {
	if p.ChannelID == "" {
		return
	}
	p.FromSocketID = c.ID
	if p.FromUserID == "" {
		p.FromUserID = c.UserID
	}
	if p.From == "" {
		p.From = c.Name
	}
	r.hub.BroadcastExcept(p.ChannelID, c.ID, p.FromUserID,
		events.Encode(events.EventCallInvite, p))
}

// Unicast relays accept/end/offer/answer/candidate to one socket.
func (r *CallRelay) Unicast(event string, c *Client, p events.CallTargetPayload) {
	if p.ToSocketID == "" {
		return
	}
	p.FromSocketID = c.ID
	if !r.hub.SendToSocket(p.ToSocketID, events.Encode(event, p)) {
		// No delivery guarantee for signaling; the caller's UI times out.
		r.log.Logger.Debug("signaling target gone",
			zap.String("event", event), zap.String("to_socket_id", p.ToSocketID))
	}
}
