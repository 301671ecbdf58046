package realtime

import (
	"context"
	"encoding/json"

	"campuschat/internal/events"
	"campuschat/internal/services"
	"campuschat/pkg/logger"

	"go.uber.org/zap"
)

// Dispatcher validates inbound socket events at the boundary and routes
// them to the owning component. Events are handled in arrival order per
// connection; malformed or unknown events are logged and dropped, never
// surfaced as errors to the connection.
type Dispatcher struct {
	hub      *Hub
	chat     *services.ChatService
	pins     *services.PinService
	presence *services.PresenceService
	relay    *CallRelay
	log      *logger.Logger
}

func NewDispatcher(hub *Hub, chat *services.ChatService, pins *services.PinService, presence *services.PresenceService, relay *CallRelay, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		hub:      hub,
		chat:     chat,
		pins:     pins,
		presence: presence,
		relay:    relay,
		log:      log,
	}
}

// Dispatch handles one raw inbound frame from a client.
func (d *Dispatcher) Dispatch(ctx context.Context, c *Client, raw []byte) {
	env, err := events.DecodeEnvelope(raw)
	if err != nil {
		d.log.Logger.Warn("bad event envelope", zap.String("socket_id", c.ID))
		return
	}

	if !c.limiter.Allow(classFor(env.Event)) {
		d.log.Logger.Warn("event rate limit exceeded",
			zap.String("socket_id", c.ID), zap.String("event", env.Event))
		return
	}

	switch env.Event {
	case events.EventJoin:
		var p events.JoinPayload
		if !d.decode(c, env, &p) {
			return
		}
		d.handleJoin(c, p)

	case events.EventUserJoin:
		var p events.UserJoinPayload
		if !d.decode(c, env, &p) {
			return
		}
		d.handleUserJoin(c, p)

	case events.EventMessageSend:
		var p events.SendMessagePayload
		if !d.decode(c, env, &p) {
			return
		}
		d.handleSend(ctx, c, p)

	case events.EventTyping:
		var p events.TypingPayload
		if !d.decode(c, env, &p) {
			return
		}
		d.presence.SetTyping(ctx, p)

	case events.EventPresence:
		var p events.PresencePayload
		if !d.decode(c, env, &p) {
			return
		}
		d.presence.SetPresence(ctx, p)

	case events.EventCallInvite:
		var p events.CallInvitePayload
		if !d.decode(c, env, &p) {
			return
		}
		d.relay.Invite(c, p)

	case events.EventCallAccept, events.EventCallEnd,
		events.EventWebRTCOffer, events.EventWebRTCAnswer, events.EventWebRTCCandidate:
		var p events.CallTargetPayload
		if !d.decode(c, env, &p) {
			return
		}
		d.relay.Unicast(env.Event, c, p)

	default:
		d.log.Logger.Warn("unknown event",
			zap.String("socket_id", c.ID), zap.String("event", env.Event))
	}
}

func (d *Dispatcher) decode(c *Client, env events.Envelope, out any) bool {
	if err := json.Unmarshal(env.Data, out); err != nil {
		d.log.Logger.Warn("bad event payload",
			zap.String("socket_id", c.ID), zap.String("event", env.Event))
		return false
	}
	return true
}

// Empty channel ids on join are ignored rather than rejected; clients
// race channel resolution against socket setup and resend the join.
func (d *Dispatcher) handleJoin(c *Client, p events.JoinPayload) {
	if p.ChannelID == "" {
		return
	}
	d.hub.Join(c, p.ChannelID)
	c.session.RecordChannel(p.ChannelID)
}

func (d *Dispatcher) handleUserJoin(c *Client, p events.UserJoinPayload) {
	if p.UserID == "" {
		return
	}
	d.hub.Join(c, UserRoom(p.UserID))
	c.session.RecordUserRoom(p.UserID)
}

func (d *Dispatcher) handleSend(ctx context.Context, c *Client, p events.SendMessagePayload) {
	req := services.SendRequest{
		ChannelID:       p.ChannelID,
		Text:            p.Text,
		SenderID:        p.SenderID,
		SenderName:      p.SenderName,
		SenderAvatarURL: p.SenderAvatarURL,
		Priority:        p.Priority,
		Context:         p.Context,
		ClientMsgID:     p.ClientMsgID,
	}
	// Socket identity wins over whatever the payload claims.
	if c.UserID != "" {
		req.SenderID = c.UserID
		if req.SenderName == "" {
			req.SenderName = c.Name
		}
	}

	if _, err := d.chat.Send(ctx, req); err != nil {
		// Only the sender learns about the failure.
		c.SendMessage(events.Encode(events.EventMessageSendErr, events.SendErrorPayload{
			ChannelID:   p.ChannelID,
			ClientMsgID: p.ClientMsgID,
			Reason:      "message not delivered",
		}))
	}
}

func classFor(event string) eventClass {
	switch event {
	case events.EventMessageSend:
		return classMessage
	case events.EventTyping:
		return classTyping
	case events.EventPresence:
		return classPresence
	case events.EventCallInvite, events.EventCallAccept, events.EventCallEnd,
		events.EventWebRTCOffer, events.EventWebRTCAnswer, events.EventWebRTCCandidate:
		return classCall
	default:
		return classJoin
	}
}
