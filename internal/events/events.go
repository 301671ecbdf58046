package events

import (
	"encoding/json"
	"errors"

	"campuschat/internal/domain"
)

// Event names carried on the socket, client->server and server->client.
const (
	EventJoin            = "join"
	EventUserJoin        = "user:join"
	EventMessageSend     = "message:send"
	EventMessageNew      = "message:new"
	EventMessageSendErr  = "message:send:error"
	EventTyping          = "typing"
	EventPresence        = "presence"
	EventChannelPinned   = "channel:pinned"
	EventCallInvite      = "call:invite"
	EventCallAccept      = "call:accept"
	EventCallEnd         = "call:end"
	EventWebRTCOffer     = "webrtc:offer"
	EventWebRTCAnswer    = "webrtc:answer"
	EventWebRTCCandidate = "webrtc:candidate"
)

var ErrBadEnvelope = errors.New("malformed event envelope")

// Envelope is the wire framing for every socket event: a name plus a
// payload decoded per-event at the boundary, so handlers only ever see
// well-formed typed variants.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, ErrBadEnvelope
	}
	if env.Event == "" {
		return Envelope{}, ErrBadEnvelope
	}
	return env, nil
}

// Encode frames an outbound event. Payloads are internal types, so a
// marshal failure is a programming error.
func Encode(event string, data any) []byte {
	payload, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	raw, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		panic(err)
	}
	return raw
}

// Client->server payloads.

type JoinPayload struct {
	ChannelID string `json:"channelId"`
}

type UserJoinPayload struct {
	UserID string `json:"userId"`
}

type SendMessagePayload struct {
	ChannelID       string                 `json:"channelId"`
	Text            string                 `json:"text"`
	SenderID        string                 `json:"senderId,omitempty"`
	SenderName      string                 `json:"senderName,omitempty"`
	SenderAvatarURL string                 `json:"senderAvatarUrl,omitempty"`
	Priority        domain.Priority        `json:"priority,omitempty"`
	Context         *domain.MessageContext `json:"contextMeta,omitempty"`
	ClientMsgID     string                 `json:"clientMsgId,omitempty"`
}

type TypingPayload struct {
	ChannelID string `json:"channelId"`
	UserID    string `json:"userId"`
	Name      string `json:"name,omitempty"`
	IsTyping  bool   `json:"isTyping"`
}

type PresencePayload struct {
	ChannelID string `json:"channelId"`
	UserID    string `json:"userId"`
	Name      string `json:"name,omitempty"`
	Online    bool   `json:"online"`
}

// Call signaling payloads. SDP and candidate bodies are opaque to the
// server and relayed untouched.

type CallInvitePayload struct {
	ChannelID    string `json:"channelId"`
	Kind         string `json:"kind"` // "video" or "voice"
	From         string `json:"from,omitempty"`
	FromSocketID string `json:"fromSocketId,omitempty"`
	FromUserID   string `json:"fromUserId,omitempty"`
}

type CallTargetPayload struct {
	ChannelID    string          `json:"channelId"`
	ToSocketID   string          `json:"toSocketId"`
	FromSocketID string          `json:"fromSocketId,omitempty"`
	SDP          json.RawMessage `json:"sdp,omitempty"`
	Candidate    json.RawMessage `json:"candidate,omitempty"`
}

// Server->client payloads.

type MessageNewPayload struct {
	domain.Message
	ClientMsgID string `json:"clientMsgId,omitempty"`
}

type SendErrorPayload struct {
	ChannelID   string `json:"channelId"`
	ClientMsgID string `json:"clientMsgId,omitempty"`
	Reason      string `json:"reason"`
}

type ChannelPinnedPayload struct {
	ChannelID string       `json:"channelId"`
	Pins      []domain.Pin `json:"pins"`
}
