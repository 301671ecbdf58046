package realtime

import (
	"context"
	"encoding/json"
	"testing"

	"campuschat/internal/events"
	"campuschat/internal/repository"
	"campuschat/internal/services"
	"campuschat/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dispatcherFixture struct {
	hub        *Hub
	dispatcher *Dispatcher
	messages   *repository.MockMessageRepository
}

func newDispatcherFixture(t *testing.T) *dispatcherFixture {
	t.Helper()
	log := logger.NewNop()
	hub := NewHub(log)

	channels := repository.NewMockChannelRepository()
	messages := repository.NewMockMessageRepository(channels)
	chat := services.NewChatService(messages, hub, log)
	pins := services.NewPinService(repository.NewMockPinRepository(), messages, hub, log)
	presence := services.NewPresenceService(hub, nil, log, 0, 0)
	relay := NewCallRelay(hub, log)

	return &dispatcherFixture{
		hub:        hub,
		dispatcher: NewDispatcher(hub, chat, pins, presence, relay, log),
		messages:   messages,
	}
}

func (f *dispatcherFixture) connect(userID, name string) *Client {
	c := NewClient(nil, userID, name, newSession("test"))
	f.hub.Register(c)
	return c
}

func decodeFrame(t *testing.T, raw []byte) (string, json.RawMessage) {
	t.Helper()
	env, err := events.DecodeEnvelope(raw)
	require.NoError(t, err)
	return env.Event, env.Data
}

func TestDispatchDropsMalformedFrames(t *testing.T) {
	f := newDispatcherFixture(t)
	c := f.connect("u1", "A")

	f.dispatcher.Dispatch(context.Background(), c, []byte("not json"))
	f.dispatcher.Dispatch(context.Background(), c, []byte(`{"data":{}}`))
	f.dispatcher.Dispatch(context.Background(), c, events.Encode("no:such:event", struct{}{}))

	assert.Empty(t, drain(c))
}

func TestDispatchJoinThenSendFansOut(t *testing.T) {
	f := newDispatcherFixture(t)
	sender := f.connect("u1", "Dana")
	peer := f.connect("u2", "Riz")

	join := events.Encode(events.EventJoin, events.JoinPayload{ChannelID: "gen"})
	f.dispatcher.Dispatch(context.Background(), sender, join)
	f.dispatcher.Dispatch(context.Background(), peer, join)

	f.dispatcher.Dispatch(context.Background(), sender, events.Encode(events.EventMessageSend, events.SendMessagePayload{
		ChannelID:   "gen",
		Text:        "hello",
		ClientMsgID: "tmp-1",
	}))

	// both room members get the persisted message, sender included
	for _, c := range []*Client{sender, peer} {
		frames := drain(c)
		require.Len(t, frames, 1)
		event, data := decodeFrame(t, frames[0])
		assert.Equal(t, events.EventMessageNew, event)

		var p events.MessageNewPayload
		require.NoError(t, json.Unmarshal(data, &p))
		assert.Equal(t, "hello", p.Text)
		assert.Equal(t, "u1", p.SenderID)
		assert.Equal(t, "Dana", p.SenderName)
		assert.Equal(t, "tmp-1", p.ClientMsgID)
	}
}

func TestDispatchSendOverridesClaimedIdentity(t *testing.T) {
	f := newDispatcherFixture(t)
	sender := f.connect("u1", "Dana")
	f.dispatcher.Dispatch(context.Background(), sender,
		events.Encode(events.EventJoin, events.JoinPayload{ChannelID: "gen"}))

	f.dispatcher.Dispatch(context.Background(), sender, events.Encode(events.EventMessageSend, events.SendMessagePayload{
		ChannelID: "gen",
		Text:      "hi",
		SenderID:  "somebody-else",
	}))

	history, err := f.messages.ListByChannel(context.Background(), "gen")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "u1", history[0].SenderID)
}

func TestDispatchSendFailureOnlyAcksSender(t *testing.T) {
	f := newDispatcherFixture(t)
	sender := f.connect("u1", "Dana")
	peer := f.connect("u2", "Riz")
	join := events.Encode(events.EventJoin, events.JoinPayload{ChannelID: "gen"})
	f.dispatcher.Dispatch(context.Background(), sender, join)
	f.dispatcher.Dispatch(context.Background(), peer, join)

	f.messages.AppendErr = assert.AnError
	f.dispatcher.Dispatch(context.Background(), sender, events.Encode(events.EventMessageSend, events.SendMessagePayload{
		ChannelID:   "gen",
		Text:        "doomed",
		ClientMsgID: "tmp-9",
	}))

	frames := drain(sender)
	require.Len(t, frames, 1)
	event, data := decodeFrame(t, frames[0])
	assert.Equal(t, events.EventMessageSendErr, event)

	var p events.SendErrorPayload
	require.NoError(t, json.Unmarshal(data, &p))
	assert.Equal(t, "tmp-9", p.ClientMsgID)

	assert.Empty(t, drain(peer))
}

func TestDispatchCallInviteSkipsCallerTabs(t *testing.T) {
	f := newDispatcherFixture(t)
	caller := f.connect("u1", "Dana")
	callerTab := f.connect("u1", "Dana")
	peer := f.connect("u2", "Riz")
	join := events.Encode(events.EventJoin, events.JoinPayload{ChannelID: "dm-u1-u2"})
	for _, c := range []*Client{caller, callerTab, peer} {
		f.dispatcher.Dispatch(context.Background(), c, join)
	}

	f.dispatcher.Dispatch(context.Background(), caller, events.Encode(events.EventCallInvite, events.CallInvitePayload{
		ChannelID: "dm-u1-u2",
		Kind:      "video",
	}))

	assert.Empty(t, drain(caller))
	assert.Empty(t, drain(callerTab))

	frames := drain(peer)
	require.Len(t, frames, 1)
	event, data := decodeFrame(t, frames[0])
	assert.Equal(t, events.EventCallInvite, event)

	var p events.CallInvitePayload
	require.NoError(t, json.Unmarshal(data, &p))
	assert.Equal(t, caller.ID, p.FromSocketID)
	assert.Equal(t, "u1", p.FromUserID)
	assert.Equal(t, "Dana", p.From)
}

func TestDispatchWebRTCOfferIsUnicast(t *testing.T) {
	f := newDispatcherFixture(t)
	caller := f.connect("u1", "Dana")
	callee := f.connect("u2", "Riz")
	bystander := f.connect("u3", "Kim")
	join := events.Encode(events.EventJoin, events.JoinPayload{ChannelID: "gen"})
	for _, c := range []*Client{caller, callee, bystander} {
		f.dispatcher.Dispatch(context.Background(), c, join)
	}

	sdp := json.RawMessage(`{"type":"offer","sdp":"v=0"}`)
	f.dispatcher.Dispatch(context.Background(), caller, events.Encode(events.EventWebRTCOffer, events.CallTargetPayload{
		ChannelID:  "gen",
		ToSocketID: callee.ID,
		SDP:        sdp,
	}))

	frames := drain(callee)
	require.Len(t, frames, 1)
	event, data := decodeFrame(t, frames[0])
	assert.Equal(t, events.EventWebRTCOffer, event)

	var p events.CallTargetPayload
	require.NoError(t, json.Unmarshal(data, &p))
	assert.Equal(t, caller.ID, p.FromSocketID)
	assert.JSONEq(t, string(sdp), string(p.SDP))

	assert.Empty(t, drain(caller))
	assert.Empty(t, drain(bystander))
}

func TestDispatchSignalingToGoneSocketIsSilent(t *testing.T) {
	f := newDispatcherFixture(t)
	caller := f.connect("u1", "Dana")

	f.dispatcher.Dispatch(context.Background(), caller, events.Encode(events.EventCallEnd, events.CallTargetPayload{
		ChannelID:  "gen",
		ToSocketID: "disconnected",
	}))

	assert.Empty(t, drain(caller))
}

func TestDispatchTypingRebroadcastsToRoom(t *testing.T) {
	f := newDispatcherFixture(t)
	typer := f.connect("u1", "Dana")
	peer := f.connect("u2", "Riz")
	join := events.Encode(events.EventJoin, events.JoinPayload{ChannelID: "gen"})
	f.dispatcher.Dispatch(context.Background(), typer, join)
	f.dispatcher.Dispatch(context.Background(), peer, join)

	f.dispatcher.Dispatch(context.Background(), typer, events.Encode(events.EventTyping, events.TypingPayload{
		ChannelID: "gen",
		UserID:    "u1",
		IsTyping:  true,
	}))

	frames := drain(peer)
	require.Len(t, frames, 1)
	event, _ := decodeFrame(t, frames[0])
	assert.Equal(t, events.EventTyping, event)
}

func TestDispatchJoinRecordsSession(t *testing.T) {
	f := newDispatcherFixture(t)
	c := f.connect("u1", "Dana")

	f.dispatcher.Dispatch(context.Background(), c,
		events.Encode(events.EventJoin, events.JoinPayload{ChannelID: "gen"}))
	f.dispatcher.Dispatch(context.Background(), c,
		events.Encode(events.EventUserJoin, events.UserJoinPayload{UserID: "u1"}))

	assert.Equal(t, []string{"gen"}, c.session.Channels())
	assert.Equal(t, []string{"u1"}, c.session.UserRooms())
}
