package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"campuschat/internal/auth"
	"campuschat/internal/config"
	"campuschat/internal/domain"
	"campuschat/internal/realtime"
	"campuschat/internal/repository"
	"campuschat/internal/services"
	"campuschat/internal/transport/httpdto"
	"campuschat/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	router   *gin.Engine
	auth     *auth.Service
	channels *repository.MockChannelRepository
	messages *repository.MockMessageRepository
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	log := logger.NewNop()
	hub := realtime.NewHub(log)

	channels := repository.NewMockChannelRepository()
	messages := repository.NewMockMessageRepository(channels)
	pins := repository.NewMockPinRepository()

	directory := services.NewDirectory(channels)
	chat := services.NewChatService(messages, hub, log)
	pinSvc := services.NewPinService(pins, messages, hub, log)
	presence := services.NewPresenceService(hub, nil, log, 0, 0)

	authSvc := auth.NewService(config.AuthConfig{JWTSecret: "test-secret", JWTExpiryMin: 60})
	relay := realtime.NewCallRelay(hub, log)
	dispatcher := realtime.NewDispatcher(hub, chat, pinSvc, presence, relay, log)
	socket := realtime.NewHandler(authSvc, hub, dispatcher, realtime.NewSessionStore(0), nil, log)

	router := NewRouter(RouterDeps{
		Auth:     authSvc,
		Channels: NewChannelHandler(directory),
		Messages: NewMessageHandler(chat),
		Pins:     NewPinHandler(pinSvc),
		Presence: NewPresenceHandler(presence, nil),
		Socket:   socket,
		Log:      log,
	})

	return &apiFixture{router: router, auth: authSvc, channels: channels, messages: messages}
}

func (f *apiFixture) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) token(t *testing.T, userID, name, role string) string {
	t.Helper()
	token, err := f.auth.IssueAccessToken(userID, name, role)
	require.NoError(t, err)
	return token
}

func TestListChannelsEmptyIsArray(t *testing.T) {
	f := newAPIFixture(t)

	w := f.request(t, http.MethodGet, "/api/channels", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"channels":[]}`, w.Body.String())
}

func TestProvisionRequiresTeacherRole(t *testing.T) {
	f := newAPIFixture(t)
	body := httpdto.ProvisionChannelRequest{ID: "SEC-2026-A", Name: "Section A", Kind: "section"}

	w := f.request(t, http.MethodPost, "/api/channels", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.request(t, http.MethodPost, "/api/channels", f.token(t, "u1", "S", auth.RoleStudent), body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.request(t, http.MethodPost, "/api/channels", f.token(t, "t1", "Prof", auth.RoleTeacher), body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp httpdto.ChannelResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SEC-2026-A", resp.Channel.ID)
	assert.Equal(t, "t1", resp.Channel.CreatedBy)
}

func TestSendMessageOverHTTP(t *testing.T) {
	f := newAPIFixture(t)

	w := f.request(t, http.MethodPost, "/api/channels/gen/messages",
		f.token(t, "u1", "Dana", auth.RoleStudent),
		httpdto.SendMessageRequest{Text: "hello", ClientMsgID: "tmp-1"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp httpdto.MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "hello", resp.Message.Text)
	assert.Equal(t, "u1", resp.Message.SenderID)
	assert.Equal(t, "Dana", resp.Message.SenderName)

	history, err := f.messages.ListByChannel(context.Background(), "gen")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSendMessageRejectsMissingText(t *testing.T) {
	f := newAPIFixture(t)

	w := f.request(t, http.MethodPost, "/api/channels/gen/messages", "",
		map[string]string{"senderName": "Dana"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMessageHistoryShape(t *testing.T) {
	f := newAPIFixture(t)
	require.NoError(t, f.messages.Append(context.Background(),
		services.DefaultsFor("gen"),
		&domain.Message{ID: "m1", ChannelID: "gen", SenderName: "Dana", Text: "hi", CreatedAt: 1}))

	w := f.request(t, http.MethodGet, "/api/channels/gen/messages", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp httpdto.MessagesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "m1", resp.Messages[0].ID)
}

func TestPinLifecycleOverHTTP(t *testing.T) {
	f := newAPIFixture(t)
	require.NoError(t, f.messages.Append(context.Background(),
		services.DefaultsFor("gen"),
		&domain.Message{ID: "m1", ChannelID: "gen", SenderName: "Dana", Text: "pin me", CreatedAt: 1}))
	token := f.token(t, "u1", "Dana", auth.RoleStudent)

	w := f.request(t, http.MethodPost, "/api/channels/gen/pins", token,
		httpdto.PinRequest{MessageID: "m1"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp httpdto.PinsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Pins, 1)
	assert.Equal(t, "m1", resp.Pins[0].MessageID)

	w = f.request(t, http.MethodDelete, "/api/channels/gen/pins/m1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"pins":[]}`, w.Body.String())

	w = f.request(t, http.MethodPost, "/api/channels/gen/pins", "", httpdto.PinRequest{MessageID: "m1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeleteChannelAuthorization(t *testing.T) {
	f := newAPIFixture(t)
	_, err := f.channels.Ensure(context.Background(), domain.Channel{
		ID:        "study-buddies",
		Kind:      domain.KindSectionGroup,
		CreatedBy: "owner-1",
	})
	require.NoError(t, err)

	w := f.request(t, http.MethodDelete, "/api/channels/study-buddies",
		f.token(t, "stranger", "X", auth.RoleStudent), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.request(t, http.MethodDelete, "/api/channels/study-buddies",
		f.token(t, "owner-1", "O", auth.RoleStudent), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.request(t, http.MethodDelete, "/api/channels/study-buddies",
		f.token(t, "owner-1", "O", auth.RoleStudent), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPresenceSnapshotShape(t *testing.T) {
	f := newAPIFixture(t)

	w := f.request(t, http.MethodGet, "/api/channels/gen/presence", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"channelId":"gen","onlineUsers":[],"typingUsers":[]}`, w.Body.String())
}
