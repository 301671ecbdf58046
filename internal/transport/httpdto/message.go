package httpdto

import "campuschat/internal/domain"

type MessagesResponse struct {
	Messages []domain.Message `json:"messages"`
}

type MessageResponse struct {
	Message domain.Message `json:"message"`
}

type SendMessageRequest struct {
	Text            string                 `json:"text" binding:"required"`
	SenderID        string                 `json:"senderId"`
	SenderName      string                 `json:"senderName"`
	SenderAvatarURL string                 `json:"senderAvatarUrl"`
	Priority        string                 `json:"priority"`
	Context         *domain.MessageContext `json:"contextMeta"`
	ClientMsgID     string                 `json:"clientMsgId"`
}

type PinsResponse struct {
	Pins []domain.Pin `json:"pins"`
}

type PinRequest struct {
	MessageID string `json:"messageId" binding:"required"`
}
