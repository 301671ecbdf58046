package domain

// Priority marks how prominently the client should render a message.
type Priority string

const (
	PriorityNormal    Priority = "normal"
	PriorityHigh      Priority = "high"
	PriorityEmergency Priority = "emergency"
)

// FileMeta describes an attachment referenced by a message context.
type FileMeta struct {
	Filename string `json:"filename,omitempty"`
	Size     int64  `json:"size,omitempty"`
	Mimetype string `json:"mimetype,omitempty"`
}

// MessageContext carries structured attachment metadata produced by the
// upload pipeline (an external collaborator); the core treats it as opaque
// and persists it alongside the message.
type MessageContext struct {
	Summary     string    `json:"summary,omitempty"`
	Highlights  []string  `json:"highlights,omitempty"`
	Suggestions []string  `json:"suggestions,omitempty"`
	Meta        *FileMeta `json:"meta,omitempty"`
}

// Message is one persisted chat message. ID and CreatedAt are assigned
// server-side at persistence time; CreatedAt is epoch milliseconds.
// Messages are never mutated or deleted after creation.
type Message struct {
	ID              string          `json:"id"`
	ChannelID       string          `json:"channelId"`
	SenderID        string          `json:"senderId,omitempty"`
	SenderName      string          `json:"senderName"`
	SenderAvatarURL string          `json:"senderAvatarUrl,omitempty"`
	Text            string          `json:"text"`
	CreatedAt       int64           `json:"createdAt"`
	Priority        Priority        `json:"priority"`
	Context         *MessageContext `json:"context,omitempty"`
}
