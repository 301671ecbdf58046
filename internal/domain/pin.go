package domain

// Pin is a durable pointer to a message within a channel. The message
// fields are snapshotted at pin time so the pin survives even if history
// reads are paginated away. Pins are surfaced most-recently-pinned first;
// index 0 is the primary pin.
type Pin struct {
	ID               string `json:"id"`
	ChannelID        string `json:"channelId"`
	MessageID        string `json:"messageId"`
	SenderName       string `json:"senderName"`
	Text             string `json:"text"`
	MessageCreatedAt int64  `json:"messageCreatedAt"`
	PinnedByID       string `json:"pinnedById,omitempty"`
	PinnedByName     string `json:"pinnedByName"`
	PinnedAt         int64  `json:"pinnedAt"`
}
