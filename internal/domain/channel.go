package domain

import "time"

// ChannelKind classifies a channel. The id format of most kinds is
// derived from academic structure (see services.Directory).
type ChannelKind string

const (
	KindGeneral        ChannelKind = "general"
	KindSubject        ChannelKind = "subject"
	KindSection        ChannelKind = "section"
	KindSectionSubject ChannelKind = "section-subject"
	KindSectionGroup   ChannelKind = "section-group"
	KindDM             ChannelKind = "dm"
	KindAnnouncement   ChannelKind = "announcement"
)

// Channel is a named message stream with persisted history. Channels are
// created lazily on first reference and never hard-deleted, with the one
// exception of section-groups which support owner-initiated delete.
type Channel struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Topic     string      `json:"topic,omitempty"`
	Kind      ChannelKind `json:"kind"`
	CreatedBy string      `json:"createdBy,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}
