package services

// Broadcaster is the fan-out surface the services need from the realtime
// layer. Implementations must resolve room membership at call time, not
// from a snapshot taken before a persistence call.
type Broadcaster interface {
	// Broadcast delivers a payload to every connection joined to a room.
	Broadcast(room string, payload []byte)
	// BroadcastToUser delivers a payload to every connection in the
	// user-identity room for userID.
	BroadcastToUser(userID string, payload []byte)
}

// NopBroadcaster discards everything. Useful for tests and tooling.
type NopBroadcaster struct{}

func (NopBroadcaster) Broadcast(string, []byte)       {}
func (NopBroadcaster) BroadcastToUser(string, []byte) {}
