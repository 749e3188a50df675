package room

// Broadcaster is the transport the registry talks through. Sends are
// fire-and-forget; implementations must not block or call back into the
// registry.
type Broadcaster interface {
	Send(clientID, event string, data any)
	Broadcast(roomID, event string, data any)
	BroadcastAll(event string, data any)
	Join(clientID, roomID string)
	Leave(clientID, roomID string)
}
