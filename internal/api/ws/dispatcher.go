package ws

import (
	"context"

	"digital-world/internal/protocol"
)

// Dispatcher receives connection lifecycle and decoded events. The hub never
// holds its own lock while calling it.
type Dispatcher interface {
	Connect(clientID string)
	Disconnect(clientID string)
	Handle(ctx context.Context, clientID string, ev protocol.Event)
}
