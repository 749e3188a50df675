package room

import (
	"fmt"

	"digital-world/internal/protocol"
	"digital-world/internal/shared"
)

func (g *Registry) handleLobbyCreate(clientID string, e *protocol.LobbyCreate) error {
	if _, ok := g.store.Get(e.RoomID); ok {
		return fmt.Errorf("create %s: %w", e.RoomID, ErrRoomExists)
	}
	g.createOrJoin(e.RoomID, clientID, e.Name)
	return nil
}

func (g *Registry) createOrJoin(roomID, clientID, name string) int {
	if prev, ok := g.members[clientID]; ok && prev != roomID {
		g.leave(clientID)
	}

	r, exists := g.store.Get(roomID)
	if !exists {
		r = New(roomID, name, clientID, g.newDeck(), g.now())
		g.store.Save(r)
		g.log.Info().Str("room_id", roomID).Str("client_id", clientID).Msg("room created")
	}
	idx := r.join(clientID)
	g.members[clientID] = roomID
	g.out.Join(clientID, roomID)

	g.out.Broadcast(roomID, protocol.EventLobbyJoined, protocol.LobbyJoined{RoomID: roomID, ID: idx})
	if exists {
		g.out.Broadcast(roomID, protocol.EventMessageUpdate, protocol.MessageUpdate{
			Sender:  protocol.SystemSender,
			Message: "A player joined the lobby.",
		})
	}
	g.out.BroadcastAll(protocol.EventLobbyListing, g.listLobbies())
	return idx
}

func (g *Registry) leave(clientID string) {
	roomID, ok := g.members[clientID]
	if !ok {
		return
	}
	delete(g.members, clientID)
	g.out.Leave(clientID, roomID)

	r, ok := g.store.Get(roomID)
	if !ok {
		return
	}
	empty := r.remove(clientID)
	if empty {
		g.store.Delete(roomID)
		g.log.Info().Str("room_id", roomID).Msg("room reclaimed")
		g.out.BroadcastAll(protocol.EventLobbyListing, g.listLobbies())
		return
	}

	if r.Host == clientID {
		r.Host = r.Joined[0]
	}
	g.out.Broadcast(roomID, protocol.EventLobbyUpdate, r.Roster())
	g.out.Broadcast(roomID, protocol.EventMessageUpdate, protocol.MessageUpdate{
		Sender:  protocol.SystemSender,
		Message: "A player left the lobby.",
	})
	if r.Status == StatusLobby {
		g.out.BroadcastAll(protocol.EventLobbyListing, g.listLobbies())
	}
	g.settleBattle(r, clientID)
}

func (g *Registry) handleLobbyUpdate(r *Room, clientID string, e *protocol.LobbyUpdate) error {
	if e.Player != nil {
		e.Player.ID = clientID
		r.Players[clientID] = e.Player
	}
	g.out.Broadcast(r.ID, protocol.EventLobbyUpdate, r.Roster())
	return nil
}

func (g *Registry) handleStartGame(r *Room, clientID string) error {
	if r.Host != clientID {
		return ErrNotHost
	}
	for _, p := range r.Players {
		if !p.Ready {
			return ErrNotReady
		}
	}
	r.LobbyPlayers = r.Players
	r.Players = map[string]*shared.PlayerRecord{}
	r.Status = StatusGame
	g.log.Info().Str("room_id", r.ID).Msg("game started")
	g.out.Broadcast(r.ID, protocol.EventLobbyStartGame, struct{}{})
	g.out.BroadcastAll(protocol.EventLobbyListing, g.listLobbies())
	return nil
}

func messageFrom(clientID string, e *protocol.MessageSend) protocol.MessageUpdate {
	sender := e.Sender
	if sender == "" {
		sender = clientID
	}
	return protocol.MessageUpdate{Sender: sender, Message: e.Message}
}
