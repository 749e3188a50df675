package room

import (
	"encoding/json"
	"time"

	"digital-world/internal/barrier"
	"digital-world/internal/battle"
	"digital-world/internal/exploration"
	"digital-world/internal/protocol"
	"digital-world/internal/quiz"
	"digital-world/internal/shared"
)

type Status string

const (
	StatusLobby     Status = "lobby"
	StatusGame      Status = "game"
	StatusExploring Status = "exploring"
	StatusBattling  Status = "battling"
)

// DefaultName is used when a room is created without one.
const DefaultName = "An open room"

// Room is the per-room mutable state. It is only touched while the registry
// lock is held.
type Room struct {
	ID     string
	Name   string
	Status Status
	Host   string

	Players      map[string]*shared.PlayerRecord
	LobbyPlayers map[string]*shared.PlayerRecord
	// Joined keeps join order; the room is reclaimed when it empties.
	Joined  []string
	Cursors map[string]protocol.Cursor

	// Dialogues is a multiset of scenario ids completed per player.
	Dialogues []string
	Actions   map[string]*barrier.Barrier[struct{}]
	Selects   map[string]json.RawMessage

	Quiz      *quiz.Deck
	ReadyQuiz *barrier.Barrier[json.RawMessage]

	Battle      *battle.Session
	Exploration *exploration.Exploration

	CreatedAt time.Time
}

func New(id, name, host string, deck *quiz.Deck, now time.Time) *Room {
	if name == "" {
		name = DefaultName
	}
	r := &Room{
		ID:        id,
		Name:      name,
		Status:    StatusLobby,
		Host:      host,
		Players:   map[string]*shared.PlayerRecord{},
		Joined:    []string{},
		Cursors:   map[string]protocol.Cursor{},
		Dialogues: []string{},
		Actions:   map[string]*barrier.Barrier[struct{}]{},
		Selects:   map[string]json.RawMessage{},
		Quiz:      deck,
		CreatedAt: now,
	}
	r.ReadyQuiz = barrier.New[json.RawMessage](r.StatsIDs)
	return r
}

// join adds clientID to the roster and returns its 0-based join index.
func (r *Room) join(clientID string) int {
	r.Players[clientID] = shared.NewPlayerRecord(clientID)
	for i, id := range r.Joined {
		if id == clientID {
			return i
		}
	}
	r.Joined = append(r.Joined, clientID)
	return len(r.Joined) - 1
}

// remove drops every trace of clientID and reports whether the room is now
// empty.
func (r *Room) remove(clientID string) bool {
	delete(r.Players, clientID)
	delete(r.LobbyPlayers, clientID)
	delete(r.Cursors, clientID)
	delete(r.Selects, clientID)
	for i, id := range r.Joined {
		if id == clientID {
			r.Joined = append(r.Joined[:i], r.Joined[i+1:]...)
			break
		}
	}
	r.ReadyQuiz.Withdraw(clientID)
	for _, b := range r.Actions {
		b.Withdraw(clientID)
	}
	return len(r.Joined) == 0
}

func (r *Room) isMember(clientID string) bool {
	for _, id := range r.Joined {
		if id == clientID {
			return true
		}
	}
	return false
}

// RosterIDs lists players with a record, in join order.
func (r *Room) RosterIDs() []string {
	ids := make([]string, 0, len(r.Players))
	for _, id := range r.Joined {
		if p, ok := r.Players[id]; ok && p != nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// StatsIDs lists players that entered the game; only they count towards
// battle, leveling and quiz barriers.
func (r *Room) StatsIDs() []string {
	ids := make([]string, 0, len(r.Players))
	for _, id := range r.Joined {
		if p, ok := r.Players[id]; ok && p.HasStats() {
			ids = append(ids, id)
		}
	}
	return ids
}

// StatsPlayers returns the records behind StatsIDs.
func (r *Room) StatsPlayers() []*shared.PlayerRecord {
	ids := r.StatsIDs()
	out := make([]*shared.PlayerRecord, len(ids))
	for i, id := range ids {
		out[i] = r.Players[id]
	}
	return out
}

// Roster returns player records in join order.
func (r *Room) Roster() []*shared.PlayerRecord {
	ids := r.RosterIDs()
	out := make([]*shared.PlayerRecord, len(ids))
	for i, id := range ids {
		out[i] = r.Players[id]
	}
	return out
}

func (r *Room) action(scenario string) *barrier.Barrier[struct{}] {
	b, ok := r.Actions[scenario]
	if !ok {
		b = barrier.New[struct{}](r.RosterIDs)
		r.Actions[scenario] = b
	}
	return b
}

func (r *Room) dialogueCount(scenario string) int {
	n := 0
	for _, d := range r.Dialogues {
		if d == scenario {
			n++
		}
	}
	return n
}

func (r *Room) clearDialogue(scenario string) {
	kept := r.Dialogues[:0]
	for _, d := range r.Dialogues {
		if d != scenario {
			kept = append(kept, d)
		}
	}
	r.Dialogues = kept
}

func (r *Room) Summary() protocol.LobbySummary {
	return protocol.LobbySummary{
		ID:     r.ID,
		Name:   r.Name,
		Joined: append([]string{}, r.Joined...),
		Status: string(r.Status),
	}
}

func (r *Room) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID          string                          `json:"id"`
		Name        string                          `json:"name"`
		Status      Status                          `json:"status"`
		Host        string                          `json:"host"`
		Players     map[string]*shared.PlayerRecord `json:"players"`
		Joined      []string                        `json:"joined"`
		Cursors     map[string]protocol.Cursor      `json:"cursors"`
		Dialogues   []string                        `json:"dialogues"`
		Selects     map[string]json.RawMessage      `json:"selects"`
		Battle      *battle.Session                 `json:"battle,omitempty"`
		Exploration *exploration.Exploration        `json:"exploration,omitempty"`
		CreatedAt   time.Time                       `json:"createdAt"`
	}{
		ID:          r.ID,
		Name:        r.Name,
		Status:      r.Status,
		Host:        r.Host,
		Players:     r.Players,
		Joined:      r.Joined,
		Cursors:     r.Cursors,
		Dialogues:   r.Dialogues,
		Selects:     r.Selects,
		Battle:      r.Battle,
		Exploration: r.Exploration,
		CreatedAt:   r.CreatedAt,
	})
}
