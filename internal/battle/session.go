// Package battle holds the per-room combat state machine: the turn queue,
// the combatant rosters and the readiness barriers gating each turn.
package battle

import (
	"encoding/json"
	"math/rand"
	"sort"
	"time"

	"digital-world/internal/barrier"
	"digital-world/internal/game"
	"digital-world/internal/shared"
)

type Phase int

const (
	PhaseInit Phase = iota
	PhaseAwaitAction
	PhaseAwaitReady
	PhaseLost
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseAwaitAction:
		return "await-action"
	case PhaseAwaitReady:
		return "await-ready"
	case PhaseLost:
		return "lost"
	}
	return "unknown"
}

// Session is one combat encounter. It is not safe for concurrent use; the
// room registry serializes every call.
type Session struct {
	Players  []*shared.PlayerRecord
	Monsters []*shared.Monster
	Queue    *Queue
	Turns    int
	State    shared.BattleState
	Phase    Phase

	ready      *barrier.Barrier[struct{}]
	levelReady *barrier.Barrier[struct{}]
	engine     *game.Engine
	rng        *rand.Rand
}

// New builds a session and its initial turn queue. participants reports the
// ids of the stats-bearing players the readiness barriers wait for.
func New(players []*shared.PlayerRecord, monsters []*shared.Monster, engine *game.Engine, rng *rand.Rand, participants barrier.Participants) *Session {
	s := &Session{
		Players:    players,
		Monsters:   monsters,
		ready:      barrier.New[struct{}](participants),
		levelReady: barrier.New[struct{}](participants),
		engine:     engine,
		rng:        rng,
	}
	s.InitializeQueue()
	return s
}

// InitializeQueue orders players then monsters by initiative, keeping the
// original order on ties, and resets turn bookkeeping.
func (s *Session) InitializeQueue() {
	combatants := make([]shared.Combatant, 0, len(s.Players)+len(s.Monsters))
	for _, p := range s.Players {
		combatants = append(combatants, p)
	}
	for _, m := range s.Monsters {
		combatants = append(combatants, m)
	}
	sort.SliceStable(combatants, func(i, j int) bool {
		return combatants[i].Initiative() > combatants[j].Initiative()
	})

	refs := make([]Ref, len(combatants))
	for i, c := range combatants {
		refs[i] = Ref{ID: c.CombatantID(), Type: c.CombatantType()}
	}
	s.Queue = NewQueue(refs)
	s.Turns = 0
	s.State = shared.BattleState{}
	s.ready.Reset()
	s.levelReady.Reset()
	s.Phase = PhaseAwaitAction
}

// Resync replaces the participating roster and rebuilds the queue, used when
// battle-initialize arrives while a battle is already running.
func (s *Session) Resync(players []*shared.PlayerRecord, monsters []*shared.Monster) {
	s.Players = players
	s.Monsters = monsters
	s.InitializeQueue()
}

// ReplacePlayer swaps in a new record for an existing participant.
func (s *Session) ReplacePlayer(p *shared.PlayerRecord) bool {
	for i, old := range s.Players {
		if old.ID == p.ID {
			s.Players[i] = p
			return true
		}
	}
	return false
}

// RemovePlayer drops a departed participant from the roster and the queue
// and reports whether it was the one holding the turn.
func (s *Session) RemovePlayer(id string) bool {
	head, _ := s.Queue.Current()
	acting := s.Phase == PhaseAwaitAction && head.ID == id
	for i, p := range s.Players {
		if p.ID == id {
			s.Players = append(s.Players[:i], s.Players[i+1:]...)
			break
		}
	}
	s.Queue.Remove(id)
	s.ready.Withdraw(id)
	s.levelReady.Withdraw(id)
	return acting
}

func (s *Session) player(id string) *shared.PlayerRecord {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Session) monster(id string) *shared.Monster {
	for _, m := range s.Monsters {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (s *Session) combatant(r Ref) shared.Combatant {
	if r.Type == shared.TypeMonster {
		if m := s.monster(r.ID); m != nil {
			return m
		}
		return nil
	}
	if p := s.player(r.ID); p != nil {
		return p
	}
	return nil
}

func (s *Session) dead(r Ref) bool {
	c := s.combatant(r)
	return c == nil || c.CurrentHP() <= 0
}

// advance rotates the queue and opens a fresh turn for acknowledgements.
func (s *Session) advance() {
	s.Queue.Advance(s.dead)
	s.Turns++
	s.ready.Reset()
	s.Phase = PhaseAwaitReady
}

// ReadyCount is the number of battle-turn-finished acknowledgements held.
func (s *Session) ReadyCount() int { return s.ready.Count() }

// LevelReadyCount is the number of leveling-ready acknowledgements held.
func (s *Session) LevelReadyCount() int { return s.levelReady.Count() }

// LevelReady records a leveling-ready acknowledgement and reports whether
// every participant has now acknowledged.
func (s *Session) LevelReady(clientID string, now time.Time) bool {
	_, released := s.levelReady.Ack(clientID, struct{}{}, now)
	return released
}

// LevelingStalled reports whether the leveling barrier has waited too long.
// A stalled barrier is reset so the caller can emit leveling-end.
func (s *Session) LevelingStalled(now time.Time, timeout time.Duration) bool {
	if !s.levelReady.Stalled(now, timeout) {
		return false
	}
	s.levelReady.Reset()
	return true
}

func (s *Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Players    []*shared.PlayerRecord `json:"players"`
		Monsters   []*shared.Monster      `json:"monsters"`
		TurnQueue  *Queue                 `json:"turnQueue"`
		Turns      int                    `json:"turns"`
		State      shared.BattleState     `json:"state"`
		Phase      string                 `json:"phase"`
		Ready      int                    `json:"ready"`
		LevelReady int                    `json:"levelReady"`
	}{
		Players:    s.Players,
		Monsters:   s.Monsters,
		TurnQueue:  s.Queue,
		Turns:      s.Turns,
		State:      s.State,
		Phase:      s.Phase.String(),
		Ready:      s.ready.Count(),
		LevelReady: s.levelReady.Count(),
	})
}

// Over reports whether the encounter ended. Turns and acknowledgements are
// refused until the next battle-initialize.
func (s *Session) Over() bool {
	return s.Phase == PhaseInit || s.Phase == PhaseLost
}

// SettleLeveling releases the leveling barrier when the participants still
// present have all acknowledged.
func (s *Session) SettleLeveling() bool {
	if s.levelReady.Count() == 0 || !s.levelReady.Ready() {
		return false
	}
	s.levelReady.Reset()
	return true
}
