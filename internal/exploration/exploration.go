// Package exploration tracks the map phase between battles.
package exploration

import (
	"encoding/json"

	"digital-world/internal/shared"
)

// RestHeal is the HP a RESTING force-initialize restores.
const RestHeal = 20

// Force-initialize kinds sent by clients.
const (
	KindResting   = "RESTING"
	KindTreasure  = "TREASURE"
	KindChallenge = "CHALLENGE"
)

type Exploration struct {
	Players    []*shared.PlayerRecord `json:"players"`
	Areas      json.RawMessage        `json:"areas"`
	Difficulty int                    `json:"difficulty"`
}

func New(players []*shared.PlayerRecord, areas json.RawMessage) *Exploration {
	if len(areas) == 0 {
		areas = json.RawMessage("[]")
	}
	e := &Exploration{Players: players, Areas: areas}
	e.InitializeDifficulty()
	return e
}

// Resync replaces the roster and recomputes difficulty; areas are kept.
func (e *Exploration) Resync(players []*shared.PlayerRecord) {
	e.Players = players
	e.InitializeDifficulty()
}

// InitializeDifficulty sets difficulty to the mean player level, rounded up,
// never below one.
func (e *Exploration) InitializeDifficulty() {
	total, n := 0, 0
	for _, p := range e.Players {
		if p.Stats == nil {
			continue
		}
		total += p.Stats.LEVEL
		n++
	}
	e.Difficulty = 1
	if n == 0 {
		return
	}
	if d := (total + n - 1) / n; d > 1 {
		e.Difficulty = d
	}
}

// Rest heals every stats-bearing player, capped at their maximum HP.
func Rest(players []*shared.PlayerRecord) {
	for _, p := range players {
		if p.Stats == nil {
			continue
		}
		p.BattleStats.HP += RestHeal
		if p.BattleStats.HP > p.Stats.HP {
			p.BattleStats.HP = p.Stats.HP
		}
	}
}
