package shared

import (
	"encoding/json"
	"strings"
)

// Combatant type tags as they appear in turn queues and payloads.
const (
	TypePlayer  = "player"
	TypeMonster = "monster"
)

type Stats struct {
	LEVEL int `json:"LEVEL"`
	HP    int `json:"HP"`
	MP    int `json:"MP"`
	AP    int `json:"AP"`
	SPD   int `json:"SPD"`
	EXP   int `json:"EXP"`
}

type BattleStats struct {
	HP        int `json:"HP"`
	MP        int `json:"MP"`
	AP        int `json:"AP"`
	CHARGE    int `json:"CHARGE"`
	MAXCHARGE int `json:"MAXCHARGE"`
}

type MonsterBattleStats struct {
	HP int `json:"HP"`
}

type Effect struct {
	Type     EffectKind `json:"type"`
	Duration int        `json:"duration"`
}

// PlayerRecord is the authoritative per-client record. Records without Stats
// have not entered the game yet and never count towards readiness barriers.
type PlayerRecord struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Customization map[string]any    `json:"customization"`
	Ready         bool              `json:"ready"`
	Stats         *Stats            `json:"stats,omitempty"`
	BattleStats   BattleStats       `json:"battleStats"`
	Effects       []Effect          `json:"effects"`
	Skills        []json.RawMessage `json:"skills,omitempty"`
	BattleClass   string            `json:"battleClass,omitempty"`
	Element       string            `json:"element,omitempty"`
}

func NewPlayerRecord(id string) *PlayerRecord {
	return &PlayerRecord{
		ID:            id,
		Name:          "Player",
		Customization: map[string]any{},
	}
}

func (p *PlayerRecord) HasStats() bool { return p != nil && p.Stats != nil }

type Monster struct {
	ID          string             `json:"id" validate:"required"`
	Name        string             `json:"name"`
	Stats       Stats              `json:"stats"`
	BattleStats MonsterBattleStats `json:"battleStats"`
	Effects     []Effect           `json:"effects"`
	Element     string             `json:"element,omitempty"`
	Attacks     []string           `json:"attacks,omitempty"`
	Type        string             `json:"type"`
}

// Attack is what a player submits with battle-turn.
type Attack struct {
	Type    string        `json:"type" validate:"required"`
	Name    string        `json:"name,omitempty"`
	Power   int           `json:"power"`
	Element string        `json:"element,omitempty"`
	Targets AttackTargets `json:"targets"`
	Effects AttackEffects `json:"effects"`
}

// AttackTargets.Type is "single" or "all". The legacy client values
// "monster" (single) and "player" (every monster) are accepted too.
type AttackTargets struct {
	Type string `json:"type"`
}

func (t AttackTargets) All() bool {
	switch strings.ToLower(t.Type) {
	case "all", "player":
		return true
	}
	return false
}

type AttackEffects struct {
	Attacker         []EffectSpec `json:"attacker"`
	AttackerAccuracy float64      `json:"attackerAccuracy"`
	Target           []EffectSpec `json:"target"`
	TargetAccuracy   float64      `json:"targetAccuracy"`
}

type Damage struct {
	Damage               int     `json:"damage"`
	ElementEffectiveness float64 `json:"elementEffectiveness"`
}

// NoDamage is the zero-filled entry used to keep damage arrays aligned.
var NoDamage = Damage{Damage: 0, ElementEffectiveness: 1}

type ActorRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// BattleState is the client-facing description of the current action.
type BattleState struct {
	Type     string    `json:"type,omitempty"`
	Attacker *ActorRef `json:"attacker"`
	Target   *ActorRef `json:"target"`
	Turn     string    `json:"turn,omitempty"`
	Text     string    `json:"text,omitempty"`
	Running  bool      `json:"running,omitempty"`
	Finished bool      `json:"finished,omitempty"`
}

func (s BattleState) AttackerID() string {
	if s.Attacker == nil {
		return ""
	}
	return s.Attacker.ID
}

func (s BattleState) TargetID() string {
	if s.Target == nil {
		return ""
	}
	return s.Target.ID
}

// ReducedState is BattleState with the actors collapsed to their ids.
type ReducedState struct {
	Type     string `json:"type,omitempty"`
	Attacker string `json:"attacker"`
	Target   string `json:"target"`
	Turn     string `json:"turn,omitempty"`
	Text     string `json:"text,omitempty"`
	Running  bool   `json:"running"`
	Finished bool   `json:"finished"`
}

func (s BattleState) Reduce() ReducedState {
	return ReducedState{
		Type:     s.Type,
		Attacker: s.AttackerID(),
		Target:   s.TargetID(),
		Turn:     s.Turn,
		Text:     s.Text,
		Running:  s.Running,
		Finished: s.Finished,
	}
}
