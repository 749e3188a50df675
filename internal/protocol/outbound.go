package protocol

import (
	"encoding/json"

	"digital-world/internal/battle"
	"digital-world/internal/gamedata"
	"digital-world/internal/shared"
)

// LobbySummary is one entry of lobby-listing.
type LobbySummary struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Joined []string `json:"joined"`
	Status string   `json:"status"`
}

type LobbyJoined struct {
	RoomID string `json:"roomId"`
	// ID is the 0-based join index of the newcomer.
	ID int `json:"id"`
}

type MessageUpdate struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

type DialogueTexts struct {
	Texts    []string `json:"texts"`
	Scenario string   `json:"scenario"`
}

type ScenarioNotice struct {
	Scenario string `json:"scenario"`
}

type Selects struct {
	Selects map[string]json.RawMessage `json:"selects"`
	Type    string                     `json:"type"`
}

type Cursor struct {
	ID      string  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Scaling float64 `json:"scaling"`
}

type Cursors struct {
	Cursors map[string]Cursor `json:"cursors"`
	Type    string            `json:"type"`
}

type Players struct {
	Players map[string]*shared.PlayerRecord `json:"players"`
	Type    string                          `json:"type"`
}

type ExplorationMessage struct {
	Exploration any    `json:"exploration"`
	Type        string `json:"type"`
}

// BattleMessage covers every "battle" frame; which fields are set depends on
// Type. A battle-turn frame inlines the resolved turn.
type BattleMessage struct {
	Type    string          `json:"type"`
	Players any             `json:"players,omitempty"`
	Battle  *battle.Session `json:"battle,omitempty"`
	*battle.TurnResult
	Leveling *battle.LevelingFlag `json:"leveling,omitempty"`
	Exp      int                  `json:"exp,omitempty"`
	Next     *battle.Ref          `json:"next,omitempty"`
}

type LevelingMessage struct {
	Type    string            `json:"type"`
	Players []json.RawMessage `json:"players,omitempty"`
}

type TaskMessage struct {
	Type         string          `json:"type"`
	Tasks        json.RawMessage `json:"tasks,omitempty"`
	OpenTasks    json.RawMessage `json:"openTasks,omitempty"`
	CurrentTasks json.RawMessage `json:"currentTasks,omitempty"`
}

type QuizMessage struct {
	Quiz *gamedata.Question `json:"quiz,omitempty"`
	Type string             `json:"type"`
}
