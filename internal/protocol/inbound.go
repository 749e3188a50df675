package protocol

import (
	"encoding/json"

	"digital-world/internal/shared"
)

// Event is a decoded inbound payload.
type Event interface {
	EventName() string
}

type LobbyCreate struct {
	RoomID string `json:"roomId" validate:"required"`
	Name   string `json:"name"`
}

type LobbyJoin struct {
	RoomID string `json:"roomId" validate:"required"`
}

type LobbyUpdate struct {
	Player *shared.PlayerRecord `json:"player"`
}

type LobbyStartGame struct{}

type MessageSend struct {
	Message string `json:"message" validate:"required"`
	Private bool   `json:"private"`
	Sender  string `json:"sender"`
}

type MouseMove struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Scaling float64 `json:"scaling"`
}

type Dialogue struct {
	Scenario string `json:"scenario" validate:"required"`
	ForceAll bool   `json:"forceall"`
}

type DialogueEnd struct {
	Scenario string `json:"scenario" validate:"required"`
}

type Action struct {
	Scenario string `json:"scenario" validate:"required"`
	ForceAll bool   `json:"forceall"`
}

type ActionReady struct {
	Scenario string `json:"scenario" validate:"required"`
	Ready    bool   `json:"ready"`
}

type SelectsUpdate struct {
	Select json.RawMessage `json:"select"`
}

type SelectsReset struct{}

type GameUpdate struct {
	Player *shared.PlayerRecord `json:"player" validate:"required"`
}

type ExplorationData struct {
	Areas json.RawMessage `json:"areas"`
}

type ExplorationInitialize struct {
	Exploration *ExplorationData `json:"exploration" validate:"required"`
}

type ExplorationForceInitialize struct {
	Type        string           `json:"type"`
	Exploration *ExplorationData `json:"exploration" validate:"required"`
}

type BattleInitialize struct {
	Monsters []*shared.Monster `json:"monsters" validate:"required,unique=ID,dive,required"`
}

type BattleUpdate struct {
	Player *shared.PlayerRecord `json:"player" validate:"required"`
}

type BattleTurn struct {
	Attack shared.Attack      `json:"attack"`
	State  shared.BattleState `json:"state"`
}

type BattleTurnFinished struct {
	Turns *int               `json:"turns" validate:"required"`
	State shared.BattleState `json:"state"`
}

type LevelingReady struct{}

// LevelingUpdate is relayed untouched.
type LevelingUpdate struct {
	Payload json.RawMessage
}

func (l *LevelingUpdate) UnmarshalJSON(b []byte) error {
	l.Payload = append(json.RawMessage(nil), b...)
	return nil
}

type TaskInitialize struct {
	Tasks json.RawMessage `json:"tasks" validate:"required"`
}

type TaskUpdate struct {
	OpenTasks    json.RawMessage `json:"openTasks"`
	CurrentTasks json.RawMessage `json:"currentTasks"`
}

type QuizInitialize struct{}

type QuizFix struct{}

type QuizUpdate struct {
	Answer string `json:"answer" validate:"required"`
}

func (LobbyCreate) EventName() string                { return EventLobbyCreate }
func (LobbyJoin) EventName() string                  { return EventLobbyJoin }
func (LobbyUpdate) EventName() string                { return EventLobbyUpdate }
func (LobbyStartGame) EventName() string             { return EventLobbyStartGame }
func (MessageSend) EventName() string                { return EventMessageSend }
func (MouseMove) EventName() string                  { return EventMouseMove }
func (Dialogue) EventName() string                   { return EventDialogue }
func (DialogueEnd) EventName() string                { return EventDialogueEnd }
func (Action) EventName() string                     { return EventAction }
func (ActionReady) EventName() string                { return EventActionReady }
func (SelectsUpdate) EventName() string              { return EventSelectsUpdate }
func (SelectsReset) EventName() string               { return EventSelectsReset }
func (GameUpdate) EventName() string                 { return EventGameUpdate }
func (ExplorationInitialize) EventName() string      { return EventExplorationInitialize }
func (ExplorationForceInitialize) EventName() string { return EventExplorationForceInitialize }
func (BattleInitialize) EventName() string           { return EventBattleInitialize }
func (BattleUpdate) EventName() string               { return EventBattleUpdate }
func (BattleTurn) EventName() string                 { return EventBattleTurn }
func (BattleTurnFinished) EventName() string         { return EventBattleTurnFinished }
func (LevelingReady) EventName() string              { return EventLevelingReady }
func (LevelingUpdate) EventName() string             { return EventLevelingUpdate }
func (TaskInitialize) EventName() string             { return EventTaskInitialize }
func (TaskUpdate) EventName() string                 { return EventTaskUpdate }
func (QuizInitialize) EventName() string             { return EventQuizInitialize }
func (QuizFix) EventName() string                    { return EventQuizFix }
func (QuizUpdate) EventName() string                 { return EventQuizUpdate }
