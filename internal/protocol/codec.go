package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	ErrUnknownEvent   = errors.New("unknown event")
	ErrInvalidPayload = errors.New("invalid payload")
)

// Envelope is the frame exchanged in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

var constructors = map[string]func() Event{
	EventLobbyCreate:                func() Event { return &LobbyCreate{} },
	EventLobbyJoin:                  func() Event { return &LobbyJoin{} },
	EventLobbyUpdate:                func() Event { return &LobbyUpdate{} },
	EventLobbyStartGame:             func() Event { return &LobbyStartGame{} },
	EventMessageSend:                func() Event { return &MessageSend{} },
	EventMouseMove:                  func() Event { return &MouseMove{} },
	EventDialogue:                   func() Event { return &Dialogue{} },
	EventDialogueEnd:                func() Event { return &DialogueEnd{} },
	EventAction:                     func() Event { return &Action{} },
	EventActionReady:                func() Event { return &ActionReady{} },
	EventSelectsUpdate:              func() Event { return &SelectsUpdate{} },
	EventSelectsReset:               func() Event { return &SelectsReset{} },
	EventGameUpdate:                 func() Event { return &GameUpdate{} },
	EventExplorationInitialize:      func() Event { return &ExplorationInitialize{} },
	EventExplorationForceInitialize: func() Event { return &ExplorationForceInitialize{} },
	EventBattleInitialize:           func() Event { return &BattleInitialize{} },
	EventBattleUpdate:               func() Event { return &BattleUpdate{} },
	EventBattleTurn:                 func() Event { return &BattleTurn{} },
	EventBattleTurnFinished:         func() Event { return &BattleTurnFinished{} },
	EventLevelingReady:              func() Event { return &LevelingReady{} },
	EventLevelingUpdate:             func() Event { return &LevelingUpdate{} },
	EventTaskInitialize:             func() Event { return &TaskInitialize{} },
	EventTaskUpdate:                 func() Event { return &TaskUpdate{} },
	EventQuizInitialize:             func() Event { return &QuizInitialize{} },
	EventQuizFix:                    func() Event { return &QuizFix{} },
	EventQuizUpdate:                 func() Event { return &QuizUpdate{} },
}

// Decoder turns raw frames into typed, validated events. It is safe for
// concurrent use.
type Decoder struct {
	validate *validator.Validate
}

func NewDecoder() *Decoder {
	return &Decoder{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Decode parses one frame. The returned event is a pointer to one of the
// inbound payload types.
func (d *Decoder) Decode(frame []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	newEvent, ok := constructors[env.Event]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
	}
	ev := newEvent()
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, ev); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, env.Event, err)
		}
	}
	if err := d.validate.Struct(ev); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, env.Event, err)
	}
	return ev, nil
}

// Encode builds an outbound frame.
func Encode(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", event, err)
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}

// Events lists every inbound event name the decoder accepts.
func Events() []string {
	out := make([]string, 0, len(constructors))
	for name := range constructors {
		out = append(out, name)
	}
	return out
}
