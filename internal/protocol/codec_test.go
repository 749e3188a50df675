package protocol

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecode(t *testing.T) {
	d := NewDecoder()
	tests := []struct {
		name    string
		frame   string
		want    string
		wantErr error
	}{
		{"lobby create", `{"event":"lobby-create","data":{"roomId":"R1","name":"mine"}}`, EventLobbyCreate, nil},
		{"missing room id", `{"event":"lobby-join","data":{}}`, "", ErrInvalidPayload},
		{"no data on empty event", `{"event":"lobby-startgame"}`, EventLobbyStartGame, nil},
		{"unknown event", `{"event":"teleport","data":{}}`, "", ErrUnknownEvent},
		{"not json", `{"event":`, "", ErrInvalidPayload},
		{"turn token zero", `{"event":"battle-turn-finished","data":{"turns":0}}`, EventBattleTurnFinished, nil},
		{"turn token missing", `{"event":"battle-turn-finished","data":{}}`, "", ErrInvalidPayload},
		{"attack without type", `{"event":"battle-turn","data":{"attack":{"power":1}}}`, "", ErrInvalidPayload},
		{"bad effect string", `{"event":"battle-turn","data":{"attack":{"type":"normal","effects":{"target":["single-fly"]}}}}`, "", ErrInvalidPayload},
		{"monster without id", `{"event":"battle-initialize","data":{"monsters":[{"name":"bug"}]}}`, "", ErrInvalidPayload},
		{"duplicate monster id", `{"event":"battle-initialize","data":{"monsters":[{"id":"m1","name":"bug"},{"id":"m1","name":"bug"}]}}`, "", ErrInvalidPayload},
		{"monsters", `{"event":"battle-initialize","data":{"monsters":[{"id":"m1","name":"bug"}]}}`, EventBattleInitialize, nil},
		{"empty answer", `{"event":"quiz-update","data":{"answer":""}}`, "", ErrInvalidPayload},
		{"game update without player", `{"event":"game-update","data":{}}`, "", ErrInvalidPayload},
	}
	for _, tt := range tests {
		ev, err := d.Decode([]byte(tt.frame))
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("%s: Decode() error = %v, want %v", tt.name, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: Decode() error = %v", tt.name, err)
			continue
		}
		if ev.EventName() != tt.want {
			t.Errorf("%s: EventName() = %q, want %q", tt.name, ev.EventName(), tt.want)
		}
	}
}

func TestDecodeTypedPayload(t *testing.T) {
	d := NewDecoder()
	ev, err := d.Decode([]byte(`{"event":"battle-turn","data":{"attack":{"type":"charge","power":2,"targets":{"type":"monster"},"effects":{"target":["single-lag"],"targetAccuracy":100}},"state":{"attacker":{"id":"a"},"target":{"id":"m"}}}}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	turn, ok := ev.(*BattleTurn)
	if !ok {
		t.Fatalf("Decode() = %T, want *BattleTurn", ev)
	}
	if turn.Attack.Power != 2 || turn.State.TargetID() != "m" || len(turn.Attack.Effects.Target) != 1 {
		t.Errorf("decoded turn = %+v", turn)
	}
}

func TestLevelingUpdateKeepsRawPayload(t *testing.T) {
	ev, err := NewDecoder().Decode([]byte(`{"event":"leveling-update","data":{"id":"a","points":3}}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := string(ev.(*LevelingUpdate).Payload); got != `{"id":"a","points":3}` {
		t.Errorf("Payload = %s", got)
	}
}

func TestEncode(t *testing.T) {
	frame, err := Encode(EventLobbyJoined, LobbyJoined{RoomID: "R1", ID: 1})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if env.Event != EventLobbyJoined || string(env.Data) != `{"roomId":"R1","id":1}` {
		t.Errorf("Encode() = %s", frame)
	}
}

func TestEveryEventDecodes(t *testing.T) {
	if len(Events()) != 26 {
		t.Errorf("len(Events()) = %d, want 26", len(Events()))
	}
}
