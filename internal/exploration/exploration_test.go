package exploration

import (
	"testing"

	"digital-world/internal/shared"
)

func leveled(id string, level int) *shared.PlayerRecord {
	return &shared.PlayerRecord{ID: id, Stats: &shared.Stats{LEVEL: level, HP: 50}, BattleStats: shared.BattleStats{HP: 10}}
}

func TestInitializeDifficulty(t *testing.T) {
	tests := []struct {
		name    string
		players []*shared.PlayerRecord
		want    int
	}{
		{"no players", nil, 1},
		{"single", []*shared.PlayerRecord{leveled("a", 3)}, 3},
		{"rounds up", []*shared.PlayerRecord{leveled("a", 2), leveled("b", 3)}, 3},
		{"ignores visitors", []*shared.PlayerRecord{leveled("a", 4), {ID: "v"}}, 4},
	}
	for _, tt := range tests {
		if got := New(tt.players, nil).Difficulty; got != tt.want {
			t.Errorf("%s: Difficulty = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestNewDefaultsAreas(t *testing.T) {
	if got := string(New(nil, nil).Areas); got != "[]" {
		t.Errorf("Areas = %s, want []", got)
	}
}

func TestRestCapsAtMax(t *testing.T) {
	a, b := leveled("a", 1), leveled("b", 1)
	b.BattleStats.HP = 45
	Rest([]*shared.PlayerRecord{a, b, {ID: "v"}})

	if a.BattleStats.HP != 30 {
		t.Errorf("a HP = %d, want 30", a.BattleStats.HP)
	}
	if b.BattleStats.HP != 50 {
		t.Errorf("b HP = %d, want 50", b.BattleStats.HP)
	}
}
