package game

import "digital-world/internal/shared"

// AllMonstersDown is true when no monster has HP left.
func AllMonstersDown(monsters []*shared.Monster) bool {
	for _, m := range monsters {
		if m.BattleStats.HP > 0 {
			return false
		}
	}
	return true
}

// AllPlayersDown is true when no participating player has HP left.
func AllPlayersDown(players []*shared.PlayerRecord) bool {
	for _, p := range players {
		if p.BattleStats.HP > 0 {
			return false
		}
	}
	return true
}
