package game

import (
	"math/rand"

	"digital-world/internal/shared"
)

const baseAggro = 10

// Aggro is how attractive a player is as a monster target: wounded players
// draw more attention, nervous ones twice as much.
func Aggro(p *shared.PlayerRecord) int {
	w := baseAggro + p.MaxHP() - p.BattleStats.HP
	if w < 1 {
		w = 1
	}
	if shared.HasEffect(p, shared.EffectNervous) {
		w *= 2
	}
	return w
}

// PickTarget selects a living player by aggro-weighted random choice.
func PickTarget(rng *rand.Rand, players []*shared.PlayerRecord) *shared.PlayerRecord {
	var (
		alive   []*shared.PlayerRecord
		weights []int
	)
	for _, p := range players {
		if p.BattleStats.HP > 0 {
			alive = append(alive, p)
			weights = append(weights, Aggro(p))
		}
	}
	if len(alive) == 0 {
		return nil
	}
	return alive[WeightedIndex(rng, weights)]
}

// WeightedIndex returns an index with probability proportional to its
// weight. Non-positive weights are never picked unless all are.
func WeightedIndex(rng *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return 0
	}
	roll := rng.Intn(total)
	cumulative := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}
