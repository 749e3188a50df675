package game

import "digital-world/internal/shared"

// Attack type multipliers applied on top of element effectiveness.
const (
	AttackNormal  = "normal"
	AttackCharge  = "charge"
	AttackSpecial = "special"
)

var attackMultipliers = map[string]float64{
	AttackNormal:  1.0,
	AttackCharge:  1.5,
	AttackSpecial: 2.0,
}

// Element effectiveness tiers.
const (
	EffectivenessResisted = 0.5
	EffectivenessNeutral  = 1.0
	EffectivenessStrong   = 2.0
)

const (
	nervousModifier      = 0.75
	defenceBoostModifier = 0.5
)

var effectDurations = map[shared.EffectKind]int{
	shared.EffectLag:          1,
	shared.EffectMemoryLeak:   3,
	shared.EffectNervous:      2,
	shared.EffectDefenceBoost: 3,
}

// EffectDuration is the number of actor turns a freshly applied effect lasts.
func EffectDuration(kind shared.EffectKind) int {
	if d, ok := effectDurations[kind]; ok {
		return d
	}
	return 1
}

// EffectDurations returns a copy of the duration table.
func EffectDurations() map[shared.EffectKind]int {
	out := make(map[shared.EffectKind]int, len(effectDurations))
	for k, v := range effectDurations {
		out[k] = v
	}
	return out
}

func AttackMultipliers() map[string]float64 {
	out := make(map[string]float64, len(attackMultipliers))
	for k, v := range attackMultipliers {
		out[k] = v
	}
	return out
}

// Tick is what happened to one effect at the start of its owner's turn.
type Tick struct {
	Type   shared.EffectKind `json:"type"`
	Amount int               `json:"amount,omitempty"`
	Ended  bool              `json:"ended"`
}
