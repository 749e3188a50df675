package game

import (
	"math"
	"math/rand"

	"digital-world/internal/gamedata"
	"digital-world/internal/shared"
)

// Engine holds the data tables the turn resolution math depends on.
type Engine struct {
	elements gamedata.ElementTable
	classes  gamedata.ClassTable
	attacks  map[string]gamedata.AttackBundle
}

func NewEngine(d *gamedata.Data) *Engine {
	return &Engine{
		elements: d.Elements,
		classes:  d.Classes,
		attacks:  d.Attacks,
	}
}

func (e *Engine) Elements() gamedata.ElementTable { return e.elements }

// ElementOf resolves a combatant's element, falling back to the player's
// battle class.
func (e *Engine) ElementOf(c shared.Combatant) string {
	if el := c.ElementName(); el != "" {
		return el
	}
	if p, ok := c.(*shared.PlayerRecord); ok {
		return e.classes.Get(p.BattleClass).Element
	}
	return ""
}

// Effectiveness: same element 0.5, opposing element 2.0, anything else 1.0.
func (e *Engine) Effectiveness(attack, defence string) float64 {
	switch {
	case attack == "" || defence == "":
		return EffectivenessNeutral
	case attack == defence:
		return EffectivenessResisted
	case e.elements.Opposes(attack, defence):
		return EffectivenessStrong
	}
	return EffectivenessNeutral
}

// Damage computes, without applying, the damage attacker deals to defender.
// attack is nil for monster actions.
func (e *Engine) Damage(attacker, defender shared.Combatant, attack *shared.Attack) shared.Damage {
	base := attacker.AttackPower()
	mult := 1.0
	element := e.ElementOf(attacker)
	if attack != nil {
		base += attack.Power
		if m, ok := attackMultipliers[attack.Type]; ok {
			mult = m
		}
		if attack.Element != "" {
			element = attack.Element
		}
	}

	eff := e.Effectiveness(element, e.ElementOf(defender))
	if base <= 0 {
		return shared.Damage{Damage: 0, ElementEffectiveness: eff}
	}

	v := float64(base) * mult * eff
	if shared.HasEffect(attacker, shared.EffectNervous) {
		v *= nervousModifier
	}
	if shared.HasEffect(defender, shared.EffectDefenceBoost) {
		v *= defenceBoostModifier
	}
	dmg := int(math.Round(v))
	if dmg < 1 {
		dmg = 1
	}
	return shared.Damage{Damage: dmg, ElementEffectiveness: eff}
}

// RollEffects gates a whole effect list on one accuracy draw in [0,100).
// A failed draw clears the list; there is no partial application.
func RollEffects(rng *rand.Rand, specs []shared.EffectSpec, accuracy float64) []shared.EffectSpec {
	if len(specs) == 0 {
		return []shared.EffectSpec{}
	}
	if rng.Float64()*100 >= accuracy {
		return []shared.EffectSpec{}
	}
	return specs
}

// ApplyEffect inserts a timed effect or refreshes its duration.
func ApplyEffect(c shared.Combatant, kind shared.EffectKind) {
	effects := c.EffectList()
	d := EffectDuration(kind)
	for i := range *effects {
		if (*effects)[i].Type == kind {
			(*effects)[i].Duration = d
			return
		}
	}
	*effects = append(*effects, shared.Effect{Type: kind, Duration: d})
}

// TickEffects runs at the start of c's turn: memoryLeak drains HP, every
// effect loses one turn, expired effects are removed.
func TickEffects(c shared.Combatant) []Tick {
	effects := c.EffectList()
	ticks := make([]Tick, 0, len(*effects))
	remaining := (*effects)[:0]
	for _, eff := range *effects {
		tick := Tick{Type: eff.Type}
		if eff.Type == shared.EffectMemoryLeak {
			tick.Amount = leakAmount(c)
			c.TakeDamage(tick.Amount)
		}
		eff.Duration--
		if eff.Duration <= 0 {
			tick.Ended = true
		} else {
			remaining = append(remaining, eff)
		}
		ticks = append(ticks, tick)
	}
	*effects = remaining
	return ticks
}

func leakAmount(c shared.Combatant) int {
	n := c.MaxHP() / 10
	if n < 1 {
		n = 1
	}
	return n
}

// MonsterAttack picks one of the monster's attack labels and the effect
// bundle bound to it.
func (e *Engine) MonsterAttack(rng *rand.Rand, m *shared.Monster) (string, gamedata.AttackBundle) {
	label := "Attack"
	if len(m.Attacks) > 0 {
		label = m.Attacks[rng.Intn(len(m.Attacks))]
	}
	return label, e.attacks[label]
}
