package battle

import (
	"fmt"

	"digital-world/internal/game"
	"digital-world/internal/shared"
)

// TurnResult is the resolved action broadcast to the room.
type TurnResult struct {
	Attack AttackOutcome       `json:"attack"`
	State  shared.ReducedState `json:"state"`
	Ticks  []game.Tick         `json:"ticks"`
	Extra  string              `json:"extra,omitempty"`
	// Turns is the token clients echo back in battle-turn-finished.
	Turns int `json:"turns"`
}

// AttackOutcome carries the effects that actually landed and one damage
// entry per defender, zero-filled for defenders that were not hit.
type AttackOutcome struct {
	Type    string               `json:"type,omitempty"`
	Label   string               `json:"label,omitempty"`
	Effects shared.AttackEffects `json:"effects"`
	Damage  []shared.Damage      `json:"damage"`
}

// resolved re-normalizes rolled effect lists so clients see them as certain.
func resolved(attacker, target []shared.EffectSpec) shared.AttackEffects {
	return shared.AttackEffects{
		Attacker:         attacker,
		AttackerAccuracy: 100,
		Target:           target,
		TargetAccuracy:   100,
	}
}

func lagNotice(c shared.Combatant) string {
	return fmt.Sprintf("%s is lagging and skips the turn", c.CombatantName())
}

// SubmitTurn resolves a player's battle-turn. Only the combatant at the head
// of the queue may act; anything else returns ErrOutOfTurn without touching
// the session.
func (s *Session) SubmitTurn(clientID string, attack shared.Attack, state shared.BattleState) (*TurnResult, error) {
	if s.Over() {
		return nil, ErrBattleOver
	}
	head, ok := s.Queue.Current()
	if !ok || head.ID != clientID || head.Type != shared.TypePlayer {
		return nil, ErrOutOfTurn
	}
	attacker := s.player(clientID)
	if attacker == nil {
		return nil, fmt.Errorf("player %s: %w", clientID, ErrUnknownCombatant)
	}

	attackerFx := game.RollEffects(s.rng, attack.Effects.Attacker, attack.Effects.AttackerAccuracy)
	targetFx := game.RollEffects(s.rng, attack.Effects.Target, attack.Effects.TargetAccuracy)
	s.State = state

	lagged := shared.HasEffect(attacker, shared.EffectLag)
	ticks := game.TickEffects(attacker)

	damage := make([]shared.Damage, len(s.Monsters))
	for i, m := range s.Monsters {
		damage[i] = shared.NoDamage
		if lagged || m.BattleStats.HP <= 0 {
			continue
		}
		if !attack.Targets.All() && m.ID != state.TargetID() {
			continue
		}
		damage[i] = s.engine.Damage(attacker, m, &attack)
		m.TakeDamage(damage[i].Damage)
		if m.BattleStats.HP <= 0 {
			s.Queue.Remove(m.ID)
		}
	}

	res := &TurnResult{Ticks: ticks}
	if lagged {
		res.Extra = lagNotice(attacker)
		attackerFx, targetFx = []shared.EffectSpec{}, []shared.EffectSpec{}
	} else {
		s.applyToPlayers(attackerFx, attacker)
		s.applyToMonsters(targetFx, s.monster(state.TargetID()))
	}

	res.Attack = AttackOutcome{
		Type:    attack.Type,
		Label:   attack.Name,
		Effects: resolved(attackerFx, targetFx),
		Damage:  damage,
	}
	res.State = state.Reduce()
	s.advance()
	res.Turns = s.Turns
	return res, nil
}

// monsterTurn resolves one automatic action for the monster at the head of
// the queue.
func (s *Session) monsterTurn(m *shared.Monster) *TurnResult {
	lagged := shared.HasEffect(m, shared.EffectLag)
	ticks := game.TickEffects(m)
	target := game.PickTarget(s.rng, s.Players)

	damage := make([]shared.Damage, len(s.Players))
	for i, p := range s.Players {
		damage[i] = shared.NoDamage
		if lagged || p != target {
			continue
		}
		damage[i] = s.engine.Damage(m, p, nil)
		p.TakeDamage(damage[i].Damage)
		if p.BattleStats.HP <= 0 {
			s.Queue.Remove(p.ID)
		}
	}

	label, bundle := s.engine.MonsterAttack(s.rng, m)
	attackerFx, targetFx := bundle.Attacker, bundle.Target
	res := &TurnResult{Ticks: ticks}
	if lagged {
		res.Extra = lagNotice(m)
		attackerFx, targetFx = nil, nil
	} else {
		s.applyToMonsters(attackerFx, m)
		s.applyToPlayers(targetFx, target)
	}
	if attackerFx == nil {
		attackerFx = []shared.EffectSpec{}
	}
	if targetFx == nil {
		targetFx = []shared.EffectSpec{}
	}

	state := shared.BattleState{
		Type:     "single-attack",
		Attacker: &shared.ActorRef{ID: m.ID, Name: m.Name},
		Turn:     shared.TypeMonster,
		Text:     label,
		Running:  true,
	}
	if target != nil {
		state.Target = &shared.ActorRef{ID: target.ID, Name: target.Name}
	}
	s.State = state

	res.Attack = AttackOutcome{
		Type:    game.AttackNormal,
		Label:   label,
		Effects: resolved(attackerFx, targetFx),
		Damage:  damage,
	}
	res.State = state.Reduce()
	s.advance()
	res.Turns = s.Turns
	return res
}

// applyToPlayers applies effects on the player side: single scope hits only
// one, all scope hits every participant.
func (s *Session) applyToPlayers(specs []shared.EffectSpec, one *shared.PlayerRecord) {
	for _, spec := range specs {
		if spec.Scope == shared.ScopeAll {
			for _, p := range s.Players {
				game.ApplyEffect(p, spec.Kind)
			}
			continue
		}
		if one != nil {
			game.ApplyEffect(one, spec.Kind)
		}
	}
}

func (s *Session) applyToMonsters(specs []shared.EffectSpec, one *shared.Monster) {
	for _, spec := range specs {
		if spec.Scope == shared.ScopeAll {
			for _, m := range s.Monsters {
				game.ApplyEffect(m, spec.Kind)
			}
			continue
		}
		if one != nil {
			game.ApplyEffect(one, spec.Kind)
		}
	}
}
