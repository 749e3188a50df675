package battle

import (
	"fmt"
	"time"

	"digital-world/internal/game"
	"digital-world/internal/shared"
)

type Outcome int

const (
	// OutcomeWaiting: acknowledgements are still missing.
	OutcomeWaiting Outcome = iota
	OutcomeWin
	OutcomeLose
	OutcomeMonsterTurn
	// OutcomePointer hands control to the next player.
	OutcomePointer
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWaiting:
		return "waiting"
	case OutcomeWin:
		return "win"
	case OutcomeLose:
		return "lose"
	case OutcomeMonsterTurn:
		return "monster-turn"
	case OutcomePointer:
		return "pointer"
	}
	return "unknown"
}

// Release is the result of a battle-turn-finished barrier.
type Release struct {
	Outcome Outcome
	Win     *WinResult
	Turn    *TurnResult
	// Next is the combatant now at the head of the queue.
	Next Ref
}

type PlayerResult struct {
	ID      string       `json:"id"`
	Stats   shared.Stats `json:"stats"`
	Exp     int          `json:"exp"`
	LevelUp int          `json:"levelUp"`
}

type WinResult struct {
	Players  []PlayerResult `json:"players"`
	Exp      int            `json:"exp"`
	Leveling LevelingFlag   `json:"leveling"`
}

type LevelingFlag struct {
	Ready   bool `json:"ready"`
	Display bool `json:"display"`
}

// FinishTurn records a battle-turn-finished acknowledgement and, once every
// stats-bearing participant acknowledged, evaluates the turn.
func (s *Session) FinishTurn(clientID string, turns int, now time.Time) (*Release, error) {
	released, err := s.AckTurn(clientID, turns, now)
	if err != nil {
		return nil, err
	}
	if !released {
		return &Release{Outcome: OutcomeWaiting}, nil
	}
	return s.Evaluate(), nil
}

// AckTurn records an acknowledgement for the turn identified by turns and
// reports whether the barrier released. Callers must follow a release with
// Evaluate.
//
// Acknowledgements count only while a turn is waiting on them or while a
// monster opens the queue. Once control was handed to a player, a repeated
// token is stale.
func (s *Session) AckTurn(clientID string, turns int, now time.Time) (bool, error) {
	if s.Over() {
		return false, ErrBattleOver
	}
	if turns != s.Turns {
		return false, ErrStaleAck
	}
	if !s.acceptsAck() {
		return false, fmt.Errorf("turn %d already handed over: %w", turns, ErrStaleAck)
	}
	_, released := s.ready.Ack(clientID, struct{}{}, now)
	return released, nil
}

func (s *Session) acceptsAck() bool {
	switch s.Phase {
	case PhaseAwaitReady:
		return true
	case PhaseAwaitAction:
		head, ok := s.Queue.Current()
		return ok && head.Type == shared.TypeMonster
	}
	return false
}

// Stalled reports whether the turn barrier has waited longer than timeout.
func (s *Session) Stalled(now time.Time, timeout time.Duration) bool {
	return s.Phase == PhaseAwaitReady && s.ready.Stalled(now, timeout)
}

// ForceRelease evaluates the turn as if every participant acknowledged.
func (s *Session) ForceRelease() *Release {
	s.ready.Reset()
	return s.Evaluate()
}

// Settle re-evaluates the session after the participant set shrank: a turn
// barrier that is now complete releases, a monster left at the head of an
// idle queue acts, and when headLeft reports that the acting player was the
// one removed, control passes to whoever now leads the queue.
func (s *Session) Settle(headLeft bool) (*Release, bool) {
	switch s.Phase {
	case PhaseAwaitReady:
		if !s.ready.Ready() {
			return nil, false
		}
		s.ready.Reset()
	case PhaseAwaitAction:
		s.Queue.DropDead(s.dead)
		if head, ok := s.Queue.Current(); ok && head.Type == shared.TypePlayer && !headLeft {
			return nil, false
		}
	default:
		return nil, false
	}
	return s.Evaluate(), true
}

// Evaluate decides what follows a released turn: win, lose, a monster
// action or a hand-over to the next player, in that order.
func (s *Session) Evaluate() *Release {
	s.Queue.DropDead(s.dead)

	switch {
	case game.AllMonstersDown(s.Monsters):
		return &Release{Outcome: OutcomeWin, Win: s.win()}
	case game.AllPlayersDown(s.Players):
		s.lose()
		return &Release{Outcome: OutcomeLose}
	}

	head, ok := s.Queue.Current()
	if ok && head.Type == shared.TypeMonster {
		if m := s.monster(head.ID); m != nil {
			turn := s.monsterTurn(m)
			next, _ := s.Queue.Current()
			return &Release{Outcome: OutcomeMonsterTurn, Turn: turn, Next: next}
		}
	}
	s.Phase = PhaseAwaitAction
	return &Release{Outcome: OutcomePointer, Next: head}
}

// win hands out experience and resets the encounter to a fresh one.
func (s *Session) win() *WinResult {
	exp := game.TotalExperience(s.Monsters)

	s.Monsters = []*shared.Monster{}
	for _, p := range s.Players {
		fallen := p.BattleStats.HP <= 0
		if p.Stats != nil {
			p.BattleStats.HP = p.Stats.HP
			p.BattleStats.MP = p.Stats.MP
			p.BattleStats.AP = p.Stats.AP
		}
		if fallen {
			p.BattleStats.CHARGE = 0
		}
		p.Effects = []shared.Effect{}
	}
	s.InitializeQueue()
	s.State = shared.BattleState{Turn: shared.TypePlayer}
	s.Phase = PhaseInit

	res := &WinResult{
		Players:  make([]PlayerResult, 0, len(s.Players)),
		Exp:      exp,
		Leveling: LevelingFlag{Ready: false, Display: true},
	}
	for _, p := range s.Players {
		gained := s.engine.ApplyExperience(p, exp)
		r := PlayerResult{ID: p.ID, Exp: exp, LevelUp: gained}
		if p.Stats != nil {
			r.Stats = *p.Stats
		}
		res.Players = append(res.Players, r)
	}
	return res
}

// lose halves every participant's HP, rounding up, and zeroes CHARGE. The
// rest of the session is left as it was until the next battle-initialize.
func (s *Session) lose() {
	for _, p := range s.Players {
		p.BattleStats.HP = (p.MaxHP() + 1) / 2
		p.BattleStats.CHARGE = 0
	}
	s.Phase = PhaseLost
}
