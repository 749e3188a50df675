package battle

import "errors"

var (
	// ErrOutOfTurn: the submitting client is not at the head of the queue.
	ErrOutOfTurn = errors.New("not the acting combatant")
	// ErrStaleAck: a battle-turn-finished token for another turn.
	ErrStaleAck = errors.New("stale turn acknowledgement")
	// ErrBattleOver: the encounter ended and waits for a fresh initialize.
	ErrBattleOver = errors.New("battle is over")
	// ErrUnknownCombatant: a queue entry without a roster entry.
	ErrUnknownCombatant = errors.New("unknown combatant")
)
