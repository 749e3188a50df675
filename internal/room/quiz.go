package room

import (
	"digital-world/internal/protocol"
)

func (g *Registry) handleQuizInitialize(r *Room) error {
	q, ok := r.Quiz.Draw()
	if !ok {
		return ErrNoQuiz
	}
	r.ReadyQuiz.Reset()
	g.out.Broadcast(r.ID, protocol.EventQuiz, protocol.QuizMessage{Quiz: &q, Type: protocol.EventQuizInitialize})
	return nil
}

func (g *Registry) handleQuizFix(r *Room) error {
	r.ReadyQuiz.Reset()
	g.out.Broadcast(r.ID, protocol.EventQuiz, protocol.QuizMessage{Type: protocol.EventQuizFix})
	return nil
}

// handleQuizUpdate counts the sender in once it has a selection; when every
// stats-bearing player has one the releasing answer is graded.
func (g *Registry) handleQuizUpdate(r *Room, clientID string, e *protocol.QuizUpdate) error {
	if _, ok := r.Quiz.Current(); !ok {
		return ErrNoQuiz
	}
	sel := r.Selects[clientID]
	if !truthy(sel) {
		r.ReadyQuiz.Withdraw(clientID)
		return nil
	}
	if _, released := r.ReadyQuiz.Ack(clientID, sel, g.now()); !released {
		return nil
	}

	correct, q := r.Quiz.Resolve(e.Answer)
	g.log.Debug().Str("room_id", r.ID).Bool("correct", correct).Int("weight", r.Quiz.Weight()).Msg("quiz answered")
	if correct {
		g.out.Broadcast(r.ID, protocol.EventQuizCorrect, protocol.QuizMessage{Quiz: &q, Type: protocol.EventQuizCorrect})
	} else {
		g.out.Broadcast(r.ID, protocol.EventQuizWrong, protocol.QuizMessage{Quiz: &q, Type: protocol.EventQuizWrong})
	}
	return nil
}
