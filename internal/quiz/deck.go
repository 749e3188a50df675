// Package quiz keeps a room's weighted question deck.
package quiz

import (
	"math/rand"

	"digital-world/internal/game"
	"digital-world/internal/gamedata"
)

// Deck is a per-room copy of the quiz table. Weights drift as the room
// answers correctly, so rooms never share a deck.
type Deck struct {
	entries []gamedata.QuizDef
	current int
	rng     *rand.Rand
}

func NewDeck(defs []gamedata.QuizDef, rng *rand.Rand) *Deck {
	entries := make([]gamedata.QuizDef, len(defs))
	for i, d := range defs {
		entries[i] = d
		entries[i].Quiz.Choices = append([]string(nil), d.Quiz.Choices...)
		if entries[i].Weight < 1 {
			entries[i].Weight = 1
		}
	}
	return &Deck{entries: entries, current: -1, rng: rng}
}

// Draw selects a question with probability proportional to its weight and
// returns it with its choices shuffled.
func (d *Deck) Draw() (gamedata.Question, bool) {
	if len(d.entries) == 0 {
		return gamedata.Question{}, false
	}
	weights := make([]int, len(d.entries))
	for i, e := range d.entries {
		weights[i] = e.Weight
	}
	d.current = game.WeightedIndex(d.rng, weights)

	q := d.entries[d.current].Quiz
	q.Choices = append([]string(nil), q.Choices...)
	d.rng.Shuffle(len(q.Choices), func(i, j int) {
		q.Choices[i], q.Choices[j] = q.Choices[j], q.Choices[i]
	})
	return q, true
}

// Current returns the question last drawn.
func (d *Deck) Current() (gamedata.Question, bool) {
	if d.current < 0 {
		return gamedata.Question{}, false
	}
	return d.entries[d.current].Quiz, true
}

// Resolve checks answer against the current question. A correct answer
// lowers the question's weight by one, never below one.
func (d *Deck) Resolve(answer string) (correct bool, q gamedata.Question) {
	if d.current < 0 {
		return false, gamedata.Question{}
	}
	e := &d.entries[d.current]
	if answer != e.Quiz.Answer {
		return false, e.Quiz
	}
	if e.Weight > 1 {
		e.Weight--
	}
	return true, e.Quiz
}

// Weight of the current question, 0 when nothing was drawn.
func (d *Deck) Weight() int {
	if d.current < 0 {
		return 0
	}
	return d.entries[d.current].Weight
}

func (d *Deck) Len() int { return len(d.entries) }
