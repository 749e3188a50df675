package battle

import "encoding/json"

// Ref identifies a combatant in the turn queue.
type Ref struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Queue is the ordered turn queue. The head is the only combatant whose
// action is accepted.
type Queue struct {
	items []Ref
}

func NewQueue(refs []Ref) *Queue {
	return &Queue{items: append([]Ref(nil), refs...)}
}

func (q *Queue) Current() (Ref, bool) {
	if len(q.items) == 0 {
		return Ref{}, false
	}
	return q.items[0], true
}

// Advance moves the head to the tail, or drops it when dead, then drops any
// dead combatants that surface at the head.
func (q *Queue) Advance(dead func(Ref) bool) {
	if len(q.items) == 0 {
		return
	}
	head := q.items[0]
	q.items = q.items[1:]
	if !dead(head) {
		q.items = append(q.items, head)
	}
	q.DropDead(dead)
}

// DropDead removes dead combatants from the head until a living one leads.
func (q *Queue) DropDead(dead func(Ref) bool) {
	for len(q.items) > 0 && dead(q.items[0]) {
		q.items = q.items[1:]
	}
}

// Remove deletes id from the queue wherever it is.
func (q *Queue) Remove(id string) bool {
	for i, r := range q.items {
		if r.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

func (q *Queue) Contains(id string) bool {
	for _, r := range q.items {
		if r.ID == id {
			return true
		}
	}
	return false
}

func (q *Queue) Len() int { return len(q.items) }

func (q *Queue) Refs() []Ref {
	return append([]Ref{}, q.items...)
}

func (q *Queue) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.Refs())
}
