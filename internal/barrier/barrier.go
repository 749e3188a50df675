// Package barrier implements the "wait for every participant" primitive used
// by battle turns, leveling, room actions and quiz answers.
package barrier

import "time"

// Participants reports who must acknowledge before the barrier releases.
type Participants func() []string

// Barrier collects one value per participant. It is not safe for concurrent
// use; callers serialize access the same way they serialize room state.
type Barrier[V any] struct {
	participants Participants
	acks         map[string]V
	order        []string
	armedAt      time.Time
}

func New[V any](participants Participants) *Barrier[V] {
	return &Barrier[V]{
		participants: participants,
		acks:         make(map[string]V),
	}
}

// Ack records id's acknowledgement. Acknowledgements from ids outside the
// participant set are ignored, a repeated ack replaces the previous value.
// When every participant has acknowledged, the collected values are returned
// in acknowledgement order and the barrier resets.
func (b *Barrier[V]) Ack(id string, v V, now time.Time) ([]V, bool) {
	expected := b.participants()
	if !contains(expected, id) {
		return nil, false
	}
	if _, seen := b.acks[id]; !seen {
		b.order = append(b.order, id)
	}
	b.acks[id] = v
	if b.armedAt.IsZero() {
		b.armedAt = now
	}
	if !b.complete(expected) {
		return nil, false
	}
	return b.Release(), true
}

// Withdraw drops id's acknowledgement, if any.
func (b *Barrier[V]) Withdraw(id string) {
	if _, ok := b.acks[id]; !ok {
		return
	}
	delete(b.acks, id)
	for i, o := range b.order {
		if o == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	if len(b.acks) == 0 {
		b.armedAt = time.Time{}
	}
}

// Count is the number of acknowledgements from current participants.
func (b *Barrier[V]) Count() int {
	n := 0
	for _, id := range b.participants() {
		if _, ok := b.acks[id]; ok {
			n++
		}
	}
	return n
}

// Expected is the current participant count.
func (b *Barrier[V]) Expected() int {
	return len(b.participants())
}

// Ready reports whether every participant has acknowledged. It becomes true
// without a new ack when a participant leaves.
func (b *Barrier[V]) Ready() bool {
	return b.complete(b.participants())
}

// Stalled reports whether the barrier has been waiting longer than timeout.
// A zero timeout disables the check.
func (b *Barrier[V]) Stalled(now time.Time, timeout time.Duration) bool {
	if timeout <= 0 || b.armedAt.IsZero() {
		return false
	}
	return now.Sub(b.armedAt) >= timeout
}

// Release returns the collected values and resets the barrier.
func (b *Barrier[V]) Release() []V {
	out := make([]V, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.acks[id])
	}
	b.Reset()
	return out
}

func (b *Barrier[V]) Reset() {
	b.acks = make(map[string]V)
	b.order = nil
	b.armedAt = time.Time{}
}

func (b *Barrier[V]) complete(expected []string) bool {
	if len(expected) == 0 {
		return false
	}
	for _, id := range expected {
		if _, ok := b.acks[id]; !ok {
			return false
		}
	}
	return true
}

func contains(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
