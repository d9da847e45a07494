package audio

import (
	"sort"
	"sync"
)

// Notes is the set of currently held pitches. It is safe for concurrent use;
// every read and write goes through the same lock so a snapshot never sees a
// half applied chord.
type Notes struct {
	mu sync.Mutex
	on map[int]bool
}

func NewNotes() *Notes {
	return &Notes{on: make(map[int]bool)}
}

// On adds pitches to the set and reports whether any of them was not held
// before.
func (n *Notes) On(pitches ...int) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	var added bool
	for _, p := range pitches {
		if !n.on[p] {
			n.on[p] = true
			added = true
		}
	}
	return added
}

// Off removes pitches from the set. Removing a pitch that isn't held is a
// no-op.
func (n *Notes) Off(pitches ...int) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	var removed bool
	for _, p := range pitches {
		if n.on[p] {
			delete(n.on, p)
			removed = true
		}
	}
	return removed
}

// Snapshot returns the held pitches in ascending order. The slice belongs to
// the caller.
func (n *Notes) Snapshot() []int {
	n.mu.Lock()
	defer n.mu.Unlock()
	pitches := make([]int, 0, len(n.on))
	for p := range n.on {
		pitches = append(pitches, p)
	}
	sort.Ints(pitches)
	return pitches
}

func (n *Notes) Clear() {
	n.mu.Lock()
	n.on = make(map[int]bool)
	n.mu.Unlock()
}
