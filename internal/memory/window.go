// Package memory keeps bounded conversation history, either in process or
// persisted as one JSON file per user.
package memory

import "github.com/nexithium/nexithium/internal/schema"

// Window is a bounded FIFO of turns. After every change the oldest turns are
// dropped so that Len never exceeds Bound. It is not safe for concurrent use.
type Window struct {
	bound int
	turns []schema.Turn
}

// NewWindow returns an empty window holding at most bound turns.
// A bound below 1 is treated as 1.
func NewWindow(bound int) *Window {
	if bound < 1 {
		bound = 1
	}
	return &Window{bound: bound}
}

func (w *Window) Bound() int { return w.bound }
func (w *Window) Len() int   { return len(w.turns) }

// Append adds t as the newest turn and evicts from the front when full.
func (w *Window) Append(t schema.Turn) {
	w.turns = append(w.turns, t)
	w.trim()
}

// Reset replaces the contents with turns, keeping only the newest Bound.
func (w *Window) Reset(turns []schema.Turn) {
	w.turns = schema.CloneTurns(turns)
	w.trim()
}

// Turns returns a copy of the retained turns, oldest first.
func (w *Window) Turns() []schema.Turn {
	return schema.CloneTurns(w.turns)
}

func (w *Window) trim() {
	if over := len(w.turns) - w.bound; over > 0 {
		w.turns = append(w.turns[:0:0], w.turns[over:]...)
	}
}
