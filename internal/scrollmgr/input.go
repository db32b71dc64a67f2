// Package scrollmgr implements the Scroll Manager (spec §4.3): per-node
// scroll state, a cross-thread input queue, the physics timer tick, and
// scrollbar geometry. The input queue is grounded directly on the teacher's
// events.Deque (events/deque.go): an infinitely-buffered, Mutex+Cond
// double-ended slice that compresses same-type events instead of letting
// them pile up — exactly the "lock-protected queue with explicit
// compression" spec §9 calls for.
package scrollmgr

import (
	"sync"

	"github.com/cogentlayout/corelayout/internal/boxtree"
	"github.com/cogentlayout/corelayout/pkg/geom32"
)

// InputSource distinguishes the three scroll-input origins spec §4.3.1 names.
type InputSource uint8

const (
	SourceWheel InputSource = iota
	SourceTrackpad
	SourceProgrammatic
)

// ScrollInput is one recorded scroll input event (spec §3.4).
type ScrollInput struct {
	Node   boxtree.Index
	Source InputSource
	Delta  geom32.Vector2 // wheel/trackpad: incremental; unused for programmatic (see Target)
	Target geom32.Vector2 // meaningful only for SourceProgrammatic
	Smooth bool           // programmatic "smooth" scroll requests interpolation, not a jump
}

// isUnique mirrors events.Event.IsUnique: programmatic scrolls never
// compress into each other (each one is a distinct intent — "scroll to X"
// followed immediately by "scroll to Y" must not silently lose X), while
// wheel/trackpad deltas on the same node DO compress (spec §4.3.1: "wheel
// events for the same node accumulate rather than queue individually").
func (s ScrollInput) isUnique() bool { return s.Source == SourceProgrammatic }

func (s ScrollInput) sameClass(o ScrollInput) bool {
	return s.Node == o.Node && s.Source == o.Source && !s.isUnique()
}

// InputQueue is the lock-protected, double-ended scroll input queue (spec
// §4.3.1, §9), modeled 1:1 on events.Deque's Back/Front/Mutex/Cond shape.
// The zero value is usable; an InputQueue must not be copied after first use.
type InputQueue struct {
	back []ScrollInput
	front []ScrollInput

	mu   sync.Mutex
	cond sync.Cond
}

func (q *InputQueue) lockAndInit() {
	q.mu.Lock()
	if q.cond.L == nil {
		q.cond.L = &q.mu
	}
}

// Send enqueues an input, compressing it into the last queued input for the
// same (node, source) pair when that input class allows compression.
func (q *InputQueue) Send(in ScrollInput) {
	q.lockAndInit()
	defer q.mu.Unlock()

	n := len(q.back)
	if n > 0 && q.back[n-1].sameClass(in) {
		prev := q.back[n-1]
		q.back[n-1] = ScrollInput{
			Node:   in.Node,
			Source: in.Source,
			Delta:  prev.Delta.Add(in.Delta),
		}
		q.cond.Signal()
		return
	}
	q.back = append(q.back, in)
	q.cond.Signal()
}

// TryNext returns the next queued input without blocking, and whether one
// was available. Manager.Tick does not use it: each tick drains the whole
// queue with DrainAll and then integrates whether or not any input arrived.
func (q *InputQueue) TryNext() (ScrollInput, bool) {
	q.lockAndInit()
	defer q.mu.Unlock()

	if n := len(q.front); n > 0 {
		e := q.front[n-1]
		q.front = q.front[:n-1]
		return e, true
	}
	if n := len(q.back); n > 0 {
		e := q.back[0]
		q.back = q.back[1:]
		return e, true
	}
	return ScrollInput{}, false
}

// DrainAll removes and returns every currently-queued input in FIFO order,
// the shape the physics tick actually consumes (spec §4.3.2 step 1: "drain
// all inputs queued since the last tick").
func (q *InputQueue) DrainAll() []ScrollInput {
	q.lockAndInit()
	defer q.mu.Unlock()

	out := make([]ScrollInput, 0, len(q.front)+len(q.back))
	for i := len(q.front) - 1; i >= 0; i-- {
		out = append(out, q.front[i])
	}
	out = append(out, q.back...)
	q.front = nil
	q.back = nil
	return out
}
