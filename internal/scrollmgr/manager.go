package scrollmgr

import (
	"sync"

	"github.com/cogentlayout/corelayout/internal/boxtree"
	"github.com/cogentlayout/corelayout/internal/config"
	"github.com/cogentlayout/corelayout/internal/xlog"
	"github.com/cogentlayout/corelayout/pkg/geom32"
)

// EdgeReason names which edge a node scrolled within EdgeThreshold of, for
// the IFrame Manager's re-invocation check (spec §4.3.2 step 6, §4.4).
type EdgeReason uint8

const (
	EdgeNone EdgeReason = iota
	EdgeTop
	EdgeRight
	EdgeBottom
	EdgeLeft
)

// ScrollTo is the change record the physics tick returns for each node it
// advanced. Tick has already written the new offsets into that node's State
// by the time it returns the record; the record reports them to the caller
// and is not applied to State a second time.
type ScrollTo struct {
	Node     boxtree.Index
	Logical  geom32.Vector2
	Visual   geom32.Vector2
	Edge     EdgeReason
	Settled  bool // true once this node no longer needs further ticks
}

// Manager owns per-node ScrollNodeState, the input queue, and the physics
// tick. One Manager instance is process/document scoped (spec §5: "exactly
// one Scroll Manager instance per top-level document").
type Manager struct {
	Config config.Config
	Queue  InputQueue

	mu     sync.Mutex
	states map[boxtree.Index]*State
}

func NewManager(cfg config.Config) *Manager {
	return &Manager{Config: cfg, states: make(map[boxtree.Index]*State)}
}

// Register installs (or resets the geometry of) a scrollable node's state.
func (m *Manager) Register(node boxtree.Index, contentSize, viewportSize geom32.Vector2) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[node]
	if !ok {
		st = &State{}
		m.states[node] = st
	}
	st.ContentSize = contentSize
	st.ViewportSize = viewportSize
	st.clampLogical(m.Config)
}

func (m *Manager) State(node boxtree.Index) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[node]
	if !ok {
		return State{}, false
	}
	return *st, true
}

// Tick runs one physics step (spec §4.3.2 steps 1-8) and returns the
// transactional ScrollTo records for every node that changed or is still
// animating. dt is in seconds (Config.TickInterval() at the nominal rate).
func (m *Manager) Tick(dt float32) []ScrollTo {
	inputs := m.Queue.DrainAll()

	m.mu.Lock()
	defer m.mu.Unlock()

	touched := map[boxtree.Index]bool{}
	for _, in := range inputs {
		st := m.states[in.Node]
		if st == nil {
			st = &State{}
			m.states[in.Node] = st
		}
		m.applyInput(st, in)
		touched[in.Node] = true
	}
	for node, st := range m.states {
		if st.animating {
			touched[node] = true
		}
	}

	var out []ScrollTo
	for node := range touched {
		st := m.states[node]
		edge := m.integrate(st, dt)
		rec := ScrollTo{
			Node:    node,
			Logical: st.LogicalOffset,
			Visual:  st.VisualOffset,
			Edge:    edge,
			Settled: !st.animating,
		}
		out = append(out, rec)
		if edge != EdgeNone {
			xlog.ScrollTrace("scroll edge threshold", "node", node, "edge", edge)
		}
	}
	return out
}

// applyInput implements step 2: wheel input adds an impulse to velocity (so
// momentum carries into subsequent ticks with no further input); trackpad
// input sets position directly, since the OS has already applied its own
// physics to the delta before it reaches us; a programmatic request snaps
// LogicalOffset immediately (or, if Smooth, seeds a velocity aimed at the
// target so the same integrate() path animates it).
func (m *Manager) applyInput(st *State, in ScrollInput) {
	switch in.Source {
	case SourceWheel:
		st.Velocity = st.Velocity.Add(in.Delta)
		st.animating = true
	case SourceTrackpad:
		st.LogicalOffset = st.LogicalOffset.Add(in.Delta)
		st.VisualOffset = st.LogicalOffset
		st.Velocity = geom32.Vector2{}
		st.animating = true
	case SourceProgrammatic:
		if in.Smooth {
			st.Velocity = in.Target.Sub(st.LogicalOffset).Mul(0.25)
			st.animating = true
		} else {
			st.LogicalOffset = in.Target
			st.VisualOffset = in.Target
			st.Overscroll = geom32.Vector2{}
			st.Velocity = geom32.Vector2{}
			st.animating = false
		}
	}
}

// integrate implements steps 3-6: position integration, friction decay,
// overscroll spring, and edge-threshold latching. Returns the edge the node
// newly crossed into this tick, if any.
func (m *Manager) integrate(st *State, dt float32) EdgeReason {
	// Step 3: integrate position from velocity.
	st.LogicalOffset = st.LogicalOffset.Add(st.Velocity.Mul(dt))

	max := st.MaxOffset()
	overX := rubberBandExcess(st.LogicalOffset.X, 0, max.X)
	overY := rubberBandExcess(st.LogicalOffset.Y, 0, max.Y)
	prevOver := st.Overscroll
	st.Overscroll = geom32.Vec2(overX, overY)

	// Step 5: overscroll spring force pulls position back toward bounds.
	if overX != 0 {
		st.Velocity.X -= m.Config.SpringConstant * overX * dt
		st.LogicalOffset.X = geom32.Clamp(st.LogicalOffset.X, -overscrollCap(max.X), max.X+overscrollCap(max.X))
	}
	if overY != 0 {
		st.Velocity.Y -= m.Config.SpringConstant * overY * dt
		st.LogicalOffset.Y = geom32.Clamp(st.LogicalOffset.Y, -overscrollCap(max.Y), max.Y+overscrollCap(max.Y))
	}
	// Once the spring has pulled an axis back inside its bounds, it stops on
	// the edge it was stretched past instead of carrying the return velocity on.
	if prevOver.X != 0 && overX == 0 {
		st.LogicalOffset.X, st.Velocity.X = 0, 0
		if prevOver.X > 0 {
			st.LogicalOffset.X = max.X
		}
	}
	if prevOver.Y != 0 && overY == 0 {
		st.LogicalOffset.Y, st.Velocity.Y = 0, 0
		if prevOver.Y > 0 {
			st.LogicalOffset.Y = max.Y
		}
	}

	// Step 4: friction/decay.
	st.Velocity = st.Velocity.Mul(m.Config.DecayRate)
	if geom32.Abs(st.Velocity.X) < m.Config.FrictionMinVelocity {
		st.Velocity.X = 0
	}
	if geom32.Abs(st.Velocity.Y) < m.Config.FrictionMinVelocity {
		st.Velocity.Y = 0
	}

	// Once overscroll and velocity both settle, snap exactly onto bounds.
	settled := st.Overscroll.X == 0 && st.Overscroll.Y == 0 &&
		geom32.Abs(st.Velocity.X) < m.Config.StopVelocityThreshold &&
		geom32.Abs(st.Velocity.Y) < m.Config.StopVelocityThreshold
	if settled {
		st.clampLogical(m.Config)
		st.Velocity = geom32.Vector2{}
		st.animating = false
	} else {
		st.animating = true
	}

	// Visual offset always tracks logical 1:1 in this model; the split
	// exists so a renderer sampling mid-tick sees the same committed value
	// the layout pass will also use (spec §4.3.3), not a torn read.
	st.VisualOffset = st.LogicalOffset

	return edgeReason(st, m.Config)
}

// rubberBandExcess returns how far v has gone past [lo, hi], signed (0 if
// within bounds).
func rubberBandExcess(v, lo, hi float32) float32 {
	if v < lo {
		return v - lo
	}
	if v > hi {
		return v - hi
	}
	return 0
}

// overscrollCap bounds how far rubber-banding is allowed to stretch,
// proportional to the scrollable extent so short content doesn't produce an
// absurdly long stretch.
func overscrollCap(extent float32) float32 {
	cap := extent * 0.5
	if cap < 40 {
		cap = 40
	}
	return cap
}

// edgeReason implements step 6: "at most one re-invoke per edge approach"
// — a latch per edge that only re-arms once the offset moves back outside
// EdgeThreshold, so continuous scrolling at an edge doesn't report the same
// edge every tick.
func edgeReason(st *State, cfg config.Config) EdgeReason {
	max := st.MaxOffset()
	near := func(dist float32) bool { return dist <= cfg.EdgeThreshold }

	check := func(idx int, dist float32) bool {
		if near(dist) {
			if !st.edgeLatched[idx] {
				st.edgeLatched[idx] = true
				return true
			}
		} else {
			st.edgeLatched[idx] = false
		}
		return false
	}

	if check(0, st.LogicalOffset.Y) {
		return EdgeTop
	}
	if check(2, max.Y-st.LogicalOffset.Y) {
		return EdgeBottom
	}
	if check(3, st.LogicalOffset.X) {
		return EdgeLeft
	}
	if check(1, max.X-st.LogicalOffset.X) {
		return EdgeRight
	}
	return EdgeNone
}
