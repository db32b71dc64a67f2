// Package iframemgr implements the IFrame Manager (spec §4.4): deciding
// when an iframe's producer callback must be re-invoked (initial render,
// expanded visible bounds, or scrolling within EdgeThreshold of the last
// rendered virtual extent) and splicing its returned StyledDom in as a
// child for the next pipeline pass.
package iframemgr

import (
	"github.com/cogentlayout/corelayout/internal/boxtree"
	"github.com/cogentlayout/corelayout/internal/config"
	"github.com/cogentlayout/corelayout/internal/xlog"
	"github.com/cogentlayout/corelayout/pkg/geom32"
	"github.com/cogentlayout/corelayout/pkg/styledom"
)

// Reason names why an iframe needs re-invocation (spec §4.4).
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonInitialRender
	ReasonBoundsExpanded
	ReasonEdgeScrolled
)

func (r Reason) String() string {
	switch r {
	case ReasonInitialRender:
		return "initial_render"
	case ReasonBoundsExpanded:
		return "bounds_expanded"
	case ReasonEdgeScrolled:
		return "edge_scrolled"
	default:
		return "none"
	}
}

// nodeState is the per-iframe bookkeeping the manager retains across
// frames: the last invocation's inputs/outputs plus per-edge latches so
// "at most one re-invoke per edge approach" holds (mirrors
// scrollmgr.State's edge latch, but keyed to the iframe's own virtual
// scroll extent rather than an ancestor's scrollable content).
type nodeState struct {
	invoked      bool
	lastInput    styledom.IFrameInput
	lastOutput   styledom.IFrameOutput
	edgeLatched  [4]bool
}

// Manager tracks per-(dom,node) iframe invocation state. One Manager is
// process/document scoped, matching Scroll Manager's lifetime (spec §5).
type Manager struct {
	Config config.Config
	states map[key]*nodeState
}

type key struct {
	Dom  int64
	Node boxtree.Index
}

func NewManager(cfg config.Config) *Manager {
	return &Manager{Config: cfg, states: make(map[key]*nodeState)}
}

// CheckReinvoke implements spec §4.4's check_reinvoke(dom_id, node_id,
// scroll_info, bounds) -> Option<Reason>.
func (m *Manager) CheckReinvoke(domID int64, node boxtree.Index, scrollOffset, visibleSize geom32.Vector2) Reason {
	k := key{domID, node}
	st := m.states[k]
	if st == nil {
		st = &nodeState{}
		m.states[k] = st
	}
	if !st.invoked {
		return ReasonInitialRender
	}

	if visibleSize.X > st.lastInput.VisibleSize[0] || visibleSize.Y > st.lastInput.VisibleSize[1] {
		return ReasonBoundsExpanded
	}

	virtual := st.lastOutput.VirtualScrollSize
	reason := ReasonNone
	check := func(idx int, dist float32) bool {
		near := dist <= m.Config.EdgeThreshold
		if near && !st.edgeLatched[idx] {
			st.edgeLatched[idx] = true
			return true
		}
		if !near {
			st.edgeLatched[idx] = false
		}
		return false
	}
	if check(0, scrollOffset.Y) {
		reason = ReasonEdgeScrolled
	} else if check(2, virtual[1]-visibleSize.Y-scrollOffset.Y) {
		reason = ReasonEdgeScrolled
	} else if check(3, scrollOffset.X) {
		reason = ReasonEdgeScrolled
	} else if check(1, virtual[0]-visibleSize.X-scrollOffset.X) {
		reason = ReasonEdgeScrolled
	}
	return reason
}

// Invoke runs the iframe producer callback and records its result, returning
// the produced child StyledDom (nil if the iframe produced none).
func (m *Manager) Invoke(domID int64, node boxtree.Index, fn styledom.IFrameCallback, scrollOffset, visibleSize, virtualHint geom32.Vector2) *styledom.Node {
	k := key{domID, node}
	st := m.states[k]
	if st == nil {
		st = &nodeState{}
		m.states[k] = st
	}

	in := styledom.IFrameInput{
		ScrollOffset:    [2]float32{scrollOffset.X, scrollOffset.Y},
		VisibleSize:     [2]float32{visibleSize.X, visibleSize.Y},
		VirtualSizeHint: [2]float32{virtualHint.X, virtualHint.Y},
	}

	out := safeInvoke(fn, in)

	st.invoked = true
	st.lastInput = in
	st.lastOutput = out
	xlog.LayoutTrace("iframe invoked", "node", node, "virtualSize", out.VirtualScrollSize)
	return out.Child
}

// safeInvoke guards against a panicking producer callback (spec §7 category
// 3: "IFrame producer callback panics -> treat as empty content, log, and
// continue") rather than letting it take down the whole layout pass.
func safeInvoke(fn styledom.IFrameCallback, in styledom.IFrameInput) (out styledom.IFrameOutput) {
	defer func() {
		if r := recover(); r != nil {
			xlog.L().Errorw("iframe producer panicked, treating as empty", "panic", r)
			out = styledom.IFrameOutput{}
		}
	}()
	return fn(in)
}
