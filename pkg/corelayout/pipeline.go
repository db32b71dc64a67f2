// Package corelayout ties the whole pipeline together (spec §2): Reconcile
// -> Size -> Layout -> Out-of-flow -> Display List, plus the Scroll Manager
// tick and IFrame Manager check that run alongside it each frame.
package corelayout

import (
	"github.com/cogentlayout/corelayout/internal/boxtree"
	"github.com/cogentlayout/corelayout/internal/config"
	"github.com/cogentlayout/corelayout/internal/iframemgr"
	"github.com/cogentlayout/corelayout/internal/oof"
	"github.com/cogentlayout/corelayout/internal/reconcile"
	"github.com/cogentlayout/corelayout/internal/scrollmgr"
	"github.com/cogentlayout/corelayout/internal/sizer"
	"github.com/cogentlayout/corelayout/internal/xlog"
	layoutpass "github.com/cogentlayout/corelayout/internal/layout"
	"github.com/cogentlayout/corelayout/pkg/bridge"
	"github.com/cogentlayout/corelayout/pkg/displaylist"
	"github.com/cogentlayout/corelayout/pkg/geom32"
	"github.com/cogentlayout/corelayout/pkg/styledom"
	"github.com/cogentlayout/corelayout/pkg/styles"
)

// Pipeline is the process/document-scoped driver (spec §5: "one Layout
// Solver, Scroll Manager, IFrame Manager, and Display List Generator
// instance per top-level document").
type Pipeline struct {
	Cache    *LayoutCache
	Reconciler *reconcile.Reconciler
	Sizer    *sizer.Sizer
	Layout   *layoutpass.Engine
	OOF      *oof.Positioner
	Scroll   *scrollmgr.Manager
	IFrames  *iframemgr.Manager
	Config   config.Config
}

// New builds a Pipeline around the given external collaborators (spec §6:
// text engine and Flex/Grid solver are supplied by the caller, never looked
// up globally).
func New(text bridge.TextEngine, flexGrid bridge.FlexGridSolver, cfg config.Config) *Pipeline {
	return &Pipeline{
		Cache:      NewLayoutCache(),
		Reconciler: reconcile.New(),
		Sizer:      sizer.New(text, flexGrid, nil),
		Layout:     layoutpass.New(text, flexGrid, cfg),
		OOF:        oof.New(),
		Scroll:     scrollmgr.NewManager(cfg),
		IFrames:    iframemgr.NewManager(cfg),
		Config:     cfg,
	}
}

// Frame runs one full pipeline pass (spec §2's per-frame sequence) and
// returns the resulting display list. dom is the caller's current
// StyledDom; viewport is the available size for the document root.
func (p *Pipeline) Frame(dom *styledom.Dom, viewport geom32.Vector2) (*displaylist.List, error) {
	dom = p.resolveIFrames(dom, viewport)

	res, err := p.Reconciler.Reconcile(p.Cache.Tree, dom)
	if err != nil {
		return nil, NewError(InvalidTree, "reconcile", err)
	}

	if p.Cache.Tree.Root == boxtree.Invalid {
		return &displaylist.List{}, nil
	}

	dirty := make(map[boxtree.Index]bool, len(res.IntrinsicDirty))
	for _, idx := range res.IntrinsicDirty {
		dirty[idx] = true
	}
	p.Sizer.Size(p.Cache.Tree, p.Cache.Tree.Root, dirty)

	resized := viewport != p.Cache.ViewportSize
	p.Cache.ViewportSize = viewport
	switch {
	case resized || res.AnyStructural:
		// Viewport changed, or the tree shape changed: every containing
		// block downstream of the change may be stale, so start over from
		// the document root (spec §4.2: the minimal-work path only applies
		// when the tree shape and available size are unchanged).
		p.Layout.AbsolutePositions = make(map[boxtree.Index]geom32.Vector2)
		p.Layout.Reflow(p.Cache.Tree, p.Cache.Tree.Root, viewport, p.needsVerticalScrollbar)
		p.Cache.AbsolutePositions = p.Layout.AbsolutePositions
	case len(res.LayoutRoots) > 0:
		// Minimal-work relayout (spec §4.2, scenario 6): relayout only the
		// reconciler's reported layout roots, then shift later clean
		// siblings by the resulting main-axis delta instead of relaying out
		// the whole document.
		p.relayoutRoots(res.LayoutRoots)
	}

	p.OOF.Resolve(p.Cache.Tree, p.Cache.Tree.Root, viewport, p.Cache.AbsolutePositions)
	p.registerScrollables(p.Cache.Tree.Root)

	gen := &displaylist.Generator{
		AbsolutePositions: p.Cache.AbsolutePositions,
		Offset: func(idx boxtree.Index) geom32.Vector2 {
			if st, ok := p.Scroll.State(idx); ok {
				return st.VisualOffset
			}
			return geom32.Vector2{}
		},
	}
	list := gen.Generate(p.Cache.Tree, p.Cache.Tree.Root)
	return list, nil
}

// relayoutRoots relays out the reconciler's reported layout roots in place
// (spec §4.2 scenario 6), instead of the whole tree.
func (p *Pipeline) relayoutRoots(roots []boxtree.Index) {
	for _, idx := range dedupeLayoutRoots(p.Cache.Tree, roots) {
		p.relayoutOne(idx)
	}
}

// relayoutOne relays out a single layout root against its existing
// containing block (parent's used size, and the root's own cached
// position within it — unaffected by this relayout, only its content may
// be), then propagates the resulting main-axis size delta to later clean
// siblings via RepositionSiblings rather than relaying those out too.
//
// If idx has no parent (it *is* the document root), there is no containing
// block to scope against, so this falls back to a full reflow from the
// viewport.
func (p *Pipeline) relayoutOne(idx boxtree.Index) {
	t := p.Cache.Tree
	p.Layout.AbsolutePositions = p.Cache.AbsolutePositions

	n := t.Get(idx)
	parent := n.Parent
	if parent == boxtree.Invalid {
		p.Layout.ReflowAt(t, idx, p.Cache.ViewportSize, geom32.Vector2{}, p.needsVerticalScrollbar)
		return
	}

	pn := t.Get(parent)
	available := pn.UsedSize
	origin := p.Cache.AbsolutePositions[parent].Add(n.RelPos)
	oldHeight := borderBoxHeight(n)

	p.Layout.ReflowAt(t, idx, available, origin, p.needsVerticalScrollbar)

	delta := borderBoxHeight(t.Get(idx)) - oldHeight
	reconcile.RepositionSiblings(t, idx, delta, geom32.Y, p.Cache.AbsolutePositions)
}

// borderBoxHeight is a node's block-axis used size plus its own
// border+padding, the same quantity layoutBlock's pen advances by for each
// child (internal/layout/block.go).
func borderBoxHeight(n *boxtree.LayoutNode) float32 {
	return n.UsedSize.Y + n.Box.Border.Size().Y + n.Box.Padding.Size().Y
}

// dedupeLayoutRoots drops any reported layout root that is a descendant of
// another reported layout root: the ancestor's relayout already recomputes
// that descendant, so relaying it out again (and separately repositioning
// its own siblings) would be redundant and would double-shift positions.
func dedupeLayoutRoots(t *boxtree.Tree, roots []boxtree.Index) []boxtree.Index {
	set := make(map[boxtree.Index]bool, len(roots))
	for _, r := range roots {
		set[r] = true
	}
	seen := make(map[boxtree.Index]bool, len(roots))
	out := make([]boxtree.Index, 0, len(roots))
	for _, r := range roots {
		if seen[r] {
			continue
		}
		seen[r] = true
		covered := false
		for p := t.Get(r).Parent; p != boxtree.Invalid; p = t.Get(p).Parent {
			if set[p] {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, r)
		}
	}
	return out
}

// Tick advances the scroll-physics timer one step (spec §4.3.2) and returns
// the ScrollTo records for every node the step touched; Scroll.Tick has
// already written their new offsets into the Scroll Manager's state. Call
// this on the independent ~60Hz physics cadence, separate from Frame.
func (p *Pipeline) Tick(dt float32) []scrollmgr.ScrollTo {
	changes := p.Scroll.Tick(dt)
	return changes
}

func (p *Pipeline) needsVerticalScrollbar(idx boxtree.Index) bool {
	n := p.Cache.Tree.Get(idx)
	if n.Style.Overflow.Y != styles.OverflowScroll && n.Style.Overflow.Y != styles.OverflowAuto {
		return false
	}
	return n.IntrinsicMax.Y > n.UsedSize.Y
}

// registerScrollables walks the tree, (re)registering ScrollManager state
// for every node whose overflow style can scroll, with its just-computed
// content/viewport extents.
func (p *Pipeline) registerScrollables(root boxtree.Index) {
	if root == boxtree.Invalid {
		return
	}
	p.Cache.Tree.Walk(root, func(idx boxtree.Index, n *boxtree.LayoutNode) bool {
		if n.Style.Overflow.X == styles.OverflowScroll || n.Style.Overflow.X == styles.OverflowAuto ||
			n.Style.Overflow.Y == styles.OverflowScroll || n.Style.Overflow.Y == styles.OverflowAuto {
			p.Scroll.Register(idx, n.IntrinsicMax, n.UsedSize)
		}
		return true
	})
}

// resolveIFrames re-invokes any iframe producer callback whose re-invoke
// condition (spec §4.4) is met, splicing its result into dom before the
// main reconcile/layout pass sees it.
func (p *Pipeline) resolveIFrames(dom *styledom.Dom, viewport geom32.Vector2) *styledom.Dom {
	if dom == nil || dom.Root == nil {
		return dom
	}
	var walk func(n *styledom.Node)
	walk = func(n *styledom.Node) {
		if n.Kind == styledom.KindIFrame && n.IFrameFunc != nil {
			var scrollOff geom32.Vector2
			if idx, ok := p.boxIndexFor(n.ID); ok {
				if st, ok := p.Scroll.State(idx); ok {
					scrollOff = st.LogicalOffset
				}
			}
			reason := p.IFrames.CheckReinvoke(int64(n.ID), boxtree.Invalid, scrollOff, viewport)
			if reason != iframemgr.ReasonNone {
				child := p.IFrames.Invoke(int64(n.ID), boxtree.Invalid, n.IFrameFunc, scrollOff, viewport, viewport)
				n.Children = nil
				if child != nil {
					n.Children = []*styledom.Node{child}
				}
				xlog.LayoutTrace("iframe re-invoked", "reason", reason.String())
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(dom.Root)
	return dom
}

// boxIndexFor is a best-effort lookup of the LayoutNode backing a given
// StyledNode id, used only to find that iframe's own ScrollManager state
// (an iframe viewport can itself be scrolled). Returns false if the tree
// hasn't been built yet (first frame).
func (p *Pipeline) boxIndexFor(id styledom.NodeID) (boxtree.Index, bool) {
	found := boxtree.Invalid
	if p.Cache.Tree.Root == boxtree.Invalid {
		return boxtree.Invalid, false
	}
	p.Cache.Tree.Walk(p.Cache.Tree.Root, func(idx boxtree.Index, n *boxtree.LayoutNode) bool {
		if n.StyledID == id {
			found = idx
			return false
		}
		return true
	})
	return found, found != boxtree.Invalid
}
