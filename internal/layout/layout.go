// Package layout implements the top-down used-size/position pass
// (spec §4.1.3): given an available size for the layout root, resolves each
// node's used size and relative position, recursing per formatting context.
package layout

import (
	"github.com/cogentlayout/corelayout/internal/boxtree"
	"github.com/cogentlayout/corelayout/internal/config"
	"github.com/cogentlayout/corelayout/internal/xlog"
	"github.com/cogentlayout/corelayout/pkg/bridge"
	"github.com/cogentlayout/corelayout/pkg/geom32"
	"github.com/cogentlayout/corelayout/pkg/styledom"
	"github.com/cogentlayout/corelayout/pkg/styles"
)

// ScrollbarSpace reports, for a node, how much inline space its own
// scrollbar (if any) reserves — set by the caller from ScrollNodeState
// before each reflow iteration, per spec §4.1.3 step 5 ("scrollbar presence
// feeds back into available width").
type ScrollbarSpace func(node boxtree.Index) (width float32, hasVertical bool)

// Engine runs the top-down layout pass.
type Engine struct {
	Text     bridge.TextEngine
	FlexGrid bridge.FlexGridSolver
	Config   config.Config

	// AbsolutePositions accumulates the resolved viewport-relative origin of
	// every node visited this pass, consumed by internal/oof and
	// pkg/displaylist (spec §3.3 LayoutCache.absolute_positions).
	AbsolutePositions map[boxtree.Index]geom32.Vector2
}

func New(text bridge.TextEngine, flexGrid bridge.FlexGridSolver, cfg config.Config) *Engine {
	return &Engine{
		Text:              bridge.ZeroTextEngine{Inner: text},
		FlexGrid:          flexGrid,
		Config:            cfg,
		AbsolutePositions: make(map[boxtree.Index]geom32.Vector2),
	}
}

// constraints is the containing-block context passed down recursively.
type constraints struct {
	Available geom32.Vector2
	// Origin is this node's containing block's absolute (viewport) origin.
	Origin geom32.Vector2
}

// Layout resolves used sizes/positions for root and its descendants,
// starting from an available size equal to the viewport (or the
// LayoutRoot's containing block, for an incremental re-layout pass).
// scrollbars may be nil on the first of the (at most MaxReflowIterations+1)
// iterations described in spec §4.1.3 step 5; the caller drives the
// convergence loop (see Reflow below).
func (e *Engine) Layout(t *boxtree.Tree, root boxtree.Index, available geom32.Vector2, scrollbars ScrollbarSpace) {
	if root == boxtree.Invalid {
		return
	}
	e.layoutSubtree(t, root, constraints{Available: available}, scrollbars)
}

// Reflow drives spec §4.1.3 step 5's scrollbar-convergence loop: layout,
// check whether the scrollbar set implied by the result matches what was
// assumed, and if not, redo with the updated assumption — capped at
// Config.MaxReflowIterations, after which the last result is accepted
// (spec §4.1.5: "iteration cap: treat as converged, not an error").
func (e *Engine) Reflow(t *boxtree.Tree, root boxtree.Index, available geom32.Vector2, needsVScroll func(boxtree.Index) bool) {
	assumed := map[boxtree.Index]bool{}
	for iter := 0; iter <= e.Config.MaxReflowIterations; iter++ {
		sb := func(idx boxtree.Index) (float32, bool) {
			if assumed[idx] {
				return e.Config.ScrollbarWidthDots, true
			}
			return 0, false
		}
		e.Layout(t, root, available, sb)

		changed := false
		t.Walk(root, func(idx boxtree.Index, n *boxtree.LayoutNode) bool {
			want := needsVScroll(idx)
			if want != assumed[idx] {
				assumed[idx] = want
				changed = true
			}
			return true
		})
		if !changed {
			return
		}
		if iter == e.Config.MaxReflowIterations {
			xlog.L().Warnw("scrollbar reflow did not converge, accepting last result", "root", root)
		}
	}
}

// LayoutAt resolves idx and its subtree against an explicit containing-block
// available size and absolute origin, rather than treating idx as the
// document root. This is the primitive the incremental relayout path (spec
// §4.2 scenario 6: "relayout only the layout root, not the whole document")
// builds on: idx's ancestors are not being revisited, so their already-
// resolved containing block must be supplied instead of assumed to be the
// viewport.
func (e *Engine) LayoutAt(t *boxtree.Tree, idx boxtree.Index, available, origin geom32.Vector2, scrollbars ScrollbarSpace) geom32.Vector2 {
	if idx == boxtree.Invalid {
		return geom32.Vector2{}
	}
	return e.layoutSubtree(t, idx, constraints{Available: available, Origin: origin}, scrollbars)
}

// ReflowAt is Reflow (spec §4.1.3 step 5's scrollbar-convergence loop)
// scoped to a single layout root and its explicit containing block, instead
// of the whole document tree — the incremental counterpart to Reflow used
// when spec §4.2's reconcile pass reports layout roots strictly inside the
// tree rather than a structural or viewport-size change.
func (e *Engine) ReflowAt(t *boxtree.Tree, idx boxtree.Index, available, origin geom32.Vector2, needsVScroll func(boxtree.Index) bool) {
	assumed := map[boxtree.Index]bool{}
	for iter := 0; iter <= e.Config.MaxReflowIterations; iter++ {
		sb := func(i boxtree.Index) (float32, bool) {
			if assumed[i] {
				return e.Config.ScrollbarWidthDots, true
			}
			return 0, false
		}
		e.LayoutAt(t, idx, available, origin, sb)

		changed := false
		t.Walk(idx, func(i boxtree.Index, n *boxtree.LayoutNode) bool {
			want := needsVScroll(i)
			if want != assumed[i] {
				assumed[i] = want
				changed = true
			}
			return true
		})
		if !changed {
			return
		}
		if iter == e.Config.MaxReflowIterations {
			xlog.L().Warnw("scrollbar reflow did not converge, accepting last result", "root", idx)
		}
	}
}

func (e *Engine) layoutSubtree(t *boxtree.Tree, idx boxtree.Index, c constraints, sb ScrollbarSpace) geom32.Vector2 {
	n := t.Get(idx)

	used := resolveUsedSize(n, c.Available)
	if sb != nil {
		if w, ok := sb(idx); ok {
			used.X -= w
			styles.SetClampMin(&used.X, 0)
		}
	}
	n.UsedSize = used
	n.HasUsedSize = true
	n.Dirty = boxtree.Clean

	box := n.Box
	contentOrigin := c.Origin.Add(box.Margin.TopLeft()).Add(geom32.Vec2(box.Border.Left+box.Padding.Left, box.Border.Top+box.Padding.Top))
	e.AbsolutePositions[idx] = contentOrigin

	inner := innerContentBox(n, used)

	switch {
	case n.Kind == styledom.KindText || n.Kind == styledom.KindImage || n.Kind == styledom.KindLineBreak:
		// Leaf: no children to place.
	case n.FormattingContext == boxtree.FCInline:
		e.layoutInline(t, idx, inner, contentOrigin)
	case n.FormattingContext == boxtree.FCFlex || n.FormattingContext == boxtree.FCGrid:
		e.layoutFlexGrid(t, idx, inner, contentOrigin, sb)
	case n.FormattingContext == boxtree.FCTable || n.FormattingContext == boxtree.FCTableRowGroup:
		e.layoutTable(t, idx, inner, contentOrigin, sb)
	default:
		e.layoutBlock(t, idx, inner, contentOrigin, sb)
	}

	return used
}

// resolveUsedSize implements spec §4.1.3's used-size resolution: percentages
// against the containing block, auto falls back to the available size for
// width (block default) or to the node's intrinsic max-content height for
// height, min/max clamp.
func resolveUsedSize(n *boxtree.LayoutNode, available geom32.Vector2) geom32.Vector2 {
	var used geom32.Vector2
	w, wAuto := n.Style.Size.Dim(geom32.X)
	h, hAuto := n.Style.Size.Dim(geom32.Y)

	if n.Style.Size.WidthIsPct {
		used.X = available.X * n.Style.Size.WidthPct
	} else if wAuto {
		used.X = available.X - n.Box.Margin.Size().X
	} else {
		used.X = w
	}
	if n.Style.Size.HeightIsPct {
		used.Y = available.Y * n.Style.Size.HeightPct
	} else if hAuto {
		used.Y = geom32.Max(n.IntrinsicMax.Y, 0)
	} else {
		used.Y = h
	}

	if n.Box.BoxSizing == styles.BoxSizingBorderBox {
		space := n.Box.Border.Size().Add(n.Box.Padding.Size())
		used.X -= space.X
		used.Y -= space.Y
	}

	styles.SetClampMin(&used.X, n.Style.Min.X)
	styles.SetClampMin(&used.Y, n.Style.Min.Y)
	styles.SetClampMax(&used.X, n.Style.Max.X)
	styles.SetClampMax(&used.Y, n.Style.Max.Y)
	styles.SetClampMin(&used.X, 0)
	styles.SetClampMin(&used.Y, 0)
	return used
}

// innerContentBox returns the content-box size available to children.
// resolveUsedSize already normalizes used to a content-box size regardless
// of box-sizing (border-box subtracts border+padding there, once); inner is
// simply used, for both box-sizing modes.
func innerContentBox(n *boxtree.LayoutNode, used geom32.Vector2) geom32.Vector2 {
	return used
}
