// Package oof resolves out-of-flow (absolute/fixed) positioning (spec
// §4.1.4): a single pass run after in-flow layout has converged, since an
// absolutely positioned box's containing block is its nearest positioned
// ancestor, which must already have its final used size and position.
package oof

import (
	"github.com/cogentlayout/corelayout/internal/boxtree"
	"github.com/cogentlayout/corelayout/pkg/geom32"
	"github.com/cogentlayout/corelayout/pkg/styles"
)

// Positioner resolves absolute/fixed boxes against their containing block.
type Positioner struct{}

func New() *Positioner { return &Positioner{} }

// Resolve walks the tree from root and, for every out-of-flow node,
// computes its final relative position (and absolute position, recorded
// into absPos) against its containing block.
//
// viewport is the root viewport size, used as the containing block for
// `position: fixed` (spec §4.1.4: "fixed resolves against the viewport,
// never an ancestor").
func (p *Positioner) Resolve(t *boxtree.Tree, root boxtree.Index, viewport geom32.Vector2, absPos map[boxtree.Index]geom32.Vector2) {
	if root == boxtree.Invalid {
		return
	}
	t.Walk(root, func(idx boxtree.Index, n *boxtree.LayoutNode) bool {
		if n.Style.IsOutOfFlow() {
			p.resolveOne(t, idx, viewport, absPos)
		}
		return true
	})
}

// containingBlock walks up from idx's parent to find the nearest positioned
// ancestor (spec §4.1.4: "position != static"); falls back to the document
// root (treated as the initial containing block) if none is found.
func containingBlock(t *boxtree.Tree, idx boxtree.Index) boxtree.Index {
	n := t.Get(idx)
	p := n.Parent
	for p != boxtree.Invalid {
		pn := t.Get(p)
		if pn.Style.IsPositioned() {
			return p
		}
		if pn.Parent == boxtree.Invalid {
			return p
		}
		p = pn.Parent
	}
	return boxtree.Invalid
}

func (p *Positioner) resolveOne(t *boxtree.Tree, idx boxtree.Index, viewport geom32.Vector2, absPos map[boxtree.Index]geom32.Vector2) {
	n := t.Get(idx)

	var cbOrigin, cbSize geom32.Vector2
	if n.Style.Position == styles.PositionFixed {
		cbOrigin = geom32.Vector2{}
		cbSize = viewport
	} else {
		cb := containingBlock(t, idx)
		if cb == boxtree.Invalid {
			cbOrigin = geom32.Vector2{}
			cbSize = viewport
		} else {
			cbn := t.Get(cb)
			cbOrigin = absPos[cb]
			cbSize = cbn.UsedSize
		}
	}

	// Static-position fallback: when all of top/right/bottom/left are auto,
	// the box keeps the position it would have had in normal flow (spec
	// §4.1.4 "static-position fallback for auto offsets") — approximated
	// here by its already-recorded in-flow RelPos, since it was laid out
	// in-place by the block/flex/table pass before this one ran.
	relX := n.RelPos.X
	relY := n.RelPos.Y

	s := n.Style
	if !s.LeftAuto {
		relX = s.Left
	} else if !s.RightAuto {
		relX = cbSize.X - s.Right - n.UsedSize.X
	}
	if !s.TopAuto {
		relY = s.Top
	} else if !s.BottomAuto {
		relY = cbSize.Y - s.Bottom - n.UsedSize.Y
	}

	oldAbs := absPos[idx]
	newAbs := cbOrigin.Add(geom32.Vec2(relX, relY))
	n.RelPos = geom32.Vec2(relX, relY)
	n.HasRelPos = true
	absPos[idx] = newAbs

	// The in-flow layout pass already recorded absolute positions for idx's
	// whole subtree under its provisional (static-flow) origin; shift them
	// by the delta now that idx itself moved.
	delta := newAbs.Sub(oldAbs)
	if delta.X != 0 || delta.Y != 0 {
		for _, c := range n.Children {
			shiftSubtree(t, c, delta, absPos)
		}
	}
}

func shiftSubtree(t *boxtree.Tree, idx boxtree.Index, delta geom32.Vector2, absPos map[boxtree.Index]geom32.Vector2) {
	n := t.Get(idx)
	absPos[idx] = absPos[idx].Add(delta)
	for _, c := range n.Children {
		shiftSubtree(t, c, delta, absPos)
	}
}
