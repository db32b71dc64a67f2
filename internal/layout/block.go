package layout

import (
	"github.com/cogentlayout/corelayout/internal/boxtree"
	"github.com/cogentlayout/corelayout/pkg/geom32"
)

// layoutBlock implements the Block Formatting Context pass (spec §4.1.3):
// children stack along the block (Y) axis in document order and adjacent
// vertical margins collapse. Out-of-flow (absolute/fixed) children are laid
// out for their own intrinsic content here but do not advance the pen —
// internal/oof resolves their final position in a later pass, against the
// containing block recorded in AbsolutePositions.
func (e *Engine) layoutBlock(t *boxtree.Tree, idx boxtree.Index, inner geom32.Vector2, origin geom32.Vector2, sb ScrollbarSpace) {
	n := t.Get(idx)
	var pen float32         // next child's border-box top, relative to content origin
	var prevMarginAfter float32
	haveSeen := false

	for _, ci := range n.Children {
		cn := t.Get(ci)
		if cn.Style.IsOutOfFlow() {
			e.layoutSubtree(t, ci, constraints{Available: inner, Origin: origin}, sb)
			continue
		}

		marginBefore := cn.Box.Margin.Top
		collapsed := marginBefore
		if haveSeen {
			collapsed = geom32.Max(prevMarginAfter, marginBefore)
		}
		top := pen + collapsed

		childOrigin := origin.Add(geom32.Vec2(0, top))
		used := e.layoutSubtree(t, ci, constraints{Available: geom32.Vec2(inner.X, inner.Y), Origin: childOrigin}, sb)
		cn.RelPos = geom32.Vec2(0, top)
		cn.HasRelPos = true

		borderBoxHeight := used.Y + cn.Box.Border.Size().Y + cn.Box.Padding.Size().Y
		pen = top + borderBoxHeight
		prevMarginAfter = cn.Box.Margin.Bottom
		haveSeen = true
	}
	if haveSeen {
		pen += prevMarginAfter
	}

	if _, auto := n.Style.Size.Dim(geom32.Y); auto {
		n.UsedSize.Y = geom32.Max(n.UsedSize.Y, pen)
	}
}
