package layout

import (
	"github.com/cogentlayout/corelayout/internal/boxtree"
	"github.com/cogentlayout/corelayout/pkg/geom32"
)

// layoutTable implements the simplified table algorithm spec §4.1.3
// documents: column widths are sized by max-content (no constraint
// resolution / column-span redistribution), rows stack along the block
// axis like a BFC. TableRowGroup recurses into its TableRow children the
// same way; a bare Table recurses directly into rows (anonymous row groups
// are not synthesized, mirroring spec §4.1.1's anonymous-box rule set which
// only ever wraps inline runs and stray table cells).
func (e *Engine) layoutTable(t *boxtree.Tree, idx boxtree.Index, inner geom32.Vector2, origin geom32.Vector2, sb ScrollbarSpace) {
	n := t.Get(idx)
	rows := n.Children
	colWidths := columnMaxContentWidths(t, rows)

	var pen float32
	for _, ri := range rows {
		rn := t.Get(ri)
		rowOrigin := origin.Add(geom32.Vec2(0, pen))
		rowHeight := e.layoutTableRow(t, ri, colWidths, inner, rowOrigin, sb)
		rn.RelPos = geom32.Vec2(0, pen)
		rn.HasRelPos = true
		rn.UsedSize = geom32.Vec2(inner.X, rowHeight)
		rn.HasUsedSize = true
		pen += rowHeight
	}
	if _, auto := n.Style.Size.Dim(geom32.Y); auto {
		n.UsedSize.Y = geom32.Max(n.UsedSize.Y, pen)
	}
}

// columnMaxContentWidths computes each column's width as the max-content
// intrinsic width of any cell in that column, across all rows.
func columnMaxContentWidths(t *boxtree.Tree, rows []boxtree.Index) []float32 {
	var widths []float32
	for _, ri := range rows {
		rn := t.Get(ri)
		col := 0
		for _, ci := range rn.Children {
			cn := t.Get(ci)
			for col >= len(widths) {
				widths = append(widths, 0)
			}
			widths[col] = geom32.Max(widths[col], cn.IntrinsicMax.X)
			span := cn.Style.ColSpan
			if span < 1 {
				span = 1
			}
			col += span
		}
	}
	return widths
}

func (e *Engine) layoutTableRow(t *boxtree.Tree, rowIdx boxtree.Index, colWidths []float32, inner geom32.Vector2, origin geom32.Vector2, sb ScrollbarSpace) float32 {
	rn := t.Get(rowIdx)
	var penX, maxHeight float32
	col := 0
	for _, ci := range rn.Children {
		cn := t.Get(ci)
		span := cn.Style.ColSpan
		if span < 1 {
			span = 1
		}
		var w float32
		for s := 0; s < span && col+s < len(colWidths); s++ {
			w += colWidths[col+s]
		}
		col += span

		cellOrigin := origin.Add(geom32.Vec2(penX, 0))
		used := e.layoutSubtree(t, ci, constraints{Available: geom32.Vec2(w, inner.Y), Origin: cellOrigin}, sb)
		cn.RelPos = geom32.Vec2(penX, 0)
		cn.HasRelPos = true
		maxHeight = geom32.Max(maxHeight, used.Y+cn.Box.Border.Size().Y+cn.Box.Padding.Size().Y)
		penX += w
	}
	return maxHeight
}
