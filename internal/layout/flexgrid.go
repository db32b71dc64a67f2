package layout

import (
	"github.com/cogentlayout/corelayout/internal/boxtree"
	"github.com/cogentlayout/corelayout/pkg/bridge"
	"github.com/cogentlayout/corelayout/pkg/geom32"
)

// layoutFlexGrid delegates Flex/Grid placement to the external solver
// (spec §6.3), bridging the measure-function callback back into this
// engine's own subtree layout so the solver can query a child's size at an
// arbitrary trial constraint without knowing this core's internals.
func (e *Engine) layoutFlexGrid(t *boxtree.Tree, idx boxtree.Index, inner geom32.Vector2, origin geom32.Vector2, sb ScrollbarSpace) {
	n := t.Get(idx)
	if e.FlexGrid == nil || len(n.Children) == 0 {
		return
	}

	handles := make([]bridge.ChildHandle, len(n.Children))
	byHandle := make(map[bridge.ChildHandle]boxtree.Index, len(n.Children))
	for i, ci := range n.Children {
		h := bridge.ChildHandle(i)
		handles[i] = h
		byHandle[h] = ci
	}

	measure := func(h bridge.ChildHandle, known bridge.KnownDims, available geom32.Vector2) geom32.Vector2 {
		ci, ok := byHandle[h]
		if !ok {
			return geom32.Vector2{}
		}
		avail := available
		if known.Set[geom32.X] {
			avail.X = known.Size.X
		}
		if known.Set[geom32.Y] {
			avail.Y = known.Size.Y
		}
		return e.layoutSubtree(t, ci, constraints{Available: avail, Origin: origin}, sb)
	}

	results, err := e.FlexGrid.LayoutSubtree(handles, bridge.FlexGridInputs{Available: inner}, measure)
	if err != nil {
		// spec §7 category 3: degrade to a single-column stack rather than
		// propagate the solver's failure into the whole pipeline.
		e.layoutBlock(t, idx, inner, origin, sb)
		return
	}

	var maxBottom float32
	for _, r := range results {
		ci, ok := byHandle[r.Handle]
		if !ok {
			continue
		}
		cn := t.Get(ci)
		cn.RelPos = r.Pos
		cn.HasRelPos = true
		cn.UsedSize = r.Size
		cn.HasUsedSize = true
		cn.Baseline = r.Baseline
		cn.HasBaseline = true
		e.AbsolutePositions[ci] = origin.Add(r.Pos)
		maxBottom = geom32.Max(maxBottom, r.Pos.Y+r.Size.Y)
	}
	if _, auto := n.Style.Size.Dim(geom32.Y); auto {
		n.UsedSize.Y = geom32.Max(n.UsedSize.Y, maxBottom)
	}
}
