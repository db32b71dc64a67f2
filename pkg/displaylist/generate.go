package displaylist

import (
	"sort"

	"github.com/cogentlayout/corelayout/internal/boxtree"
	"github.com/cogentlayout/corelayout/pkg/geom32"
	"github.com/cogentlayout/corelayout/pkg/styledom"
	"github.com/cogentlayout/corelayout/pkg/styles"
)

// ScrollOffset reports a scroll node's current visual offset, so the
// generator can translate its subtree before emitting it (spec §4.5 step 3:
// "a scroll frame's children are emitted at positions shifted by -offset").
type ScrollOffset func(node boxtree.Index) geom32.Vector2

// Generator walks a laid-out LayoutTree in stacking order and emits a flat,
// balanced display list (spec §4.5). It maintains explicit clip/scroll/
// stacking depth counters rather than relying on Go's call stack alone, so
// the balance invariant ("every Push has exactly one matching Pop, in
// document order") can be asserted directly (spec §9 "stack-shaped
// traversal with balance invariants").
type Generator struct {
	AbsolutePositions map[boxtree.Index]geom32.Vector2
	Offset            ScrollOffset

	clipDepth, scrollDepth, stackDepth int
}

// Generate produces the display list for the subtree rooted at root.
func (g *Generator) Generate(t *boxtree.Tree, root boxtree.Index) *List {
	list := &List{}
	if root == boxtree.Invalid {
		return list
	}
	g.emit(t, root, list, geom32.Vector2{})
	if g.clipDepth != 0 || g.scrollDepth != 0 || g.stackDepth != 0 {
		panic("displaylist: unbalanced push/pop")
	}
	return list
}

func (g *Generator) emit(t *boxtree.Tree, idx boxtree.Index, list *List, translate geom32.Vector2) {
	n := t.Get(idx)
	if n.Style.Display == styles.DisplayNone {
		return
	}

	pos := g.AbsolutePositions[idx].Add(translate)
	size := n.UsedSize
	bounds := geom32.RectFromPosSize(pos, size)

	pushedStacking := n.Style.EstablishesStackingContext
	if pushedStacking {
		list.Items = append(list.Items, Item{Kind: PushStackingContext, Bounds: bounds, ZIndex: n.Style.ZIndex, Opacity: n.Style.Opacity})
		g.stackDepth++
	}

	pushedClip := n.Style.Overflow.X == styles.OverflowHidden || n.Style.Overflow.Y == styles.OverflowHidden ||
		n.Style.Overflow.X == styles.OverflowScroll || n.Style.Overflow.Y == styles.OverflowScroll ||
		n.Style.Overflow.X == styles.OverflowAuto || n.Style.Overflow.Y == styles.OverflowAuto
	if pushedClip {
		list.Items = append(list.Items, Item{Kind: PushClip, Bounds: bounds, ClipRadius: n.Style.BorderRadius})
		g.clipDepth++
	}

	pushedScroll := isScrollable(n)
	childTranslate := translate
	if pushedScroll {
		var off geom32.Vector2
		if g.Offset != nil {
			off = g.Offset(idx)
		}
		list.Items = append(list.Items, Item{Kind: PushScrollFrame, Bounds: bounds, ScrollNode: int64(idx)})
		g.scrollDepth++
		childTranslate = translate.Sub(off)
	}

	switch n.Kind {
	case styledom.KindText:
		list.Items = append(list.Items, Item{Kind: ItemText, Bounds: bounds, Text: n.Text, TextHandle: inlineHandle(n)})
	case styledom.KindImage:
		list.Items = append(list.Items, Item{Kind: ItemRect, Bounds: bounds})
	case styledom.KindIFrame:
		list.Items = append(list.Items, Item{Kind: ItemIFrameReference, Bounds: bounds, IFrameID: int64(n.StyledID)})
	default:
		if n.Style.BorderRadius > 0 || n.Style.Opacity < 1 {
			list.Items = append(list.Items, Item{Kind: ItemRect, Bounds: bounds, ClipRadius: n.Style.BorderRadius, Opacity: n.Style.Opacity})
		}
	}

	children := stackingSortedChildren(t, n.Children)
	for _, c := range children {
		g.emit(t, c, list, childTranslate)
	}

	if pushedScroll {
		list.Items = append(list.Items, Item{Kind: PopScrollFrame})
		g.scrollDepth--
	}
	if pushedClip {
		list.Items = append(list.Items, Item{Kind: PopClip})
		g.clipDepth--
	}
	if pushedStacking {
		list.Items = append(list.Items, Item{Kind: PopStackingContext})
		g.stackDepth--
	}
}

// isScrollable reports whether node establishes its own scroll frame: any
// node whose overflow is scroll or auto on either axis gets one, whether or
// not its content currently exceeds its box.
func isScrollable(n *boxtree.LayoutNode) bool {
	return n.Style.Overflow.X == styles.OverflowScroll || n.Style.Overflow.X == styles.OverflowAuto ||
		n.Style.Overflow.Y == styles.OverflowScroll || n.Style.Overflow.Y == styles.OverflowAuto
}

func inlineHandle(n *boxtree.LayoutNode) any {
	if n.Inline != nil {
		return n.Inline.Handle
	}
	return nil
}

// stackingSortedChildren orders children for painting: non-positioned
// children first in document order, then positioned children sorted by
// z-index (spec §4.5 step 4), matching the CSS stacking-context paint order
// simplified to this engine's scope.
func stackingSortedChildren(t *boxtree.Tree, children []boxtree.Index) []boxtree.Index {
	out := make([]boxtree.Index, len(children))
	copy(out, children)
	sort.SliceStable(out, func(i, j int) bool {
		ni, nj := t.Get(out[i]), t.Get(out[j])
		pi, pj := ni.Style.IsPositioned(), nj.Style.IsPositioned()
		if pi != pj {
			return !pi // non-positioned first
		}
		if pi && pj {
			return ni.Style.ZIndex < nj.Style.ZIndex
		}
		return false
	})
	return out
}
