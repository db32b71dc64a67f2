package displaylist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogentlayout/corelayout/internal/boxtree"
	"github.com/cogentlayout/corelayout/pkg/displaylist"
	"github.com/cogentlayout/corelayout/pkg/geom32"
	"github.com/cogentlayout/corelayout/pkg/styledom"
	"github.com/cogentlayout/corelayout/pkg/styles"
)

// TestGenerate_PushPopCountsBalance asserts spec §4.5/§9's "every Push has
// exactly one matching Pop, in document order" invariant across a tree that
// exercises all three push kinds (stacking, clip, scroll) at once.
func TestGenerate_PushPopCountsBalance(t *testing.T) {
	tr := boxtree.NewTree()
	root := tr.Alloc(boxtree.LayoutNode{
		StyledID: 1, UsedSize: geom32.Vec2(400, 300),
		Style: styles.Style{
			Overflow:                   styles.Overflows{X: styles.OverflowScroll, Y: styles.OverflowScroll},
			EstablishesStackingContext: true,
		},
	})
	child := tr.Alloc(boxtree.LayoutNode{
		StyledID: 2, Parent: root, Kind: styledom.KindText, Text: "hi",
		UsedSize: geom32.Vec2(100, 20),
	})
	tr.Get(root).Children = []boxtree.Index{child}
	tr.Root = root

	g := &displaylist.Generator{AbsolutePositions: map[boxtree.Index]geom32.Vector2{
		root: {X: 0, Y: 0}, child: {X: 0, Y: 0},
	}}

	var list *displaylist.List
	require.NotPanics(t, func() { list = g.Generate(tr, root) })
	counts := map[displaylist.ItemKind]int{}
	for _, it := range list.Items {
		counts[it.Kind]++
	}
	assert.Equal(t, counts[displaylist.PushStackingContext], counts[displaylist.PopStackingContext])
	assert.Equal(t, counts[displaylist.PushClip], counts[displaylist.PopClip])
	assert.Equal(t, counts[displaylist.PushScrollFrame], counts[displaylist.PopScrollFrame])
	assert.Equal(t, 1, counts[displaylist.PushScrollFrame], "the scrollable root pushes exactly one scroll frame")
}

// TestGenerate_ScrollFrameTranslatesChildrenByNegativeOffset is spec §4.5
// step 3: a scroll frame's children are emitted shifted by -offset.
func TestGenerate_ScrollFrameTranslatesChildrenByNegativeOffset(t *testing.T) {
	tr := boxtree.NewTree()
	root := tr.Alloc(boxtree.LayoutNode{
		StyledID: 1, UsedSize: geom32.Vec2(400, 300),
		Style: styles.Style{Overflow: styles.Overflows{Y: styles.OverflowScroll}},
	})
	child := tr.Alloc(boxtree.LayoutNode{
		StyledID: 2, Parent: root, Kind: styledom.KindText, Text: "row",
		UsedSize: geom32.Vec2(100, 20),
	})
	tr.Get(root).Children = []boxtree.Index{child}
	tr.Root = root

	absPos := map[boxtree.Index]geom32.Vector2{
		root:  {X: 0, Y: 0},
		child: {X: 0, Y: 50}, // child's static in-flow position before scrolling
	}
	g := &displaylist.Generator{
		AbsolutePositions: absPos,
		Offset: func(node boxtree.Index) geom32.Vector2 {
			if node == root {
				return geom32.Vec2(0, 30)
			}
			return geom32.Vector2{}
		},
	}

	list := g.Generate(tr, root)

	var textItem *displaylist.Item
	for i := range list.Items {
		if list.Items[i].Kind == displaylist.ItemText {
			textItem = &list.Items[i]
		}
	}
	require.NotNil(t, textItem)
	assert.Equal(t, float32(50-30), textItem.Bounds.Pos.Y, "child is emitted at its recorded position minus the scroll offset")
}

// TestGenerate_SkipsDisplayNoneSubtreeEntirely covers the §4.5 leaf-emission
// guard: a display:none node (and everything under it) contributes nothing,
// not even balanced push/pop pairs.
func TestGenerate_SkipsDisplayNoneSubtreeEntirely(t *testing.T) {
	tr := boxtree.NewTree()
	root := tr.Alloc(boxtree.LayoutNode{StyledID: 1, UsedSize: geom32.Vec2(400, 300)})
	hidden := tr.Alloc(boxtree.LayoutNode{
		StyledID: 2, Parent: root, Style: styles.Style{Display: styles.DisplayNone},
	})
	hiddenChild := tr.Alloc(boxtree.LayoutNode{
		StyledID: 3, Parent: hidden, Kind: styledom.KindText, Text: "invisible",
	})
	tr.Get(hidden).Children = []boxtree.Index{hiddenChild}
	tr.Get(root).Children = []boxtree.Index{hidden}
	tr.Root = root

	g := &displaylist.Generator{AbsolutePositions: map[boxtree.Index]geom32.Vector2{}}
	list := g.Generate(tr, root)

	for _, it := range list.Items {
		assert.NotEqual(t, "invisible", it.Text)
	}
}

// TestGenerate_PositionedChildrenPaintAfterNonPositionedInZIndexOrder is
// spec §4.5 step 4's stacking order rule.
func TestGenerate_PositionedChildrenPaintAfterNonPositionedInZIndexOrder(t *testing.T) {
	tr := boxtree.NewTree()
	root := tr.Alloc(boxtree.LayoutNode{StyledID: 1, UsedSize: geom32.Vec2(400, 300)})
	positionedHigh := tr.Alloc(boxtree.LayoutNode{
		StyledID: 2, Parent: root, Kind: styledom.KindText, Text: "high",
		Style: styles.Style{Position: styles.PositionRelative, ZIndex: 5},
	})
	normal := tr.Alloc(boxtree.LayoutNode{
		StyledID: 3, Parent: root, Kind: styledom.KindText, Text: "normal",
	})
	positionedLow := tr.Alloc(boxtree.LayoutNode{
		StyledID: 4, Parent: root, Kind: styledom.KindText, Text: "low",
		Style: styles.Style{Position: styles.PositionRelative, ZIndex: 1},
	})
	tr.Get(root).Children = []boxtree.Index{positionedHigh, normal, positionedLow}
	tr.Root = root

	g := &displaylist.Generator{AbsolutePositions: map[boxtree.Index]geom32.Vector2{}}
	list := g.Generate(tr, root)

	var order []string
	for _, it := range list.Items {
		if it.Kind == displaylist.ItemText {
			order = append(order, it.Text)
		}
	}
	assert.Equal(t, []string{"normal", "low", "high"}, order)
}
