package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogentlayout/corelayout/internal/boxtree"
	"github.com/cogentlayout/corelayout/internal/config"
	"github.com/cogentlayout/corelayout/internal/layout"
	"github.com/cogentlayout/corelayout/pkg/geom32"
	"github.com/cogentlayout/corelayout/pkg/styledom"
	"github.com/cogentlayout/corelayout/pkg/styles"
)

// TestBlockLayout_MarginCollapseBetweenSiblings is spec §8 scenario 1: two
// block siblings with 20px/10px margins collapse to a 20px gap, not 30px.
func TestBlockLayout_MarginCollapseBetweenSiblings(t *testing.T) {
	tr := boxtree.NewTree()
	root := tr.Alloc(boxtree.LayoutNode{
		StyledID: 1, FormattingContext: boxtree.FCBlock, EstablishesNewBFC: true,
		Style: styles.Style{Size: styles.Sizes{WidthAuto: true, HeightAuto: true}},
	})

	a := tr.Alloc(boxtree.LayoutNode{
		StyledID: 2, Parent: root, FormattingContext: boxtree.FCBlock,
		Box:   boxtree.BoxProps{Margin: styles.Edges{Bottom: 20}},
		Style: styles.Style{Size: styles.Sizes{Height: 50}},
	})
	b := tr.Alloc(boxtree.LayoutNode{
		StyledID: 3, Parent: root, FormattingContext: boxtree.FCBlock,
		Box:   boxtree.BoxProps{Margin: styles.Edges{Top: 10}},
		Style: styles.Style{Size: styles.Sizes{Height: 30}},
	})
	tr.Get(root).Children = []boxtree.Index{a, b}
	tr.Root = root

	e := layout.New(nil, nil, config.Default())
	e.Layout(tr, root, geom32.Vec2(300, 1000), nil)

	bNode := tr.Get(b)
	assert.Equal(t, float32(70), bNode.RelPos.Y, "collapsed margin is max(20,10)=20, so b starts at 50+20=70")
}

// TestResolveUsedSize_PercentageWidthAgainstContainingBlock covers spec
// §4.1.3's percentage-resolution rule.
func TestResolveUsedSize_PercentageWidthAgainstContainingBlock(t *testing.T) {
	tr := boxtree.NewTree()
	root := tr.Alloc(boxtree.LayoutNode{
		StyledID: 1, FormattingContext: boxtree.FCBlock, EstablishesNewBFC: true,
		Style: styles.Style{Size: styles.Sizes{WidthAuto: true, HeightAuto: true}},
	})
	child := tr.Alloc(boxtree.LayoutNode{
		StyledID: 2, Parent: root, FormattingContext: boxtree.FCBlock,
		Style: styles.Style{Size: styles.Sizes{WidthIsPct: true, WidthPct: 0.5, HeightAuto: true}},
	})
	tr.Get(root).Children = []boxtree.Index{child}
	tr.Root = root

	e := layout.New(nil, nil, config.Default())
	e.Layout(tr, root, geom32.Vec2(400, 300), nil)

	assert.Equal(t, float32(200), tr.Get(child).UsedSize.X)
}

// TestKindText_NeverOverridesUsedSizeDuringBlockPass guards the leaf case
// in layoutSubtree's switch: a text node's own layoutBlock is never called.
func TestKindText_NeverOverridesUsedSizeDuringBlockPass(t *testing.T) {
	tr := boxtree.NewTree()
	root := tr.Alloc(boxtree.LayoutNode{
		StyledID: 1, Kind: styledom.KindText, FormattingContext: boxtree.FCBlock, EstablishesNewBFC: true,
		Style: styles.Style{Size: styles.Sizes{Width: 100, Height: 20}},
	})
	tr.Root = root

	e := layout.New(nil, nil, config.Default())
	require.NotPanics(t, func() { e.Layout(tr, root, geom32.Vec2(200, 200), nil) })
	assert.Equal(t, float32(100), tr.Get(root).UsedSize.X)
}
