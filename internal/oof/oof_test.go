package oof_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogentlayout/corelayout/internal/boxtree"
	"github.com/cogentlayout/corelayout/internal/oof"
	"github.com/cogentlayout/corelayout/pkg/geom32"
	"github.com/cogentlayout/corelayout/pkg/styles"
)

// TestResolve_AbsolutePositionsAgainstNearestPositionedAncestor is
// SPEC_FULL.md's added scenario 7: an absolutely positioned box resolves
// against its nearest position:relative ancestor, not the viewport, and not
// its immediate (static) parent if that parent isn't itself positioned.
func TestResolve_AbsolutePositionsAgainstNearestPositionedAncestor(t *testing.T) {
	tr := boxtree.NewTree()
	root := tr.Alloc(boxtree.LayoutNode{StyledID: 1, UsedSize: geom32.Vec2(800, 600), HasUsedSize: true})

	positionedAncestor := tr.Alloc(boxtree.LayoutNode{
		StyledID: 2, Parent: root,
		Style:     styles.Style{Position: styles.PositionRelative},
		UsedSize:  geom32.Vec2(400, 300),
		HasUsedSize: true,
	})

	staticWrapper := tr.Alloc(boxtree.LayoutNode{
		StyledID: 3, Parent: positionedAncestor,
		UsedSize: geom32.Vec2(200, 150), HasUsedSize: true,
	})

	absChild := tr.Alloc(boxtree.LayoutNode{
		StyledID: 4, Parent: staticWrapper,
		Style: styles.Style{
			Position: styles.PositionAbsolute,
			Top:      10, Left: 20,
			TopAuto: false, LeftAuto: false, RightAuto: true, BottomAuto: true,
		},
		UsedSize: geom32.Vec2(50, 50), HasUsedSize: true,
	})

	tr.Get(root).Children = []boxtree.Index{positionedAncestor}
	tr.Get(positionedAncestor).Children = []boxtree.Index{staticWrapper}
	tr.Get(staticWrapper).Children = []boxtree.Index{absChild}
	tr.Root = root

	absPos := map[boxtree.Index]geom32.Vector2{
		root:                {X: 0, Y: 0},
		positionedAncestor:  {X: 50, Y: 60},
		staticWrapper:       {X: 50, Y: 60},
		absChild:            {X: 50, Y: 60},
	}

	p := oof.New()
	p.Resolve(tr, root, geom32.Vec2(800, 600), absPos)

	require.Contains(t, absPos, absChild)
	assert.Equal(t, geom32.Vec2(70, 70), absPos[absChild],
		"offset (20,10) resolves against the positioned ancestor's origin (50,60), not the viewport or the static parent")
}

func TestResolve_FixedPositionIgnoresAncestorsEntirely(t *testing.T) {
	tr := boxtree.NewTree()
	root := tr.Alloc(boxtree.LayoutNode{StyledID: 1, UsedSize: geom32.Vec2(800, 600), HasUsedSize: true})
	positioned := tr.Alloc(boxtree.LayoutNode{
		StyledID: 2, Parent: root,
		Style:    styles.Style{Position: styles.PositionRelative},
		UsedSize: geom32.Vec2(400, 300), HasUsedSize: true,
	})
	fixed := tr.Alloc(boxtree.LayoutNode{
		StyledID: 3, Parent: positioned,
		Style: styles.Style{
			Position: styles.PositionFixed,
			Top:      0, Left: 0,
			RightAuto: true, BottomAuto: true,
		},
		UsedSize: geom32.Vec2(30, 30), HasUsedSize: true,
	})
	tr.Get(root).Children = []boxtree.Index{positioned}
	tr.Get(positioned).Children = []boxtree.Index{fixed}
	tr.Root = root

	absPos := map[boxtree.Index]geom32.Vector2{
		root: {}, positioned: {X: 100, Y: 100}, fixed: {X: 100, Y: 100},
	}

	oof.New().Resolve(tr, root, geom32.Vec2(800, 600), absPos)
	assert.Equal(t, geom32.Vec2(0, 0), absPos[fixed], "fixed resolves against the viewport, never an ancestor")
}
