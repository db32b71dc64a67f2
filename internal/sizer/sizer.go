// Package sizer implements the bottom-up intrinsic-size pass (spec §4.1.2):
// for each node, (min_content, max_content) on both axes.
package sizer

import (
	"github.com/cogentlayout/corelayout/internal/boxtree"
	"github.com/cogentlayout/corelayout/internal/imageres"
	"github.com/cogentlayout/corelayout/pkg/bridge"
	"github.com/cogentlayout/corelayout/pkg/geom32"
	"github.com/cogentlayout/corelayout/pkg/styledom"
	"github.com/cogentlayout/corelayout/pkg/styles"
)

// Sizer runs the intrinsic-size pass.
type Sizer struct {
	Text      bridge.TextEngine
	FlexGrid  bridge.FlexGridSolver
	Images    *imageres.Resolver
}

func New(text bridge.TextEngine, flexGrid bridge.FlexGridSolver, images *imageres.Resolver) *Sizer {
	if images == nil {
		images = imageres.NewResolver()
	}
	return &Sizer{Text: bridge.ZeroTextEngine{Inner: text}, FlexGrid: flexGrid, Images: images}
}

// Size recomputes intrinsic sizes bottom-up, starting at root, but only for
// nodes that are (or contain) an intrinsic_dirty node — "A node is
// recomputed only if it or a descendant is intrinsic_dirty" (spec §4.1.2).
// dirty is the set produced by the reconciler; an empty set with a clean
// cached root is a no-op (spec §4.2 "early exit").
func (s *Sizer) Size(t *boxtree.Tree, root boxtree.Index, dirty map[boxtree.Index]bool) {
	if root == boxtree.Invalid {
		return
	}
	s.sizeNode(t, root, dirty)
}

func needsRecompute(t *boxtree.Tree, idx boxtree.Index, dirty map[boxtree.Index]bool) bool {
	if dirty[idx] {
		return true
	}
	n := t.Get(idx)
	if n.Dirty != boxtree.Clean {
		return true
	}
	if !n.HasIntrinsic {
		return true
	}
	return false
}

func (s *Sizer) sizeNode(t *boxtree.Tree, idx boxtree.Index, dirty map[boxtree.Index]bool) (min, max geom32.Vector2) {
	n := t.Get(idx)
	needs := needsRecompute(t, idx, dirty) || hasDirtyDescendant(t, idx, dirty)
	if !needs {
		return n.IntrinsicMin, n.IntrinsicMax
	}

	switch {
	case n.Kind == styledom.KindText:
		min, max = s.sizeText(n)
	case n.Kind == styledom.KindImage:
		min, max = s.sizeImage(n)
	case n.FormattingContext == boxtree.FCFlex || n.FormattingContext == boxtree.FCGrid:
		min, max = s.sizeFlexGrid(t, idx, dirty)
	default:
		min, max = s.sizeBlockLike(t, idx, dirty)
	}

	// Margin is deliberately excluded here: it is never part of a box's own
	// size (only border+padding are), the same split layoutBlock makes
	// between borderBoxHeight and the pen/collapse math. sizeBlockLike
	// folds each child's margin back in via collapse, not via this space.
	box := n.Box
	space := box.Border.Size().Add(box.Padding.Size())
	min = min.Add(space)
	max = max.Add(space)
	styles.SetClampMin(&min.X, n.Style.Min.X)
	styles.SetClampMin(&min.Y, n.Style.Min.Y)
	styles.SetClampMax(&max.X, n.Style.Max.X)
	styles.SetClampMax(&max.Y, n.Style.Max.Y)

	n.IntrinsicMin, n.IntrinsicMax = min, max
	n.HasIntrinsic = true
	if n.Dirty == boxtree.IntrinsicOnly {
		n.Dirty = boxtree.Clean
	}
	return min, max
}

func hasDirtyDescendant(t *boxtree.Tree, idx boxtree.Index, dirty map[boxtree.Index]bool) bool {
	found := false
	t.Walk(idx, func(i boxtree.Index, n *boxtree.LayoutNode) bool {
		if i != idx && (dirty[i] || n.Dirty != boxtree.Clean || !n.HasIntrinsic) {
			found = true
			return false
		}
		return true
	})
	return found
}

func (s *Sizer) sizeText(n *boxtree.LayoutNode) (min, max geom32.Vector2) {
	mn, mx := s.Text.MeasureIntrinsic(n.Text, n.Style)
	return geom32.Vec2(mn, 0), geom32.Vec2(mx, 0)
}

func (s *Sizer) sizeImage(n *boxtree.LayoutNode) (min, max geom32.Vector2) {
	sz := s.Images.IntrinsicSize(n.Image.Src, n.Image.Width, n.Image.Height, nil)
	return sz, sz
}

// sizeBlockLike implements spec §4.1.2's block-container bullet: on X (the
// inline axis) min and max are the largest of the children's min and max;
// on Y (the block direction) both are the sum of the children's values, with
// adjoining margins collapsed to max(prev.after, cur.before).
func (s *Sizer) sizeBlockLike(t *boxtree.Tree, idx boxtree.Index, dirty map[boxtree.Index]bool) (min, max geom32.Vector2) {
	n := t.Get(idx)
	if n.FormattingContext == boxtree.FCInline {
		return s.sizeInline(t, idx, dirty)
	}
	var minCross, maxCross, minMain, maxMain float32
	var prevMarginAfter float32
	haveSeen := false
	for _, c := range n.Children {
		cn := t.Get(c)
		cmin, cmax := s.sizeNode(t, c, dirty)
		minCross = geom32.Max(minCross, cmin.X)
		maxCross = geom32.Max(maxCross, cmax.X)

		marginBefore := cn.Box.Margin.Top
		collapsed := marginBefore
		if haveSeen {
			collapsed = geom32.Max(prevMarginAfter, marginBefore)
		}
		minMain += cmin.Y + collapsed
		maxMain += cmax.Y + collapsed
		prevMarginAfter = cn.Box.Margin.Bottom
		haveSeen = true
	}
	if haveSeen {
		minMain += prevMarginAfter
		maxMain += prevMarginAfter
	}
	return geom32.Vec2(minCross, minMain), geom32.Vec2(maxCross, maxMain)
}

// sizeInline delegates to the external text engine via "collect inline
// content" (spec §4.1.3 IFC description reused for intrinsic queries:
// "unlimited width" and "zero width" queries per §4.1.2).
func (s *Sizer) sizeInline(t *boxtree.Tree, idx boxtree.Index, dirty map[boxtree.Index]bool) (min, max geom32.Vector2) {
	n := t.Get(idx)
	items := collectInlineItems(t, n)
	zero, _ := s.Text.ShapeInlineContent(items, bridge.InlineConstraints{AvailableWidth: 0})
	full, _ := s.Text.ShapeInlineContent(items, bridge.InlineConstraints{Unlimited: true})
	return geom32.Vec2(zero.Bounds.X, zero.Bounds.Y), geom32.Vec2(full.Bounds.X, full.Bounds.Y)
}

func collectInlineItems(t *boxtree.Tree, n *boxtree.LayoutNode) []bridge.InlineItem {
	var items []bridge.InlineItem
	for _, c := range n.Children {
		cn := t.Get(c)
		if cn.Kind == styledom.KindText {
			items = append(items, bridge.InlineItem{Kind: bridge.InlineText, Text: cn.Text})
		} else {
			items = append(items, bridge.InlineItem{
				Kind: bridge.InlineBlockBox,
				Size: cn.IntrinsicMax,
			})
		}
	}
	return items
}

// sizeFlexGrid sizes a Flex/Grid container from its children's own
// intrinsic sizes: min and max are their sums along Style.Direction and
// their largest values across it. The FlexGrid solver is not called here;
// only the positioning pass (internal/layout) uses it.
func (s *Sizer) sizeFlexGrid(t *boxtree.Tree, idx boxtree.Index, dirty map[boxtree.Index]bool) (min, max geom32.Vector2) {
	n := t.Get(idx)
	var minCross, maxCross, minMain, maxMain float32
	main := n.Style.Direction
	for _, c := range n.Children {
		cmin, cmax := s.sizeNode(t, c, dirty)
		minMain += cmin.Dim(main)
		maxMain += cmax.Dim(main)
		minCross = geom32.Max(minCross, cmin.Dim(main.Other()))
		maxCross = geom32.Max(maxCross, cmax.Dim(main.Other()))
	}
	var minv, maxv geom32.Vector2
	minv.SetDim(main, minMain)
	minv.SetDim(main.Other(), minCross)
	maxv.SetDim(main, maxMain)
	maxv.SetDim(main.Other(), maxCross)
	return minv, maxv
}
