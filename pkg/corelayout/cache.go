package corelayout

import (
	"github.com/cogentlayout/corelayout/internal/boxtree"
	"github.com/cogentlayout/corelayout/pkg/geom32"
)

// LayoutCache is the persistent, cross-frame state a Pipeline owns (spec
// §3.3): the previous frame's LayoutTree (so the reconciler has something to
// diff against), the absolute-position map the display-list generator and
// hit-testing both need, and the viewport size layout was last computed at
// (so a resize is detected as an input change rather than silently reusing
// stale constraints).
type LayoutCache struct {
	Tree              *boxtree.Tree
	AbsolutePositions map[boxtree.Index]geom32.Vector2
	ViewportSize      geom32.Vector2
}

func NewLayoutCache() *LayoutCache {
	return &LayoutCache{
		Tree:              boxtree.NewTree(),
		AbsolutePositions: make(map[boxtree.Index]geom32.Vector2),
	}
}
