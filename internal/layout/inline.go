package layout

import (
	"github.com/cogentlayout/corelayout/internal/boxtree"
	"github.com/cogentlayout/corelayout/pkg/bridge"
	"github.com/cogentlayout/corelayout/pkg/geom32"
	"github.com/cogentlayout/corelayout/pkg/styledom"
)

// layoutInline implements the Inline Formatting Context pass (spec §4.1.3):
// the whole of line-breaking and glyph placement is delegated to the
// external text engine (spec §6.2); this core only collects the run of
// inline items and records the resulting bounds/baseline on the IFC root.
func (e *Engine) layoutInline(t *boxtree.Tree, idx boxtree.Index, inner geom32.Vector2, origin geom32.Vector2) {
	n := t.Get(idx)
	items := make([]bridge.InlineItem, 0, len(n.Children))
	for _, ci := range n.Children {
		cn := t.Get(ci)
		if cn.Kind == styledom.KindText {
			items = append(items, bridge.InlineItem{Kind: bridge.InlineText, Text: cn.Text})
		} else {
			items = append(items, bridge.InlineItem{
				Kind:     bridge.InlineBlockBox,
				Size:     cn.IntrinsicMax,
				Baseline: cn.IntrinsicMax.Y,
			})
		}
	}

	res, err := e.Text.ShapeInlineContent(items, bridge.InlineConstraints{AvailableWidth: inner.X})
	if err != nil {
		res = bridge.InlineResult{}
	}

	n.Inline = &boxtree.InlineLayoutResult{
		Bounds:       res.Bounds,
		LastBaseline: res.LastBaseline,
		Handle:       res.Handle,
	}
	n.Baseline = res.LastBaseline
	n.HasBaseline = true
	if _, auto := n.Style.Size.Dim(geom32.Y); auto {
		n.UsedSize.Y = geom32.Max(n.UsedSize.Y, res.Bounds.Y)
	}

	// Record non-text inline children (inline-block boxes, replaced content)
	// at the origin of the IFC; precise per-glyph placement of their
	// content is the text engine's internal concern (opaque Handle), but
	// their own subtree still needs a layout pass for intrinsic leaves
	// nested inside them (e.g. an <img> used inline).
	for _, ci := range n.Children {
		cn := t.Get(ci)
		if cn.Kind == styledom.KindText {
			continue
		}
		cn.RelPos = geom32.Vec2(0, 0)
		cn.HasRelPos = true
		e.layoutSubtree(t, ci, constraints{Available: cn.IntrinsicMax, Origin: origin}, nil)
	}
}
