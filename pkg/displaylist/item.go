// Package displaylist generates the flat, compositor-consumable display
// list from a laid-out LayoutTree (spec §4.5): a stack-shaped sequence of
// push/pop items whose clip/scroll/stacking depth must balance exactly,
// plus paintable leaves, sorted by z-index within each stacking context.
package displaylist

import "github.com/cogentlayout/corelayout/pkg/geom32"

// ItemKind tags one DisplayListItem variant (spec §3.5, §9 tagged variants).
type ItemKind uint8

const (
	PushStackingContext ItemKind = iota
	PopStackingContext
	PushClip
	PopClip
	PushScrollFrame
	PopScrollFrame
	ItemRect
	ItemText
	ItemIFrameReference
)

// Item is one entry of the display list.
type Item struct {
	Kind ItemKind

	// Bounds is meaningful for every Push* item and for Rect/Text/IFrame leaves.
	Bounds geom32.Rect

	// ClipRadius > 0 on a PushClip marks a rounded-rect clip (spec §4.5 step 2).
	ClipRadius float32

	// ScrollNode identifies the scroll node a PushScrollFrame virtualizes
	// against; opaque to the compositor beyond round-tripping it back into
	// hit-testing/debug queries.
	ScrollNode int64

	// ZIndex carries the node's z-index on PushStackingContext items; it is
	// zero on every other item.
	ZIndex int

	// Leaf payload, meaningful only for the matching ItemKind.
	Text       string
	TextHandle any
	IFrameID   int64
	Opacity    float32
}

// List is a complete, balanced display list for one frame.
type List struct {
	Items []Item
}
