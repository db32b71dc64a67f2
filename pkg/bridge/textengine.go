// Package bridge defines the thin interfaces to the external collaborators
// spec §1 keeps out of the CORE: the text engine (§6.2) and the Flex/Grid
// solver (§6.3). Both are "explicit function-object handles" per spec §9 —
// ordinary Go interfaces passed in by the caller, never looked up via
// global state.
package bridge

import "github.com/cogentlayout/corelayout/pkg/geom32"

// InlineItemKind tags one piece of inline content fed to the text engine.
type InlineItemKind uint8

const (
	InlineText InlineItemKind = iota
	InlineBlockBox
)

// InlineItem is one run of inline content or an inline-block box
// (spec §4.1.3 IFC: "a sequence of text runs and inline-block rectangles
// with their baselines").
type InlineItem struct {
	Kind     InlineItemKind
	Text     string       // meaningful when Kind == InlineText
	Size     geom32.Vector2 // meaningful when Kind == InlineBlockBox
	Baseline float32        // meaningful when Kind == InlineBlockBox
}

// InlineConstraints bounds a shape_inline_content call.
type InlineConstraints struct {
	AvailableWidth float32
	Unlimited      bool // "unlimited width" intrinsic query (spec §4.1.2)
}

// InlineResult is what shape_inline_content returns (spec §6.2).
type InlineResult struct {
	Bounds       geom32.Vector2
	LastBaseline float32
	Handle       any
}

// TextEngine is the consumed external collaborator from spec §6.2.
type TextEngine interface {
	ShapeInlineContent(items []InlineItem, constraints InlineConstraints) (InlineResult, error)
	MeasureIntrinsic(text string, styleKey any) (min, max float32)
}

// ZeroTextEngine is the §7 category-3 fallback: "Text engine returns no
// layout → emit zero-sized inline result and continue." Wrapping a real
// TextEngine in ZeroTextEngine never panics, even if the inner engine does,
// degrading every call to a zero-sized result instead.
type ZeroTextEngine struct {
	Inner TextEngine
}

func (z ZeroTextEngine) ShapeInlineContent(items []InlineItem, c InlineConstraints) (res InlineResult, err error) {
	if z.Inner == nil {
		return InlineResult{}, nil
	}
	defer func() {
		if recover() != nil {
			res, err = InlineResult{}, nil
		}
	}()
	return z.Inner.ShapeInlineContent(items, c)
}

func (z ZeroTextEngine) MeasureIntrinsic(text string, styleKey any) (min, max float32) {
	if z.Inner == nil {
		return 0, 0
	}
	defer func() {
		if recover() != nil {
			min, max = 0, 0
		}
	}()
	return z.Inner.MeasureIntrinsic(text, styleKey)
}
