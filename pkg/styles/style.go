// Package styles defines the resolved style record carried by every
// StyledNode. Resolving CSS cascade/inheritance into these typed values is
// explicitly out of scope (spec §1) — this package only defines the shape
// that resolution is assumed to have already produced, modeled on the
// teacher's styles.Style (referenced throughout core/layout.go as
// wb.Styles) and styles/units.
package styles

import "github.com/cogentlayout/corelayout/pkg/geom32"

// Display is the effective CSS display / formatting-context selector.
type Display int32

const (
	DisplayBlock Display = iota
	DisplayInline
	DisplayInlineBlock
	DisplayFlex
	DisplayGrid
	DisplayTable
	DisplayTableRowGroup
	DisplayTableRow
	DisplayTableCell
	DisplayNone
)

// Overflow is the per-axis overflow behavior (§4.1.3 step 5).
type Overflow int32

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
	OverflowAuto
)

// Position is the CSS positioning scheme (§4.1.4).
type Position int32

const (
	PositionStatic Position = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
	PositionSticky
)

// Edges holds the four logical edges of a box-model property
// (margin / border / padding), matching the teacher's SideFloats pattern.
type Edges struct {
	Top, Right, Bottom, Left float32
}

func (e Edges) Size() geom32.Vector2 {
	return geom32.Vec2(e.Left+e.Right, e.Top+e.Bottom)
}

func (e Edges) TopLeft() geom32.Vector2 { return geom32.Vec2(e.Left, e.Top) }

func Uniform(v float32) Edges { return Edges{v, v, v, v} }

// Overflows holds the per-axis overflow style (X then Y).
type Overflows struct {
	X, Y Overflow
}

func (o Overflows) Dim(d geom32.Dims) Overflow {
	if d == geom32.X {
		return o.X
	}
	return o.Y
}

// Sizes holds per-axis values that may be zero-valued ("auto"/unset).
type Sizes struct {
	Width, Height       float32 // resolved used-size input; ignored when the matching *Auto flag is set
	WidthAuto, HeightAuto bool
	WidthPct, HeightPct float32 // percentage resolution input, 0 if not a percentage
	WidthIsPct, HeightIsPct bool
}

func (s Sizes) Dim(d geom32.Dims) (value float32, isAuto bool) {
	if d == geom32.X {
		return s.Width, s.WidthAuto
	}
	return s.Height, s.HeightAuto
}

// BoxSizing selects whether Width/Height include padding+border.
type BoxSizing int32

const (
	BoxSizingContentBox BoxSizing = iota
	BoxSizingBorderBox
)

// Style is the fully-resolved, per-node style record (§3.1's "opaque style
// record"). Only the subset of CSS properties the layout solver consumes is
// modeled — paint-only properties (color, opacity's visual effect, etc.) are
// represented just enough to drive §4.5's stacking/clip decisions.
type Style struct {
	Display   Display
	Position  Position
	Overflow  Overflows
	BoxSizing BoxSizing

	Margin  Edges
	Border  Edges // border *widths*, used for box-space; radius is separate
	Padding Edges

	BorderRadius float32 // >0 establishes a rounded clip (§4.5 step 2)

	Min, Max geom32.Vector2
	Size     Sizes

	Grow geom32.Vector2 // flex/grid-style grow factors (§4.1.3 used by children allocation)

	Gap       geom32.Vector2
	Direction geom32.Dims // main axis for Flex
	Wrap      bool
	Columns   int
	ColSpan   int

	ScrollbarWidth float32 // 0 => use Config default (17dp)

	// EstablishesStackingContext mirrors §4.5 step 1's trigger set
	// (opacity<1, transform, z-index on positioned, mix-blend-mode, isolation)
	// collapsed to one flag plus payload, since the paint-only details of
	// each trigger are outside this engine's scope.
	EstablishesStackingContext bool
	Opacity                    float32 // 1 = opaque
	ZIndex                     int
	Transform                  *[6]float32 // 2D affine matrix, nil = identity

	// Offsets for absolute/fixed positioning (§4.1.4); NaN-like "unset" is
	// modeled with the Auto flags.
	Top, Right, Bottom, Left         float32
	TopAuto, RightAuto, BottomAuto, LeftAuto bool
}

// BoxSpace returns the total space consumed by margin+border+padding on
// each axis — mirrors the teacher's Styles.BoxSpace().Size() used in
// spaceFromStyle (core/layout.go).
func (s *Style) BoxSpace() geom32.Vector2 {
	return s.Border.Size().Add(s.Padding.Size())
}

// MarginSize returns the margin-only space, kept separate from BoxSpace
// because margins collapse (§4.1.3) while border+padding never do.
func (s *Style) MarginSize() geom32.Vector2 {
	return s.Margin.Size()
}

func (s *Style) IsFlexWrap() bool { return s.Display == DisplayFlex && s.Wrap }

func (s *Style) IsPositioned() bool {
	return s.Position == PositionAbsolute || s.Position == PositionFixed ||
		s.Position == PositionRelative || s.Position == PositionSticky
}

func (s *Style) IsOutOfFlow() bool {
	return s.Position == PositionAbsolute || s.Position == PositionFixed
}

// SetClampMax mirrors the teacher's styles.SetClampMax helper: clamps v to
// mx only when mx is a real (positive) constraint.
func SetClampMax(v *float32, mx float32) {
	if mx > 0 && *v > mx {
		*v = mx
	}
}

func SetClampMin(v *float32, mn float32) {
	if *v < mn {
		*v = mn
	}
}
