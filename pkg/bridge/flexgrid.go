package bridge

import "github.com/cogentlayout/corelayout/pkg/geom32"

// ChildHandle opaquely identifies one child of a Flex/Grid container to the
// external solver; the core never interprets it beyond passing it back into
// MeasureFunc (spec §6.3, §9 "explicit function-object handles").
type ChildHandle int

// KnownDims is the partially-known size a solver has pinned down for a
// child so far (e.g. cross-axis size known, main-axis still to measure).
type KnownDims struct {
	Size geom32.Vector2
	Set  [2]bool // per-axis: is this dimension pinned?
}

// MeasureFunc calls back into this engine's intrinsic-sizing path for one
// child, exactly as spec §4.1.3/§6.3 describes: "supplies, for each
// non-native child, a measure function that calls back into this core's
// intrinsic-sizing path."
type MeasureFunc func(child ChildHandle, known KnownDims, available geom32.Vector2) geom32.Vector2

// FlexGridInputs is the per-call input to LayoutSubtree (spec §6.3).
type FlexGridInputs struct {
	Known     KnownDims
	Available geom32.Vector2
}

// ChildResult is one child's solved placement, written back into the
// LayoutTree by the caller (spec §4.1.3: "the solver writes each child's
// relative position and size back into the LayoutTree").
type ChildResult struct {
	Handle   ChildHandle
	Pos      geom32.Vector2
	Size     geom32.Vector2
	Baseline float32
}

// FlexGridSolver is the consumed external collaborator from spec §6.3.
type FlexGridSolver interface {
	LayoutSubtree(children []ChildHandle, in FlexGridInputs, measure MeasureFunc) ([]ChildResult, error)
}
