package scrollmgr

import (
	"github.com/cogentlayout/corelayout/internal/config"
	"github.com/cogentlayout/corelayout/pkg/geom32"
)

// State is one scrollable node's ScrollNodeState (spec §3.4): the
// visual/logical offset split, current velocity, and overscroll bookkeeping
// needed by the physics tick and by scrollbar geometry.
type State struct {
	// LogicalOffset is the authoritative scroll position used for layout
	// (e.g. sticky-positioning math, reported to callers) — it snaps
	// directly to programmatic "jump" scrolls.
	LogicalOffset geom32.Vector2

	// VisualOffset is the offset the display list paints at. The physics
	// tick sets it equal to LogicalOffset after every step, so the two carry
	// the same value, including any overscroll past [0, MaxOffset].
	VisualOffset geom32.Vector2

	Velocity geom32.Vector2

	ContentSize  geom32.Vector2
	ViewportSize geom32.Vector2

	// overscroll, once non-zero on an axis, drives the spring back to 0
	// independent of further wheel input on that axis until it settles.
	Overscroll geom32.Vector2

	// edgeLatched tracks, per edge, whether the EdgeThreshold crossing was
	// already reported this "approach" — spec §4.3.2 step 6 / iframemgr's
	// "at most one re-invoke per edge approach" invariant.
	edgeLatched [4]bool // top, right, bottom, left

	animating bool
}

// MaxOffset returns the largest LogicalOffset allowed before the content
// edge is reached (ContentSize - ViewportSize, clamped to >= 0 per axis).
func (s *State) MaxOffset() geom32.Vector2 {
	m := s.ContentSize.Sub(s.ViewportSize)
	if m.X < 0 {
		m.X = 0
	}
	if m.Y < 0 {
		m.Y = 0
	}
	return m
}

// Animating reports whether the physics timer should keep ticking this node.
func (s *State) Animating() bool { return s.animating }

// clampLogical pins LogicalOffset into [0, MaxOffset] unless rubber-banding
// is currently in effect (tracked via Overscroll), matching spec §4.3.2's
// "during active overscroll, the offset is allowed to exceed bounds; the
// spring pulls it back afterward."
func (s *State) clampLogical(cfg config.Config) {
	max := s.MaxOffset()
	if s.Overscroll.X == 0 {
		s.LogicalOffset.X = geom32.Clamp(s.LogicalOffset.X, 0, max.X)
	}
	if s.Overscroll.Y == 0 {
		s.LogicalOffset.Y = geom32.Clamp(s.LogicalOffset.Y, 0, max.Y)
	}
}
