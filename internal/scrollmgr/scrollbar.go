package scrollmgr

import (
	"github.com/cogentlayout/corelayout/internal/config"
	"github.com/cogentlayout/corelayout/pkg/geom32"
)

// BarGeometry is the resolved pixel geometry of one scrollbar (spec
// §4.3.4): the track, the thumb within it, and the two optional step
// buttons at either end.
type BarGeometry struct {
	Track     geom32.Rect
	Thumb     geom32.Rect
	ButtonLo  geom32.Rect
	ButtonHi  geom32.Rect
	HasButtons bool
}

// Geometry computes a node's vertical and horizontal scrollbar geometry
// from its current State, or (false, false) on an axis with nothing to
// scroll (spec §4.3.4: "a scrollbar is only emitted when content exceeds
// the viewport on that axis").
func Geometry(st *State, cfg config.Config, trackOrigin geom32.Vector2, nodeSize geom32.Vector2, withButtons bool) (vertical, horizontal BarGeometry, hasV, hasH bool) {
	width := cfg.ScrollbarWidthDots
	if width <= 0 {
		width = config.Default().ScrollbarWidthDots
	}

	max := st.MaxOffset()
	hasV = max.Y > 0
	hasH = max.X > 0

	if hasV {
		trackH := nodeSize.Y
		if hasH {
			trackH -= width
		}
		vertical = buildBar(trackOrigin.Add(geom32.Vec2(nodeSize.X-width, 0)), geom32.Vec2(width, trackH),
			st.LogicalOffset.Y, max.Y, st.ContentSize.Y, st.ViewportSize.Y, cfg, geom32.Y, withButtons)
	}
	if hasH {
		trackW := nodeSize.X
		if hasV {
			trackW -= width
		}
		horizontal = buildBar(trackOrigin.Add(geom32.Vec2(0, nodeSize.Y-width)), geom32.Vec2(trackW, width),
			st.LogicalOffset.X, max.X, st.ContentSize.X, st.ViewportSize.X, cfg, geom32.X, withButtons)
	}
	return vertical, horizontal, hasV, hasH
}

// buildBar computes thumb size/position along one axis of the track as a
// ratio of viewport-to-content size, clamped to Config.ThumbMinRatio so a
// thumb on very long content never shrinks to invisibility.
func buildBar(trackPos, trackSize geom32.Vector2, offset, maxOffset, contentExtent, viewportExtent float32, cfg config.Config, axis geom32.Dims, withButtons bool) BarGeometry {
	trackLen := trackSize.Dim(axis)
	buttonLen := float32(0)
	if withButtons {
		buttonLen = trackSize.Dim(axis.Other())
	}
	usableLen := trackLen - 2*buttonLen
	if usableLen < 0 {
		usableLen = 0
	}

	ratio := float32(1)
	if contentExtent > 0 {
		ratio = viewportExtent / contentExtent
	}
	if ratio > 1 {
		ratio = 1
	}
	thumbLen := usableLen * ratio
	minLen := usableLen * cfg.ThumbMinRatio
	if thumbLen < minLen {
		thumbLen = minLen
	}

	progress := float32(0)
	if maxOffset > 0 {
		progress = geom32.Clamp(offset/maxOffset, 0, 1)
	}
	thumbOffset := buttonLen + (usableLen-thumbLen)*progress

	var thumbPos, thumbSize geom32.Vector2
	thumbPos = trackPos
	thumbSize = trackSize
	thumbPos.SetDim(axis, trackPos.Dim(axis)+thumbOffset)
	thumbSize.SetDim(axis, thumbLen)

	g := BarGeometry{
		Track:      geom32.RectFromPosSize(trackPos, trackSize),
		Thumb:      geom32.RectFromPosSize(thumbPos, thumbSize),
		HasButtons: withButtons,
	}
	if withButtons {
		loSize := trackSize
		loSize.SetDim(axis, buttonLen)
		g.ButtonLo = geom32.RectFromPosSize(trackPos, loSize)

		hiPos := trackPos
		hiPos.SetDim(axis, trackPos.Dim(axis)+trackLen-buttonLen)
		g.ButtonHi = geom32.RectFromPosSize(hiPos, loSize)
	}
	return g
}
